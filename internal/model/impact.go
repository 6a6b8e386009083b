package model

import (
	"fmt"
	"strings"
)

// Impact is the severity the rule engine assigns to a violation.
// The engine reports it as a lowercase string; an empty Impact means the
// engine did not report one.
type Impact string

const (
	// ImpactNone is used when the engine reports no impact.
	ImpactNone Impact = ""

	// ImpactMinor indicates an annoyance that rarely blocks users.
	ImpactMinor Impact = "minor"

	// ImpactModerate indicates content that is harder to use for some users.
	ImpactModerate Impact = "moderate"

	// ImpactSerious indicates content that is very difficult to use for some users.
	ImpactSerious Impact = "serious"

	// ImpactCritical indicates content that blocks some users entirely.
	ImpactCritical Impact = "critical"
)

// Impacts lists the known impact levels from most to least severe.
var Impacts = []Impact{ImpactCritical, ImpactSerious, ImpactModerate, ImpactMinor}

// Rank returns the ordinal position of the impact:
// minor=1 < moderate=2 < serious=3 < critical=4. Unknown and empty impacts rank 0.
func (i Impact) Rank() int {
	switch i {
	case ImpactMinor:
		return 1
	case ImpactModerate:
		return 2
	case ImpactSerious:
		return 3
	case ImpactCritical:
		return 4
	default:
		return 0
	}
}

// Valid reports whether i is one of the four known impact levels.
func (i Impact) Valid() bool {
	return i.Rank() > 0
}

// AtLeast reports whether i is as severe as or more severe than min.
// An empty min matches every impact, including ImpactNone.
func (i Impact) AtLeast(min Impact) bool {
	if min == ImpactNone {
		return true
	}
	return i.Rank() >= min.Rank()
}

// String returns the impact name, or "unknown" for ImpactNone.
func (i Impact) String() string {
	if i == ImpactNone {
		return "unknown"
	}
	return string(i)
}

// ParseImpact converts a user-supplied impact name into an Impact.
// Matching is case-insensitive. The empty string and "all" yield ImpactNone.
func ParseImpact(s string) (Impact, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	if normalized == "" || normalized == "all" {
		return ImpactNone, nil
	}

	impact := Impact(normalized)
	if !impact.Valid() {
		return ImpactNone, fmt.Errorf("unknown impact %q (want minor, moderate, serious or critical)", s)
	}
	return impact, nil
}

// NormalizeImpact maps an engine-supplied impact string to a known Impact.
// Anything unrecognised becomes ImpactNone.
func NormalizeImpact(s string) Impact {
	impact := Impact(strings.ToLower(s))
	if impact.Valid() {
		return impact
	}
	return ImpactNone
}
