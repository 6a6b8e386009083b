package model

import "time"

// TimestampLayout is the format of ScanResponse.Timestamp: UTC ISO-8601 with
// millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ScanRequest is the JSON body accepted by the scan endpoint.
type ScanRequest struct {
	URL string `json:"url"`
}

// ScanResponse is the result of a single scan.
//
// When OK is false, Violations is empty and Error is set.
// When OK is true, Error is empty.
type ScanResponse struct {
	// OK reports whether the scan completed.
	OK bool `json:"ok"`

	// URL is the normalized URL that was scanned.
	URL string `json:"url,omitempty"`

	// Timestamp is the time the scan finished, formatted with TimestampLayout.
	Timestamp string `json:"timestamp,omitempty"`

	// Violations is the rule engine's violation list in engine order.
	// Always encoded as an array, never null.
	Violations []Violation `json:"violations"`

	// Error describes why the scan failed.
	Error string `json:"error,omitempty"`

	// Trace carries stack text for unexpected internal errors caught at the
	// HTTP boundary.
	Trace string `json:"trace,omitempty"`
}

// Violation is one accessibility rule failure.
type Violation struct {
	// ID is the rule engine's stable rule identifier (e.g. "image-alt").
	ID string `json:"id"`

	// Impact is the severity reported by the engine, if any.
	Impact Impact `json:"impact,omitempty"`

	// Description explains what the rule checks.
	Description string `json:"description"`

	// Help is a short summary of how to pass the rule.
	Help string `json:"help"`

	// HelpURL links to the engine's documentation for the rule.
	HelpURL string `json:"helpUrl,omitempty"`

	// Tags are the rule's category tags, such as WCAG success criteria.
	Tags []string `json:"tags"`

	// Nodes are the offending DOM locations.
	Nodes []ViolationNode `json:"nodes"`
}

// ViolationNode is an excerpt of one offending DOM location.
type ViolationNode struct {
	HTML           string   `json:"html,omitempty"`
	Target         []string `json:"target,omitempty"`
	FailureSummary string   `json:"failureSummary,omitempty"`
}

// NewSuccessResponse builds an OK response for url. A nil violations slice is
// replaced with an empty one.
func NewSuccessResponse(url string, at time.Time, violations []Violation) ScanResponse {
	if violations == nil {
		violations = []Violation{}
	}
	return ScanResponse{
		OK:         true,
		URL:        url,
		Timestamp:  FormatTimestamp(at),
		Violations: violations,
	}
}

// NewErrorResponse builds a failed response for url carrying message.
// An empty url is omitted from the encoded body.
func NewErrorResponse(url string, at time.Time, message string) ScanResponse {
	if message == "" {
		message = "scan failed"
	}
	resp := ScanResponse{
		OK:         false,
		URL:        url,
		Violations: []Violation{},
		Error:      message,
	}
	if !at.IsZero() {
		resp.Timestamp = FormatTimestamp(at)
	}
	return resp
}

// FormatTimestamp formats t in UTC with TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Valid reports whether the response satisfies the ok/error invariant.
func (r ScanResponse) Valid() bool {
	if r.Violations == nil {
		return false
	}
	if r.OK {
		return r.Error == ""
	}
	return r.Error != "" && len(r.Violations) == 0
}

// NodeCount returns the total number of offending nodes across all violations.
func (r ScanResponse) NodeCount() int {
	total := 0
	for _, v := range r.Violations {
		total += len(v.Nodes)
	}
	return total
}

// ImpactCounts tallies violations by impact.
type ImpactCounts struct {
	Critical int `json:"critical"`
	Serious  int `json:"serious"`
	Moderate int `json:"moderate"`
	Minor    int `json:"minor"`
	Unknown  int `json:"unknown"`
}

// CountImpacts tallies the given violations by impact.
func CountImpacts(violations []Violation) ImpactCounts {
	var c ImpactCounts
	for _, v := range violations {
		switch v.Impact {
		case ImpactCritical:
			c.Critical++
		case ImpactSerious:
			c.Serious++
		case ImpactModerate:
			c.Moderate++
		case ImpactMinor:
			c.Minor++
		default:
			c.Unknown++
		}
	}
	return c
}

// Get returns the count for impact.
func (c ImpactCounts) Get(impact Impact) int {
	switch impact {
	case ImpactCritical:
		return c.Critical
	case ImpactSerious:
		return c.Serious
	case ImpactModerate:
		return c.Moderate
	case ImpactMinor:
		return c.Minor
	default:
		return c.Unknown
	}
}

// Total returns the number of violations counted.
func (c ImpactCounts) Total() int {
	return c.Critical + c.Serious + c.Moderate + c.Minor + c.Unknown
}

// Worst returns the most severe impact with a non-zero count, or ImpactNone.
func (c ImpactCounts) Worst() Impact {
	for _, impact := range Impacts {
		if c.Get(impact) > 0 {
			return impact
		}
	}
	return ImpactNone
}
