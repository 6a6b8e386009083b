package model

import "strings"

// Filter narrows a violation list by minimum impact and free text.
// The zero Filter keeps everything.
type Filter struct {
	// MinImpact drops violations ranked below it. When set, violations
	// without an impact are dropped too.
	MinImpact Impact

	// Query keeps violations whose id, help, description or any tag
	// contains it, ignoring case. Surrounding whitespace is ignored.
	Query string
}

// Apply returns the violations that match f, preserving order.
// The input slice is not modified.
func (f Filter) Apply(violations []Violation) []Violation {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	result := make([]Violation, 0, len(violations))
	for _, v := range violations {
		if !v.Impact.AtLeast(f.MinImpact) {
			continue
		}
		if query != "" && !matchesQuery(v, query) {
			continue
		}
		result = append(result, v)
	}
	return result
}

// IsZero reports whether f keeps every violation.
func (f Filter) IsZero() bool {
	return f.MinImpact == ImpactNone && strings.TrimSpace(f.Query) == ""
}

// matchesQuery reports whether any searchable field contains query.
// query must already be lowercased.
func matchesQuery(v Violation, query string) bool {
	fields := []string{v.ID, v.Help, v.Description}
	fields = append(fields, v.Tags...)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
