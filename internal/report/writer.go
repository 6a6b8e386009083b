package report

import (
	"io"

	"github.com/nao1215/a11yscan/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write renders resp to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(resp *model.ScanResponse) (int, error)
}

// MultiWriter writes to multiple Writers in order.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the response to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(resp *model.ScanResponse) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(resp)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// impactLabel returns the display name of an impact, e.g. "Serious".
// A Caser is stateful, so a new one is made per call.
func impactLabel(impact model.Impact) string {
	return cases.Title(language.English).String(impact.String())
}

// reportImpacts lists the impact groups in display order, unknown last.
var reportImpacts = append(append([]model.Impact{}, model.Impacts...), model.ImpactNone)

// groupByImpact buckets violations by impact, keeping input order inside
// each bucket.
func groupByImpact(violations []model.Violation) map[model.Impact][]model.Violation {
	groups := make(map[model.Impact][]model.Violation)
	for _, v := range violations {
		impact := v.Impact
		if !impact.Valid() {
			impact = model.ImpactNone
		}
		groups[impact] = append(groups[impact], v)
	}
	return groups
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
