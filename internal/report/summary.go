package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/a11yscan/internal/model"
)

// SummaryWriter outputs a single line per scan, e.g.
//
//	https://example.com/: 3 violations (1 critical, 2 serious), 5 nodes
//
// It is used next to a full report written elsewhere.
type SummaryWriter struct {
	baseWriter
}

// NewSummaryWriter creates a SummaryWriter that outputs to the given writer.
func NewSummaryWriter(output io.Writer) *SummaryWriter {
	return &SummaryWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the one-line summary of resp.
func (w *SummaryWriter) Write(resp *model.ScanResponse) (int, error) {
	if !resp.OK {
		return fmt.Fprintf(w.output, "%s: scan failed: %s\n", resp.URL, resp.Error)
	}

	counts := model.CountImpacts(resp.Violations)
	if counts.Total() == 0 {
		return fmt.Fprintf(w.output, "%s: no violations\n", resp.URL)
	}

	var parts []string
	for _, impact := range reportImpacts {
		if n := counts.Get(impact); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, impact))
		}
	}
	return fmt.Fprintf(w.output, "%s: %d %s (%s), %d %s\n",
		resp.URL,
		counts.Total(), plural(counts.Total(), "violation"),
		strings.Join(parts, ", "),
		resp.NodeCount(), plural(resp.NodeCount(), "node"),
	)
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
