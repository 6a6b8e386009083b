package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/a11yscan/internal/guide"
	"github.com/nao1215/a11yscan/internal/model"
)

// defaultMaxNodes is how many offending nodes are listed per violation
// unless verbose output is enabled.
const defaultMaxNodes = 3

// SimpleWriter outputs human-readable text reports for terminal display.
// Plain ASCII formatting is used so output can be piped to files.
type SimpleWriter struct {
	baseWriter

	// verbose lists every node and the full fix guide.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs resp in human-readable format.
func (w *SimpleWriter) Write(resp *model.ScanResponse) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, resp)
	if resp.OK {
		w.writeSummary(&sb, resp)
		w.writeViolations(&sb, resp)
	}
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the banner and scan information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, resp *model.ScanResponse) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                     ACCESSIBILITY SCAN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "URL:        %s\n", valueOrDash(resp.URL))
	fmt.Fprintf(sb, "Scanned At: %s\n", valueOrDash(resp.Timestamp))
	if resp.OK {
		sb.WriteString("Status:     Complete\n")
	} else {
		fmt.Fprintf(sb, "Status:     FAILED - %s\n", resp.Error)
	}
	sb.WriteString("\n")
}

// writeSummary writes the per-impact counts.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, resp *model.ScanResponse) {
	writeSection(sb, "IMPACT SUMMARY")

	counts := model.CountImpacts(resp.Violations)
	for _, impact := range reportImpacts {
		fmt.Fprintf(sb, "  %-9s %d\n", strings.ToUpper(impact.String())+":", counts.Get(impact))
	}
	sb.WriteString("\n")
	fmt.Fprintf(sb, "  TOTAL:    %d violations, %d nodes\n\n", counts.Total(), resp.NodeCount())
}

// writeViolations writes violations grouped by impact, most severe first.
func (w *SimpleWriter) writeViolations(sb *strings.Builder, resp *model.ScanResponse) {
	writeSection(sb, "VIOLATIONS")

	if len(resp.Violations) == 0 {
		sb.WriteString("  No accessibility violations detected.\n\n")
		return
	}

	groups := groupByImpact(resp.Violations)
	for _, impact := range reportImpacts {
		violations := groups[impact]
		if len(violations) == 0 {
			continue
		}

		fmt.Fprintf(sb, "[%s] %s\n", impactIndicator(impact), impactLabel(impact))
		for _, v := range violations {
			w.writeViolation(sb, v)
		}
		sb.WriteString("\n")
	}
}

// writeViolation writes one violation with its nodes and fix guide.
func (w *SimpleWriter) writeViolation(sb *strings.Builder, v model.Violation) {
	fmt.Fprintf(sb, "  * %s: %s\n", v.ID, v.Help)
	if v.HelpURL != "" {
		fmt.Fprintf(sb, "    Reference: %s\n", v.HelpURL)
	}

	limit := len(v.Nodes)
	if !w.verbose && limit > defaultMaxNodes {
		limit = defaultMaxNodes
	}
	for _, node := range v.Nodes[:limit] {
		fmt.Fprintf(sb, "    - %s\n", valueOrDash(strings.Join(node.Target, ", ")))
		if w.verbose && node.HTML != "" {
			fmt.Fprintf(sb, "      %s\n", truncateString(node.HTML, 120))
		}
	}
	if hidden := len(v.Nodes) - limit; hidden > 0 {
		fmt.Fprintf(sb, "    ... and %d more node(s)\n", hidden)
	}

	g, ok := guide.Lookup(v.ID)
	if !ok {
		return
	}
	fmt.Fprintf(sb, "    Fix: %s\n", g.Title)
	if !w.verbose {
		return
	}
	for i, step := range g.How {
		fmt.Fprintf(sb, "      %d. %s\n", i+1, step)
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by a11yscan (axe-core)\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

func writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// impactIndicator returns a visual indicator for the impact level.
func impactIndicator(impact model.Impact) string {
	switch impact {
	case model.ImpactCritical:
		return "!!!"
	case model.ImpactSerious:
		return "!!"
	case model.ImpactModerate:
		return "!"
	case model.ImpactMinor:
		return "-"
	default:
		return "?"
	}
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
