package report

import (
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/a11yscan/internal/guide"
	"github.com/nao1215/a11yscan/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in GitHub Flavored Markdown, for pull
// request comments and issue trackers.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs resp in Markdown format.
func (w *MarkdownWriter) Write(resp *model.ScanResponse) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, resp)
	if resp.OK {
		w.writeSummary(md, resp)
		w.writeViolations(md, resp)
	} else {
		md.Cautionf("Scan failed: %s", resp.Error)
		md.PlainText("")
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report title and scan information table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, resp *model.ScanResponse) {
	md.H1("Accessibility Scan Report")
	md.PlainText("")

	status := "✅ Complete"
	if !resp.OK {
		status = "❌ Failed"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"URL", "`" + valueOrDash(resp.URL) + "`"},
			{"Scanned At", valueOrDash(resp.Timestamp)},
			{"Status", status},
		},
	})
	md.PlainText("")
}

// writeSummary writes the impact table, pie chart and alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, resp *model.ScanResponse) {
	md.H2("Impact Summary")
	md.PlainText("")

	counts := model.CountImpacts(resp.Violations)
	rows := make([][]string, 0, len(reportImpacts)+1)
	for _, impact := range reportImpacts {
		rows = append(rows, []string{impactEmoji(impact) + " " + impactLabel(impact), strconv.Itoa(counts.Get(impact))})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(counts.Total()) + "**"})

	md.Table(markdown.TableSet{
		Header: []string{"Impact", "Violations"},
		Rows:   rows,
	})
	md.PlainText("")

	if counts.Total() > 0 {
		w.writePieChart(md, counts)
	}
	w.writeAlert(md, counts, resp.NodeCount())
}

// writePieChart writes a mermaid pie chart of the impact distribution.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, counts model.ImpactCounts) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Violation Impact Distribution"),
		piechart.WithShowData(true),
	)

	for _, impact := range reportImpacts {
		if n := counts.Get(impact); n > 0 {
			chart.LabelAndIntValue(impactLabel(impact), uint64(n)) //nolint:gosec // counts are never negative
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert matching the worst impact found.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, counts model.ImpactCounts, nodes int) {
	switch counts.Worst() {
	case model.ImpactCritical:
		md.Cautionf("%d critical violation(s) block some users entirely. %d node(s) affected in total.", counts.Critical, nodes)
	case model.ImpactSerious:
		md.Warningf("%d serious violation(s) make this page very difficult to use for some users.", counts.Serious)
	case model.ImpactModerate:
		md.Importantf("%d moderate violation(s) found.", counts.Moderate)
	default:
		if counts.Total() > 0 {
			md.Note("Only minor violations detected.")
		} else {
			md.Tip("No accessibility violations detected by the automated rules.")
		}
	}
	md.PlainText("")
}

// writeViolations writes one section per impact with a table per violation.
func (w *MarkdownWriter) writeViolations(md *markdown.Markdown, resp *model.ScanResponse) {
	md.H2("Violations")
	md.PlainText("")

	if len(resp.Violations) == 0 {
		md.PlainText("No accessibility violations detected.")
		md.PlainText("")
		return
	}

	groups := groupByImpact(resp.Violations)
	for _, impact := range reportImpacts {
		violations := groups[impact]
		if len(violations) == 0 {
			continue
		}

		md.PlainText("### " + impactEmoji(impact) + " " + impactLabel(impact))
		md.PlainText("")
		for _, v := range violations {
			w.writeViolation(md, v)
		}
	}
}

// writeViolation writes the heading, node table and fix guide of v.
func (w *MarkdownWriter) writeViolation(md *markdown.Markdown, v model.Violation) {
	md.PlainTextf("#### `%s` %s", v.ID, v.Help)
	md.PlainText("")
	if v.Description != "" {
		md.PlainText(v.Description)
		md.PlainText("")
	}
	if v.HelpURL != "" {
		md.PlainText(mdLink("Rule reference", v.HelpURL))
		md.PlainText("")
	}

	if len(v.Nodes) > 0 {
		rows := make([][]string, len(v.Nodes))
		for i, node := range v.Nodes {
			rows[i] = []string{
				tableCell(strings.Join(node.Target, ", ")),
				codeCell(truncateString(node.HTML, 80)),
				tableCell(node.FailureSummary),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Target", "HTML", "Failure Summary"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if g, ok := guide.Lookup(v.ID); ok {
		md.Details("How to fix: "+g.Title, guideText(g))
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by a11yscan using [axe-core](https://github.com/dequelabs/axe-core)*")
}

// guideText renders a fix guide as the body of a details block.
func guideText(g guide.FixGuide) string {
	var sb strings.Builder
	sb.WriteString(g.Why)
	sb.WriteString("\n\n")
	for i, step := range g.How {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, step)
	}
	if g.Example != "" {
		sb.WriteString("\n```html\n")
		sb.WriteString(g.Example)
		sb.WriteString("\n```\n")
	}
	for _, link := range g.Links {
		fmt.Fprintf(&sb, "\n- %s", mdLink(link.Label, link.Href))
	}
	return sb.String()
}

func mdLink(label, href string) string {
	return "[" + label + "](" + href + ")"
}

// tableCell escapes s for use inside a GFM table cell.
func tableCell(s string) string {
	if s == "" {
		return "-"
	}
	s = html.EscapeString(s)
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r\n", "<br>")
	return strings.ReplaceAll(s, "\n", "<br>")
}

// codeCell renders markup as a code span inside a GFM table cell so it is
// shown literally instead of being rendered.
func codeCell(s string) string {
	if s == "" {
		return "-"
	}
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "|", `\|`).Replace(s)
	fence := "`"
	for strings.Contains(s, fence) {
		fence += "`"
	}
	if fence != "`" {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}

// impactEmoji returns the colored marker used for impact headings.
func impactEmoji(impact model.Impact) string {
	switch impact {
	case model.ImpactCritical:
		return "🔴"
	case model.ImpactSerious:
		return "🟠"
	case model.ImpactModerate:
		return "🟡"
	case model.ImpactMinor:
		return "🔵"
	default:
		return "⚪"
	}
}
