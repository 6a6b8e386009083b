package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/nao1215/a11yscan/internal/guide"
	"github.com/spf13/cobra"
)

// NewGuideCmd creates the guide command.
func NewGuideCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guide [rule-id]",
		Short: "Show fix guides for axe-core rules",
		Long: `Guide prints the remediation guide for an axe-core rule id.
Without an argument it lists every rule that has a guide.

Examples:
  # List rules with guides
  a11yscan guide

  # Show how to fix missing image alternatives
  a11yscan guide image-alt`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGuideCmd,
	}

	cmd.Flags().BoolP("json", "j", false, "Output as JSON")

	return cmd
}

// runGuideCmd executes the guide command.
func runGuideCmd(cmd *cobra.Command, args []string) error {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		if asJSON {
			return writeGuideJSON(out, guide.All())
		}
		return listGuides(out)
	}

	g, ok := guide.Lookup(args[0])
	if !ok {
		return fmt.Errorf("no fix guide for rule %q (run \"a11yscan guide\" to list rules)", args[0])
	}
	if asJSON {
		return writeGuideJSON(out, g)
	}
	printGuide(out, args[0], g)
	return nil
}

// listGuides prints one line per rule id with its guide title.
func listGuides(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, id := range guide.IDs() {
		g, _ := guide.Lookup(id)
		fmt.Fprintf(tw, "%s\t%s\n", id, g.Title)
	}
	return tw.Flush()
}

// printGuide prints a single guide as plain text.
func printGuide(out io.Writer, id string, g guide.FixGuide) {
	fmt.Fprintf(out, "%s: %s\n\n", id, g.Title)
	fmt.Fprintf(out, "%s\n\n", g.Why)
	for i, step := range g.How {
		fmt.Fprintf(out, "  %d. %s\n", i+1, step)
	}
	if g.Example != "" {
		fmt.Fprintf(out, "\nExample:\n  %s\n", strings.ReplaceAll(g.Example, "\n", "\n  "))
	}
	if len(g.Links) > 0 {
		fmt.Fprintln(out, "\nSee also:")
		for _, link := range g.Links {
			fmt.Fprintf(out, "  - %s <%s>\n", link.Label, link.Href)
		}
	}
}

func writeGuideJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
