// Package main provides the entry point for the a11yscan CLI.
//
// a11yscan loads a page in headless Chromium, runs the axe-core rule engine
// against it and reports the accessibility violations with fix guidance.
//
// Usage:
//
//	a11yscan serve
//	a11yscan scan <url>
//	a11yscan guide [rule-id]
//
// See --help for all available options.
package main

func main() {
	Execute()
}
