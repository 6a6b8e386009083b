// Package report renders scan responses for the terminal and for files.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: The same JSON body the HTTP API returns
//   - MarkdownWriter: GitHub Flavored Markdown with tables, alerts and a pie chart
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed with MultiWriter.
package report
