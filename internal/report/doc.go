// Package report renders the summary of a crawl run.
//
// Writers:
//   - SimpleWriter: plain text tables for the terminal
//   - JSONWriter: one JSON document for tool integration
//   - MarkdownWriter: GitHub-flavored Markdown with a records chart
//
// All writers implement Writer and can be combined with MultiWriter.
// NewWriter picks a writer from a format name given on the command line.
package report
