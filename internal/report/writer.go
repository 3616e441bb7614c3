package report

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/marinecrawl/internal/model"
)

// Output formats accepted by NewWriter.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// ErrUnknownFormat is returned by NewWriter for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown report format")

// Writer renders a run report.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.RunReport) (int, error)
}

// Formats returns the accepted format names.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatMarkdown}
}

// NewWriter returns the writer of the named format. "md" is accepted as an
// alias of markdown.
func NewWriter(format string, output io.Writer) (Writer, error) {
	switch strings.ToLower(format) {
	case FormatText, "":
		return NewSimpleWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatMarkdown, "md":
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownFormat, format, strings.Join(Formats(), ", "))
	}
}

// MultiWriter writes the same report to several Writers, for example the
// terminal and a report file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written and stops on the first error.
func (m *MultiWriter) Write(report *model.RunReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter holds the destination shared by every writer.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// passHasProblem reports whether a pass ended in a state that needs attention.
func passHasProblem(p model.PassResult) bool {
	return p.Status != model.PassCompleted
}

// runStatus summarizes the outcome of the run in one word.
func runStatus(report *model.RunReport) string {
	if report.Cancelled {
		return "cancelled"
	}
	for _, p := range report.Passes {
		if passHasProblem(p) {
			return "incomplete"
		}
	}
	return "complete"
}

// truncateString truncates a string to maxLen bytes with an ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
