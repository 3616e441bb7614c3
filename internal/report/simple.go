package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nao1215/marinecrawl/internal/model"
)

// SimpleWriter outputs a plain text report for terminal display.
type SimpleWriter struct {
	baseWriter

	// maxErrors bounds the error records listed. 0 lists all of them.
	maxErrors int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithMaxErrors limits the number of error records listed.
func WithMaxErrors(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.maxErrors = n
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

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.RunReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writePasses(&sb, report)
	w.writeErrors(&sb, report)

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                       MARINECRAWL RUN REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Started:   %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Duration:  %s\n", report.Duration().Round(time.Millisecond))
	fmt.Fprintf(sb, "Status:    %s\n", runStatus(report))
	sb.WriteString("\n")
}

func (w *SimpleWriter) writePasses(sb *strings.Builder, report *model.RunReport) {
	if len(report.Passes) == 0 {
		sb.WriteString("No pass was executed.\n\n")
		return
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Pass", "Dataset", "Status", "Seeds", "Pages", "Records", "Errors", "Duration"})

	var seeds, pages int
	for _, p := range report.Passes {
		seeds += p.Seeds
		pages += p.Pages
		t.AppendRow(table.Row{
			p.Pass,
			p.Dataset,
			string(p.Status),
			p.Seeds,
			p.Pages,
			p.Records,
			p.Errors,
			p.Duration.Round(time.Millisecond).String(),
		})
	}
	t.AppendFooter(table.Row{
		"Total", "", "",
		seeds, pages, report.TotalRecords(), len(report.Errors),
		report.Duration().Round(time.Millisecond).String(),
	})

	sb.WriteString(t.Render())
	sb.WriteString("\n\n")

	for _, p := range report.Passes {
		if passHasProblem(p) && p.Message != "" {
			fmt.Fprintf(sb, "[%s] %s: %s\n", strings.ToUpper(string(p.Status)), p.Pass, p.Message)
		}
	}
}

func (w *SimpleWriter) writeErrors(sb *strings.Builder, report *model.RunReport) {
	if len(report.Errors) == 0 {
		return
	}

	sb.WriteString("\nErrors (" + strconv.Itoa(len(report.Errors)) + "):\n")
	sb.WriteString(strings.Repeat("-", 40))
	sb.WriteString("\n")

	errs := report.Errors
	if w.maxErrors > 0 && len(errs) > w.maxErrors {
		errs = errs[:w.maxErrors]
	}
	for _, e := range errs {
		fmt.Fprintf(sb, "  - %s\n    %s\n", e.Message, e.URL)
	}
	if hidden := len(report.Errors) - len(errs); hidden > 0 {
		fmt.Fprintf(sb, "  ... and %d more\n", hidden)
	}
}
