package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/nao1215/marinecrawl/internal/model"
)

// JSONWriter outputs run reports as JSON for tool integration.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables indented output with the given prefix and indent.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// jsonReport adds derived totals to the run report.
type jsonReport struct {
	*model.RunReport
	Status       string  `json:"status"`
	TotalRecords int     `json:"total_records"`
	TotalErrors  int     `json:"total_errors"`
	DurationSecs float64 `json:"duration_seconds"`
}

// Write outputs the report as a single JSON document followed by a newline.
func (w *JSONWriter) Write(report *model.RunReport) (int, error) {
	doc := jsonReport{
		RunReport:    report,
		Status:       runStatus(report),
		TotalRecords: report.TotalRecords(),
		TotalErrors:  len(report.Errors),
		DurationSecs: report.Duration().Round(time.Millisecond).Seconds(),
	}

	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(doc, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(doc)
	}
	if err != nil {
		return 0, err
	}
	return w.output.Write(append(data, '\n'))
}
