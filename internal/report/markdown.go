package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/marinecrawl/internal/model"
)

// MarkdownWriter outputs run reports as GitHub-flavored Markdown.
type MarkdownWriter struct {
	baseWriter

	// maxErrors bounds the error records listed. 0 lists all of them.
	maxErrors int
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		maxErrors:  100,
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writePasses(md, report)
	w.writeErrors(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("Marinecrawl Run Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration().Round(time.Millisecond).String()},
			{"Records", strconv.Itoa(report.TotalRecords())},
			{"Errors", strconv.Itoa(len(report.Errors))},
			{"Status", statusText(report)},
		},
	})
	md.PlainText("")
	w.writeAlert(md, report)
}

func statusText(report *model.RunReport) string {
	switch runStatus(report) {
	case "cancelled":
		return "⚠️ Cancelled (partial results)"
	case "incomplete":
		return "❌ Incomplete"
	default:
		return "✅ Complete"
	}
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.RunReport) {
	problems := 0
	for _, p := range report.Passes {
		if passHasProblem(p) {
			problems++
		}
	}

	switch {
	case problems > 0:
		md.Cautionf("%d pass(es) did not complete. Their datasets may be missing or stale.", problems)
	case len(report.Errors) > 0:
		md.Warningf("%d page(s) could not be fetched. See the errors section.", len(report.Errors))
	default:
		md.Tip("Every pass completed without fetch errors.")
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writePasses(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Passes")
	md.PlainText("")

	if len(report.Passes) == 0 {
		md.PlainText("No pass was executed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(report.Passes))
	for _, p := range report.Passes {
		rows = append(rows, []string{
			p.Pass,
			"`" + p.Dataset + "`",
			string(p.Status),
			strconv.Itoa(p.Seeds),
			strconv.Itoa(p.Pages),
			strconv.Itoa(p.Records),
			strconv.Itoa(p.Errors),
			p.Duration.Round(time.Millisecond).String(),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Pass", "Dataset", "Status", "Seeds", "Pages", "Records", "Errors", "Duration"},
		Rows:   rows,
	})
	md.PlainText("")

	notes := make([]string, 0)
	for _, p := range report.Passes {
		if passHasProblem(p) && p.Message != "" {
			notes = append(notes, "**"+p.Pass+"**: "+p.Message)
		}
	}
	if len(notes) > 0 {
		md.BulletList(notes...)
		md.PlainText("")
	}

	if report.TotalRecords() > 0 {
		w.writePieChart(md, report)
	}
}

// writePieChart writes a mermaid pie chart of records per pass.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.RunReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Records per pass"),
		piechart.WithShowData(true),
	)
	for _, p := range report.Passes {
		if p.Records > 0 {
			chart.LabelAndIntValue(p.Pass, uint64(p.Records))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeErrors(md *markdown.Markdown, report *model.RunReport) {
	if len(report.Errors) == 0 {
		return
	}

	md.H2("Errors")
	md.PlainText("")

	errs := report.Errors
	if w.maxErrors > 0 && len(errs) > w.maxErrors {
		errs = errs[:w.maxErrors]
	}
	rows := make([][]string, len(errs))
	for i, e := range errs {
		rows[i] = []string{truncateString(e.Message, 80), e.URL}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Message", "URL"},
		Rows:   rows,
	})
	md.PlainText("")

	if hidden := len(report.Errors) - len(errs); hidden > 0 {
		md.Note(strconv.Itoa(hidden) + " more error(s) are recorded in the error dataset.")
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by marinecrawl*")
}
