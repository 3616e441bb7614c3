package crawler

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/nao1215/marinecrawl/internal/model"
)

// minDataCells is the smallest cell count of a data row.
// Rows with fewer cells are banners ("no results", ads) and are skipped.
const minDataCells = 2

// Document is a parsed HTML page.
// Relative links found on the page are resolved against base.
//
// Parsing goes through golang.org/x/net/html so malformed markup is repaired
// the way a browser would; queries go through goquery's CSS selectors.
type Document struct {
	doc  *goquery.Document
	base *url.URL
}

// ParseDocument parses an HTML body. baseURL is used to resolve relative
// links and is usually the site root or the page URL.
func ParseDocument(body []byte, baseURL string) (*Document, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return &Document{
		doc:  goquery.NewDocumentFromNode(root),
		base: base,
	}, nil
}

// Find returns the elements matching selector.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// Resolve turns an href into an absolute URL.
// An empty href is null. Unparsable hrefs are kept as-is.
func (d *Document) Resolve(href string) model.Value {
	href = strings.TrimSpace(href)
	if href == "" {
		return model.Null()
	}
	ref, err := url.Parse(href)
	if err != nil {
		return model.Text(href)
	}
	return model.Text(d.base.ResolveReference(ref).String())
}

// Rows returns the data rows of the first table matching selector.
// The header row is skipped, and so are rows with fewer than two cells.
// A missing table yields no rows.
func (d *Document) Rows(tableSelector string) []Row {
	table := d.doc.Find(tableSelector).First()
	if table.Length() == 0 {
		return nil
	}

	trs := table.Find("tr")
	rows := make([]Row, 0, trs.Length())
	trs.Each(func(i int, tr *goquery.Selection) {
		if i == 0 {
			return
		}
		cells := tr.Find("td")
		if cells.Length() < minDataCells {
			return
		}
		rows = append(rows, Row{cells: cells})
	})
	return rows
}

// LabelledText returns the text of the first <strong> next to the span whose
// text contains label, as in <div><span>Area:</span><strong>SAtl</strong></div>.
// A missing span or value is null.
func (d *Document) LabelledText(label string) model.Value {
	span := d.doc.Find("span").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.Contains(s.Text(), label)
	}).First()
	if span.Length() == 0 {
		return model.Null()
	}
	return model.Token(span.Parent().Find("strong").First().Text())
}

// NextState is the pagination signal found on a list page.
type NextState int

const (
	// NextMissing means neither a disabled nor an enabled "next" control exists.
	NextMissing NextState = iota

	// NextDisabled means the page is the last one.
	NextDisabled

	// NextEnabled means a "next" link exists.
	NextEnabled
)

// String returns a human-readable description of the state.
func (s NextState) String() string {
	switch s {
	case NextDisabled:
		return "disabled"
	case NextEnabled:
		return "enabled"
	default:
		return "missing"
	}
}

// Next inspects the "next page" control. A disabled control wins over a link.
// For NextEnabled the resolved link is returned.
func (d *Document) Next(disabledSelector, linkSelector string) (NextState, string) {
	if d.doc.Find(disabledSelector).Length() > 0 {
		return NextDisabled, ""
	}
	href, ok := d.doc.Find(linkSelector).First().Attr("href")
	if !ok {
		return NextMissing, ""
	}
	next := d.Resolve(href)
	if next.IsNull() {
		return NextMissing, ""
	}
	return NextEnabled, next.String()
}

// Row is one data row of a results table.
type Row struct {
	cells *goquery.Selection
}

// Len returns the number of cells.
func (r Row) Len() int {
	return r.cells.Length()
}

// Cell returns the i-th cell. Out of range yields an empty selection,
// so every extraction helper reads it as absent.
func (r Row) Cell(i int) *goquery.Selection {
	if i < 0 || i >= r.cells.Length() {
		return r.cells.Slice(0, 0)
	}
	return r.cells.Eq(i)
}

// HasRowspan reports whether the i-th cell carries a rowspan attribute.
func (r Row) HasRowspan(i int) bool {
	_, ok := r.Cell(i).Attr("rowspan")
	return ok
}
