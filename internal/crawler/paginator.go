package crawler

import (
	"context"
	"log/slog"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/marinecrawl/internal/config"
	"github.com/nao1215/marinecrawl/internal/fetch"
	"github.com/nao1215/marinecrawl/internal/model"
)

// Fetcher retrieves one page. *fetch.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Page, error)
}

// Query is the state of one pagination chain.
type Query struct {
	// URL is the page to fetch next.
	URL string

	// Page counts the pages fetched so far.
	Page int

	// Limit caps the records collected. 0 means no cap.
	Limit int
}

// RowContext is handed to a RowExtractor for every data row of a table.
type RowContext struct {
	// Doc is the page the row belongs to.
	Doc *Document

	// Row is the data row.
	Row Row

	// Ordinal is the 0-based position of the row among the table's data rows.
	Ordinal int

	// Layout is the column layout of the table.
	Layout *ColumnLayout
}

// Cell returns the cell of field. inherit is true when the row has no cell
// for the field because the first row's cell spans it.
func (rc *RowContext) Cell(field string) (cell *goquery.Selection, inherit bool) {
	idx, inherit := rc.Layout.Index(field, rc.Ordinal)
	if inherit {
		return nil, true
	}
	return rc.Row.Cell(idx), false
}

// Field extracts field with extract. A merged field takes the first row's
// value on the rows it spans.
func (rc *RowContext) Field(field string, extract func(*goquery.Selection) model.Value) model.Value {
	cell, inherit := rc.Cell(field)
	if inherit {
		return rc.Layout.Carried(field)
	}
	v := extract(cell)
	if rc.Ordinal == 0 {
		rc.Layout.Carry(field, v)
	}
	return v
}

// RowExtractor turns a data row into a record. It returns false when the
// row is filtered out. It must not fail: absent elements become null fields.
type RowExtractor[T any] func(rc *RowContext) (T, bool)

// Result is the outcome of one pagination chain.
type Result[T any] struct {
	// Records are the extracted records in page and row order.
	Records []T

	// Errors holds at most one record: the fetch that ended the chain.
	Errors []model.ErrorRecord

	// Pages is the number of pages fetched.
	Pages int
}

// Paginator walks the "next page" chain of a list page and extracts every
// data row of its results table.
type Paginator[T any] struct {
	fetcher   Fetcher
	extract   RowExtractor[T]
	columns   []Column
	selectors config.Selectors
	baseURL   string
	limit     int
	maxPages  int
	subject   string
	logger    *slog.Logger
}

// PaginatorOption configures a Paginator.
type PaginatorOption func(*paginatorOptions)

type paginatorOptions struct {
	selectors config.Selectors
	baseURL   string
	limit     int
	maxPages  int
	subject   string
	logger    *slog.Logger
}

// WithSelectors sets the table and "next page" selectors.
func WithSelectors(s config.Selectors) PaginatorOption {
	return func(o *paginatorOptions) {
		o.selectors = s
	}
}

// WithBaseURL sets the URL relative links are resolved against.
// By default links are resolved against the page they appear on.
func WithBaseURL(base string) PaginatorOption {
	return func(o *paginatorOptions) {
		o.baseURL = base
	}
}

// WithLimit caps the number of records. 0 means no cap.
func WithLimit(n int) PaginatorOption {
	return func(o *paginatorOptions) {
		o.limit = n
	}
}

// WithMaxPages bounds the pages fetched for one seed. 0 means no bound.
func WithMaxPages(n int) PaginatorOption {
	return func(o *paginatorOptions) {
		o.maxPages = n
	}
}

// WithSubject names what a page holds in error messages ("da página").
func WithSubject(subject string) PaginatorOption {
	return func(o *paginatorOptions) {
		o.subject = subject
	}
}

// WithPaginatorLogger sets the logger.
func WithPaginatorLogger(logger *slog.Logger) PaginatorOption {
	return func(o *paginatorOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewPaginator creates a Paginator that extracts rows with extract. columns
// declares the logical fields of the table and which of them may be merged.
func NewPaginator[T any](fetcher Fetcher, columns []Column, extract RowExtractor[T], opts ...PaginatorOption) *Paginator[T] {
	o := paginatorOptions{
		selectors: config.DefaultSelectors(),
		subject:   "da página",
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Paginator[T]{
		fetcher:   fetcher,
		extract:   extract,
		columns:   columns,
		selectors: o.selectors,
		baseURL:   o.baseURL,
		limit:     o.limit,
		maxPages:  o.maxPages,
		subject:   o.subject,
		logger:    o.logger,
	}
}

// Run follows the chain starting at seed.
//
// A failed fetch (transport error or non-2xx status) adds one error record
// and ends the chain. A page without a results table has no rows. The chain
// ends on a disabled "next" control, on a page without any "next" control,
// on a link to an already fetched page, or on the page bound. Reaching the
// record cap stops extraction only; the chain is still walked to its end.
//
// The returned error is non-nil only when ctx is done; the partial result
// is returned with it.
func (p *Paginator[T]) Run(ctx context.Context, seed string) (*Result[T], error) {
	q := Query{URL: seed, Limit: p.limit}
	result := &Result[T]{
		Records: make([]T, 0),
		Errors:  make([]model.ErrorRecord, 0),
	}
	visited := make(map[string]bool)
	capped := false

	for q.URL != "" {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if p.maxPages > 0 && q.Page >= p.maxPages {
			p.logger.Warn("page bound reached", "seed", seed, "pages", q.Page)
			break
		}
		visited[q.URL] = true

		p.logger.Info("fetching page", "url", q.URL, "page", q.Page+1)
		page, err := p.fetcher.Fetch(ctx, q.URL)
		if err == nil {
			err = page.Err()
		}
		q.Page++
		result.Pages = q.Page
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return result, ctxErr
			}
			msg := ErrorMessage(err, p.subject, q.URL)
			p.logger.Error(msg)
			result.Errors = append(result.Errors, model.ErrorRecord{Message: msg, URL: q.URL})
			break
		}

		base := p.baseURL
		if base == "" {
			base = q.URL
		}
		doc, err := ParseDocument(page.Body, base)
		if err != nil {
			msg := ErrorMessage(err, p.subject, q.URL)
			p.logger.Error(msg)
			result.Errors = append(result.Errors, model.ErrorRecord{Message: msg, URL: q.URL})
			break
		}

		if !capped && p.extractRows(doc, &q, result) {
			capped = true
			p.logger.Info("record cap reached", "seed", seed, "limit", q.Limit)
		}

		state, next := doc.Next(p.selectors.NextDisabled, p.selectors.NextLink)
		switch state {
		case NextEnabled:
			if visited[next] {
				p.logger.Warn("next page already fetched", "url", next)
				q.URL = ""
			} else {
				q.URL = next
			}
		case NextMissing:
			// Treated as the last page; it may also be a truncated chain.
			p.logger.Warn("next indicator missing", "url", q.URL)
			q.URL = ""
		default:
			q.URL = ""
		}
	}

	p.logger.Info("pagination finished", "seed", seed, "pages", result.Pages, "records", len(result.Records))
	return result, nil
}

// extractRows appends the records of one page. It reports whether the
// record cap was reached.
func (p *Paginator[T]) extractRows(doc *Document, q *Query, result *Result[T]) bool {
	rows := doc.Rows(p.selectors.Table)
	if len(rows) == 0 {
		return false
	}

	layout := ResolveLayout(rows[0], p.columns)
	for i, row := range rows {
		if q.Limit > 0 && len(result.Records) >= q.Limit {
			return true
		}
		rec, ok := p.extract(&RowContext{Doc: doc, Row: row, Ordinal: i, Layout: layout})
		if ok {
			result.Records = append(result.Records, rec)
		}
	}
	return q.Limit > 0 && len(result.Records) >= q.Limit
}
