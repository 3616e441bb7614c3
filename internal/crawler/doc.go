// Package crawler extracts records from the paginated HTML tables of the
// tracking site.
//
// # Components
//
//   - Document: a parsed page (golang.org/x/net/html + goquery) with link
//     resolution, table row access and "next page" detection.
//   - ColumnLayout: the field to cell mapping of one table. Some tables
//     render a value once for a group of rows (rowspan); the following rows
//     then omit that cell and every later cell moves left. The layout is
//     resolved from the first data row and reused for the rest of the table.
//   - Paginator: fetches a seed page, extracts every data row with a
//     RowExtractor and follows the "next page" link until the chain ends.
//   - Field helpers (Text, Link, FlagImage, Epoch, Coordinates, ...): small
//     extraction functions that never fail; an absent element yields a
//     null model.Value.
//
// # Termination
//
// A chain ends on a disabled "next" control, on a page with no "next"
// control at all, on a failed fetch, on a link back to an already fetched
// page, or on the optional page bound. The optional record cap stops
// extraction only, so a capped chain is still followed. A failed fetch is recorded once as a model.ErrorRecord and never
// retried.
//
// # Usage
//
//	p := crawler.NewPaginator(client, columns, extractPort, crawler.WithLimit(100))
//	result, err := p.Run(ctx, seedURL)
package crawler
