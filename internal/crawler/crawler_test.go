package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/nao1215/marinecrawl/internal/fetch"
	"github.com/nao1215/marinecrawl/internal/model"
)

// fakeFetcher serves canned pages and counts fetches.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]*fetch.Page
	errs  map[string]error
	calls []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages: make(map[string]*fetch.Page),
		errs:  make(map[string]error),
	}
}

func (f *fakeFetcher) add(url string, status int, body string) {
	f.pages[url] = &fetch.Page{URL: url, StatusCode: status, Body: []byte(body)}
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*fetch.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if p, ok := f.pages[url]; ok {
		return p, nil
	}
	return &fetch.Page{URL: url, StatusCode: http.StatusNotFound}, nil
}

const (
	nextEnabled  = `<span class="next"><a href="%s">Next</a></span>`
	nextDisabled = `<span class="next disabled">Next</span>`
)

// listPage renders a results table with a header row and the given rows.
func listPage(rows []string, pager string) string {
	var b strings.Builder
	b.WriteString(`<html><body><table class="table table-hover text-left">`)
	b.WriteString(`<tr><th>Name</th><th>Type</th></tr>`)
	for _, r := range rows {
		b.WriteString(r)
	}
	b.WriteString(`</table>`)
	b.WriteString(pager)
	b.WriteString(`</body></html>`)
	return b.String()
}

func nameRow(name, typ string) string {
	return fmt.Sprintf(`<tr><td><a href="/en/ais/details/ships/%s">%s</a></td><td>%s</td></tr>`, name, name, typ)
}

type simpleRecord struct {
	Name model.Value
	Type model.Value
	Link model.Value
}

var simpleColumns = []Column{
	{Name: "name", Index: 0},
	{Name: "type", Index: 1},
}

func extractSimple(rc *RowContext) (simpleRecord, bool) {
	rec := simpleRecord{
		Name: rc.Field("name", AnchorText),
		Type: rc.Field("type", Text),
	}
	cell, _ := rc.Cell("name")
	rec.Link = Link(rc.Doc, cell)
	return rec, true
}

func quietLogger() PaginatorOption {
	return WithPaginatorLogger(slog.New(slog.DiscardHandler))
}

func TestColumnLayout(t *testing.T) {
	t.Parallel()

	columns := []Column{
		{Name: "port", Index: 0},
		{Name: "origin", Index: 1, Mergeable: true},
		{Name: "ship", Index: 2},
		{Name: "reported", Index: 3},
		{Name: "calculated", Index: 4, Mergeable: true},
		{Name: "arrival", Index: 5},
		{Name: "position", Index: 6},
	}

	firstRow := func(t *testing.T, rowspans ...int) Row {
		t.Helper()
		var b strings.Builder
		b.WriteString(`<table class="table table-hover text-left"><tr><th>h</th></tr><tr>`)
		for i := range 7 {
			attr := ""
			for _, rs := range rowspans {
				if rs == i {
					attr = ` rowspan="2"`
				}
			}
			fmt.Fprintf(&b, `<td%s>c%d</td>`, attr, i)
		}
		b.WriteString(`</tr></table>`)
		doc, err := ParseDocument([]byte(b.String()), "https://example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		rows := doc.Rows("table.table.table-hover.text-left")
		if len(rows) != 1 {
			t.Fatalf("expected 1 row, got %d", len(rows))
		}
		return rows[0]
	}

	t.Run("no merged field gives the baseline map on every row", func(t *testing.T) {
		t.Parallel()
		layout := ResolveLayout(firstRow(t), columns)
		for ordinal := range 4 {
			for _, c := range columns {
				idx, inherit := layout.Index(c.Name, ordinal)
				if inherit || idx != c.Index {
					t.Errorf("row %d field %s: expected index %d, got %d (inherit=%v)", ordinal, c.Name, c.Index, idx, inherit)
				}
			}
		}
	})

	t.Run("one merged field shifts every later field by one", func(t *testing.T) {
		t.Parallel()
		layout := ResolveLayout(firstRow(t, 1), columns)
		if !layout.Merged("origin") || layout.Merged("calculated") {
			t.Fatalf("expected only origin merged")
		}

		want := map[string]int{"port": 0, "ship": 1, "reported": 2, "calculated": 3, "arrival": 4, "position": 5}
		for ordinal := 1; ordinal < 3; ordinal++ {
			if _, inherit := layout.Index("origin", ordinal); !inherit {
				t.Errorf("row %d: expected origin to inherit", ordinal)
			}
			for name, w := range want {
				if idx, _ := layout.Index(name, ordinal); idx != w {
					t.Errorf("row %d field %s: expected %d, got %d", ordinal, name, w, idx)
				}
			}
		}
		if idx, inherit := layout.Index("origin", 0); inherit || idx != 1 {
			t.Errorf("first row: expected origin at 1, got %d (inherit=%v)", idx, inherit)
		}
	})

	t.Run("both merged fields shift independently", func(t *testing.T) {
		t.Parallel()
		layout := ResolveLayout(firstRow(t, 1, 4), columns)

		want := map[string]int{"port": 0, "ship": 1, "reported": 2, "arrival": 3, "position": 4}
		for name, w := range want {
			if idx, _ := layout.Index(name, 1); idx != w {
				t.Errorf("field %s: expected %d, got %d", name, w, idx)
			}
		}
		if _, inherit := layout.Index("calculated", 1); !inherit {
			t.Error("expected calculated to inherit")
		}
	})

	t.Run("rowspan on a non-mergeable field is ignored", func(t *testing.T) {
		t.Parallel()
		layout := ResolveLayout(firstRow(t, 2), columns)
		if idx, inherit := layout.Index("position", 1); inherit || idx != 6 {
			t.Errorf("expected position at 6, got %d (inherit=%v)", idx, inherit)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()
		layout := ResolveLayout(firstRow(t), columns)
		if idx, inherit := layout.Index("missing", 1); idx != -1 || inherit {
			t.Errorf("expected -1, got %d (inherit=%v)", idx, inherit)
		}
	})
}

func TestPaginator(t *testing.T) {
	t.Parallel()

	t.Run("two pages with banner row yield five records in two fetches", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher()
		f.add("https://example.com/list", http.StatusOK, listPage([]string{
			nameRow("ALPHA", "Tanker"),
			nameRow("BRAVO", "Tanker"),
			`<tr><td colspan="2">No results</td></tr>`,
			nameRow("CHARLIE", "Tanker"),
		}, fmt.Sprintf(nextEnabled, "/list/page:2")))
		f.add("https://example.com/list/page:2", http.StatusOK, listPage([]string{
			nameRow("DELTA", "Tanker"),
			nameRow("ECHO", "Tanker"),
		}, nextDisabled))

		p := NewPaginator(f, simpleColumns, extractSimple, quietLogger())
		result, err := p.Run(t.Context(), "https://example.com/list")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(result.Records) != 5 {
			t.Errorf("expected 5 records, got %d", len(result.Records))
		}
		if len(result.Errors) != 0 {
			t.Errorf("expected 0 errors, got %v", result.Errors)
		}
		if len(f.calls) != 2 || result.Pages != 2 {
			t.Errorf("expected 2 fetches, got %d (pages=%d)", len(f.calls), result.Pages)
		}

		names := make([]string, 0, len(result.Records))
		for _, r := range result.Records {
			names = append(names, r.Name.String())
		}
		if diff := cmp.Diff([]string{"ALPHA", "BRAVO", "CHARLIE", "DELTA", "ECHO"}, names); diff != "" {
			t.Errorf("record order mismatch (-want +got):\n%s", diff)
		}
		if got := result.Records[0].Link.String(); got != "https://example.com/en/ais/details/ships/ALPHA" {
			t.Errorf("expected resolved link, got %q", got)
		}
	})

	t.Run("503 yields one error record and no records", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher()
		f.add("https://example.com/list", http.StatusServiceUnavailable, "")

		p := NewPaginator(f, simpleColumns, extractSimple, quietLogger())
		result, err := p.Run(t.Context(), "https://example.com/list")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Records) != 0 {
			t.Errorf("expected 0 records, got %d", len(result.Records))
		}
		if len(result.Errors) != 1 {
			t.Fatalf("expected 1 error, got %d", len(result.Errors))
		}
		if result.Errors[0].URL != "https://example.com/list" {
			t.Errorf("expected error URL of the seed, got %q", result.Errors[0].URL)
		}
		if !strings.Contains(result.Errors[0].Message, "503") {
			t.Errorf("expected status code in message, got %q", result.Errors[0].Message)
		}
	})

	t.Run("transport failure on second page keeps first page records", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher()
		f.add("https://example.com/list", http.StatusOK, listPage([]string{nameRow("ALPHA", "Tanker")},
			fmt.Sprintf(nextEnabled, "/list/page:2")))
		f.errs["https://example.com/list/page:2"] = errors.New("connection reset")

		p := NewPaginator(f, simpleColumns, extractSimple, quietLogger())
		result, err := p.Run(t.Context(), "https://example.com/list")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Records) != 1 || len(result.Errors) != 1 {
			t.Fatalf("expected 1 record and 1 error, got %d and %d", len(result.Records), len(result.Errors))
		}
		if result.Errors[0].URL != "https://example.com/list/page:2" {
			t.Errorf("unexpected error URL %q", result.Errors[0].URL)
		}
	})

	t.Run("disabled next stops without extra fetches", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher()
		// A link is present as well; the disabled marker wins.
		f.add("https://example.com/list", http.StatusOK, listPage([]string{nameRow("ALPHA", "Tanker")},
			nextDisabled+fmt.Sprintf(nextEnabled, "/list/page:2")))

		p := NewPaginator(f, simpleColumns, extractSimple, quietLogger())
		if _, err := p.Run(t.Context(), "https://example.com/list"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.calls) != 1 {
			t.Errorf("expected 1 fetch, got %d", len(f.calls))
		}
	})

	t.Run("missing next indicator ends the chain", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher()
		f.add("https://example.com/list", http.StatusOK, listPage([]string{nameRow("ALPHA", "Tanker")}, ""))

		p := NewPaginator(f, simpleColumns, extractSimple, quietLogger())
		result, err := p.Run(t.Context(), "https://example.com/list")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.calls) != 1 || len(result.Records) != 1 {
			t.Errorf("expected 1 fetch and 1 record, got %d and %d", len(f.calls), len(result.Records))
		}
	})

	t.Run("next link back to a fetched page ends the chain", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher()
		f.add("https://example.com/list", http.StatusOK, listPage([]string{nameRow("ALPHA", "Tanker")},
			fmt.Sprintf(nextEnabled, "/list")))

		p := NewPaginator(f, simpleColumns, extractSimple, quietLogger())
		if _, err := p.Run(t.Context(), "https://example.com/list"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.calls) != 1 {
			t.Errorf("expected 1 fetch, got %d", len(f.calls))
		}
	})

	t.Run("page bound stops the chain", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher()
		for i := 1; i <= 5; i++ {
			f.add(fmt.Sprintf("https://example.com/list/page:%d", i), http.StatusOK,
				listPage([]string{nameRow(fmt.Sprintf("S%d", i), "Tanker")}, fmt.Sprintf(nextEnabled, fmt.Sprintf("/list/page:%d", i+1))))
		}

		p := NewPaginator(f, simpleColumns, extractSimple, WithMaxPages(3), quietLogger())
		result, err := p.Run(t.Context(), "https://example.com/list/page:1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.calls) != 3 || len(result.Records) != 3 {
			t.Errorf("expected 3 fetches and 3 records, got %d and %d", len(f.calls), len(result.Records))
		}
	})

	t.Run("record cap stops extraction but not the chain", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher()
		f.add("https://example.com/list", http.StatusOK, listPage([]string{
			nameRow("ALPHA", "Tanker"), nameRow("BRAVO", "Tanker"), nameRow("CHARLIE", "Tanker"),
		}, fmt.Sprintf(nextEnabled, "/list/page:2")))
		f.add("https://example.com/list/page:2", http.StatusOK, listPage([]string{
			nameRow("DELTA", "Tanker"),
		}, nextDisabled))

		p := NewPaginator(f, simpleColumns, extractSimple, WithLimit(2), quietLogger())
		result, err := p.Run(t.Context(), "https://example.com/list")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Records) != 2 {
			t.Errorf("expected 2 records, got %d", len(result.Records))
		}
		if len(f.calls) != 2 || result.Pages != 2 {
			t.Errorf("expected 2 fetches, got %d (pages %d)", len(f.calls), result.Pages)
		}
	})

	t.Run("page without table yields no records and no error", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher()
		f.add("https://example.com/list", http.StatusOK, `<html><body><p>maintenance</p>`+nextDisabled+`</body></html>`)

		p := NewPaginator(f, simpleColumns, extractSimple, quietLogger())
		result, err := p.Run(t.Context(), "https://example.com/list")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Records) != 0 || len(result.Errors) != 0 {
			t.Errorf("expected empty result, got %d records and %d errors", len(result.Records), len(result.Errors))
		}
	})

	t.Run("filtered rows never appear", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher()
		f.add("https://example.com/list", http.StatusOK, listPage([]string{
			nameRow("ALPHA", "Crude Oil Tanker"), nameRow("BRAVO", "Cargo"), nameRow("CHARLIE", "LPG TANKER"),
		}, nextDisabled))

		tankers := func(rc *RowContext) (simpleRecord, bool) {
			rec, _ := extractSimple(rc)
			return rec, MatchesType(rec.Type, "tanker")
		}
		p := NewPaginator(f, simpleColumns, tankers, quietLogger())
		result, err := p.Run(t.Context(), "https://example.com/list")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, r := range result.Records {
			if r.Name.String() == "BRAVO" {
				t.Error("cargo vessel must be filtered out")
			}
		}
		if len(result.Records) != 2 {
			t.Errorf("expected 2 records, got %d", len(result.Records))
		}
	})

	t.Run("cancelled context stops before fetching", func(t *testing.T) {
		t.Parallel()

		f := newFakeFetcher()
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		p := NewPaginator(f, simpleColumns, extractSimple, quietLogger())
		_, err := p.Run(ctx, "https://example.com/list")
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if len(f.calls) != 0 {
			t.Errorf("expected no fetch, got %d", len(f.calls))
		}
	})
}

// TestPaginatorRowspanInheritance covers a table whose origin cell spans two rows.
func TestPaginatorRowspanInheritance(t *testing.T) {
	t.Parallel()

	type arrival struct {
		Origin  model.Value
		Ship    model.Value
		Arrival model.Value
	}
	columns := []Column{
		{Name: "origin", Index: 1, Mergeable: true},
		{Name: "ship", Index: 2},
		{Name: "arrival", Index: 3},
	}
	extract := func(rc *RowContext) (arrival, bool) {
		return arrival{
			Origin:  rc.Field("origin", Text),
			Ship:    rc.Field("ship", Text),
			Arrival: rc.Field("arrival", Epoch),
		}, true
	}

	body := listPage([]string{
		`<tr><td>SANTOS</td><td rowspan="2">ROTTERDAM</td><td>ALPHA</td><td><span data-time="1500000000"></span></td></tr>`,
		`<tr><td>SANTOS</td><td>BRAVO</td><td><span data-time="1500003600"></span></td></tr>`,
	}, nextDisabled)

	f := newFakeFetcher()
	f.add("https://example.com/arrivals", http.StatusOK, body)

	p := NewPaginator(f, columns, extract, quietLogger())
	result, err := p.Run(t.Context(), "https://example.com/arrivals")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []arrival{
		{Origin: model.Text("ROTTERDAM"), Ship: model.Text("ALPHA"), Arrival: model.Text("2017-07-14 02:40")},
		{Origin: model.Text("ROTTERDAM"), Ship: model.Text("BRAVO"), Arrival: model.Text("2017-07-14 03:40")},
	}
	if diff := cmp.Diff(want, result.Records, cmp.AllowUnexported(model.Value{})); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

// TestPaginatorWithFetchClient runs the paginator against a real HTTP server.
func TestPaginatorWithFetchClient(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/list", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(listPage([]string{nameRow("ALPHA", "Tanker")}, fmt.Sprintf(nextEnabled, "/list2"))))
	})
	mux.HandleFunc("/list2", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(listPage([]string{nameRow("BRAVO", "Tanker")}, nextDisabled)))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := fetch.NewClient("", 5*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := NewPaginator(client, simpleColumns, extractSimple, WithBaseURL(server.URL), quietLogger())
	result, err := p.Run(t.Context(), server.URL+"/list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 2 || result.Pages != 2 {
		t.Errorf("expected 2 records over 2 pages, got %d over %d", len(result.Records), result.Pages)
	}
	if got := result.Records[1].Link.String(); got != server.URL+"/en/ais/details/ships/BRAVO" {
		t.Errorf("unexpected link %q", got)
	}
}

func cellOf(t *testing.T, html string) (*Document, *goquery.Selection) {
	t.Helper()
	doc, err := ParseDocument([]byte(`<table><tr><td>`+html+`</td></tr></table>`), "https://www.marinetraffic.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return doc, doc.Find("td").First()
}

func TestFieldHelpers(t *testing.T) {
	t.Parallel()

	t.Run("Text normalizes placeholder to null", func(t *testing.T) {
		t.Parallel()
		_, cell := cellOf(t, "  -  ")
		if !Text(cell).IsNull() {
			t.Error("expected null for placeholder")
		}
		_, cell = cellOf(t, " Tanker ")
		if Text(cell).String() != "Tanker" {
			t.Errorf("expected trimmed text, got %q", Text(cell).String())
		}
	})

	t.Run("FlagImage reads title and source", func(t *testing.T) {
		t.Parallel()
		doc, cell := cellOf(t, `<img title="Brazil" src="/img/flags/br.gif">`)
		country, link := FlagImage(doc, cell)
		if country.String() != "Brazil" || link.String() != "https://www.marinetraffic.com/img/flags/br.gif" {
			t.Errorf("unexpected flag %q %q", country.String(), link.String())
		}
	})

	t.Run("FlagImage without image is null", func(t *testing.T) {
		t.Parallel()
		doc, cell := cellOf(t, `Brazil`)
		country, link := FlagImage(doc, cell)
		if !country.IsNull() || !link.IsNull() {
			t.Error("expected both null")
		}
	})

	t.Run("Epoch reads time element text", func(t *testing.T) {
		t.Parallel()
		_, cell := cellOf(t, `<time>0</time>`)
		if got := Epoch(cell).String(); got != "1970-01-01 00:00" {
			t.Errorf("expected epoch origin, got %q", got)
		}
	})

	t.Run("Epoch without element or attribute is null", func(t *testing.T) {
		t.Parallel()
		_, cell := cellOf(t, `<span>soon</span>`)
		if !Epoch(cell).IsNull() {
			t.Error("expected null")
		}
		_, cell = cellOf(t, `<span data-time=""></span>`)
		if !Epoch(cell).IsNull() {
			t.Error("expected null for empty attribute")
		}
	})

	t.Run("Link on a cell without anchor is null", func(t *testing.T) {
		t.Parallel()
		doc, cell := cellOf(t, `no link`)
		if !Link(doc, cell).IsNull() {
			t.Error("expected null")
		}
	})
}

func TestCoordinates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		link    model.Value
		wantLon string
		wantLat string
		null    bool
	}{
		{
			name:    "map link",
			link:    model.Text("https://www.marinetraffic.com/en/ais/home/centerx:-46.3/centery:-23.96/zoom:13"),
			wantLon: "-46,3",
			wantLat: "-23,96",
		},
		{
			name: "link without position",
			link: model.Text("https://www.marinetraffic.com/en/ais/home"),
			null: true,
		},
		{
			name: "null link",
			link: model.Null(),
			null: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			lon, lat := Coordinates(tt.link)
			if tt.null {
				if !lon.IsNull() || !lat.IsNull() {
					t.Errorf("expected nulls, got %q %q", lon.String(), lat.String())
				}
				return
			}
			if lon.String() != tt.wantLon || lat.String() != tt.wantLat {
				t.Errorf("expected %s/%s, got %s/%s", tt.wantLon, tt.wantLat, lon.String(), lat.String())
			}
		})
	}
}

func TestPortID(t *testing.T) {
	t.Parallel()

	if got := PortID(model.Text("https://www.marinetraffic.com/en/ais/details/ports/189/Brazil_port:SANTOS")).String(); got != "189" {
		t.Errorf("expected 189, got %q", got)
	}
	if !PortID(model.Text("https://www.marinetraffic.com/en/ais/home")).IsNull() {
		t.Error("expected null for a link without id")
	}
}

func TestSplitLengthBeam(t *testing.T) {
	t.Parallel()

	length, beam := SplitLengthBeam(model.Text("183.2m × 32.2m"))
	if length.String() != "183,2" || beam.String() != "32,2" {
		t.Errorf("expected 183,2 and 32,2, got %q and %q", length.String(), beam.String())
	}

	length, beam = SplitLengthBeam(model.Null())
	if !length.IsNull() || !beam.IsNull() {
		t.Error("expected nulls")
	}
}

func TestPositionText(t *testing.T) {
	t.Parallel()

	lat, lon := PositionText(model.Text("-23.98° / -46.29°"))
	if lat.String() != "-23,98" || lon.String() != "-46,29" {
		t.Errorf("unexpected position %q %q", lat.String(), lon.String())
	}
}

func TestStripUnitAndLastSignal(t *testing.T) {
	t.Parallel()

	if got := StripUnit(model.Text("45000 t"), " t").String(); got != "45000" {
		t.Errorf("expected 45000, got %q", got)
	}
	if got := LastSignal(model.Text("2018-03-01 14:05 (5 minutes ago)")).String(); got != "2018-03-01 14:05" {
		t.Errorf("unexpected last signal %q", got)
	}
	if !LastSignal(model.Text("unknown")).IsNull() {
		t.Error("expected null without timestamp")
	}
}

func TestDocumentNext(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      string
		wantState NextState
		wantURL   string
	}{
		{name: "disabled", body: nextDisabled, wantState: NextDisabled},
		{name: "enabled", body: fmt.Sprintf(nextEnabled, "/list/page:2"), wantState: NextEnabled, wantURL: "https://example.com/list/page:2"},
		{name: "missing", body: "", wantState: NextMissing},
		{name: "enabled without link", body: `<span class="next">Next</span>`, wantState: NextMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			doc, err := ParseDocument([]byte("<html><body>"+tt.body+"</body></html>"), "https://example.com/list")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			state, next := doc.Next("span.next.disabled", "span.next a[href]")
			if state != tt.wantState || next != tt.wantURL {
				t.Errorf("expected %v %q, got %v %q", tt.wantState, tt.wantURL, state, next)
			}
		})
	}
}

func TestLabelledText(t *testing.T) {
	t.Parallel()

	doc, err := ParseDocument([]byte(`<div><span>Area:</span> <strong>SAtl - South Atlantic</strong></div>`), "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := doc.LabelledText("Area:").String(); got != "SAtl - South Atlantic" {
		t.Errorf("unexpected area %q", got)
	}
	if !doc.LabelledText("Position Received").IsNull() {
		t.Error("expected null for a missing label")
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	msg := ErrorMessage(&fetch.StatusError{URL: "https://x/1", StatusCode: 404}, "do navio", "https://x/1")
	if msg != "Erro código HTTP 404 ao obter dados do navio https://x/1." {
		t.Errorf("unexpected message %q", msg)
	}
	msg = ErrorMessage(errors.New("timeout"), "da página", "https://x/2")
	if !strings.Contains(msg, "timeout") || !strings.Contains(msg, "https://x/2") {
		t.Errorf("unexpected message %q", msg)
	}
}
