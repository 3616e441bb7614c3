package pipeline

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/marinecrawl/internal/config"
	"github.com/nao1215/marinecrawl/internal/dataset"
	"github.com/nao1215/marinecrawl/internal/fetch"
)

const (
	portsPath       = "/en/ais/index/ports/all/flag:BR/per_page:50"
	portsPage2Path  = "/en/ais/index/ports/all/flag:BR/per_page:50/page:2"
	santosShipsPath = "/en/ais/index/ships/port:189/ship_type:8/per_page:50"
	itaquiShipsPath = "/en/ais/index/ships/port:300/ship_type:8/per_page:50"
	santosETAPath   = "/en/ais/index/eta/port:189/per_page:50"
	itaquiETAPath   = "/en/ais/index/eta/port:300/per_page:50"

	nextEnabled  = `<span class="next"><a href="%s">Next</a></span>`
	nextDisabled = `<span class="next disabled">Next</span>`

	// Epoch seconds of 2018-03-01 12:00, 13:00 and 14:00 UTC.
	epoch12 = "1519905600"
	epoch13 = "1519909200"
	epoch14 = "1519912800"
)

var testNow = time.Date(2018, 3, 2, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time {
	return testNow
}

func quietLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// fakeSite serves fixed pages by path and counts requests.
type fakeSite struct {
	mu     sync.Mutex
	pages  map[string]string
	status map[string]int
	hits   map[string]int
}

func newFakeSite() *fakeSite {
	return &fakeSite{
		pages:  make(map[string]string),
		status: make(map[string]int),
		hits:   make(map[string]int),
	}
}

func (s *fakeSite) page(path, body string) {
	s.pages[path] = body
}

func (s *fakeSite) fail(path string, status int) {
	s.status[path] = status
}

func (s *fakeSite) hitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *fakeSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	body, ok := s.pages[r.URL.Path]
	status := s.status[r.URL.Path]
	s.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, body) //nolint:errcheck // test server
}

// table renders a results table with a header row, the rows and a pager.
func table(rows []string, pager string) string {
	var b strings.Builder
	b.WriteString(`<html><body><table class="table table-hover text-left"><tr><th>h</th><th>h</th></tr>`)
	for _, r := range rows {
		b.WriteString(r)
	}
	b.WriteString(`</table>`)
	b.WriteString(pager)
	b.WriteString(`</body></html>`)
	return b.String()
}

func portRow(id int, name, code string) string {
	return fmt.Sprintf(`<tr>
<td><img title="Brazil" src="/img/flags/br.png"></td>
<td><a href="/en/ais/details/ports/%[1]d/Brazil_port:%[2]s">%[2]s</a></td>
<td>%[3]s</td>
<td><a href="/en/photos/port:%[1]d">photos</a></td>
<td>Port</td>
<td><a href="/en/ais/home/centerx:-46.3/centery:-23.96/zoom:12">map</a></td>
<td><a href="/en/ais/index/ships/port:%[1]d">ships</a></td>
<td><a href="/en/ais/index/departures/port:%[1]d">departures</a></td>
<td><a href="/en/ais/index/arrivals/port:%[1]d">arrivals</a></td>
<td><a href="/en/ais/index/eta/port:%[1]d">expected</a></td>
<td><div title="Good coverage"></div></td>
</tr>`, id, name, code)
}

func shipRow(id int, name, shipType, arrival string) string {
	arrivalCell := `<td></td>`
	if arrival != "" {
		arrivalCell = `<td><time>` + arrival + `</time></td>`
	}
	return fmt.Sprintf(`<tr>
<td><img title="Liberia" src="/img/flags/lr.png"></td>
<td><a href="/en/ais/details/ships/shipid:%[1]d">%[2]s</a></td>
<td><a href="/en/photos/ship:%[1]d">photos</a></td>
<td>x</td>
<td>%[3]s</td>
<td>183 x 32 m</td>
<td>45000</td>
<td>x</td>
<td><time>%[4]s</time></td>
%[5]s
</tr>`, id, name, shipType, epoch12, arrivalCell)
}

func shipDetails(name string) string {
	return `<html><body>
<h1 class="font-200 no-margin">` + name + `</h1>
<div class="group-ib vertical-offset-10">Crude Oil Tanker</div>
<a class="details_data_link" href="/en/ais/home/centerx:-46.3/centery:-23.9/zoom:10">-23.9° / -46.3°</a>
<div><span>Position Received:</span><strong>2018-03-01 11:50 (10 min ago)</strong></div>
<div><span>Area:</span><strong>SAtl - South Atlantic</strong></div>
<div class="row equal-height">
<div class="col-xs-6">
<div><span>IMO: </span><b>9000001</b></div>
<div><span>MMSI: </span><b>710000001</b></div>
<div><span>Call Sign: </span><b>PPXX</b></div>
<div><span>Flag: </span><b>Brazil</b></div>
<div><span>AIS Type: </span><b>Tanker</b></div>
</div>
<div class="col-xs-6"><b>30000</b><b>45000 t</b><b>183.2m × 32.2m</b><b>2005</b><b>-</b></div>
</div>
<div class="row equal-height"><div class="col-xs-6"><b>unrelated</b></div></div>
</body></html>`
}

// newMarineSite builds the fixture site:
//   - ports over two pages, with a duplicate SANTOS row and an ad row;
//   - SANTOS ships with two tankers and one cargo vessel; ITAQUI ships fail with 503;
//   - SANTOS expected arrivals with a merged origin cell; ITAQUI has none;
//   - details for ships 1 and 5; ship 3 answers 404.
func newMarineSite() *fakeSite {
	s := newFakeSite()

	s.page(portsPath, table([]string{
		portRow(189, "SANTOS", "BRSSZ"),
		portRow(300, "Itaqui", "BRITQ"),
		`<tr><td colspan="11">advertisement</td></tr>`,
		portRow(189, "SANTOS", "BRSSZ"),
	}, fmt.Sprintf(nextEnabled, portsPage2Path)))
	s.page(portsPage2Path, table([]string{
		portRow(400, "PARANAGUA", "BRPNG"),
	}, nextDisabled))

	s.page(santosShipsPath, table([]string{
		shipRow(1, "NAVE ONE", "Crude Oil Tanker", epoch13),
		shipRow(2, "CARGO TWO", "Cargo", epoch13),
		shipRow(3, "NAVE THREE", "Oil/Chemical Tanker", ""),
	}, nextDisabled))
	s.fail(itaquiShipsPath, http.StatusServiceUnavailable)

	s.page(santosETAPath, table([]string{
		`<tr><td>SANTOS</td><td rowspan="2">ROTTERDAM</td>` +
			`<td><img src="/img/vessel_types/vi8.png"><a href="/en/ais/details/ships/shipid:5">NAVE FIVE</a></td>` +
			`<td><span data-time="` + epoch12 + `"></span></td>` +
			`<td><span data-time="` + epoch13 + `"></span></td>` +
			`<td><span></span></td>` +
			`<td><a href="/en/ais/home/centerx:4.1/centery:51.9/zoom:9">pos</a></td></tr>`,
		`<tr><td>SANTOS</td>` +
			`<td><img src="/img/vessel_types/vi8.png"><a href="/en/ais/details/ships/shipid:1">NAVE ONE</a></td>` +
			`<td><span data-time="` + epoch13 + `"></span></td>` +
			`<td><span data-time="` + epoch14 + `"></span></td>` +
			`<td><span data-time="` + epoch14 + `"></span></td>` +
			`<td><a href="/en/ais/home/centerx:-40.2/centery:-20.3/zoom:9">pos</a></td></tr>`,
		`<tr><td>SANTOS</td>` +
			`<td><img src="/img/vessel_types/vi7.png"><a href="/en/ais/details/ships/shipid:9">CARGO NINE</a></td>` +
			`<td></td><td></td><td></td><td></td></tr>`,
	}, nextDisabled))
	s.page(itaquiETAPath, table(nil, nextDisabled))

	s.page("/en/ais/details/ships/shipid:1", shipDetails("NAVE ONE"))
	s.page("/en/ais/details/ships/shipid:5", shipDetails("NAVE FIVE"))
	s.fail("/en/ais/details/ships/shipid:3", http.StatusNotFound)
	return s
}

// testEnv is a run environment rooted in a temporary directory.
type testEnv struct {
	env   *Env
	store *dataset.Store
	cfg   *config.Config
	url   string
}

func newTestEnv(t *testing.T, site http.Handler, mutate func(*config.Config)) *testEnv {
	t.Helper()

	srv := httptest.NewServer(site)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfg := config.NewConfig()
	cfg.BaseURL = srv.URL
	cfg.PortsURL = srv.URL + portsPath
	cfg.OutputDir = filepath.Join(dir, "output")
	cfg.InterestFile = filepath.Join(dir, "input", "portos_interesse.csv")
	cfg.ErrorFile = filepath.Join(dir, "navios_erro.csv")
	cfg.RequestsPerSecond = 0
	cfg.Concurrency = 2
	if mutate != nil {
		mutate(cfg)
	}

	client, err := fetch.NewClient("", 5*time.Second, fetch.WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	store := dataset.NewStore(cfg.OutputDir, quietLogger())
	env := NewEnv(client, store, cfg, WithClock(fixedClock), WithEnvLogger(quietLogger()))
	return &testEnv{env: env, store: store, cfg: cfg, url: srv.URL}
}

func (te *testEnv) writeInterest(t *testing.T, names ...string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(te.cfg.InterestFile), 0o750); err != nil {
		t.Fatalf("failed to create input dir: %v", err)
	}
	content := "# ports of interest\nNome\n" + strings.Join(names, "\n") + "\n"
	if err := os.WriteFile(te.cfg.InterestFile, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write interest file: %v", err)
	}
}
