package pipeline

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/nao1215/marinecrawl/internal/crawler"
	"github.com/nao1215/marinecrawl/internal/dataset"
	"github.com/nao1215/marinecrawl/internal/model"
)

// Fields of the ports list table.
// Cell 7 holds the departures link, which is not collected.
var portColumns = []crawler.Column{
	{Name: "flag", Index: 0},
	{Name: "port", Index: 1},
	{Name: "code", Index: 2},
	{Name: "photos", Index: 3},
	{Name: "type", Index: 4},
	{Name: "map", Index: 5},
	{Name: "ships", Index: 6},
	{Name: "arrivals", Index: 8},
	{Name: "expected", Index: 9},
	{Name: "coverage", Index: 10},
}

// PortsPass collects the ports index into the portos dataset.
type PortsPass struct {
	env *Env
}

// NewPortsPass creates the ports pass.
func NewPortsPass(env *Env) *PortsPass {
	return &PortsPass{env: env}
}

// Name implements Pass.
func (p *PortsPass) Name() string {
	return PassPorts
}

// Do implements Pass.
func (p *PortsPass) Do(ctx context.Context, report *model.RunReport) error {
	return p.env.run(ctx, report, PassPorts, model.DatasetPorts, func(res *model.PassResult) ([]model.ErrorRecord, error) {
		pag := crawler.NewPaginator(p.env.fetcher, portColumns, p.extract,
			p.env.paginatorOptions(crawler.WithLimit(p.env.config.MaxPorts))...)

		res.Seeds = 1
		result, err := pag.Run(ctx, p.env.config.PortsURL)
		res.Pages = result.Pages
		if err != nil {
			return result.Errors, err
		}

		ports := dedupePorts(result.Records)
		res.Records = len(ports)
		if err := p.env.store.Save(model.NewDataset(model.DatasetPorts, model.PortHeader, ports)); err != nil {
			return result.Errors, fmt.Errorf("failed to save ports: %w", err)
		}
		return result.Errors, nil
	})
}

// extract reads one row of the ports table. Id, Longitude and Latitude are
// derived from the port and map links.
func (p *PortsPass) extract(rc *crawler.RowContext) (model.Port, bool) {
	link := func(field string) model.Value {
		c, _ := rc.Cell(field)
		return crawler.Link(rc.Doc, c)
	}

	flag, _ := rc.Cell("flag")
	country, flagLink := crawler.FlagImage(rc.Doc, flag)

	port := model.Port{
		Country:             country,
		Name:                rc.Field("port", crawler.Text).Map(dataset.UpperName),
		Code:                rc.Field("code", crawler.Text),
		Type:                rc.Field("type", crawler.Text),
		FlagLink:            flagLink,
		ShipsLink:           link("ships"),
		ExpectedArrivalLink: link("expected"),
		ArrivalsLink:        link("arrivals"),
		PortLink:            link("port"),
		PhotosLink:          link("photos"),
		MapLink:             link("map"),
		CollectedAt:         p.env.collectedAt(),
	}
	coverage, _ := rc.Cell("coverage")
	port.AISCoverage = crawler.Attr(coverage, "div", "title")
	port.ID = crawler.PortID(port.PortLink)
	port.Longitude, port.Latitude = crawler.Coordinates(port.MapLink)
	return port, true
}

// dedupePorts keeps the first port of every (Nome, Codigo) pair and sorts the
// result by Nome. Ports without a name sort last.
func dedupePorts(ports []model.Port) []model.Port {
	type key struct {
		name, code string
		hasName    bool
		hasCode    bool
	}
	seen := make(map[key]bool, len(ports))
	out := make([]model.Port, 0, len(ports))
	for _, p := range ports {
		name, hasName := p.Name.Get()
		code, hasCode := p.Code.Get()
		k := key{name: name, code: code, hasName: hasName, hasCode: hasCode}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}

	slices.SortStableFunc(out, func(a, b model.Port) int {
		switch {
		case a.Name.IsNull() && b.Name.IsNull():
			return 0
		case a.Name.IsNull():
			return 1
		case b.Name.IsNull():
			return -1
		}
		return cmp.Compare(a.Name.String(), b.Name.String())
	})
	return out
}
