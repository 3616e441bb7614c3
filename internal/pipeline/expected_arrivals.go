package pipeline

import (
	"context"
	"fmt"

	"github.com/nao1215/marinecrawl/internal/crawler"
	"github.com/nao1215/marinecrawl/internal/model"
)

// Fields of a port's expected arrivals table. The origin port and the
// calculated ETA may span several rows.
var expectedArrivalColumns = []crawler.Column{
	{Name: "origin", Index: 1, Mergeable: true},
	{Name: "ship", Index: 2},
	{Name: "reported_eta", Index: 3},
	{Name: "calculated_eta", Index: 4, Mergeable: true},
	{Name: "arrival", Index: 5},
	{Name: "position", Index: 6},
}

// ExpectedArrivalsPass collects the vessels announced for each port of
// interest into the chegadas_esperadas dataset.
type ExpectedArrivalsPass struct {
	env *Env
}

// NewExpectedArrivalsPass creates the expected-arrivals pass.
func NewExpectedArrivalsPass(env *Env) *ExpectedArrivalsPass {
	return &ExpectedArrivalsPass{env: env}
}

// Name implements Pass.
func (p *ExpectedArrivalsPass) Name() string {
	return PassExpectedArrivals
}

// Do implements Pass.
func (p *ExpectedArrivalsPass) Do(ctx context.Context, report *model.RunReport) error {
	return p.env.run(ctx, report, PassExpectedArrivals, model.DatasetExpectedArrivals, func(res *model.PassResult) ([]model.ErrorRecord, error) {
		suffix := fmt.Sprintf("/per_page:%d", p.env.config.PageSize)
		seeds, err := p.env.portSeeds(func(port model.Port) model.Value { return port.ExpectedArrivalLink }, suffix)
		if err != nil {
			return nil, err
		}
		res.Seeds = len(seeds)

		results, err := RunSeeds(ctx, p.env.runner, seeds, func(ctx context.Context, seed Seed) (*crawler.Result[model.ExpectedArrival], error) {
			pag := crawler.NewPaginator(p.env.fetcher, expectedArrivalColumns, p.extractor(seed.Label), p.env.paginatorOptions()...)
			return pag.Run(ctx, seed.URL)
		})
		arrivals, errs, pages := mergeResults(results)
		res.Pages = pages
		if err != nil {
			return errs, err
		}

		res.Records = len(arrivals)
		if err := p.env.store.Save(model.NewDataset(model.DatasetExpectedArrivals, model.ExpectedArrivalHeader, arrivals)); err != nil {
			return errs, fmt.Errorf("failed to save expected arrivals: %w", err)
		}
		return errs, nil
	})
}

// extractor returns the row extractor for the expected arrivals of portName.
// Rows without the configured vessel type icon are dropped.
func (p *ExpectedArrivalsPass) extractor(portName string) crawler.RowExtractor[model.ExpectedArrival] {
	icon := p.env.config.TypeIcon
	return func(rc *crawler.RowContext) (model.ExpectedArrival, bool) {
		// Merged fields are read first so the first row carries their value
		// even when it is filtered out.
		origin := rc.Field("origin", crawler.Text)
		calculated := rc.Field("calculated_eta", crawler.Epoch)

		ship, _ := rc.Cell("ship")
		iconLink := model.Null()
		if src, ok := crawler.Attr(ship, "img", "src").Get(); ok {
			iconLink = rc.Doc.Resolve(src)
		}
		if !crawler.HasIcon(iconLink, icon) {
			return model.ExpectedArrival{}, false
		}

		position, _ := rc.Cell("position")
		arrival := model.ExpectedArrival{
			Port:          model.Text(portName),
			OriginPort:    origin,
			Ship:          crawler.AnchorText(ship),
			ReportedETA:   rc.Field("reported_eta", crawler.Epoch),
			CalculatedETA: calculated,
			ArrivedAt:     rc.Field("arrival", crawler.Epoch),
			ShipLink:      crawler.Link(rc.Doc, ship),
			TypeIconLink:  iconLink,
			PositionLink:  crawler.Link(rc.Doc, position),
			CollectedAt:   p.env.collectedAt(),
		}
		arrival.Longitude, arrival.Latitude = crawler.Coordinates(arrival.PositionLink)
		return arrival, true
	}
}
