package pipeline

import (
	"context"
	"fmt"

	"github.com/nao1215/marinecrawl/internal/crawler"
	"github.com/nao1215/marinecrawl/internal/model"
)

// Fields of a port's ships list table.
var shipInPortColumns = []crawler.Column{
	{Name: "flag", Index: 0},
	{Name: "ship", Index: 1},
	{Name: "photos", Index: 2},
	{Name: "type", Index: 4},
	{Name: "dimensions", Index: 5},
	{Name: "deadweight", Index: 6},
	{Name: "last_signal", Index: 8},
	{Name: "arrival", Index: 9},
}

// ShipsInPortPass collects the vessels of the configured type currently in
// each port of interest into the navios_em_portos dataset.
type ShipsInPortPass struct {
	env *Env
}

// NewShipsInPortPass creates the ships-in-port pass.
func NewShipsInPortPass(env *Env) *ShipsInPortPass {
	return &ShipsInPortPass{env: env}
}

// Name implements Pass.
func (p *ShipsInPortPass) Name() string {
	return PassShipsInPort
}

// seedSuffix narrows a port's ships list to one vessel type and sets the
// page size.
func (p *ShipsInPortPass) seedSuffix() string {
	return fmt.Sprintf("/ship_type:%d/per_page:%d", p.env.config.ShipType, p.env.config.PageSize)
}

// Do implements Pass.
func (p *ShipsInPortPass) Do(ctx context.Context, report *model.RunReport) error {
	return p.env.run(ctx, report, PassShipsInPort, model.DatasetShipsInPort, func(res *model.PassResult) ([]model.ErrorRecord, error) {
		seeds, err := p.env.portSeeds(func(port model.Port) model.Value { return port.ShipsLink }, p.seedSuffix())
		if err != nil {
			return nil, err
		}
		res.Seeds = len(seeds)

		results, err := RunSeeds(ctx, p.env.runner, seeds, func(ctx context.Context, seed Seed) (*crawler.Result[model.ShipInPort], error) {
			pag := crawler.NewPaginator(p.env.fetcher, shipInPortColumns, p.extractor(seed.Label), p.env.paginatorOptions()...)
			return pag.Run(ctx, seed.URL)
		})
		ships, errs, pages := mergeResults(results)
		res.Pages = pages
		if err != nil {
			return errs, err
		}

		res.Records = len(ships)
		if err := p.env.store.Save(model.NewDataset(model.DatasetShipsInPort, model.ShipInPortHeader, ships)); err != nil {
			return errs, fmt.Errorf("failed to save ships in port: %w", err)
		}
		return errs, nil
	})
}

// extractor returns the row extractor for the ships list of portName.
// Rows whose type does not contain the type keyword are dropped.
func (p *ShipsInPortPass) extractor(portName string) crawler.RowExtractor[model.ShipInPort] {
	keyword := p.env.config.TypeKeyword
	return func(rc *crawler.RowContext) (model.ShipInPort, bool) {
		shipType := rc.Field("type", crawler.Text)
		if !crawler.MatchesType(shipType, keyword) {
			return model.ShipInPort{}, false
		}

		flag, _ := rc.Cell("flag")
		ship, _ := rc.Cell("ship")
		photos, _ := rc.Cell("photos")
		country, flagLink := crawler.FlagImage(rc.Doc, flag)

		return model.ShipInPort{
			Port:         model.Text(portName),
			Name:         crawler.Text(ship),
			Type:         shipType,
			Country:      country,
			Dimensions:   rc.Field("dimensions", crawler.Text),
			Deadweight:   rc.Field("deadweight", crawler.Text),
			LastSignalAt: rc.Field("last_signal", crawler.Epoch),
			ArrivedAt:    rc.Field("arrival", crawler.Epoch),
			ShipLink:     crawler.Link(rc.Doc, ship),
			FlagLink:     flagLink,
			PhotosLink:   crawler.Link(rc.Doc, photos),
			CollectedAt:  p.env.collectedAt(),
		}, true
	}
}
