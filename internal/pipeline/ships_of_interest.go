package pipeline

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/nao1215/marinecrawl/internal/config"
	"github.com/nao1215/marinecrawl/internal/crawler"
	"github.com/nao1215/marinecrawl/internal/model"
)

// shipSubject names a vessel details page in error messages.
const shipSubject = "do navio"

// shipLinkColumn is the column holding vessel links in the ships-in-port and
// expected-arrivals datasets.
const shipLinkColumn = "LinkNavio"

// ShipsOfInterestPass fetches the details page of every vessel found by the
// ships-in-port and expected-arrivals passes into the navios_interesse
// dataset.
type ShipsOfInterestPass struct {
	env *Env
}

// NewShipsOfInterestPass creates the ships-of-interest pass.
func NewShipsOfInterestPass(env *Env) *ShipsOfInterestPass {
	return &ShipsOfInterestPass{env: env}
}

// Name implements Pass.
func (p *ShipsOfInterestPass) Name() string {
	return PassShipsOfInterest
}

// Do implements Pass.
func (p *ShipsOfInterestPass) Do(ctx context.Context, report *model.RunReport) error {
	return p.env.run(ctx, report, PassShipsOfInterest, model.DatasetShipsOfInterest, func(res *model.PassResult) ([]model.ErrorRecord, error) {
		seeds, err := p.seeds()
		if err != nil {
			return nil, err
		}
		res.Seeds = len(seeds)

		results, err := RunSeeds(ctx, p.env.runner, seeds, p.crawl)
		ships, errs, pages := mergeResults(results)
		res.Pages = pages
		p.env.logger.Info("ships of interest collected", "ok", len(ships), "failed", len(errs))
		if err != nil {
			return errs, err
		}

		res.Records = len(ships)
		if err := p.env.store.Save(model.NewDataset(model.DatasetShipsOfInterest, model.ShipOfInterestHeader, ships)); err != nil {
			return errs, fmt.Errorf("failed to save ships of interest: %w", err)
		}
		return errs, nil
	})
}

// seeds returns the vessel links of the ships-in-port dataset followed by
// those of the expected-arrivals dataset, without duplicates and truncated
// to the ship cap.
func (p *ShipsOfInterestPass) seeds() ([]Seed, error) {
	links := make([]model.Value, 0)
	for _, name := range []string{model.DatasetShipsInPort, model.DatasetExpectedArrivals} {
		ds, err := p.env.loadDataset(name)
		if err != nil {
			return nil, err
		}
		col, err := ds.Column(shipLinkColumn)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMissingPrerequisite, err)
		}
		links = append(links, col...)
	}

	seen := make(map[string]bool, len(links))
	seeds := make([]Seed, 0, len(links))
	for _, v := range links {
		u, ok := v.Get()
		if !ok || seen[u] {
			continue
		}
		seen[u] = true
		seeds = append(seeds, Seed{Label: u, URL: u})
	}

	if limit := p.env.config.MaxShips; limit > 0 && len(seeds) > limit {
		p.env.logger.Info("ship cap reached", "limit", limit, "skipped", len(seeds)-limit)
		seeds = seeds[:limit]
	}
	return seeds, nil
}

// crawl fetches one details page. A failed fetch becomes an error record.
func (p *ShipsOfInterestPass) crawl(ctx context.Context, seed Seed) (*crawler.Result[model.ShipOfInterest], error) {
	result := &crawler.Result[model.ShipOfInterest]{
		Records: make([]model.ShipOfInterest, 0, 1),
		Errors:  make([]model.ErrorRecord, 0),
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	p.env.logger.Info("fetching ship details", "url", seed.URL)
	page, err := p.env.fetcher.Fetch(ctx, seed.URL)
	if err == nil {
		err = page.Err()
	}
	result.Pages = 1
	if err == nil {
		var doc *crawler.Document
		doc, err = crawler.ParseDocument(page.Body, p.env.config.BaseURL)
		if err == nil {
			result.Records = append(result.Records, extractShip(doc, p.env.config.Selectors, seed.URL, p.env.collectedAt()))
			return result, nil
		}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, ctxErr
	}
	msg := crawler.ErrorMessage(err, shipSubject, seed.URL)
	p.env.logger.Error(msg)
	result.Errors = append(result.Errors, model.ErrorRecord{Message: msg, URL: seed.URL})
	return result, nil
}

// extractShip reads a vessel details page. Every field is optional.
//
// The particulars panel lists IMO, MMSI, call sign, flag, AIS type, gross
// tonnage, deadweight, length × beam, year built and status, in that order.
func extractShip(doc *crawler.Document, sel config.Selectors, shipURL string, collectedAt model.Value) model.ShipOfInterest {
	first := func(selector string) *goquery.Selection {
		return doc.Find(selector).First()
	}

	ship := model.ShipOfInterest{
		Name:         crawler.Text(first(sel.ShipName)),
		Type:         crawler.Text(first(sel.ShipType)),
		LastSignalAt: crawler.LastSignal(doc.LabelledText(sel.LastSignalLabel)),
		Area:         doc.LabelledText(sel.AreaLabel),
		ShipLink:     model.Text(shipURL),
		CollectedAt:  collectedAt,
	}

	position := first(sel.ShipPosition)
	if href, ok := crawler.Attr(position, "", "href").Get(); ok {
		ship.PositionLink = doc.Resolve(href)
	}
	ship.Latitude, ship.Longitude = crawler.PositionText(crawler.Text(position))

	panel := []*model.Value{
		&ship.IMO, &ship.MMSI, &ship.CallSign, &ship.Flag, &ship.AISType,
		&ship.GrossTonnage, &ship.Deadweight, &ship.LengthBeam, &ship.YearBuilt,
		&ship.Status,
	}
	first(sel.ShipPanelBox).Find(sel.ShipPanel).EachWithBreak(func(i int, b *goquery.Selection) bool {
		if i >= len(panel) {
			return false
		}
		*panel[i] = crawler.Text(b)
		return true
	})

	ship.Deadweight = crawler.StripUnit(ship.Deadweight, " t")
	ship.Length, ship.Beam = crawler.SplitLengthBeam(ship.LengthBeam)
	return ship
}
