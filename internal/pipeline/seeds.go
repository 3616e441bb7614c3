package pipeline

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/marinecrawl/internal/crawler"
	"github.com/nao1215/marinecrawl/internal/model"
)

// Seed is the first URL of one crawl unit: a port's list page or a vessel's
// details page.
type Seed struct {
	// Label names the seed in logs and tags its records (the port name).
	Label string

	// URL is the first page to fetch.
	URL string
}

// SeedRunner crawls the seeds of a pass, up to concurrency at a time.
//
// Every seed writes its own result slot, so no lock is held while pages are
// fetched. Results are returned in seed order once every seed is done.
type SeedRunner struct {
	concurrency int
	logger      *slog.Logger
}

// RunnerOption configures a SeedRunner.
type RunnerOption func(*SeedRunner)

// WithRunnerLogger sets the logger of the runner.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *SeedRunner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewSeedRunner creates a runner. A concurrency below 1 runs seeds one at a
// time.
func NewSeedRunner(concurrency int, opts ...RunnerOption) *SeedRunner {
	if concurrency < 1 {
		concurrency = 1
	}
	r := &SeedRunner{concurrency: concurrency, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Concurrency returns the number of seeds crawled at the same time.
func (r *SeedRunner) Concurrency() int {
	return r.concurrency
}

// RunSeeds crawls every seed with crawl and returns the results in seed order.
//
// crawl must only fail when ctx is done; fetch failures belong in the
// result's error records. On cancellation the slots of seeds that never ran
// are nil, and the context error is returned.
func RunSeeds[T any](
	ctx context.Context,
	r *SeedRunner,
	seeds []Seed,
	crawl func(ctx context.Context, seed Seed) (*crawler.Result[T], error),
) ([]*crawler.Result[T], error) {
	results := make([]*crawler.Result[T], len(seeds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, seed := range seeds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r.logger.Info("crawling seed",
				"seed", seed.Label,
				"index", i+1,
				"total", len(seeds),
			)
			res, err := crawl(gctx, seed)
			results[i] = res
			return err
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return results, err
}

// mergeResults concatenates per-seed results in seed order.
func mergeResults[T any](results []*crawler.Result[T]) (records []T, errs []model.ErrorRecord, pages int) {
	records = make([]T, 0)
	errs = make([]model.ErrorRecord, 0)
	for _, res := range results {
		if res == nil {
			continue
		}
		records = append(records, res.Records...)
		errs = append(errs, res.Errors...)
		pages += res.Pages
	}
	return records, errs, pages
}
