package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/nao1215/marinecrawl/internal/config"
	"github.com/nao1215/marinecrawl/internal/crawler"
	"github.com/nao1215/marinecrawl/internal/dataset"
	"github.com/nao1215/marinecrawl/internal/model"
)

var (
	// ErrMissingPrerequisite is returned by a pass whose input file is
	// missing or unreadable. The pass is skipped; other passes still run.
	ErrMissingPrerequisite = errors.New("missing prerequisite")

	// ErrUnknownPass is returned when a pass name is not recognized.
	ErrUnknownPass = errors.New("unknown pass")
)

// Clock returns the current time. It stamps the DataColeta field.
type Clock func() time.Time

// PortLookup resolves a port of interest by name.
// *dataset.PortIndex implements it.
type PortLookup interface {
	Resolve(name string) (model.Port, bool)
}

// Env holds what every pass needs: where pages come from, where datasets go,
// and the crawl settings.
type Env struct {
	fetcher crawler.Fetcher
	store   *dataset.Store
	config  *config.Config
	clock   Clock
	runner  *SeedRunner
	logger  *slog.Logger
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithClock sets the clock used for DataColeta.
func WithClock(clock Clock) EnvOption {
	return func(e *Env) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithEnvLogger sets the logger shared by the passes.
func WithEnvLogger(logger *slog.Logger) EnvOption {
	return func(e *Env) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEnv creates the environment of a run.
func NewEnv(fetcher crawler.Fetcher, store *dataset.Store, cfg *config.Config, opts ...EnvOption) *Env {
	e := &Env{
		fetcher: fetcher,
		store:   store,
		config:  cfg,
		clock:   time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.runner = NewSeedRunner(cfg.Concurrency, WithRunnerLogger(e.logger))
	return e
}

// collectedAt returns the DataColeta value for a record extracted now.
func (e *Env) collectedAt() model.Value {
	return model.Text(e.clock().UTC().Format(model.CollectedAtLayout))
}

// paginatorOptions returns the paginator settings derived from the config,
// followed by extra.
func (e *Env) paginatorOptions(extra ...crawler.PaginatorOption) []crawler.PaginatorOption {
	opts := []crawler.PaginatorOption{
		crawler.WithSelectors(e.config.Selectors),
		crawler.WithBaseURL(e.config.BaseURL),
		crawler.WithMaxPages(e.config.MaxPages),
		crawler.WithPaginatorLogger(e.logger),
	}
	return append(opts, extra...)
}

// run executes body as the pass name and records its outcome in report.
// body fills the seed, page and record counts of res and returns the error
// records it produced.
func (e *Env) run(
	ctx context.Context,
	report *model.RunReport,
	name, datasetName string,
	body func(res *model.PassResult) ([]model.ErrorRecord, error),
) error {
	start := time.Now()
	res := model.PassResult{Pass: name, Dataset: datasetName}

	errs, err := body(&res)

	res.Duration = time.Since(start)
	res.Errors = len(errs)
	report.AddErrors(errs...)

	switch {
	case err == nil:
		res.Status = model.PassCompleted
	case errors.Is(err, ErrMissingPrerequisite):
		res.Status = model.PassSkipped
	case ctx.Err() != nil:
		res.Status = model.PassCancelled
		report.Cancelled = true
	default:
		res.Status = model.PassFailed
	}
	if err != nil {
		res.Message = err.Error()
	}
	report.AddPass(res)

	e.logger.Info("pass finished",
		"pass", name,
		"status", res.Status,
		"seeds", res.Seeds,
		"pages", res.Pages,
		"records", res.Records,
		"errors", res.Errors,
	)
	return err
}

// loadInterest reads the interest filter. Any failure is a missing
// prerequisite.
func (e *Env) loadInterest() (*dataset.InterestFilter, error) {
	filter, err := dataset.LoadInterestFilter(e.config.InterestFile)
	if err != nil {
		e.logger.Error("interest file unusable: it is maintained by the user and must have a Nome column",
			"path", absPath(e.config.InterestFile), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrMissingPrerequisite, err)
	}
	return filter, nil
}

// loadDataset reads a dataset written by an earlier pass. Any failure is a
// missing prerequisite.
func (e *Env) loadDataset(name string) (*model.Dataset, error) {
	ds, err := e.store.Load(name)
	if err != nil {
		e.logger.Error("dataset unusable: it is written by an earlier pass",
			"dataset", name, "path", absPath(e.store.Path(name)), "error", err)
		return nil, fmt.Errorf("%w: %w", ErrMissingPrerequisite, err)
	}
	return ds, nil
}

// portSeeds builds one seed per port of interest: the port's link chosen by
// link, followed by suffix. Ports missing from the ports dataset are logged
// and skipped.
func (e *Env) portSeeds(link func(model.Port) model.Value, suffix string) ([]Seed, error) {
	filter, err := e.loadInterest()
	if err != nil {
		return nil, err
	}
	ports, err := e.loadDataset(model.DatasetPorts)
	if err != nil {
		return nil, err
	}
	return resolvePortSeeds(filter.Names, dataset.NewPortIndex(ports), link, suffix, func(name string) {
		e.logger.Warn("port of interest not found in ports dataset",
			"port", name,
			"interest_file", absPath(filter.Path),
			"ports_file", absPath(e.store.Path(model.DatasetPorts)),
		)
	}), nil
}

// resolvePortSeeds resolves names against lookup in order. unmatched is
// called for every name without a port or without a link.
func resolvePortSeeds(names []string, lookup PortLookup, link func(model.Port) model.Value, suffix string, unmatched func(string)) []Seed {
	seeds := make([]Seed, 0, len(names))
	for _, name := range names {
		port, ok := lookup.Resolve(name)
		if !ok {
			unmatched(name)
			continue
		}
		u, ok := link(port).Get()
		if !ok || u == "" {
			unmatched(name)
			continue
		}
		seeds = append(seeds, Seed{Label: name, URL: u + suffix})
	}
	return seeds
}

// SaveErrors writes the error records of a run to the error dataset at path
// (snapshot and cumulative). It is written even when there are no errors.
func SaveErrors(store *dataset.Store, path string, report *model.RunReport) error {
	ds := model.NewDataset(model.DatasetErrors, model.ErrorHeader, report.Errors)
	if err := store.SaveFile(path, ds); err != nil {
		return fmt.Errorf("failed to save error dataset: %w", err)
	}
	return nil
}

// absPath returns the absolute form of path for messages.
func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
