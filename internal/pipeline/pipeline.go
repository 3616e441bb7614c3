package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/marinecrawl/internal/model"
)

// Pass is one crawl pass of a run.
// Passes are executed in sequence; each one appends its PassResult and its
// error records to the run report.
type Pass interface {
	// Do executes the pass.
	// A returned error means the pass produced no dataset; its result is
	// still recorded in the report with a skipped, failed or cancelled status.
	Do(ctx context.Context, report *model.RunReport) error

	// Name returns the pass name for logging and selection.
	Name() string
}

// Pipeline runs passes in the order they were added.
type Pipeline struct {
	passes []Pass

	logger *slog.Logger

	// continueOnError keeps running later passes after one fails.
	// A pass whose prerequisite is missing never affects the others, so
	// this is the default.
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError sets whether later passes run after one fails.
// Cancellation always stops the pipeline.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		passes:          make([]Pass, 0),
		continueOnError: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddPass appends a pass to the pipeline.
func (p *Pipeline) AddPass(pass Pass) {
	p.passes = append(p.passes, pass)
}

// AddPasses appends multiple passes to the pipeline.
func (p *Pipeline) AddPasses(passes ...Pass) {
	p.passes = append(p.passes, passes...)
}

// Execute runs every pass in sequence and stamps report.FinishedAt.
//
// The context is checked before each pass. A cancelled run marks the report
// and returns the context error. Otherwise a failing pass is logged and,
// unless continueOnError is false, the next pass runs.
func (p *Pipeline) Execute(ctx context.Context, report *model.RunReport) error {
	defer func() {
		report.FinishedAt = time.Now().UTC()
	}()

	for _, pass := range p.passes {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled", "pass", pass.Name(), "reason", err)
			report.Cancelled = true
			return err
		}

		p.logger.Info("executing pass", "pass", pass.Name())
		if err := pass.Do(ctx, report); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				p.logger.Warn("pass cancelled", "pass", pass.Name(), "reason", ctxErr)
				report.Cancelled = true
				return ctxErr
			}
			p.logger.Error("pass failed", "pass", pass.Name(), "error", err)
			if !p.continueOnError {
				return err
			}
			continue
		}
		p.logger.Debug("pass completed", "pass", pass.Name())
	}
	return nil
}

// PassCount returns the number of passes in the pipeline.
func (p *Pipeline) PassCount() int {
	return len(p.passes)
}

// PassNames returns the names of all passes in execution order.
func (p *Pipeline) PassNames() []string {
	names := make([]string, len(p.passes))
	for i, pass := range p.passes {
		names[i] = pass.Name()
	}
	return names
}
