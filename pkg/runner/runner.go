package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/turbocop/pkg/lint"
)

// Runner orchestrates multi-file linting using a lint.Pipeline.
type Runner struct {
	// Pipeline handles per-file processing.
	Pipeline *lint.Pipeline
}

// New creates a new Runner with the given pipeline.
func New(pipeline *lint.Pipeline) *Runner {
	return &Runner{Pipeline: pipeline}
}

// Run discovers files under opts.Paths and lints them concurrently.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	targets, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	return r.RunTargets(ctx, targets, opts)
}

// RunTargets lints the given files with a pool of opts.Jobs workers.
// Outcomes are collected per file and merged in target order, so the
// result does not depend on scheduling.
//
// With FailFast, the first file reaching FailLevel stops new files from
// being scheduled; files already started complete.
func (r *Runner) RunTargets(ctx context.Context, targets []Target, opts Options) (*Result, error) {
	result := &Result{
		Files: make([]FileOutcome, 0, len(targets)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(targets)

	if len(targets) == 0 {
		return result, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(targets))

	pipelineOpts := lint.PipelineOptions{Lint: opts.Lint, Cache: opts.Cache}
	outcomes := make([]*FileOutcome, len(targets))
	var stop atomic.Bool

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, target := range targets {
		if stop.Load() || gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if stop.Load() {
				return nil
			}
			pr, err := r.Pipeline.ProcessFile(gctx, target.Path, opts.Config, pipelineOpts)
			if err != nil {
				return fmt.Errorf("%s: %w", target.Display, err)
			}
			relabel(pr, target.Display)
			outcomes[i] = &FileOutcome{Path: target.Display, Result: pr}

			if opts.FailFast && pr.FileResult != nil && lint.AnyAtLeast(pr.Offenses, opts.FailLevel) {
				stop.Store(true)
			}
			return nil
		})
	}

	waitErr := g.Wait()

	for _, outcome := range outcomes {
		if outcome == nil {
			result.Stats.FilesSkipped++
			continue
		}
		result.accumulate(*outcome)
	}
	lint.SortOffenses(result.Offenses)
	result.Stopped = stop.Load()

	if waitErr != nil {
		return result, fmt.Errorf("run cancelled: %w", waitErr)
	}
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}
	return result, nil
}

// RunContent lints in-memory content under a display path, as for --stdin.
func (r *Runner) RunContent(ctx context.Context, displayPath string, content []byte, opts Options) (*Result, error) {
	pr, err := r.Pipeline.ProcessContent(ctx, displayPath, content, opts.Config, lint.PipelineOptions{Lint: opts.Lint})
	if err != nil {
		return nil, err
	}

	result := &Result{Stats: newStats()}
	result.Stats.FilesDiscovered = 1
	result.accumulate(FileOutcome{Path: displayPath, Result: pr})
	lint.SortOffenses(result.Offenses)
	return result, nil
}

// relabel replaces the absolute path used for processing with the display
// path.
func relabel(pr *lint.PipelineResult, display string) {
	pr.Path = display
	if pr.FileResult == nil {
		return
	}
	pr.FileResult.Path = display
	for i := range pr.Offenses {
		pr.Offenses[i].Path = display
	}
}
