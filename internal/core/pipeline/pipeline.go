// Package pipeline drives a build through its six ordered stages. The
// sequence is strict: stages cannot be skipped, repeated or revisited, and
// a failing stage terminates the whole attempt. A fresh build always starts
// over from the first stage; skipping unchanged work is the container
// engine's layer cache's job, not ours.
package pipeline

import (
	"context"
	"fmt"

	"github.com/melih/slipway/internal/core/domain"
)

// Sequence is the canonical stage order.
var Sequence = []domain.Stage{
	domain.StageRuntimeSelected,
	domain.StageDirectorySet,
	domain.StageManifestStaged,
	domain.StageDependenciesInstalled,
	domain.StageApplicationStaged,
	domain.StageEntrypointFixed,
}

// transition validates a single stage move. Only the immediate successor
// is reachable; everything else is an ordering bug in the caller.
func transition(from, to domain.Stage) error {
	if to != from+1 {
		return fmt.Errorf("disallowed stage transition: %s -> %s", from, to)
	}
	if int(to) >= len(Sequence) {
		return fmt.Errorf("no stage after %s", from)
	}
	return nil
}

// StepFunc performs the work of one stage.
type StepFunc func(ctx context.Context) error

type step struct {
	stage domain.Stage
	run   StepFunc
}

// Runner executes registered steps in canonical order.
type Runner struct {
	steps   []step
	advance func(domain.Stage)
}

// NewRunner returns an empty runner. advance is called after each stage's
// work starts, letting the caller record progress; it may be nil.
func NewRunner(advance func(domain.Stage)) *Runner {
	return &Runner{advance: advance}
}

// Add registers the step for the next stage in the sequence. Registering
// out of order is rejected so a mis-wired pipeline fails before running.
func (r *Runner) Add(stage domain.Stage, fn StepFunc) error {
	if len(r.steps) >= len(Sequence) {
		return fmt.Errorf("pipeline already complete, cannot add %s", stage)
	}
	if len(r.steps) == 0 {
		if stage != Sequence[0] {
			return fmt.Errorf("expected stage %s, got %s", Sequence[0], stage)
		}
	} else if err := transition(r.steps[len(r.steps)-1].stage, stage); err != nil {
		return err
	}
	r.steps = append(r.steps, step{stage: stage, run: fn})
	return nil
}

// Run executes every registered stage in order, aborting on the first
// failure. All six stages must be registered; a partial pipeline is a
// wiring error, not a shorter build.
func (r *Runner) Run(ctx context.Context) error {
	if len(r.steps) != len(Sequence) {
		return fmt.Errorf("pipeline incomplete: %d of %d stages registered", len(r.steps), len(Sequence))
	}

	for _, s := range r.steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("build cancelled before stage %s: %w", s.stage, err)
		}
		if r.advance != nil {
			r.advance(s.stage)
		}
		if err := s.run(ctx); err != nil {
			return &StageError{Stage: s.stage, Err: err}
		}
	}
	return nil
}

// StageError reports which stage aborted the build.
type StageError struct {
	Stage domain.Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
