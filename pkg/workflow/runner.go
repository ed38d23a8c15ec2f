// Package workflow runs multi-step background jobs. Steps execute
// sequentially; each step retries independently with exponential backoff
// before failing the whole run, so a step body must be idempotent: commit
// its output only inside its own step and tolerate re-running from a clean
// slate.
package workflow

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
)

type Runner struct {
	maxTries    uint
	maxInterval time.Duration
}

func NewRunner(maxTries uint) *Runner {
	if maxTries < 1 {
		maxTries = 1
	}
	return &Runner{
		maxTries:    maxTries,
		maxInterval: 10 * time.Second,
	}
}

// Step runs fn, retrying on error until the attempt budget is spent.
func (r *Runner) Step(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	operation := func() (struct{}, error) {
		return struct{}{}, fn(ctx)
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = r.maxInterval

	_, err := backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(r.maxTries))
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("step", name).Msg("workflow step failed")
		return err
	}

	zerolog.Ctx(ctx).Debug().Str("step", name).Msg("workflow step completed")
	return nil
}

// StepValue is Step for bodies that produce a value consumed by later steps.
func StepValue[T any](ctx context.Context, r *Runner, name string, fn func(ctx context.Context) (T, error)) (T, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxInterval = r.maxInterval

	value, err := backoff.Retry(ctx, func() (T, error) { return fn(ctx) }, backoff.WithBackOff(bo), backoff.WithMaxTries(r.maxTries))
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("step", name).Msg("workflow step failed")
		return value, err
	}

	zerolog.Ctx(ctx).Debug().Str("step", name).Msg("workflow step completed")
	return value, nil
}
