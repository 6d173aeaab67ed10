// Package sweep runs batch feasibility evaluations: several (train, track)
// cases evaluated independently and in parallel. Each case owns its own
// simulator and state; nothing mutable is shared between runs, so results
// are identical to running the cases one by one.
package sweep

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gradeworks/feas-engine/internal/engine"
	"github.com/gradeworks/feas-engine/internal/track"
	"github.com/gradeworks/feas-engine/internal/train"
)

// Case is one (train, track) pair to evaluate.
type Case struct {
	Name  string          `json:"name" yaml:"name"`
	Train train.Config    `json:"train" yaml:"train"`
	Track []track.Segment `json:"track" yaml:"track"`
}

// Outcome pairs a case with its result. Err is set when the case failed
// validation or hit an internal error; Result is only meaningful when Err is
// nil.
type Outcome struct {
	Name   string
	Result engine.Result
	Err    error
}

// Run evaluates all cases with at most workers running concurrently
// (0 means GOMAXPROCS). The returned slice is indexed like cases, so output
// order is deterministic regardless of scheduling. Run itself only errors
// when ctx is cancelled; per-case failures land in the matching Outcome.
func Run(ctx context.Context, cases []Case, opts engine.Options, workers int) ([]Outcome, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]Outcome, len(cases))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, c := range cases {
		i, c := i, c
		g.Go(func() error {
			outcomes[i] = runCase(ctx, c, opts)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func runCase(ctx context.Context, c Case, opts engine.Options) Outcome {
	out := Outcome{Name: c.Name}

	profile, err := track.NewProfile(c.Track)
	if err != nil {
		out.Err = err
		return out
	}
	sim, err := engine.New(c.Train, profile, opts)
	if err != nil {
		out.Err = err
		return out
	}
	out.Result, out.Err = sim.Run(ctx)
	return out
}
