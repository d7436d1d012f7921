package runner

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"liquidsort/config"
	"liquidsort/liquid"
	"liquidsort/search"
)

// Comparison holds the same puzzle solved by both strategies.
type Comparison struct {
	UniformCost     liquid.Outcome
	HeuristicGuided liquid.Outcome
}

// Consistent reports whether both strategies agree on the outcome and, when
// solved, on the optimal cost.
func (c Comparison) Consistent() bool {
	u, h := c.UniformCost, c.HeuristicGuided
	if u.Status == search.Aborted || h.Status == search.Aborted {
		return false
	}
	if u.Status != h.Status {
		return false
	}
	return u.Status != search.Solved || math.Abs(u.Cost-h.Cost) <= 1e-9
}

// Compare runs uniform-cost and heuristic-guided search concurrently.
func (r *Runner) Compare(ctx context.Context, start liquid.State, cfg config.SearchConfig) (Comparison, error) {
	var cmp Comparison
	g, ctx := errgroup.WithContext(ctx)

	ucs := cfg
	ucs.Strategy = liquid.UniformCost.String()
	g.Go(func() error {
		out, err := r.Run(ctx, start, ucs)
		cmp.UniformCost = out
		return err
	})

	astar := cfg
	astar.Strategy = liquid.HeuristicGuided.String()
	g.Go(func() error {
		out, err := r.Run(ctx, start, astar)
		cmp.HeuristicGuided = out
		return err
	})

	if err := g.Wait(); err != nil {
		return Comparison{}, err
	}
	return cmp, nil
}
