package liquid

import (
	"context"
	"fmt"
	"strings"

	"liquidsort/search"
)

type Strategy int

const (
	UniformCost Strategy = iota
	HeuristicGuided
)

func (s Strategy) String() string {
	switch s {
	case UniformCost:
		return "dijkstra"
	case HeuristicGuided:
		return "astar"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dijkstra", "ucs", "uniform":
		return UniformCost, nil
	case "astar", "a*", "heuristic":
		return HeuristicGuided, nil
	}
	return 0, fmt.Errorf("unknown strategy %q", s)
}

type Options struct {
	Strategy Strategy
	// Heuristic is used by HeuristicGuided only. Nil means Impurity.
	Heuristic Heuristic
	Goal      GoalRule
	// UnorderedContainers deduplicates states that differ only by slot order.
	UnorderedContainers bool
	Budget              search.Budget
}

type Outcome struct {
	Status search.Status
	Cost   float64
	Moves  []Move
	States []State // start to goal, only when solved
	Final  State

	NodesExpanded int
	Reason        error
}

func (o Outcome) Solved() bool { return o.Status == search.Solved }

// Solve searches for a cheapest sequence of pours from start to a goal
// state. A malformed start is reported as an error before searching;
// every other result, including no solution, is an Outcome.
func Solve(ctx context.Context, start State, opts Options) (Outcome, error) {
	if err := start.Validate(); err != nil {
		return Outcome{}, err
	}

	finder := search.NewFinder[State, Move](State.Successors, func(s State) bool { return s.IsGoal(opts.Goal) }).
		WithBudget(opts.Budget)
	if opts.UnorderedContainers {
		finder.WithKey(State.UnorderedKey)
	}
	if opts.Strategy == HeuristicGuided {
		h := opts.Heuristic
		if h == nil {
			h = Impurity
		}
		finder.WithHeuristic(h)
	}

	res := finder.Find(ctx, start)
	out := Outcome{
		Status:        res.Status,
		NodesExpanded: res.NodesExpanded,
		Reason:        res.Reason,
	}
	if res.Status == search.Solved {
		out.Cost = res.Cost()
		out.Moves = res.Steps.Operates()
		out.States = res.Steps.States()
		out.Final = res.Steps.Last().State
	}
	return out, nil
}
