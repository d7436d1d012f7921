// Package search implements a generic best-first search over keyed states.
//
// A Finder runs uniform-cost search by default and A* once a heuristic is
// attached. Duplicate states are suppressed through a cost ledger with lazy
// deletion of stale frontier entries. All search state lives inside a single
// Find call, so a Finder may be reused and independent searches may run
// concurrently.
package search

import (
	"context"
	"errors"
	"iter"
	"time"
)

var (
	ErrNodeBudget = errors.New("node budget exceeded")
	ErrTimeout    = errors.New("time budget exceeded")
)

type Status int

const (
	Solved Status = iota
	Exhausted
	Aborted
)

func (s Status) String() string {
	switch s {
	case Solved:
		return "solved"
	case Exhausted:
		return "exhausted"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Budget bounds a search. Zero values mean unbounded.
type Budget struct {
	MaxNodes int
	Timeout  time.Duration
}

type Result[S State, O any] struct {
	Status Status
	Steps  StepArray[S, O] // root first; empty unless Solved

	NodesExpanded int
	Reason        error // set when Aborted
}

// Cost is the cumulative cost of the goal step, or 0 if unsolved.
func (r *Result[S, O]) Cost() float64 {
	if last := r.Steps.Last(); last != nil {
		return last.Cost
	}
	return 0
}

type Expander[S State, O any] func(S) iter.Seq[Successor[S, O]]

func NewFinder[S State, O any](expand Expander[S, O], done func(S) bool) *Finder[S, O] {
	return &Finder[S, O]{
		expand: expand,
		done:   done,
		keyOf:  func(s S) string { return s.Key() },
	}
}

type Finder[S State, O any] struct {
	expand    Expander[S, O]
	done      func(S) bool
	keyOf     func(S) string
	heuristic func(S) float64

	budget Budget
}

// WithHeuristic switches the finder to A*: priority = cost + h(state).
func (f *Finder[S, O]) WithHeuristic(h func(S) float64) *Finder[S, O] {
	f.heuristic = h
	return f
}

// WithKey overrides the deduplication key, e.g. to ignore slot order.
func (f *Finder[S, O]) WithKey(key func(S) string) *Finder[S, O] {
	if key != nil {
		f.keyOf = key
	}
	return f
}

func (f *Finder[S, O]) WithBudget(b Budget) *Finder[S, O] {
	f.budget = b
	return f
}

func (f *Finder[S, O]) priority(s S, cost float64) float64 {
	if f.heuristic == nil {
		return cost
	}
	return cost + f.heuristic(s)
}

// Find searches from start until a goal is dequeued, the frontier runs dry
// or the budget is spent.
func (f *Finder[S, O]) Find(ctx context.Context, start S) *Result[S, O] {
	var (
		t       tree[S, O]
		costs   = make(ledger)
		open    frontier
		result  = &Result[S, O]{Status: Exhausted}
		started = time.Now()
	)

	key := f.keyOf(start)
	root := t.add(Step[S, O]{State: start, key: key, parent: noParent, Priority: f.priority(start, 0)})
	costs[key] = 0
	open.push(root, t.get(root).Priority)

	for open.Len() > 0 {
		if err := f.exceeded(ctx, started, result.NodesExpanded); err != nil {
			result.Status, result.Reason = Aborted, err
			return result
		}

		i := open.pop()
		result.NodesExpanded++

		cur := t.get(i)
		if costs.stale(cur.key, cur.Cost) {
			continue
		}
		if f.done(cur.State) {
			result.Status = Solved
			result.Steps = t.backtrack(i)
			return result
		}

		parentCost := cur.Cost
		for next := range f.expand(cur.State) {
			cost := parentCost + next.Cost
			nextKey := f.keyOf(next.State)
			if !costs.improve(nextKey, cost) {
				continue
			}
			j := t.add(Step[S, O]{
				State:    next.State,
				Operate:  next.Operate,
				Cost:     cost,
				Priority: f.priority(next.State, cost),
				key:      nextKey,
				parent:   i,
			})
			open.push(j, t.get(j).Priority)
		}
	}
	return result
}

func (f *Finder[S, O]) exceeded(ctx context.Context, started time.Time, expanded int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.budget.MaxNodes > 0 && expanded >= f.budget.MaxNodes {
		return ErrNodeBudget
	}
	if f.budget.Timeout > 0 && time.Since(started) > f.budget.Timeout {
		return ErrTimeout
	}
	return nil
}
