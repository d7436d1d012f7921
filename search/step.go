package search

import "slices"

// State is anything the finder can deduplicate.
type State interface {
	Key() string
}

// Successor is one outgoing edge produced by an expander.
type Successor[S State, O any] struct {
	State   S
	Operate O
	Cost    float64
}

type StepArray[S State, O any] []*Step[S, O]

// Step is a node of the search tree. Parents are arena indices, not pointers.
type Step[S State, O any] struct {
	State   S
	Operate O

	Cost     float64 // cumulative cost from the start
	Priority float64

	key    string
	parent int
}

const noParent = -1

// tree owns every step created during one Find call.
type tree[S State, O any] struct {
	steps []Step[S, O]
}

func (t *tree[S, O]) add(step Step[S, O]) int {
	t.steps = append(t.steps, step)
	return len(t.steps) - 1
}

func (t *tree[S, O]) get(i int) *Step[S, O] { return &t.steps[i] }

// backtrack returns the steps from the root to i, root first.
func (t *tree[S, O]) backtrack(i int) (steps StepArray[S, O]) {
	for ; i != noParent; i = t.steps[i].parent {
		step := t.steps[i]
		steps = append(steps, &step)
	}
	slices.Reverse(steps)
	return steps
}

// Operates returns the operations along the path, skipping the root.
func (a StepArray[S, O]) Operates() []O {
	if len(a) == 0 {
		return nil
	}
	ops := make([]O, 0, len(a)-1)
	for _, s := range a[1:] {
		ops = append(ops, s.Operate)
	}
	return ops
}

// States returns every state along the path, root included.
func (a StepArray[S, O]) States() []S {
	states := make([]S, len(a))
	for i, s := range a {
		states[i] = s.State
	}
	return states
}

func (a StepArray[S, O]) Last() *Step[S, O] {
	if len(a) == 0 {
		return nil
	}
	return a[len(a)-1]
}
