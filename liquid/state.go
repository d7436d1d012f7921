// Package liquid models the liquid-sort puzzle and binds it to the search
// engine.
//
// A State holds a fixed set of containers sharing one capacity. Each
// container is a bottom-to-top stack of coloured layers in which adjacent
// layers never share a colour. States are immutable: Pour returns a new
// State and never touches its receiver, so states can be shared freely
// between search nodes.
package liquid

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"slices"
)

// Epsilon is the tolerance below which an amount counts as zero.
const Epsilon = 1e-9

var (
	ErrInvalidMove    = errors.New("invalid move")
	ErrMalformedState = errors.New("malformed state")
)

var colorPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

type Color string

func (c Color) Valid() bool { return colorPattern.MatchString(string(c)) }

type Layer struct {
	Color  Color
	Amount float64
}

// Container lists layers bottom to top.
type Container []Layer

func (c Container) Fill() (total float64) {
	for _, l := range c {
		total += l.Amount
	}
	return total
}

func (c Container) Top() (Layer, bool) {
	if len(c) == 0 {
		return Layer{}, false
	}
	return c[len(c)-1], true
}

type State struct {
	capacity   float64
	containers []Container
}

// New validates and copies the given containers into a State.
func New(capacity float64, containers []Container) (State, error) {
	s := State{capacity: capacity, containers: make([]Container, len(containers))}
	for i, c := range containers {
		s.containers[i] = slices.Clone(c)
	}
	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// MustNew is New for fixtures that are known to be valid.
func MustNew(capacity float64, containers ...Container) State {
	s, err := New(capacity, containers)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks every structural invariant of the state.
func (s State) Validate() error {
	if !(s.capacity > 0) || math.IsInf(s.capacity, 0) {
		return fmt.Errorf("%w: capacity must be a positive number, got %v", ErrMalformedState, s.capacity)
	}
	if len(s.containers) == 0 {
		return fmt.Errorf("%w: no containers", ErrMalformedState)
	}
	for i, c := range s.containers {
		for j, l := range c {
			if !l.Color.Valid() {
				return fmt.Errorf("%w: container %d layer %d: bad color %q", ErrMalformedState, i+1, j+1, l.Color)
			}
			if !(l.Amount > Epsilon) || math.IsInf(l.Amount, 0) {
				return fmt.Errorf("%w: container %d layer %d: amount must be positive, got %v", ErrMalformedState, i+1, j+1, l.Amount)
			}
			if j > 0 && c[j-1].Color == l.Color {
				return fmt.Errorf("%w: container %d layers %d and %d share color %s", ErrMalformedState, i+1, j, j+1, l.Color)
			}
		}
		if fill := c.Fill(); fill > s.capacity+Epsilon {
			return fmt.Errorf("%w: container %d holds %v, capacity is %v", ErrMalformedState, i+1, fill, s.capacity)
		}
	}
	return nil
}

func (s State) Capacity() float64 { return s.capacity }

func (s State) Len() int { return len(s.containers) }

// Container returns a copy of container i.
func (s State) Container(i int) Container { return slices.Clone(s.containers[i]) }

// Containers returns a deep copy of all containers.
func (s State) Containers() []Container {
	out := make([]Container, len(s.containers))
	for i, c := range s.containers {
		out[i] = slices.Clone(c)
	}
	return out
}

func (s State) Free(i int) float64 { return s.capacity - s.containers[i].Fill() }

// Total is the volume of liquid across all containers.
func (s State) Total() (total float64) {
	for _, c := range s.containers {
		total += c.Fill()
	}
	return total
}

// Pad returns a copy of s with empty containers appended up to n.
func (s State) Pad(n int) State {
	if n <= len(s.containers) {
		return s
	}
	containers := make([]Container, n)
	copy(containers, s.containers)
	return State{capacity: s.capacity, containers: containers}
}

// Pour moves as much of the source's top layer as fits into the
// destination and returns the resulting state and the amount moved.
func (s State) Pour(from, to int) (State, float64, error) {
	if from < 0 || from >= len(s.containers) || to < 0 || to >= len(s.containers) {
		return State{}, 0, fmt.Errorf("%w: container index out of range (%d -> %d)", ErrInvalidMove, from+1, to+1)
	}
	if from == to {
		return State{}, 0, fmt.Errorf("%w: source and destination are both %d", ErrInvalidMove, from+1)
	}
	top, ok := s.containers[from].Top()
	if !ok {
		return State{}, 0, fmt.Errorf("%w: container %d is empty", ErrInvalidMove, from+1)
	}
	free := s.Free(to)
	if free <= Epsilon {
		return State{}, 0, fmt.Errorf("%w: container %d is full", ErrInvalidMove, to+1)
	}

	amount := min(top.Amount, free)

	// Only the two touched containers are copied; the rest stay shared.
	next := State{capacity: s.capacity, containers: slices.Clone(s.containers)}

	src := slices.Clone(s.containers[from])
	if rest := top.Amount - amount; rest > Epsilon {
		src[len(src)-1].Amount = rest
	} else {
		src = src[:len(src)-1]
	}
	next.containers[from] = src

	dst := slices.Clone(s.containers[to])
	if n := len(dst); n > 0 && dst[n-1].Color == top.Color {
		dst[n-1].Amount += amount
	} else {
		dst = append(dst, Layer{Color: top.Color, Amount: amount})
	}
	next.containers[to] = dst

	return next, amount, nil
}
