package liquid

import (
	"fmt"
	"iter"
	"strconv"

	"liquidsort/search"
)

// Move is one pour. Indices are zero-based.
type Move struct {
	From   int
	To     int
	Amount float64
}

func (m Move) String() string {
	return fmt.Sprintf("Pour %s units from tube %d to tube %d",
		strconv.FormatFloat(m.Amount, 'f', -1, 64), m.From+1, m.To+1)
}

// Successors yields every legal pour from s, source-major. The cost of a
// move is the amount of liquid it displaces.
func (s State) Successors() iter.Seq[search.Successor[State, Move]] {
	return func(yield func(search.Successor[State, Move]) bool) {
		for from, src := range s.containers {
			if len(src) == 0 {
				continue
			}
			for to := range s.containers {
				if to == from || s.Free(to) <= Epsilon {
					continue
				}
				next, amount, err := s.Pour(from, to)
				if err != nil {
					panic(fmt.Sprintf("liquid: generated move %d -> %d: %v", from+1, to+1, err))
				}
				if amount <= Epsilon {
					continue
				}
				if !yield(search.Successor[State, Move]{
					State:   next,
					Operate: Move{From: from, To: to, Amount: amount},
					Cost:    amount,
				}) {
					return
				}
			}
		}
	}
}

// Apply replays moves from s, checking that each pour moves the recorded
// amount.
func (s State) Apply(moves []Move) (State, error) {
	for i, m := range moves {
		next, amount, err := s.Pour(m.From, m.To)
		if err != nil {
			return State{}, fmt.Errorf("move %d: %w", i+1, err)
		}
		if diff := amount - m.Amount; diff > Epsilon || diff < -Epsilon {
			return State{}, fmt.Errorf("move %d: %w: poured %v, expected %v", i+1, ErrInvalidMove, amount, m.Amount)
		}
		s = next
	}
	return s, nil
}
