package liquid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func c(layers ...any) Container {
	var out Container
	for i := 0; i < len(layers); i += 2 {
		out = append(out, Layer{Color: Color(layers[i].(string)), Amount: toFloat(layers[i+1])})
	}
	return out
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	}
	panic("bad amount")
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name       string
		capacity   float64
		containers []Container
		wantErr    bool
	}{
		{"valid", 4, []Container{c("R", 2, "B", 2), nil}, false},
		{"all empty", 4, []Container{nil, nil}, false},
		{"zero capacity", 0, []Container{nil}, true},
		{"negative capacity", -1, []Container{nil}, true},
		{"no containers", 4, nil, true},
		{"overfull", 4, []Container{c("R", 3, "B", 2)}, true},
		{"zero amount", 4, []Container{c("R", 0)}, true},
		{"negative amount", 4, []Container{c("R", -1)}, true},
		{"adjacent duplicate", 4, []Container{c("R", 1, "R", 1)}, true},
		{"bad color", 4, []Container{c("R|", 1)}, true},
		{"empty color", 4, []Container{c("", 1)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.capacity, tt.containers)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedState)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewCopiesInput(t *testing.T) {
	in := []Container{c("R", 2)}
	s, err := New(4, in)
	require.NoError(t, err)

	in[0][0].Amount = 3
	assert.Equal(t, 2.0, s.Container(0)[0].Amount)

	out := s.Container(0)
	out[0].Color = "B"
	assert.Equal(t, Color("R"), s.Container(0)[0].Color)
}

func TestPour(t *testing.T) {
	t.Run("whole top layer into empty", func(t *testing.T) {
		s := MustNew(4, c("R", 2, "B", 2), nil)
		next, amount, err := s.Pour(0, 1)
		require.NoError(t, err)
		assert.Equal(t, 2.0, amount)
		assert.Equal(t, c("R", 2), next.Container(0))
		assert.Equal(t, c("B", 2), next.Container(1))
	})

	t.Run("partial pour leaves residue", func(t *testing.T) {
		s := MustNew(4, c("R", 1, "B", 3), c("G", 2))
		next, amount, err := s.Pour(0, 1)
		require.NoError(t, err)
		assert.Equal(t, 2.0, amount)
		assert.Equal(t, c("R", 1, "B", 1), next.Container(0))
		assert.Equal(t, c("G", 2, "B", 2), next.Container(1))
	})

	t.Run("coalesces onto same color", func(t *testing.T) {
		s := MustNew(4, c("R", 2, "B", 2), c("B", 1))
		next, amount, err := s.Pour(0, 1)
		require.NoError(t, err)
		assert.Equal(t, 2.0, amount)
		assert.Equal(t, c("R", 2), next.Container(0))
		assert.Equal(t, c("B", 3), next.Container(1))
	})

	t.Run("draining exposes the layer beneath", func(t *testing.T) {
		s := MustNew(3, c("R", 1, "G", 0.5), nil)
		next, _, err := s.Pour(0, 1)
		require.NoError(t, err)
		top, ok := next.Container(0).Top()
		require.True(t, ok)
		assert.Equal(t, Color("R"), top.Color)
	})

	t.Run("does not mutate the receiver", func(t *testing.T) {
		s := MustNew(4, c("R", 2, "B", 2), c("B", 1))
		before := s.Key()
		_, _, err := s.Pour(0, 1)
		require.NoError(t, err)
		assert.Equal(t, before, s.Key())
	})
}

func TestPourInvalid(t *testing.T) {
	s := MustNew(4, c("R", 4), nil, c("B", 4))
	tests := []struct {
		name     string
		from, to int
	}{
		{"same container", 0, 0},
		{"empty source", 1, 0},
		{"full destination", 0, 2},
		{"out of range", 0, 3},
		{"negative index", -1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := s.Pour(tt.from, tt.to)
			assert.ErrorIs(t, err, ErrInvalidMove)
		})
	}
}

func TestPad(t *testing.T) {
	s := MustNew(4, c("R", 4))
	padded := s.Pad(3)
	assert.Equal(t, 3, padded.Len())
	assert.Equal(t, 1, s.Len())
	assert.Empty(t, padded.Container(2))
	assert.Equal(t, 3, padded.Pad(1).Len())
}

func TestApply(t *testing.T) {
	s := MustNew(4, c("R", 2, "B", 2), nil)

	final, err := s.Apply([]Move{{From: 0, To: 1, Amount: 2}})
	require.NoError(t, err)
	assert.True(t, final.IsGoal(GoalStrict))

	_, err = s.Apply([]Move{{From: 0, To: 1, Amount: 1}})
	assert.ErrorIs(t, err, ErrInvalidMove)

	_, err = s.Apply([]Move{{From: 1, To: 0, Amount: 2}})
	assert.ErrorIs(t, err, ErrInvalidMove)
}

func TestMoveString(t *testing.T) {
	assert.Equal(t, "Pour 2.5 units from tube 1 to tube 3", Move{From: 0, To: 2, Amount: 2.5}.String())
}
