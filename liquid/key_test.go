package liquid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	s := MustNew(4, c("R", 2, "B", 1.5), nil, c("G", 4))
	assert.Equal(t, "R:2000000,B:1500000,||G:4000000,", s.Key())
}

func TestKeyAbsorbsFloatNoise(t *testing.T) {
	a := MustNew(1, c("R", 0.1+0.2))
	b := MustNew(1, c("R", 0.3))
	assert.Equal(t, a.Key(), b.Key())
}

func TestKeyLargeAmounts(t *testing.T) {
	a := MustNew(3e13, c("R", 1e13))
	b := MustNew(3e13, c("R", 2e13))
	assert.NotEqual(t, a.Key(), b.Key())
	assert.Equal(t, "R:10000000000000000000,", a.Key())
}

func TestKeyDistinguishesStates(t *testing.T) {
	states := []State{
		MustNew(4, c("R", 2, "B", 2), nil),
		MustNew(4, c("B", 2, "R", 2), nil),
		MustNew(4, c("R", 2), c("B", 2)),
		MustNew(4, c("B", 2), c("R", 2)),
		MustNew(4, nil, c("R", 2, "B", 2)),
		MustNew(4, c("R", 2, "B", 1), c("B", 1)),
		MustNew(4, c("RB", 2), c("B", 2)),
	}
	seen := map[string]int{}
	for i, s := range states {
		k := s.Key()
		if j, dup := seen[k]; dup {
			t.Fatalf("states %d and %d share key %q", j, i, k)
		}
		seen[k] = i
	}
}

func TestUnorderedKey(t *testing.T) {
	a := MustNew(4, c("R", 2), c("B", 2), nil)
	b := MustNew(4, nil, c("B", 2), c("R", 2))
	assert.NotEqual(t, a.Key(), b.Key())
	assert.Equal(t, a.UnorderedKey(), b.UnorderedKey())

	d := MustNew(4, c("R", 2, "B", 2), nil, nil)
	assert.NotEqual(t, a.UnorderedKey(), d.UnorderedKey())
}
