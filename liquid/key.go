package liquid

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// KeyDecimals is the number of decimal places kept for amounts in keys.
const KeyDecimals = 6

var keyScale = math.Pow10(KeyDecimals)

// Key encodes the state bottom-to-top, container by container. Two states
// share a key iff they hold the same layers in the same slots, up to
// KeyDecimals of precision.
func (s State) Key() string {
	var b strings.Builder
	for i, c := range s.containers {
		if i > 0 {
			b.WriteByte('|')
		}
		writeContainerKey(&b, c)
	}
	return b.String()
}

// UnorderedKey is Key with slot order ignored, for puzzles whose containers
// are interchangeable.
func (s State) UnorderedKey() string {
	parts := make([]string, len(s.containers))
	for i, c := range s.containers {
		var b strings.Builder
		writeContainerKey(&b, c)
		parts[i] = b.String()
	}
	slices.Sort(parts)
	return strings.Join(parts, "|")
}

func writeContainerKey(b *strings.Builder, c Container) {
	for _, l := range c {
		b.WriteString(string(l.Color))
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(math.Round(l.Amount*keyScale), 'f', 0, 64))
		b.WriteByte(',')
	}
}
