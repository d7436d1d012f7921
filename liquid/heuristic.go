package liquid

import (
	"fmt"
	"slices"
	"strings"
)

// Heuristic estimates the displacement still needed to reach a goal.
type Heuristic func(State) float64

// Impurity sums, over containers, the liquid outside each container's
// largest layer. Zero on any monochromatic state.
func Impurity(s State) float64 {
	var h float64
	for _, c := range s.containers {
		if len(c) < 2 {
			continue
		}
		largest := slices.MaxFunc(c, func(a, b Layer) int {
			switch {
			case a.Amount < b.Amount:
				return -1
			case a.Amount > b.Amount:
				return 1
			}
			return 0
		})
		h += c.Fill() - largest.Amount
	}
	return h
}

func Zero(State) float64 { return 0 }

var heuristics = map[string]Heuristic{
	"impurity": Impurity,
	"zero":     Zero,
}

// HeuristicNames lists the registered heuristics in sorted order.
func HeuristicNames() []string {
	names := make([]string, 0, len(heuristics))
	for name := range heuristics {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func HeuristicByName(name string) (Heuristic, error) {
	if name == "" {
		return Impurity, nil
	}
	h, ok := heuristics[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown heuristic %q (have %s)", name, strings.Join(HeuristicNames(), ", "))
	}
	return h, nil
}
