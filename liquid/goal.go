package liquid

import (
	"fmt"
	"strings"
)

// GoalRule selects what counts as a sorted state.
type GoalRule int

const (
	// GoalStrict: every container empty or monochromatic, and no colour
	// split across containers.
	GoalStrict GoalRule = iota
	// GoalMonochrome: every container empty or monochromatic.
	GoalMonochrome
	// GoalFull: every non-empty container is one colour filled to capacity.
	GoalFull
)

func (r GoalRule) String() string {
	switch r {
	case GoalStrict:
		return "strict"
	case GoalMonochrome:
		return "monochrome"
	case GoalFull:
		return "full"
	default:
		return fmt.Sprintf("GoalRule(%d)", int(r))
	}
}

func ParseGoalRule(s string) (GoalRule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return GoalStrict, nil
	case "monochrome", "mono":
		return GoalMonochrome, nil
	case "full":
		return GoalFull, nil
	}
	return 0, fmt.Errorf("unknown goal rule %q", s)
}

func (s State) IsGoal(rule GoalRule) bool {
	seen := make(map[Color]struct{}, len(s.containers))
	for _, c := range s.containers {
		switch {
		case len(c) == 0:
			continue
		case len(c) > 1:
			return false
		}
		switch rule {
		case GoalStrict:
			if _, dup := seen[c[0].Color]; dup {
				return false
			}
			seen[c[0].Color] = struct{}{}
		case GoalFull:
			if d := c[0].Amount - s.capacity; d > Epsilon || d < -Epsilon {
				return false
			}
		}
	}
	return true
}
