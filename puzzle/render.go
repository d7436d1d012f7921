package puzzle

import (
	"bufio"
	"fmt"
	"hash/fnv"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"liquidsort/liquid"
	"liquidsort/search"
)

type RenderOptions struct {
	Color bool // style layers with terminal colours
}

var palette = map[string]string{
	"R": "9", "RED": "9",
	"G": "10", "GREEN": "10",
	"Y": "11", "YELLOW": "11",
	"B": "12", "BLUE": "12",
	"P": "13", "PURPLE": "13", "M": "13",
	"C": "14", "CYAN": "14",
	"W": "15", "WHITE": "15",
	"O": "208", "ORANGE": "208",
	"K": "8", "GREY": "8", "GRAY": "8",
}

// Render draws s as a column diagram, one column per container and one row
// per unit of capacity, followed by container numbers and fill totals.
func Render(w io.Writer, s liquid.State, opts RenderOptions) error {
	containers := s.Containers()
	width := 1
	for _, c := range containers {
		for _, l := range c {
			width = max(width, len(l.Color))
		}
	}

	cell := func(color liquid.Color) string { return string(color) + strings.Repeat(" ", width-len(color)) }
	if opts.Color {
		renderer := lipgloss.NewRenderer(w)
		base := cell
		cell = func(color liquid.Color) string {
			style := renderer.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color(colorCode(color)))
			return style.Render(base(color))
		}
	}

	bw := bufio.NewWriter(w)
	blank := strings.Repeat(" ", width)
	for h := math.Ceil(s.Capacity()); h >= 1; h-- {
		for _, c := range containers {
			color, ok := colorAt(c, h)
			if ok {
				fmt.Fprintf(bw, "|%s| ", cell(color))
			} else {
				fmt.Fprintf(bw, "|%s| ", blank)
			}
		}
		fmt.Fprintln(bw)
	}
	for range containers {
		fmt.Fprint(bw, strings.Repeat("-", width+2)+" ")
	}
	fmt.Fprintln(bw)
	for i := range containers {
		fmt.Fprintf(bw, " %-*d", width+2, i+1)
	}
	fmt.Fprintln(bw)
	for _, c := range containers {
		fmt.Fprintf(bw, "%-*s", width+3, formatAmount(c.Fill()))
	}
	fmt.Fprintln(bw)
	return bw.Flush()
}

// colorAt reports the colour at height h, counting from 1 at the bottom.
func colorAt(c liquid.Container, h float64) (liquid.Color, bool) {
	if h > c.Fill()+liquid.Epsilon {
		return "", false
	}
	var height float64
	for _, l := range c {
		height += l.Amount
		if h <= height+liquid.Epsilon {
			return l.Color, true
		}
	}
	return "", false
}

func colorCode(c liquid.Color) string {
	if code, ok := palette[strings.ToUpper(string(c))]; ok {
		return code
	}
	f := fnv.New32a()
	f.Write([]byte(c))
	return fmt.Sprint(17 + f.Sum32()%214)
}

// Report prints the outcome of a search the way the solver CLI shows it.
func Report(w io.Writer, out liquid.Outcome, elapsed time.Duration, opts RenderOptions) error {
	switch out.Status {
	case search.Solved:
		fmt.Fprintf(w, "\nSolution found with total displacement cost: %s\n", formatAmount(out.Cost))
		fmt.Fprintf(w, "Nodes explored: %d\n", out.NodesExpanded)
		fmt.Fprintln(w, "\n--- Final State ---")
		if err := Render(w, out.Final, opts); err != nil {
			return err
		}
		fmt.Fprintln(w, "\n--- Solution Path ---")
		for _, m := range out.Moves {
			fmt.Fprintln(w, m)
		}
	case search.Exhausted:
		fmt.Fprintf(w, "\nNo solution found after exploring %d nodes.\n", out.NodesExpanded)
	case search.Aborted:
		fmt.Fprintf(w, "\nSearch aborted after exploring %d nodes: %v\n", out.NodesExpanded, out.Reason)
	}
	_, err := fmt.Fprintf(w, "\nExecution time: %.4g seconds\n", elapsed.Seconds())
	return err
}
