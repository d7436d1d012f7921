// Package puzzle reads puzzle definitions and renders states as text.
//
// The text format is line based. The first line holds the shared capacity.
// Every following line is one container, listing its layers bottom to top
// as "COLOR AMOUNT" pairs separated by '-':
//
//	4
//	R 2-B 2
//	B 2-R 2
//
// An empty line is an empty container. Lines starting with '#' are ignored.
package puzzle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"liquidsort/liquid"
)

func ParseFile(path string) (liquid.State, error) {
	f, err := os.Open(path)
	if err != nil {
		return liquid.State{}, fmt.Errorf("open puzzle: %w", err)
	}
	defer f.Close()

	s, err := Parse(f)
	if err != nil {
		return liquid.State{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func Parse(r io.Reader) (liquid.State, error) {
	var (
		capacity   float64
		haveCap    bool
		containers []liquid.Container
		lineNo     int
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		if !haveCap {
			if line == "" {
				continue
			}
			v, err := strconv.ParseFloat(line, 64)
			if err != nil {
				return liquid.State{}, fmt.Errorf("%w: line %d: capacity %q is not a number", liquid.ErrMalformedState, lineNo, line)
			}
			capacity, haveCap = v, true
			continue
		}
		c, err := parseContainer(line)
		if err != nil {
			return liquid.State{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
		containers = append(containers, c)
	}
	if err := scanner.Err(); err != nil {
		return liquid.State{}, fmt.Errorf("read puzzle: %w", err)
	}
	if !haveCap {
		return liquid.State{}, fmt.Errorf("%w: missing capacity line", liquid.ErrMalformedState)
	}
	return liquid.New(capacity, containers)
}

func parseContainer(line string) (liquid.Container, error) {
	if line == "" {
		return nil, nil
	}
	var c liquid.Container
	for _, piece := range strings.Split(line, "-") {
		fields := strings.Fields(piece)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: layer %q must be COLOR AMOUNT", liquid.ErrMalformedState, strings.TrimSpace(piece))
		}
		amount, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: layer %q: bad amount", liquid.ErrMalformedState, strings.TrimSpace(piece))
		}
		c = append(c, liquid.Layer{Color: liquid.Color(fields[0]), Amount: amount})
	}
	return c, nil
}

// Format writes s in the format Parse reads.
func Format(w io.Writer, s liquid.State) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, formatAmount(s.Capacity()))
	for _, c := range s.Containers() {
		pieces := make([]string, len(c))
		for i, l := range c {
			pieces[i] = string(l.Color) + " " + formatAmount(l.Amount)
		}
		fmt.Fprintln(bw, strings.Join(pieces, "-"))
	}
	return bw.Flush()
}

func formatAmount(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
