package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"liquidsort/config"
	"liquidsort/liquid"
	"liquidsort/logging"
	"liquidsort/puzzle"
	"liquidsort/runner"
	"liquidsort/store"
)

type flags struct {
	configPath string

	strategy   string
	heuristic  string
	goal       string
	maxNodes   int
	timeout    time.Duration
	unordered  bool
	containers int

	logLevel    string
	logFormat   string
	cacheDir    string
	metricsFile string
	color       string
}

type app struct {
	cfg    config.Config
	logger *slog.Logger
	cache  *store.Cache
	runner *runner.Runner
}

func newRootCmd() *cobra.Command {
	var (
		f flags
		a app
	)

	root := &cobra.Command{
		Use:   "liquidsort",
		Short: "Find the cheapest way to sort a liquid-sort puzzle",
		Long: `liquidsort searches for the sequence of pours that sorts every colour into
its own container while displacing the least liquid.

Puzzle files start with the shared capacity, followed by one line per
container listing layers bottom to top:

  4
  R 2-B 2
  B 2-R 2

An empty line is an empty container.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	pf.StringVarP(&f.strategy, "strategy", "s", "dijkstra", "search strategy: dijkstra or astar")
	pf.StringVar(&f.heuristic, "heuristic", "impurity", "A* heuristic: "+fmt.Sprint(liquid.HeuristicNames()))
	pf.StringVar(&f.goal, "goal", "strict", "goal rule: strict, monochrome or full")
	pf.IntVar(&f.maxNodes, "max-nodes", 0, "abort after this many dequeued nodes (0 = unlimited)")
	pf.DurationVar(&f.timeout, "timeout", 0, "abort after this long (0 = unlimited)")
	pf.BoolVar(&f.unordered, "unordered", false, "treat containers as interchangeable when deduplicating")
	pf.IntVar(&f.containers, "containers", 0, "pad the puzzle with empty containers up to this count")
	pf.StringVar(&f.logLevel, "log-level", "info", "debug, info, warn or error")
	pf.StringVar(&f.logFormat, "log-format", "text", "text or json")
	pf.StringVar(&f.cacheDir, "cache-dir", "", "persist solutions in this directory")
	pf.StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")
	pf.StringVar(&f.color, "color", "auto", "colour layers: auto, always or never")

	root.AddCommand(newSolveCmd(&a), newCompareCmd(&a), newShowCmd(&a))
	return root
}

func (a *app) setup(cmd *cobra.Command, f flags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}

	set := cmd.Flags().Changed
	if set("strategy") {
		cfg.Search.Strategy = f.strategy
	}
	if set("heuristic") {
		cfg.Search.Heuristic = f.heuristic
	}
	if set("goal") {
		cfg.Search.Goal = f.goal
	}
	if set("max-nodes") {
		cfg.Search.MaxNodes = f.maxNodes
	}
	if set("timeout") {
		cfg.Search.Timeout = f.timeout
	}
	if set("unordered") {
		cfg.Search.UnorderedContainers = f.unordered
	}
	if set("containers") {
		cfg.Puzzle.Containers = f.containers
	}
	if set("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if set("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if set("cache-dir") {
		cfg.Cache.Dir = f.cacheDir
	}
	if set("metrics-file") {
		cfg.Metrics.Textfile = f.metricsFile
	}
	if set("color") {
		cfg.Render.Color = f.color
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	a.cfg = cfg

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	a.logger = logging.New(logging.Config{
		Level:  level,
		JSON:   cfg.Log.Format == "json",
		Output: cmd.ErrOrStderr(),
	})

	opts := []runner.Option{runner.WithLogger(a.logger)}
	if cfg.Cache.Dir != "" {
		a.cache, err = store.Open(cfg.Cache.Dir)
		if err != nil {
			return err
		}
		opts = append(opts, runner.WithCache(a.cache))
	}
	a.runner = runner.New(opts...)
	return nil
}

// closing wraps a command so metrics are written and the cache is closed
// whether or not the command fails.
func (a *app) closing(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		return errors.Join(err, a.teardown())
	}
}

func (a *app) teardown() error {
	if a.cfg.Metrics.Textfile != "" && a.runner != nil {
		if err := a.runner.Metrics().WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
			a.logger.Warn("metrics export failed", "path", a.cfg.Metrics.Textfile, "error", err)
		}
	}
	if a.cache == nil {
		return nil
	}
	err := a.cache.Close()
	a.cache = nil
	return err
}

func (a *app) load(path string) (liquid.State, error) {
	s, err := puzzle.ParseFile(path)
	if err != nil {
		return liquid.State{}, err
	}
	return s.Pad(a.cfg.Puzzle.Containers), nil
}

func (a *app) renderOptions(w io.Writer) puzzle.RenderOptions {
	switch a.cfg.Render.Color {
	case "always":
		return puzzle.RenderOptions{Color: true}
	case "never":
		return puzzle.RenderOptions{}
	}
	f, ok := w.(*os.File)
	return puzzle.RenderOptions{Color: ok && isatty.IsTerminal(f.Fd())}
}

func newSolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "solve PUZZLE",
		Short: "Solve a puzzle and print the pours",
		Args:  cobra.ExactArgs(1),
		RunE: a.closing(func(cmd *cobra.Command, args []string) error {
			start, err := a.load(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			ro := a.renderOptions(w)

			fmt.Fprintln(w, "--- Initial State ---")
			if err := puzzle.Render(w, start, ro); err != nil {
				return err
			}
			fmt.Fprintf(w, "\nRunning %s search...\n", a.cfg.Search.Strategy)

			began := time.Now()
			out, err := a.runner.Run(cmd.Context(), start, a.cfg.Search)
			if err != nil {
				return err
			}
			return puzzle.Report(w, out, time.Since(began), ro)
		}),
	}
}

func newCompareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compare PUZZLE",
		Short: "Solve with both strategies and check that the costs agree",
		Args:  cobra.ExactArgs(1),
		RunE: a.closing(func(cmd *cobra.Command, args []string) error {
			start, err := a.load(args[0])
			if err != nil {
				return err
			}
			cmp, err := a.runner.Compare(cmd.Context(), start, a.cfg.Search)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for _, row := range []struct {
				name string
				out  liquid.Outcome
			}{
				{liquid.UniformCost.String(), cmp.UniformCost},
				{liquid.HeuristicGuided.String(), cmp.HeuristicGuided},
			} {
				fmt.Fprintf(w, "%-9s %-9s cost=%-8g moves=%-4d nodes=%d\n",
					row.name, row.out.Status, row.out.Cost, len(row.out.Moves), row.out.NodesExpanded)
			}
			if !cmp.Consistent() {
				fmt.Fprintln(w, "WARNING: strategies disagree")
				return nil
			}
			fmt.Fprintln(w, "strategies agree")
			return nil
		}),
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show PUZZLE",
		Short: "Render a puzzle without solving it",
		Args:  cobra.ExactArgs(1),
		RunE: a.closing(func(cmd *cobra.Command, args []string) error {
			start, err := a.load(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			return puzzle.Render(w, start, a.renderOptions(w))
		}),
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
