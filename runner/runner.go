// Package runner wraps the solver with logging, metrics, tracing and the
// solution cache. The search itself stays free of I/O; everything here
// happens before or after it.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"liquidsort/config"
	"liquidsort/liquid"
	"liquidsort/logging"
	"liquidsort/search"
	"liquidsort/store"
)

const tracerName = "liquidsort/runner"

type Runner struct {
	logger  *slog.Logger
	cache   *store.Cache
	metrics *Metrics
	tracer  trace.Tracer
}

type Option func(*Runner)

func WithLogger(l *slog.Logger) Option { return func(r *Runner) { r.logger = l } }

// WithCache answers repeated searches from c and records new results in it.
func WithCache(c *store.Cache) Option { return func(r *Runner) { r.cache = c } }

func WithMetrics(m *Metrics) Option { return func(r *Runner) { r.metrics = m } }

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Runner) { r.tracer = tp.Tracer(tracerName) }
}

func New(opts ...Option) *Runner {
	r := &Runner{
		logger: logging.Discard(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = NewMetrics(nil)
	}
	return r
}

func (r *Runner) Metrics() *Metrics { return r.metrics }

// Run solves start with the given search settings.
func (r *Runner) Run(ctx context.Context, start liquid.State, cfg config.SearchConfig) (liquid.Outcome, error) {
	opts, err := cfg.Options()
	if err != nil {
		return liquid.Outcome{}, fmt.Errorf("search options: %w", err)
	}
	strategy := opts.Strategy.String()

	logger := r.logger.With(
		"run_id", uuid.NewString(),
		"strategy", strategy,
		"goal", opts.Goal.String(),
	)

	ctx, span := r.tracer.Start(ctx, "liquidsort.Solve", trace.WithAttributes(
		attribute.String("liquidsort.strategy", strategy),
		attribute.String("liquidsort.goal", opts.Goal.String()),
		attribute.Int("liquidsort.containers", start.Len()),
		attribute.Float64("liquidsort.capacity", start.Capacity()),
	))
	defer span.End()

	key := cacheKey(start, cfg, opts)
	if out, ok := r.fromCache(start, key, opts.Goal, logger); ok {
		span.SetAttributes(attribute.Bool("liquidsort.cached", true))
		r.metrics.cacheHits.Inc()
		return out, nil
	}

	logger.Info("search started", "containers", start.Len(), "volume", start.Total())
	began := time.Now()
	out, err := liquid.Solve(ctx, start, opts)
	elapsed := time.Since(began)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Error("search rejected", "error", err)
		return out, err
	}

	status := out.Status.String()
	r.metrics.searches.WithLabelValues(strategy, status).Inc()
	r.metrics.nodes.WithLabelValues(strategy).Observe(float64(out.NodesExpanded))
	r.metrics.duration.WithLabelValues(strategy).Observe(elapsed.Seconds())
	span.SetAttributes(
		attribute.String("liquidsort.status", status),
		attribute.Int("liquidsort.nodes_expanded", out.NodesExpanded),
	)

	switch out.Status {
	case search.Solved:
		r.metrics.cost.WithLabelValues(strategy).Observe(out.Cost)
		span.SetAttributes(attribute.Float64("liquidsort.cost", out.Cost))
		logger.Info("search solved", "cost", out.Cost, "moves", len(out.Moves), "nodes", out.NodesExpanded, "elapsed", elapsed)
	case search.Exhausted:
		logger.Info("search exhausted", "nodes", out.NodesExpanded, "elapsed", elapsed)
	case search.Aborted:
		span.SetStatus(codes.Error, out.Reason.Error())
		logger.Warn("search aborted", "reason", out.Reason, "nodes", out.NodesExpanded, "elapsed", elapsed)
	}

	r.toCache(key, out, logger)
	return out, nil
}

func cacheKey(start liquid.State, cfg config.SearchConfig, opts liquid.Options) string {
	heuristic := "-"
	if opts.Strategy == liquid.HeuristicGuided {
		heuristic = cfg.Heuristic
	}
	capacity := strconv.FormatFloat(start.Capacity(), 'f', -1, 64)
	return fmt.Sprintf("%s/%s/%s/%t/%s/%s", opts.Strategy, heuristic, opts.Goal, opts.UnorderedContainers, capacity, start.Key())
}

func (r *Runner) fromCache(start liquid.State, key string, goal liquid.GoalRule, logger *slog.Logger) (liquid.Outcome, bool) {
	if r.cache == nil {
		return liquid.Outcome{}, false
	}
	e, ok, err := r.cache.Get(key)
	if err != nil {
		logger.Warn("cache read failed", "error", err)
		return liquid.Outcome{}, false
	}
	if !ok {
		return liquid.Outcome{}, false
	}

	out := liquid.Outcome{NodesExpanded: e.NodesExpanded}
	switch e.Status {
	case search.Exhausted.String():
		out.Status = search.Exhausted
	case search.Solved.String():
		states, err := replay(start, e.Moves)
		if err == nil && !states[len(states)-1].IsGoal(goal) {
			err = fmt.Errorf("cached moves do not reach a %s goal", goal)
		}
		if err != nil {
			logger.Warn("discarding cached solution", "error", err)
			_ = r.cache.Delete(key)
			return liquid.Outcome{}, false
		}
		out.Status = search.Solved
		out.Cost = e.Cost
		out.Moves = e.Moves
		out.States = states
		out.Final = states[len(states)-1]
	default:
		return liquid.Outcome{}, false
	}
	logger.Info("search answered from cache", "status", e.Status, "saved_at", e.SavedAt)
	return out, true
}

func (r *Runner) toCache(key string, out liquid.Outcome, logger *slog.Logger) {
	if r.cache == nil || out.Status == search.Aborted {
		return
	}
	err := r.cache.Put(key, store.Entry{
		Status:        out.Status.String(),
		Cost:          out.Cost,
		Moves:         out.Moves,
		NodesExpanded: out.NodesExpanded,
	})
	if err != nil {
		logger.Warn("cache write failed", "error", err)
	}
}

// replay re-applies cached moves and returns every visited state.
func replay(start liquid.State, moves []liquid.Move) ([]liquid.State, error) {
	states := []liquid.State{start}
	for i, m := range moves {
		next, err := states[i].Apply([]liquid.Move{m})
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		states = append(states, next)
	}
	return states, nil
}
