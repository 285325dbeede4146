package bench

import (
	"context"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/cespare/xxhash/v2"
	"github.com/mattn/go-isatty"
	"github.com/rs/xid"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/authzed/rpqplan/internal/digests"
	log "github.com/authzed/rpqplan/internal/logging"
	"github.com/authzed/rpqplan/pkg/eval"
	"github.com/authzed/rpqplan/pkg/genutil/slicez"
	"github.com/authzed/rpqplan/pkg/graph"
	"github.com/authzed/rpqplan/pkg/optimizer"
	"github.com/authzed/rpqplan/pkg/pattern"
	"github.com/authzed/rpqplan/pkg/plan"
)

// Runner benchmarks queries against one loaded graph.
type Runner struct {
	cfg       *Config
	graph     *graph.Graph
	engine    eval.Engine
	evaluator *eval.Evaluator
	optimizer *optimizer.Optimizer
	clock     clock.Clock
	out       io.Writer
	progress  io.Writer
	timings   *digests.DigestMap
}

// RunnerOption configures optional parts of a Runner.
type RunnerOption func(r *Runner)

// WithEngine replaces the in-process matrix engine.
func WithEngine(engine eval.Engine) RunnerOption {
	return func(r *Runner) { r.engine = engine }
}

// WithClock sets the clock used for timing.
func WithClock(clk clock.Clock) RunnerOption {
	return func(r *Runner) { r.clock = clk }
}

// WithProgress draws a progress bar on w when it is a terminal.
func WithProgress(w io.Writer) RunnerOption {
	return func(r *Runner) { r.progress = w }
}

// NewRunner returns a runner that writes its report to out.
func NewRunner(cfg *Config, g *graph.Graph, out io.Writer, opts ...RunnerOption) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:     cfg,
		graph:   g,
		engine:  eval.NewMatrixEngine(g),
		clock:   clock.New(),
		out:     out,
		timings: digests.NewDigestMap(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.evaluator = eval.NewEvaluator(r.engine, r.clock)

	o, err := optimizer.New(optimizer.NewConfigWithOptionsAndDefaults(
		optimizer.WithRuleSet(cfg.RuleSet),
		optimizer.WithLimits(cfg.Limits),
		optimizer.WithClock(r.clock),
	))
	if err != nil {
		return nil, err
	}
	r.optimizer = o
	return r, nil
}

// Summary describes a whole benchmark run.
type Summary struct {
	RunID   xid.ID
	Seed    uint64
	Reports []*QueryReport
	Elapsed time.Duration
}

// Failed returns the number of queries that could not be benchmarked,
// including those skipped after the run was canceled.
func (s Summary) Failed() int {
	return len(slicez.Filter(s.Reports, func(r *QueryReport) bool {
		return r == nil || r.Err != nil
	}))
}

// Run benchmarks every query and writes a report for each, in input order,
// as soon as it and every query before it have finished. A query that fails
// to compile or saturate is reported and does not stop the run.
func (r *Runner) Run(ctx context.Context, queries []pattern.NumberedQuery) (Summary, error) {
	summary := Summary{RunID: xid.New(), Seed: r.cfg.Seed}
	if summary.Seed == 0 {
		summary.Seed = rand.Uint64()
	}

	ctx = log.WithRun(ctx, summary.RunID)
	logger := log.Ctx(ctx)
	logger.Info().
		Int("queries", len(queries)).
		Uint64("seed", summary.Seed).
		Interface("config", r.cfg.DebugMap()).
		Msg("starting benchmark")

	bar := r.newProgressBar(len(queries) * (r.cfg.Warmup + r.cfg.Runs))
	defer func() { _ = bar.Finish() }()

	start := r.clock.Now()
	summary.Reports = make([]*QueryReport, len(queries))
	ready := make([]chan struct{}, len(queries))
	for i := range ready {
		ready[i] = make(chan struct{})
	}

	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for i := range queries {
			<-ready[i]
			if summary.Reports[i] != nil {
				summary.Reports[i].write(r.out)
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for i, nq := range queries {
		g.Go(func() error {
			defer close(ready[i])
			if err := gctx.Err(); err != nil {
				return err
			}
			summary.Reports[i] = r.runQuery(gctx, nq, summary.Seed, bar)
			return nil
		})
	}
	err := g.Wait()
	<-printed

	summary.Elapsed = r.clock.Since(start)
	logger.Info().
		Int("failed", summary.Failed()).
		Dur("elapsed", summary.Elapsed).
		Msg("benchmark complete")
	return summary, err
}

func (r *Runner) newProgressBar(total int) *progressbar.ProgressBar {
	f, ok := r.progress.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return progressbar.DefaultSilent(int64(total))
	}
	return progressbar.NewOptions64(int64(total),
		progressbar.OptionSetWriter(f),
		progressbar.OptionSetDescription("evaluating plans"),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// planSource yields the plan evaluated in each round.
type planSource func() (plan.Expr, error)

func (r *Runner) runQuery(ctx context.Context, nq pattern.NumberedQuery, seed uint64, bar *progressbar.ProgressBar) *QueryReport {
	report := &QueryReport{ID: nq.ID, Query: nq.Text}
	ctx = log.WithQuery(ctx, nq.ID)
	logger := log.Ctx(ctx)

	input, err := plan.Compile(r.graph.LabelSizes, nq.Query)
	if err != nil {
		report.Err = err
		logger.Debug().Err(err).Strs("labels", pattern.Labels(nq.Query.Pattern)).Msg("unable to compile query")
		return report
	}
	report.Input = input

	s, err := r.optimizer.Saturate(ctx, input)
	if err != nil {
		report.Err = err
		return report
	}
	report.Saturation = s.Report

	next, err := r.plans(ctx, s, seed, nq.ID)
	if err != nil {
		report.Err = err
		return report
	}

	for range r.cfg.Warmup {
		p, err := next()
		if err != nil {
			report.Err = err
			return report
		}
		if _, err := r.evaluator.Evaluate(ctx, p); err != nil {
			logger.Debug().Err(err).Msg("warm-up evaluation failed")
		}
		_ = bar.Add(1)
	}

	key := xid.New().String()
	defer r.timings.Delete(key)

	distinct := map[uint64]struct{}{}
	for range r.cfg.Runs {
		p, err := next()
		if err != nil {
			report.Err = err
			return report
		}
		_ = bar.Add(1)

		result, err := r.evaluator.Evaluate(ctx, p)
		if err != nil {
			report.Dropped++
			logger.Debug().Err(err).Str("plan", p.String()).Msg("dropping failed evaluation")
			continue
		}

		text := p.String()
		distinct[xxhash.Sum64String(text)] = struct{}{}
		report.Samples = append(report.Samples, Sample{Plan: text, Count: result.Count, Elapsed: result.Elapsed})
		if err := r.timings.Add(key, float64(result.Elapsed)); err != nil {
			logger.Warn().Err(err).Msg("unable to record timing")
		}
	}
	report.DistinctPlans = len(distinct)

	if len(report.Samples) > 0 {
		report.P90 = r.quantile(key, 0.9)
		report.P99 = r.quantile(key, 0.99)
	}
	report.summarize()

	logger.Debug().
		Int("samples", len(report.Samples)).
		Int("dropped", report.Dropped).
		Int("distinctPlans", report.DistinctPlans).
		Msg("benchmarked query")
	return report
}

func (r *Runner) quantile(key string, q float64) time.Duration {
	v, _ := r.timings.Quantile(key, q)
	return time.Duration(v)
}

// plans returns the plans to evaluate: a fresh random extraction per
// round in random mode, otherwise the cheapest plan every round.
func (r *Runner) plans(ctx context.Context, s *optimizer.Saturation, seed uint64, queryID int) (planSource, error) {
	if r.cfg.Mode == ModeDeterministic {
		_, best, err := s.Extract(ctx, optimizer.DeterministicCost{})
		if err != nil {
			return nil, err
		}
		return func() (plan.Expr, error) { return best, nil }, nil
	}

	rng := rand.New(rand.NewPCG(seed, uint64(queryID)))
	return func() (plan.Expr, error) {
		_, p, err := s.Extract(ctx, optimizer.NewRandomCost(rng))
		return p, err
	}, nil
}
