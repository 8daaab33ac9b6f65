package evaluator

import (
	"context"

	"github.com/Invicton-Labs/go-exponent/exponent"
	"github.com/Invicton-Labs/go-exponent/gensync"
	"github.com/Invicton-Labs/go-exponent/log"
	"github.com/Invicton-Labs/go-stackerr"
	"github.com/die-net/lrucache"
	"github.com/google/uuid"
	"github.com/gregjones/httpcache"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 8

type NewInput struct {
	// Series settings for every evaluation. Zero fields take
	// the exponent package defaults.
	Config exponent.Config
	// The maximum size, in bytes, of the result cache. A cache will
	// only be used if this value is non-zero.
	CacheMaxSizeBytes int64
	// 0 for never expiring
	CacheMaxAgeSeconds int64
	// A custom cache, if desired. Takes precedence over the
	// size and age settings. Keys include the series settings, so
	// evaluators with different Configs may share one cache.
	Cache httpcache.Cache
	// The maximum number of cases of a batch evaluated at once.
	// Defaults to DefaultConcurrency.
	Concurrency int
	// An additional registry for the evaluator's metrics, e.g. one
	// that is scraped. They are always available from Metrics.
	Registerer prometheus.Registerer
}

// Stats are running totals for the lifetime of an Evaluator.
type Stats struct {
	Evaluations int64 `json:"evaluations" yaml:"evaluations"`
	CacheHits   int64 `json:"cache_hits" yaml:"cache_hits"`
	Failures    int64 `json:"failures" yaml:"failures"`
}

// Evaluator computes powers with caching, metrics and bounded
// batch concurrency. It is safe for concurrent use.
type Evaluator struct {
	cfg         exponent.Config
	cache       httpcache.Cache
	concurrency int
	metrics     *metrics
	keyPrefix   string

	evaluations gensync.AtomicNumeric[int64]
	cacheHits   gensync.AtomicNumeric[int64]
	failures    gensync.AtomicNumeric[int64]
}

func New(input NewInput) (*Evaluator, stackerr.Error) {
	m, err := newMetrics(input.Registerer)
	if err != nil {
		return nil, err
	}

	e := &Evaluator{
		cfg:         input.Config,
		concurrency: input.Concurrency,
		metrics:     m,
		keyPrefix:   configKey(input.Config),
	}
	if e.concurrency <= 0 {
		e.concurrency = DefaultConcurrency
	}

	if input.Cache != nil {
		e.cache = input.Cache
	} else if input.CacheMaxSizeBytes > 0 {
		e.cache = lrucache.New(input.CacheMaxSizeBytes, input.CacheMaxAgeSeconds)
	}

	// Chain the metrics onto any observer the caller already set
	callerObserver := e.cfg.Observer
	e.cfg.Observer = func(stats exponent.SeriesStats) {
		m.observeSeries(stats)
		if callerObserver != nil {
			callerObserver(stats)
		}
	}
	return e, nil
}

func (e *Evaluator) Stats() Stats {
	return Stats{
		Evaluations: e.evaluations.Load(),
		CacheHits:   e.cacheHits.Load(),
		Failures:    e.failures.Load(),
	}
}

// Metrics returns the current value of every metric the evaluator tracks.
func (e *Evaluator) Metrics() ([]MetricSample, stackerr.Error) {
	return e.metrics.snapshot()
}

func (e *Evaluator) recordFailure(err error) {
	e.failures.Add(1)
	e.metrics.failure(err)
}

func (e *Evaluator) fail(err stackerr.Error) stackerr.Error {
	e.recordFailure(err)
	return err
}

// Evaluate raises base to the power of exp. Both must be finite.
func (e *Evaluator) Evaluate(ctx context.Context, base float64, exp float64) (Evaluation, stackerr.Error) {
	logger := log.FromContext(ctx)
	c := Case{
		Base:     base,
		Exponent: exp,
	}
	if err := c.Validate(); err != nil {
		return Evaluation{}, e.fail(err)
	}

	key := c.cacheKey(e.keyPrefix)
	if e.cache != nil {
		if data, ok := e.cache.Get(key); ok {
			r, err := decodeResult(data)
			if err == nil {
				e.cacheHits.Add(1)
				e.metrics.cacheHits.Inc()
				ev := newEvaluation(c, r)
				ev.Cached = true
				return ev, nil
			}
			logger.WithError(err).Warnw("Discarding unreadable cache entry", "key", key)
			e.cache.Delete(key)
		}
	}

	r, err := exponent.PowerWithConfig(base, exp, e.cfg)
	if err != nil {
		logger.WithError(err).Warnw("Failed to evaluate power", "base", base, "exponent", exp)
		return Evaluation{}, e.fail(err)
	}
	if e.cache != nil {
		e.cache.Set(key, encodeResult(r))
	}
	e.evaluations.Add(1)
	e.metrics.evaluations.WithLabelValues(r.Kind().String()).Inc()
	logger.Debugw("Evaluated power", "base", base, "exponent", exp, "result", r.String())
	return newEvaluation(c, r), nil
}

// EvaluateBatch evaluates every case, at most Concurrency at a time. The
// returned slice always matches the order and length of cases; entries
// whose evaluation failed are left zero and their errors are combined
// into the returned error.
func (e *Evaluator) EvaluateBatch(ctx context.Context, cases []Case) ([]Evaluation, error) {
	runID := uuid.New().String()
	logger := log.FromContext(ctx).With("run_id", runID)
	ctx = log.LogContext(ctx, logger)
	logger.Debugw("Starting batch evaluation", "cases", len(cases), "concurrency", e.concurrency)

	results := make([]Evaluation, len(cases))
	errs := make([]error, len(cases))

	errgrp := errgroup.Group{}
	errgrp.SetLimit(e.concurrency)
	for i, c := range cases {
		idx, bc := i, c
		errgrp.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					panicErr := stackerr.Errorf("Evaluating case %d panicked: %v", idx, r).With(map[string]any{
						exponent.ErrorKindField: ErrorKindPanic,
						"case_index":            idx,
					})
					e.recordFailure(panicErr)
					errs[idx] = panicErr
				}
			}()
			if ctxErr := ctx.Err(); ctxErr != nil {
				errs[idx] = stackerr.Wrap(ctxErr)
				return nil
			}
			ev, evErr := e.Evaluate(ctx, bc.Base, bc.Exponent)
			if evErr != nil {
				errs[idx] = evErr.With(map[string]any{
					"case_index": idx,
				})
				return nil
			}
			results[idx] = ev
			return nil
		})
	}
	// The goroutines record their errors in errs instead of returning them,
	// so one failed case doesn't hide the others.
	_ = errgrp.Wait()

	err := multierr.Combine(errs...)
	if err != nil {
		logger.Infow("Batch evaluation finished with errors", "failed", len(multierr.Errors(err)))
	} else {
		logger.Debugw("Batch evaluation finished")
	}
	return results, err
}
