package evaluator

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"testing"

	"github.com/Invicton-Labs/go-exponent/exponent"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/gregjones/httpcache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var approxFloat = cmp.Comparer(func(a, b Float) bool {
	x, y := float64(a), float64(b)
	if math.IsNaN(x) || math.IsNaN(y) {
		return math.IsNaN(x) && math.IsNaN(y)
	}
	if x == y {
		return true
	}
	return math.Abs(x-y) <= 1e-9*math.Max(math.Abs(x), math.Abs(y))
})

func newTestEvaluator(t *testing.T, input NewInput) *Evaluator {
	t.Helper()
	if input.Registerer == nil {
		input.Registerer = prometheus.NewRegistry()
	}
	e, err := New(input)
	require.NoError(t, err)
	return e
}

func TestEvaluate(t *testing.T) {
	e := newTestEvaluator(t, NewInput{})
	ctx := context.Background()

	tests := []struct {
		base     float64
		exponent float64
		expected Evaluation
	}{
		{3, -7, Evaluation{Kind: "real", Real: Float(1.0 / 2187)}},
		{0.25, -0.75, Evaluation{Kind: "real", Real: 2.8284271247461903}},
		{2, 10, Evaluation{Kind: "real", Real: 1024}},
		{0, -1, Evaluation{Kind: "real", Real: Float(math.Inf(1))}},
		{-4, 0.5, Evaluation{Kind: "complex", Real: 0, Imag: 2}},
	}
	for _, tt := range tests {
		got, err := e.Evaluate(ctx, tt.base, tt.exponent)
		require.NoError(t, err)
		tt.expected.Base = Float(tt.base)
		tt.expected.Exponent = Float(tt.exponent)
		if diff := cmp.Diff(tt.expected, got, approxFloat, cmpopts.IgnoreFields(Evaluation{}, "Display")); diff != "" {
			t.Errorf("%v^%v mismatch (-want +got):\n%s", tt.base, tt.exponent, diff)
		}
	}
	assert.Equal(t, int64(len(tests)), e.Stats().Evaluations)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.evaluations.WithLabelValues("complex")))
}

func TestEvaluateInvalidInput(t *testing.T) {
	e := newTestEvaluator(t, NewInput{})
	for _, c := range []Case{
		{math.NaN(), 2},
		{2, math.NaN()},
		{math.Inf(1), 2},
		{2, math.Inf(-1)},
	} {
		_, err := e.Evaluate(context.Background(), c.Base, c.Exponent)
		require.Error(t, err)
		assert.Equal(t, ErrorKindInvalidInput, exponent.ErrorKind(err))
	}
	assert.Equal(t, int64(4), e.Stats().Failures)
	assert.Equal(t, 4.0, testutil.ToFloat64(e.metrics.failures.WithLabelValues(ErrorKindInvalidInput)))
}

func TestEvaluateCache(t *testing.T) {
	e := newTestEvaluator(t, NewInput{
		CacheMaxSizeBytes: 1 << 16,
	})
	ctx := context.Background()

	first, err := e.Evaluate(ctx, -4.3125, 16.375)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := e.Evaluate(ctx, -4.3125, 16.375)
	require.NoError(t, err)
	assert.True(t, second.Cached)

	second.Cached = false
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), e.Stats().CacheHits)
	assert.Equal(t, int64(1), e.Stats().Evaluations)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.cacheHits))
}

func TestEvaluateNoCache(t *testing.T) {
	e := newTestEvaluator(t, NewInput{})
	for i := 0; i < 3; i++ {
		ev, err := e.Evaluate(context.Background(), 3, 0.5)
		require.NoError(t, err)
		assert.False(t, ev.Cached)
	}
	assert.Equal(t, int64(0), e.Stats().CacheHits)
	assert.Equal(t, int64(3), e.Stats().Evaluations)
}

func TestSharedCacheSeparatesConfigs(t *testing.T) {
	cache := httpcache.NewMemoryCache()
	loose := newTestEvaluator(t, NewInput{
		Config: exponent.Config{MaxIterations: 1},
		Cache:  cache,
	})
	strict := newTestEvaluator(t, NewInput{
		Cache: cache,
	})
	defaults := newTestEvaluator(t, NewInput{
		Config: exponent.DefaultConfig(),
		Cache:  cache,
	})

	capped, err := loose.Evaluate(context.Background(), 5, 0.3)
	require.NoError(t, err)
	assert.False(t, capped.Cached)

	exact, err := strict.Evaluate(context.Background(), 5, 0.3)
	require.NoError(t, err)
	assert.False(t, exact.Cached)
	assert.NotEqual(t, capped.Real, exact.Real)
	assert.InEpsilon(t, math.Pow(5, 0.3), float64(exact.Real), 1e-9)

	// An explicit default config resolves to the same settings as a zero one
	again, err := defaults.Evaluate(context.Background(), 5, 0.3)
	require.NoError(t, err)
	assert.True(t, again.Cached)
	assert.Equal(t, exact.Real, again.Real)
}

func TestEvaluateCorruptCacheEntry(t *testing.T) {
	cache := httpcache.NewMemoryCache()
	e := newTestEvaluator(t, NewInput{
		Cache: cache,
	})
	key := Case{Base: 2, Exponent: 3}.cacheKey(configKey(exponent.Config{}))
	cache.Set(key, []byte("garbage"))

	ev, err := e.Evaluate(context.Background(), 2, 3)
	require.NoError(t, err)
	assert.False(t, ev.Cached)
	assert.Equal(t, Float(8), ev.Real)

	data, ok := cache.Get(key)
	require.True(t, ok)
	r, derr := decodeResult(data)
	require.NoError(t, derr)
	assert.Equal(t, exponent.RealResult(8), r)
}

func TestSeriesMetrics(t *testing.T) {
	var observed []exponent.SeriesStats
	var mu sync.Mutex
	cfg := exponent.DefaultConfig()
	cfg.Observer = func(stats exponent.SeriesStats) {
		mu.Lock()
		defer mu.Unlock()
		observed = append(observed, stats)
	}
	e := newTestEvaluator(t, NewInput{
		Config: cfg,
	})
	_, err := e.Evaluate(context.Background(), 0.25, -0.75)
	require.NoError(t, err)

	// The caller's observer still sees every series
	assert.NotEmpty(t, observed)
	assert.Equal(t, 2, testutil.CollectAndCount(e.metrics.seriesTerms))
	assert.Equal(t, 0, testutil.CollectAndCount(e.metrics.seriesCapped))
}

func TestSeriesCappedMetric(t *testing.T) {
	e := newTestEvaluator(t, NewInput{
		Config: exponent.Config{
			MaxIterations: 2,
		},
	})
	_, err := e.Evaluate(context.Background(), 5, 0.3)
	require.NoError(t, err)
	assert.Greater(t, testutil.ToFloat64(e.metrics.seriesCapped.WithLabelValues("ln")), 0.0)
}

func findSample(samples []MetricSample, name string, labels map[string]string) (MetricSample, bool) {
	for _, s := range samples {
		if s.Name == name && cmp.Equal(labels, s.Labels, cmpopts.EquateEmpty()) {
			return s, true
		}
	}
	return MetricSample{}, false
}

func TestMetricsSnapshot(t *testing.T) {
	e := newTestEvaluator(t, NewInput{
		CacheMaxSizeBytes: 1 << 16,
	})
	ctx := context.Background()
	for _, c := range []Case{{2, 3}, {2, 3}, {-4, 0.5}, {math.NaN(), 1}} {
		_, _ = e.Evaluate(ctx, c.Base, c.Exponent)
	}

	samples, err := e.Metrics()
	require.NoError(t, err)

	expected := []struct {
		name   string
		labels map[string]string
		value  float64
	}{
		{"exponent_evaluations_total", map[string]string{"kind": "real"}, 1},
		{"exponent_evaluations_total", map[string]string{"kind": "complex"}, 1},
		{"exponent_cache_hits_total", nil, 1},
		{"exponent_failures_total", map[string]string{"error_kind": ErrorKindInvalidInput}, 1},
	}
	for _, exp := range expected {
		s, ok := findSample(samples, exp.name, exp.labels)
		require.True(t, ok, "missing %s %v", exp.name, exp.labels)
		assert.Equal(t, exp.value, s.Value, "%s %v", exp.name, exp.labels)
	}

	// -4^0.5 runs ln (twice: the reduced argument and ln 2), exp and cos (twice)
	lnCount, ok := findSample(samples, "exponent_series_terms_count", map[string]string{"series": "ln"})
	require.True(t, ok)
	assert.Equal(t, 2.0, lnCount.Value)
	cosCount, ok := findSample(samples, "exponent_series_terms_count", map[string]string{"series": "cos"})
	require.True(t, ok)
	assert.Equal(t, 2.0, cosCount.Value)
	_, ok = findSample(samples, "exponent_series_terms_sum", map[string]string{"series": "exp"})
	assert.True(t, ok)
}

func TestMetricsAlsoRegisteredExternally(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := newTestEvaluator(t, NewInput{
		Registerer: reg,
	})
	_, err := e.Evaluate(context.Background(), 2, 3)
	require.NoError(t, err)

	count, gatherErr := testutil.GatherAndCount(reg, "exponent_evaluations_total")
	require.NoError(t, gatherErr)
	assert.Equal(t, 1, count)
}

func TestDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(NewInput{Registerer: reg})
	require.NoError(t, err)
	_, err = New(NewInput{Registerer: reg})
	assert.Error(t, err)
}

func TestEvaluateBatch(t *testing.T) {
	e := newTestEvaluator(t, NewInput{
		Concurrency: 2,
	})
	cases := []Case{
		{2, 3},
		{math.NaN(), 1},
		{3, -7},
		{4, 0.5},
		{2, math.Inf(1)},
	}
	results, err := e.EvaluateBatch(context.Background(), cases)
	require.Error(t, err)
	require.Len(t, results, len(cases))
	assert.Len(t, multierr.Errors(err), 2)

	assert.Equal(t, Float(8), results[0].Real)
	assert.Equal(t, Evaluation{}, results[1])
	assert.InEpsilon(t, 1.0/2187, float64(results[2].Real), 1e-12)
	assert.InEpsilon(t, 2.0, float64(results[3].Real), 1e-9)
	assert.Equal(t, Evaluation{}, results[4])
}

func TestEvaluateBatchPanicCountsAsFailure(t *testing.T) {
	e := newTestEvaluator(t, NewInput{
		Config: exponent.Config{
			Observer: func(stats exponent.SeriesStats) {
				panic("observer failed")
			},
		},
	})
	results, err := e.EvaluateBatch(context.Background(), []Case{
		{2, 3},
		{2, 0.5},
	})
	require.Error(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, Float(8), results[0].Real)

	errs := multierr.Errors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrorKindPanic, exponent.ErrorKind(errs[0]))
	assert.Equal(t, int64(1), e.Stats().Failures)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.failures.WithLabelValues(ErrorKindPanic)))
}

func TestEvaluateBatchCancelled(t *testing.T) {
	e := newTestEvaluator(t, NewInput{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cases := SelfTestCases()
	results, err := e.EvaluateBatch(ctx, cases)
	require.Error(t, err)
	assert.Len(t, results, len(cases))
	assert.Len(t, multierr.Errors(err), len(cases))
	assert.Equal(t, int64(0), e.Stats().Evaluations)
}

func TestEvaluateBatchEmpty(t *testing.T) {
	e := newTestEvaluator(t, NewInput{})
	results, err := e.EvaluateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSelfTest(t *testing.T) {
	e := newTestEvaluator(t, NewInput{
		CacheMaxSizeBytes: 1 << 20,
	})
	results, err := e.SelfTest(context.Background())
	require.NoError(t, err)

	samples := SampleValues()
	require.Len(t, results, len(samples)*len(samples)+1)

	// Results follow the base-major ordering of the cases
	assert.Equal(t, Float(3), results[1].Base)
	assert.Equal(t, Float(-7), results[1].Exponent)
	assert.Equal(t, "real", results[1].Kind)
	assert.InEpsilon(t, 1.0/2187, float64(results[1].Real), 1e-12)

	last := results[len(results)-1]
	assert.Equal(t, "complex", last.Kind)
	assert.Equal(t, Float(0), last.Real)
	assert.InEpsilon(t, 46340.950001051984, float64(last.Imag), 1e-8)

	for _, r := range results {
		if r.Base < 0 && !exponentIsInt(float64(r.Exponent)) {
			assert.Equal(t, "complex", r.Kind, "%v^%v", r.Base, r.Exponent)
		} else {
			assert.Equal(t, "real", r.Kind, "%v^%v", r.Base, r.Exponent)
		}
	}
}

func exponentIsInt(y float64) bool {
	return y == math.Trunc(y)
}

func TestSampleValuesIsCopy(t *testing.T) {
	s := SampleValues()
	s[0] = 100
	assert.Equal(t, 3.0, SampleValues()[0])
}

func TestFormatEvaluation(t *testing.T) {
	e := newTestEvaluator(t, NewInput{})
	ev, err := e.Evaluate(context.Background(), 2, 3)
	require.NoError(t, err)
	assert.Equal(t, "2 raised to the power of 3 equals 8", FormatEvaluation(ev))

	ev, err = e.Evaluate(context.Background(), -4, 0.5)
	require.NoError(t, err)
	assert.Equal(t, "-4 raised to the power of 0.5 equals "+ev.Result().String(), FormatEvaluation(ev))
}

func TestEvaluationResult(t *testing.T) {
	assert.Equal(t, exponent.RealResult(2.5), Evaluation{Kind: "real", Real: 2.5}.Result())
	assert.Equal(t, exponent.ComplexResult(0, 1), Evaluation{Kind: "complex", Imag: 1}.Result())
}

func TestFloatJSON(t *testing.T) {
	ev := Evaluation{
		Base:     0,
		Exponent: -1,
		Kind:     "real",
		Real:     Float(math.Inf(1)),
		Imag:     Float(math.Inf(-1)),
	}
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"real":"+Inf"`)
	assert.Contains(t, string(data), `"imag":"-Inf"`)
	assert.Contains(t, string(data), `"exponent":-1`)

	var decoded Evaluation
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ev, decoded)

	var nan Float
	require.NoError(t, json.Unmarshal([]byte(`"NaN"`), &nan))
	assert.True(t, math.IsNaN(float64(nan)))
	assert.Error(t, json.Unmarshal([]byte(`"tall"`), &nan))
}

func TestEvaluationYAML(t *testing.T) {
	ev := Evaluation{Base: 3, Exponent: -7, Kind: "real", Real: Float(1.0 / 2187), Display: "x"}
	data, err := yaml.Marshal(ev)
	require.NoError(t, err)
	var decoded Evaluation
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, ev, decoded)
}

func TestCodecRejectsBadInput(t *testing.T) {
	_, err := decodeResult([]byte{1, 2, 3})
	assert.Error(t, err)

	b := encodeResult(exponent.RealResult(1))
	b[0] = 9
	_, err = decodeResult(b)
	assert.Error(t, err)

	r := exponent.ComplexResult(-1.5, 2.25)
	decoded, err := decodeResult(encodeResult(r))
	require.NoError(t, err)
	assert.Equal(t, r, decoded)
}
