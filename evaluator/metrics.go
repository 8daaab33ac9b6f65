package evaluator

import (
	"errors"

	"github.com/Invicton-Labs/go-exponent/exponent"
	"github.com/Invicton-Labs/go-stackerr"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const (
	metricsNamespace = "exponent"
	// ErrorKindPanic marks a batch case whose evaluation panicked.
	ErrorKindPanic = "panic"
)

// MetricSample is one exported metric value. Histograms are reported as
// their _count and _sum samples.
type MetricSample struct {
	Name   string            `json:"name" yaml:"name"`
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Value  float64           `json:"value" yaml:"value"`
}

type metrics struct {
	// Every evaluator gathers its own collectors from here, whether or
	// not they are also registered elsewhere.
	registry *prometheus.Registry

	evaluations  *prometheus.CounterVec
	failures     *prometheus.CounterVec
	cacheHits    prometheus.Counter
	seriesTerms  *prometheus.HistogramVec
	seriesCapped *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, stackerr.Error) {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "evaluations_total",
			Help:      "Number of powers computed, by result kind.",
		}, []string{"kind"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "failures_total",
			Help:      "Number of evaluations that returned an error, by error kind.",
		}, []string{"error_kind"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_hits_total",
			Help:      "Number of evaluations served from the result cache.",
		}),
		seriesTerms: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "series_terms",
			Help:      "Number of terms summed per Taylor series evaluation.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 16),
		}, []string{"series"}),
		seriesCapped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "series_capped_total",
			Help:      "Number of Taylor series evaluations stopped by the iteration cap.",
		}, []string{"series"}),
	}
	collectors := []prometheus.Collector{m.evaluations, m.failures, m.cacheHits, m.seriesTerms, m.seriesCapped}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return nil, stackerr.Wrap(err)
		}
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				return nil, stackerr.Errorf("Evaluator metrics are already registered with this registerer")
			}
			return nil, stackerr.Wrap(err)
		}
	}
	return m, nil
}

func (m *metrics) observeSeries(stats exponent.SeriesStats) {
	m.seriesTerms.WithLabelValues(stats.Series).Observe(float64(stats.Terms))
	if stats.Capped {
		m.seriesCapped.WithLabelValues(stats.Series).Inc()
	}
}

func (m *metrics) failure(err error) {
	kind := exponent.ErrorKind(err)
	if kind == "" {
		kind = "unknown"
	}
	m.failures.WithLabelValues(kind).Inc()
}

// snapshot gathers the current value of every metric, sorted by name and
// then by labels.
func (m *metrics) snapshot() ([]MetricSample, stackerr.Error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, stackerr.Wrap(err)
	}
	samples := []MetricSample{}
	for _, family := range families {
		name := family.GetName()
		for _, metric := range family.GetMetric() {
			labels := metricLabels(metric)
			switch family.GetType() {
			case dto.MetricType_COUNTER:
				samples = append(samples, MetricSample{Name: name, Labels: labels, Value: metric.GetCounter().GetValue()})
			case dto.MetricType_GAUGE:
				samples = append(samples, MetricSample{Name: name, Labels: labels, Value: metric.GetGauge().GetValue()})
			case dto.MetricType_HISTOGRAM:
				h := metric.GetHistogram()
				samples = append(samples,
					MetricSample{Name: name + "_count", Labels: labels, Value: float64(h.GetSampleCount())},
					MetricSample{Name: name + "_sum", Labels: labels, Value: h.GetSampleSum()},
				)
			}
		}
	}
	return samples, nil
}

func metricLabels(metric *dto.Metric) map[string]string {
	if len(metric.GetLabel()) == 0 {
		return nil
	}
	labels := make(map[string]string, len(metric.GetLabel()))
	for _, pair := range metric.GetLabel() {
		labels[pair.GetName()] = pair.GetValue()
	}
	return labels
}
