package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mind-engage/permah/internal/scoring"
)

// Outcome labels for aggregations.
const (
	OutcomeOK         = "ok"
	OutcomeIncomplete = "incomplete"
	OutcomeOutOfRange = "out_of_range"
	OutcomeInvalid    = "invalid"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	reg          *prometheus.Registry
	aggregations *prometheus.CounterVec
	exports      *prometheus.CounterVec
	sessions     prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		aggregations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "permah",
			Name:      "aggregations_total",
			Help:      "Answer sets aggregated, by outcome.",
		}, []string{"outcome"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "permah",
			Name:      "exports_total",
			Help:      "Export files produced, by format.",
		}, []string{"format"}),
		sessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "permah",
			Name:      "sessions_started_total",
			Help:      "Survey sessions started.",
		}),
	}
	m.reg.MustRegister(
		m.aggregations, m.exports, m.sessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveAggregate records the outcome of one Aggregate call.
func (m *Metrics) ObserveAggregate(err error) {
	if m == nil {
		return
	}
	m.aggregations.WithLabelValues(Outcome(err)).Inc()
}

func (m *Metrics) ObserveExport(format string) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(format).Inc()
}

func (m *Metrics) ObserveSessionStart() {
	if m == nil {
		return
	}
	m.sessions.Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Outcome maps an aggregation error to its label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, scoring.ErrIncompleteInput):
		return OutcomeIncomplete
	case errors.Is(err, scoring.ErrOutOfRange):
		return OutcomeOutOfRange
	default:
		return OutcomeInvalid
	}
}
