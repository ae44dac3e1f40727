package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/mind-engage/permah/internal/scoring"
)

func TestObserveAggregate(t *testing.T) {
	m := New()
	m.ObserveAggregate(nil)
	m.ObserveAggregate(nil)
	_, err := scoring.Aggregate(scoring.DefaultAnswers().Without(5))
	m.ObserveAggregate(err)
	_, err = scoring.Aggregate(scoring.DefaultAnswers().With(5, 11))
	m.ObserveAggregate(err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.aggregations.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.aggregations.WithLabelValues(OutcomeIncomplete)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.aggregations.WithLabelValues(OutcomeOutOfRange)))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAggregate(nil)
	m.ObserveExport("csv")
	m.ObserveSessionStart()
}

func TestObserveExport(t *testing.T) {
	m := New()
	m.ObserveExport("png")
	m.ObserveSessionStart()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exports.WithLabelValues("png")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessions))
}
