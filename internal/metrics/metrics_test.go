package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveCalculation(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveCalculation("cable", "ok", time.Millisecond)
	m.ObserveCalculation("cable", "ok", time.Millisecond)
	m.ObserveCalculation("cable", "invalid", time.Millisecond)
	m.IncBoundsExceeded()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Calculations.WithLabelValues("cable", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Calculations.WithLabelValues("cable", "invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BoundsExceeded))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCalculation("demand", "ok", time.Second)
		m.IncBoundsExceeded()
	})
}
