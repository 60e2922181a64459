package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks calculator traffic.
type Metrics struct {
	// Calculations by tool and outcome (ok, invalid, error)
	Calculations *prometheus.CounterVec

	CalcLatency *prometheus.HistogramVec

	// Cable runs that no standard size could satisfy
	BoundsExceeded prometheus.Counter
}

// New registers the calculator metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Calculations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ampere_calculations_total",
			Help: "Calculator invocations by tool and outcome",
		}, []string{"tool", "outcome"}),

		CalcLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ampere_calculation_duration_seconds",
			Help:    "Duration of calculator requests by tool",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"tool"}),

		BoundsExceeded: f.NewCounter(prometheus.CounterOpts{
			Name: "ampere_cable_bounds_exceeded_total",
			Help: "Cable sizings where the size ladder was exhausted",
		}),
	}
}

func (m *Metrics) ObserveCalculation(tool, outcome string, d time.Duration) {
	if m != nil {
		m.Calculations.WithLabelValues(tool, outcome).Inc()
		m.CalcLatency.WithLabelValues(tool).Observe(d.Seconds())
	}
}

func (m *Metrics) IncBoundsExceeded() {
	if m != nil {
		m.BoundsExceeded.Inc()
	}
}
