package appctx

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects component construction metrics. A nil *Metrics records nothing.
type Metrics struct {
	constructions *prometheus.CounterVec
	duration      *prometheus.HistogramVec
}

// NewMetrics creates construction collectors and registers them with reg.
// Collectors already registered with reg are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		constructions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "appctx",
				Subsystem: "component",
				Name:      "constructions_total",
				Help:      "Total number of component constructions",
			},
			[]string{"component", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "appctx",
				Subsystem: "component",
				Name:      "construction_duration_seconds",
				Help:      "Time taken to construct and initialize a component, including its dependencies",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
			},
			[]string{"component"},
		),
	}

	var err error

	m.constructions, err = register(reg, m.constructions)
	if err != nil {
		return nil, err
	}

	m.duration, err = register(reg, m.duration)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) observe(component string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	result := "success"
	if err != nil {
		result = "error"
	}

	m.constructions.WithLabelValues(component, result).Inc()
	m.duration.WithLabelValues(component).Observe(duration.Seconds())
}

func register[C prometheus.Collector](reg prometheus.Registerer, collector C) (C, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing, nil
		}
	}

	return collector, err
}
