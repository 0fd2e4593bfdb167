package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tailored-agentic-units/eventify/eventify"
)

// MetricsObserver counts intercepted calls per operation and records how many
// arguments each call carried.
type MetricsObserver struct {
	calls     *prometheus.CounterVec
	arguments *prometheus.HistogramVec
}

// NewMetricsObserver creates a MetricsObserver and registers its collectors
// with reg. Collectors already registered by an earlier MetricsObserver are
// reused, so several observers can share one registry.
func NewMetricsObserver(reg prometheus.Registerer) (*MetricsObserver, error) {
	calls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventify_operation_calls_total",
			Help: "Total number of intercepted operation calls",
		},
		[]string{"operation"},
	)
	arguments := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventify_operation_arguments",
			Help:    "Number of arguments passed to intercepted operations",
			Buckets: []float64{0, 1, 2, 4, 8, 16},
		},
		[]string{"operation"},
	)

	var err error
	if calls, err = register(reg, calls); err != nil {
		return nil, err
	}
	if arguments, err = register(reg, arguments); err != nil {
		return nil, err
	}

	return &MetricsObserver{calls: calls, arguments: arguments}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("failed to register metrics collector: %w", err)
	}
	return c, nil
}

// Calls returns the per-operation call counter.
func (o *MetricsObserver) Calls() *prometheus.CounterVec {
	return o.calls
}

// Arguments returns the per-operation argument count histogram.
func (o *MetricsObserver) Arguments() *prometheus.HistogramVec {
	return o.arguments
}

func (o *MetricsObserver) OnEvent(_ context.Context, event eventify.Event) error {
	o.calls.WithLabelValues(event.Operation).Inc()
	o.arguments.WithLabelValues(event.Operation).Observe(float64(event.Len()))
	return nil
}
