// Package metrics provides observability for the subscription engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks subscribe/cancel outcomes, rollback occurrences, and the
// engine's critical-path durations.
type Metrics struct {
	Subscriptions     *prometheus.CounterVec
	Cancellations     *prometheus.CounterVec
	Rollbacks         prometheus.Counter
	SubscribeDuration prometheus.Histogram
	CancelDuration    prometheus.Histogram
}

// New creates a Metrics instance with all engine metrics registered.
func New() *Metrics {
	return &Metrics{
		Subscriptions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fondos_subscriptions_total",
			Help: "Total subscribe attempts by result",
		}, []string{"result"}),
		Cancellations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "fondos_cancellations_total",
			Help: "Total cancel attempts by result",
		}, []string{"result"}),
		Rollbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "fondos_engine_rollbacks_total",
			Help: "Total compensating rollbacks after a partial persistence failure",
		}),
		SubscribeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fondos_subscribe_duration_seconds",
			Help:    "Duration of Subscribe operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		CancelDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "fondos_cancel_duration_seconds",
			Help:    "Duration of Cancel operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// CountSubscribe records a subscribe attempt with its result label.
func (m *Metrics) CountSubscribe(result string) {
	m.Subscriptions.WithLabelValues(result).Inc()
}

// CountCancel records a cancel attempt with its result label.
func (m *Metrics) CountCancel(result string) {
	m.Cancellations.WithLabelValues(result).Inc()
}

// ObserveSubscribe records the duration of a Subscribe operation. Call with
// time.Now() at the start of the operation.
func (m *Metrics) ObserveSubscribe(start time.Time) {
	m.SubscribeDuration.Observe(time.Since(start).Seconds())
}

// ObserveCancel records the duration of a Cancel operation. Call with
// time.Now() at the start of the operation.
func (m *Metrics) ObserveCancel(start time.Time) {
	m.CancelDuration.Observe(time.Since(start).Seconds())
}
