// Package metrics provides Prometheus metrics for the appliance and the
// HTTP server that exposes them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

const namespace = "babelbox"

// Metrics holds all Prometheus metrics for the appliance
type Metrics struct {
	RunsTotal     *prometheus.CounterVec
	RunDuration   prometheus.Histogram
	StageDuration *prometheus.HistogramVec
	EventsDropped *prometheus.CounterVec
	Errors        *prometheus.CounterVec
	BreakerState  *prometheus.GaugeVec
	Busy          prometheus.Gauge
}

// New creates all metrics and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Translation runs by outcome",
		}, []string{"outcome"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Time from GO press to the outcome screen",
			Buckets:   []float64{1, 2, 3, 5, 8, 12, 20, 30},
		}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each pipeline stage",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		}, []string{"stage"}),
		EventsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Button events dropped because a run was in progress",
		}, []string{"event"}),
		Errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Errors written to the journal by category",
		}, []string{"category"}),
		BreakerState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "breaker_state",
			Help:      "Circuit breaker state per service (0 closed, 1 half-open, 2 open)",
		}, []string{"service"}),
		Busy: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "busy",
			Help:      "1 while a translation run is in progress",
		}),
	}
}

// RunStarted marks the appliance busy
func (m *Metrics) RunStarted() {
	m.Busy.Set(1)
}

// RunFinished records the outcome of a run
func (m *Metrics) RunFinished(outcome string, d time.Duration) {
	m.Busy.Set(0)
	m.RunsTotal.WithLabelValues(outcome).Inc()
	m.RunDuration.Observe(d.Seconds())
}

// StageFinished records the duration of one stage
func (m *Metrics) StageFinished(stage string, d time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// EventDropped counts an event ignored while busy
func (m *Metrics) EventDropped(event string) {
	m.EventsDropped.WithLabelValues(event).Inc()
}

// BreakerChanged is a breaker.Config OnStateChange callback
func (m *Metrics) BreakerChanged(name string, from, to gobreaker.State) {
	m.BreakerState.WithLabelValues(name).Set(float64(to))
}

// ErrorLog receives categorized errors
type ErrorLog interface {
	LogError(category, message string)
}

type countingErrorLog struct {
	next    ErrorLog
	counter *prometheus.CounterVec
}

// CountErrors wraps next so that every logged error is counted by category
func (m *Metrics) CountErrors(next ErrorLog) ErrorLog {
	return &countingErrorLog{next: next, counter: m.Errors}
}

func (c *countingErrorLog) LogError(category, message string) {
	c.counter.WithLabelValues(category).Inc()
	if c.next != nil {
		c.next.LogError(category, message)
	}
}
