// Package metrics exposes wait and navigation outcomes to prometheus.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gitlab.com/darcyk/darcyk"
	"gitlab.com/darcyk/synq"
)

// WaitCollector counts wait outcomes by kind and times them. Add it to events with
// ObservedBy or to a navigator with WithObservers.
type WaitCollector struct {
	waits    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	polls    prometheus.Histogram

	transitions *prometheus.CounterVec
}

// NewWaitCollector registers its metrics with reg
func NewWaitCollector(reg prometheus.Registerer) *WaitCollector {
	factory := promauto.With(reg)
	return &WaitCollector{
		waits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "darcyk",
				Subsystem: "wait",
				Name:      "outcomes_total",
				Help:      "Total number of finished waits by outcome",
			},
			[]string{"outcome"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "darcyk",
				Subsystem: "wait",
				Name:      "duration_seconds",
				Help:      "Time spent waiting for a condition",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~80s
			},
			[]string{"outcome"},
		),
		polls: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "darcyk",
				Subsystem: "wait",
				Name:      "polls",
				Help:      "Number of polls before a wait finished",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "darcyk",
				Subsystem: "navigation",
				Name:      "transitions_total",
				Help:      "Total number of finished transitions by action and state",
			},
			[]string{"action", "state"},
		),
	}
}

// Observe implements synq.Observer
func (c *WaitCollector) Observe(ctx context.Context, o *synq.Outcome) {
	kind := o.Kind.String()
	c.waits.WithLabelValues(kind).Inc()
	c.duration.WithLabelValues(kind).Observe(o.Elapsed.Seconds())
	c.polls.Observe(float64(o.Polls))
}

// Recording counts transitions then passes them on to next, which may be nil
func (c *WaitCollector) Recording(next darcyk.Recorder) darcyk.Recorder {
	return &countingRecorder{c: c, next: next}
}

type countingRecorder struct {
	c    *WaitCollector
	next darcyk.Recorder
}

func (r *countingRecorder) RecordTransition(ctx context.Context, t *darcyk.Transition) error {
	r.c.transitions.WithLabelValues(t.Action.String(), t.State.String()).Inc()
	if r.next == nil {
		return nil
	}
	return r.next.RecordTransition(ctx, t)
}

// Handler serves the metrics gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
