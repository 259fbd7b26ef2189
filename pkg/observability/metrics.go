// Package observability exposes run and step metrics as lifecycle hooks.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/muunkky/hottopoteto/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by executor lifecycle events.
type Metrics struct {
	runsTotal    *prometheus.CounterVec
	runDuration  *prometheus.HistogramVec
	stepsTotal   *prometheus.CounterVec
	stepDuration *prometheus.HistogramVec
	runsInFlight prometheus.Gauge
}

// NewMetrics registers the collectors on reg. Pass prometheus.DefaultRegisterer
// for the global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		runsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hottopoteto_runs_total",
			Help: "Completed recipe runs by terminal status.",
		}, []string{"recipe", "status"}),
		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hottopoteto_run_duration_seconds",
			Help:    "Wall-clock duration of recipe runs.",
			Buckets: prometheus.DefBuckets,
		}, []string{"recipe"}),
		stepsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hottopoteto_steps_total",
			Help: "Executed steps by link type and terminal status.",
		}, []string{"recipe", "type", "status"}),
		stepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hottopoteto_step_duration_seconds",
			Help:    "Wall-clock duration of individual steps.",
			Buckets: prometheus.DefBuckets,
		}, []string{"recipe", "type"}),
		runsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "hottopoteto_runs_in_flight",
			Help: "Runs currently executing.",
		}),
	}
}

// Hooks returns lifecycle hooks feeding these collectors. Combine with other
// hooks via Merge when needed.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, ev *domain.RunEvent) {
			m.runsInFlight.Inc()
		},
		OnRunEnd: func(ctx context.Context, ev *domain.RunEvent) {
			m.runsInFlight.Dec()
			m.runsTotal.WithLabelValues(ev.Recipe, string(ev.Status)).Inc()
			m.runDuration.WithLabelValues(ev.Recipe).Observe(ev.Duration)
		},
		OnStepEnd: func(ctx context.Context, ev *domain.StepEvent) {
			m.stepsTotal.WithLabelValues(ev.Recipe, ev.StepType, string(ev.Status)).Inc()
			m.stepDuration.WithLabelValues(ev.Recipe, ev.StepType).Observe(ev.Duration)
		},
	}
}

// Merge chains hook sets so every callback in each set fires.
func Merge(sets ...domain.LifecycleHooks) domain.LifecycleHooks {
	var merged domain.LifecycleHooks
	for _, h := range sets {
		h := h
		prevRunStart, prevRunEnd := merged.OnRunStart, merged.OnRunEnd
		prevStepStart, prevStepEnd := merged.OnStepStart, merged.OnStepEnd

		if h.OnRunStart != nil {
			merged.OnRunStart = chainRun(prevRunStart, h.OnRunStart)
		}
		if h.OnRunEnd != nil {
			merged.OnRunEnd = chainRun(prevRunEnd, h.OnRunEnd)
		}
		if h.OnStepStart != nil {
			merged.OnStepStart = chainStep(prevStepStart, h.OnStepStart)
		}
		if h.OnStepEnd != nil {
			merged.OnStepEnd = chainStep(prevStepEnd, h.OnStepEnd)
		}
	}
	return merged
}

func chainRun(a, b func(context.Context, *domain.RunEvent)) func(context.Context, *domain.RunEvent) {
	if a == nil {
		return b
	}
	return func(ctx context.Context, ev *domain.RunEvent) {
		a(ctx, ev)
		b(ctx, ev)
	}
}

func chainStep(a, b func(context.Context, *domain.StepEvent)) func(context.Context, *domain.StepEvent) {
	if a == nil {
		return b
	}
	return func(ctx context.Context, ev *domain.StepEvent) {
		a(ctx, ev)
		b(ctx, ev)
	}
}
