// Package metrics exposes session lifecycle events as Prometheus metrics.
package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/syllabus/pkg/domain"
)

// Metrics holds the collectors fed by the controller's lifecycle hooks.
type Metrics struct {
	Transitions *prometheus.CounterVec
	Changes     *prometheus.CounterVec
	Completions *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
// Each server passes its own registry so tests can build several.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "syllabus_session_transitions_total",
				Help: "Session state transitions by target state",
			},
			[]string{"to"},
		),
		Changes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "syllabus_workspace_paths_total",
				Help: "Workspace paths reported by the mutator, by status",
			},
			[]string{"status"},
		),
		Completions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "syllabus_topic_completions_total",
				Help: "Confirmed topics, by whether the ledger append was skipped",
			},
			[]string{"skipped"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Transitions, m.Changes, m.Completions)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(string(e.To)).Inc()
		},
		OnMutation: func(_ context.Context, e *domain.MutationEvent) {
			for _, c := range e.Report.Changes {
				m.Changes.WithLabelValues(string(c.Status)).Inc()
			}
		},
		OnComplete: func(_ context.Context, e *domain.CompleteEvent) {
			skipped := "false"
			if e.Skipped {
				skipped = "true"
			}
			m.Completions.WithLabelValues(skipped).Inc()
		},
	}
}
