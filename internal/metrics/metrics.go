// Package metrics holds the Prometheus collectors of the panel.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blockpanel"

// Resolver outcomes.
const (
	OutcomeModel    = "model"
	OutcomeStatic   = "static"
	OutcomeFallback = "fallback"
	OutcomeCacheHit = "cache_hit"
	OutcomeError    = "error"
)

// Metrics groups every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	ResolverRequests   *prometheus.CounterVec
	LockdownsTriggered prometheus.Counter
	LockdownActive     prometheus.Gauge
	WizardTransitions  *prometheus.CounterVec
	Applications       *prometheus.GaugeVec
}

// New registers all collectors on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		ResolverRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolver_requests_total",
				Help:      "Domain resolutions by outcome",
			},
			[]string{"outcome"},
		),
		LockdownsTriggered: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lockdowns_triggered_total",
				Help:      "Number of lockdowns triggered by a forbidden name",
			},
		),
		LockdownActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "lockdown_active",
				Help:      "1 while a lockdown is in force",
			},
		),
		WizardTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "wizard_transitions_total",
				Help:      "Deletion wizard step transitions",
			},
			[]string{"step"},
		),
		Applications: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "applications",
				Help:      "Applications in the registry by status",
			},
			[]string{"status"},
		),
	}
}

func (m *Metrics) Resolved(outcome string) {
	if m == nil {
		return
	}
	m.ResolverRequests.WithLabelValues(outcome).Inc()
}

func (m *Metrics) LockdownTriggered() {
	if m == nil {
		return
	}
	m.LockdownsTriggered.Inc()
}

func (m *Metrics) SetLockdownActive(active bool) {
	if m == nil {
		return
	}
	if active {
		m.LockdownActive.Set(1)
	} else {
		m.LockdownActive.Set(0)
	}
}

func (m *Metrics) WizardStep(step string) {
	if m == nil {
		return
	}
	m.WizardTransitions.WithLabelValues(step).Inc()
}

// SetApplications records the registry size split by status.
func (m *Metrics) SetApplications(active, blocked int) {
	if m == nil {
		return
	}
	m.Applications.WithLabelValues("ACTIVE").Set(float64(active))
	m.Applications.WithLabelValues("BLOCKED").Set(float64(blocked))
}
