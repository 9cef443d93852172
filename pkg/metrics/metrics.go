// Copyright 2025 Certen Protocol
//
// Prometheus metrics for executor runs and verifier replays. The teacher
// repo requires github.com/prometheus/client_golang directly (go.mod)
// without ever registering a collector; this package is where that
// dependency finally gets exercised, wired to the two pipeline stages
// SPEC_FULL.md describes (section 4.5 execute, section 4.6 verify).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry bundles the collectors this service reports, analogous to a
// per-service metrics struct registered once at startup.
type Registry struct {
	RunsTotal       *prometheus.CounterVec
	StepsTotal      *prometheus.CounterVec
	ElidedStepsTotal prometheus.Counter
	RunDuration     prometheus.Histogram
	VerifyTotal     *prometheus.CounterVec
}

// NewRegistry constructs and registers the collectors against reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	m := &Registry{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semtrace",
			Name:      "runs_total",
			Help:      "Executor runs, labeled by outcome (ok, empty_set, parse_error, schema_error, error).",
		}, []string{"outcome"}),
		StepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semtrace",
			Name:      "steps_total",
			Help:      "Trace steps committed, labeled by op name.",
		}, []string{"op"}),
		ElidedStepsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "semtrace",
			Name:      "elided_steps_total",
			Help:      "SET_BIT ops dropped by redundancy elision before commitment.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "semtrace",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock time to execute one op list into a transcript.",
			Buckets:   prometheus.DefBuckets,
		}),
		VerifyTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "semtrace",
			Name:      "verify_total",
			Help:      "Verifier replays, labeled by verdict (valid, invalid).",
		}, []string{"verdict"}),
	}
	reg.MustRegister(m.RunsTotal, m.StepsTotal, m.ElidedStepsTotal, m.RunDuration, m.VerifyTotal)
	return m
}
