package internal

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// Navigation outcomes recorded by ObserveNavigation.
const (
	OutcomeCommitted = "committed"
	OutcomeCancelled = "cancelled"
	OutcomeFailed    = "failed"
)

var (
	navigationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "birdhouse",
		Name:      "navigations_total",
		Help:      "Navigation attempts by outcome.",
	}, []string{"outcome"})

	navigationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "birdhouse",
		Name:      "navigation_duration_seconds",
		Help:      "Time from token issuance to the end of a navigation attempt.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	})

	moduleFaultsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "birdhouse",
		Name:      "module_faults_total",
		Help:      "Page module failures by lifecycle phase.",
	}, []string{"phase"})

	tracerOnce sync.Once
	tracer     trace.Tracer
)

// ObserveNavigation records the outcome and duration of one attempt.
func ObserveNavigation(outcome string, elapsed time.Duration) {
	navigationsTotal.WithLabelValues(outcome).Inc()
	navigationDuration.Observe(elapsed.Seconds())
}

// CountModuleFault records a failed load, run or free.
func CountModuleFault(phase string) {
	moduleFaultsTotal.WithLabelValues(phase).Inc()
}

// Tracer returns the package tracer, created lazily from the global provider.
func Tracer() trace.Tracer {
	tracerOnce.Do(func() {
		tracer = otel.Tracer("github.com/BrandonKowalski/birdhouse/router")
	})
	return tracer
}
