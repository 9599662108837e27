package transition

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
)

// routerMetrics holds the Prometheus collectors a Router registers when
// constructed with WithMetrics (SPEC_FULL.md §3.1), grounded on
// rivaas-dev/rivaas/router's metrics.go counter/histogram wiring.
type routerMetrics struct {
	transitionsTotal       *prometheus.CounterVec
	validationDurationSecs prometheus.Histogram
}

func newRouterMetrics(reg prometheus.Registerer) *routerMetrics {
	m := &routerMetrics{
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transitions_total",
			Help: "Total number of route transitions attempted, by outcome.",
		}, []string{"outcome"}),
		validationDurationSecs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "transition_validation_duration_seconds",
			Help: "Time spent in the validation pipeline per transition.",
		}),
	}
	reg.MustRegister(m.transitionsTotal, m.validationDurationSecs)
	return m
}

// transitionSpanAttributes builds the otel span attributes described in
// SPEC_FULL.md §3.1 for the transition.perform span.
func transitionSpanAttributes(t *Transition, mp matchPointResult) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("target_name", t.targetName),
		attribute.Int64("sequence", t.sequence),
		attribute.Int("match_point", mp.matchPoint),
		attribute.String("trace_id", t.traceID),
	}
}
