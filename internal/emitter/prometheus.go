package emitter

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusBackend counts node/workflow lifecycle events by channel
// and status. It gives the engine's "observability" ambient concern a
// concrete, scrapeable component, the way the rest of the retrieval
// pack wires client_golang counters into service lifecycles.
type PrometheusBackend struct {
	events *prometheus.CounterVec
}

// NewPrometheusBackend creates a PrometheusBackend and registers its
// collector against reg. Pass prometheus.DefaultRegisterer for the
// process-global registry.
func NewPrometheusBackend(reg prometheus.Registerer) (*PrometheusBackend, error) {
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "flowforge",
		Subsystem: "engine",
		Name:      "events_total",
		Help:      "Count of lifecycle events emitted by the scheduler, by channel and status.",
	}, []string{"channel", "status"})

	if err := reg.Register(events); err != nil {
		return nil, fmt.Errorf("emitter: register prometheus collector: %w", err)
	}
	return &PrometheusBackend{events: events}, nil
}

// Emit increments the counter for eventName and the payload's status
// field. Payloads without a recognizable status (neither NodeEvent nor
// WorkflowEvent) are counted under status "unknown".
func (p *PrometheusBackend) Emit(eventName string, payload any) error {
	status := "unknown"
	switch ev := payload.(type) {
	case NodeEvent:
		status = ev.Status
	case WorkflowEvent:
		status = ev.Status
	}
	p.events.WithLabelValues(eventName, status).Inc()
	return nil
}
