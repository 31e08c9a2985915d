package rmw

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "rmw_dds"

// metrics holds Prometheus collectors for discovery and service traffic.
// A nil *metrics records nothing.
type metrics struct {
	discoverySamples   *prometheus.CounterVec // by kind and state
	discoveryErrors    *prometheus.CounterVec // by kind
	graphTriggers      *prometheus.CounterVec // by kind
	requestsSent       *prometheus.CounterVec // by service
	requestsTaken      *prometheus.CounterVec // by service
	responsesSent      *prometheus.CounterVec // by service
	responsesTaken     *prometheus.CounterVec // by service
	responsesDiscarded *prometheus.CounterVec // by service
	requestQueueDepth  *prometheus.GaugeVec   // by service
}

// newMetrics creates and registers the collectors with reg.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	if reg == nil {
		return nil, nil // Metrics disabled
	}

	counter := func(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      name,
			Help:      help,
		}, labels)
	}

	m := &metrics{
		discoverySamples:   counter("discovery", "samples_total", "Discovery samples processed", "kind", "state"),
		discoveryErrors:    counter("discovery", "errors_total", "Discovery batches abandoned after an error", "kind"),
		graphTriggers:      counter("discovery", "graph_triggers_total", "Graph guard condition triggers", "kind"),
		requestsSent:       counter("service", "requests_sent_total", "Requests written by clients", "service"),
		requestsTaken:      counter("service", "requests_taken_total", "Requests taken by services", "service"),
		responsesSent:      counter("service", "responses_sent_total", "Responses written by services", "service"),
		responsesTaken:     counter("service", "responses_taken_total", "Responses delivered to their client", "service"),
		responsesDiscarded: counter("service", "responses_discarded_total", "Responses addressed to another client", "service"),
		requestQueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "service",
			Name:      "request_queue_depth",
			Help:      "Requests waiting to be taken",
		}, []string{"service"}),
	}

	var err error
	if m.discoverySamples, err = registerCounter(reg, m.discoverySamples); err != nil {
		return nil, err
	}
	if m.discoveryErrors, err = registerCounter(reg, m.discoveryErrors); err != nil {
		return nil, err
	}
	if m.graphTriggers, err = registerCounter(reg, m.graphTriggers); err != nil {
		return nil, err
	}
	if m.requestsSent, err = registerCounter(reg, m.requestsSent); err != nil {
		return nil, err
	}
	if m.requestsTaken, err = registerCounter(reg, m.requestsTaken); err != nil {
		return nil, err
	}
	if m.responsesSent, err = registerCounter(reg, m.responsesSent); err != nil {
		return nil, err
	}
	if m.responsesTaken, err = registerCounter(reg, m.responsesTaken); err != nil {
		return nil, err
	}
	if m.responsesDiscarded, err = registerCounter(reg, m.responsesDiscarded); err != nil {
		return nil, err
	}
	if err := reg.Register(m.requestQueueDepth); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		m.requestQueueDepth = are.ExistingCollector.(*prometheus.GaugeVec)
	}
	return m, nil
}

// registerCounter registers c, reusing a collector registered earlier by
// another context.
func registerCounter(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector.(*prometheus.CounterVec), nil
		}
		return nil, err
	}
	return c, nil
}

func (m *metrics) discoverySample(kind, state string) {
	if m != nil {
		m.discoverySamples.WithLabelValues(kind, state).Inc()
	}
}

func (m *metrics) discoveryError(kind string) {
	if m != nil {
		m.discoveryErrors.WithLabelValues(kind).Inc()
	}
}

func (m *metrics) graphTrigger(kind string) {
	if m != nil {
		m.graphTriggers.WithLabelValues(kind).Inc()
	}
}

func (m *metrics) requestSent(service string) {
	if m != nil {
		m.requestsSent.WithLabelValues(service).Inc()
	}
}

func (m *metrics) requestTaken(service string) {
	if m != nil {
		m.requestsTaken.WithLabelValues(service).Inc()
	}
}

func (m *metrics) responseSent(service string) {
	if m != nil {
		m.responsesSent.WithLabelValues(service).Inc()
	}
}

func (m *metrics) responseTaken(service string) {
	if m != nil {
		m.responsesTaken.WithLabelValues(service).Inc()
	}
}

func (m *metrics) responseDiscarded(service string) {
	if m != nil {
		m.responsesDiscarded.WithLabelValues(service).Inc()
	}
}

func (m *metrics) queueDepth(service string, depth int) {
	if m != nil {
		m.requestQueueDepth.WithLabelValues(service).Set(float64(depth))
	}
}
