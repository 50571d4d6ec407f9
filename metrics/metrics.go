// Package metrics holds the prometheus collectors of the service.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "valeai"

type Metrics struct {
	chatResolved   *prometheus.CounterVec
	modelError     *prometheus.CounterVec
	modelLatency   *prometheus.HistogramVec
	filesIngested  *prometheus.CounterVec
	imagesRendered prometheus.Counter
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		chatResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_resolved_total",
			Help:      "Chat messages answered, by resolution mode.",
		}, []string{"mode"}),
		modelError: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_error_total",
			Help:      "Remote model failures, by operation.",
		}, []string{"operation"}),
		modelLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_request_seconds",
			Help:      "Remote model request latency, by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		filesIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_ingested_total",
			Help:      "Uploaded files persisted, by analysis outcome.",
		}, []string{"analysis"}),
		imagesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_generated_total",
			Help:      "Educational images generated.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.chatResolved, m.modelError, m.modelLatency, m.filesIngested, m.imagesRendered)
	}
	return m
}

func (m *Metrics) ChatResolvedInc(mode string) {
	if m == nil {
		return
	}
	m.chatResolved.WithLabelValues(mode).Inc()
}

func (m *Metrics) ModelErrorInc(operation string) {
	if m == nil {
		return
	}
	m.modelError.WithLabelValues(operation).Inc()
}

// ModelTimer returns a func that observes the elapsed time when called.
func (m *Metrics) ModelTimer(operation string) func() {
	if m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.modelLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) FileIngestedInc(analysis string) {
	if m == nil {
		return
	}
	m.filesIngested.WithLabelValues(analysis).Inc()
}

func (m *Metrics) ImageGeneratedInc() {
	if m == nil {
		return
	}
	m.imagesRendered.Inc()
}
