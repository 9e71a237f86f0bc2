// Package metrics provides Prometheus instrumentation for robohand.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Frame sources.
const (
	SourceCamera    = "camera"
	SourceWebSocket = "websocket"
)

// Option applies a configuration option to the Metrics.
type Option func(*Metrics)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Metrics) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry sets the registry metrics are registered on and served from.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(m *Metrics) {
		if reg != nil {
			m.registry = reg
		}
	}
}

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	namespace string
	registry  *prometheus.Registry

	framesProcessed    *prometheus.CounterVec
	commandsRecognized *prometheus.CounterVec
	transitions        *prometheus.CounterVec
	sessionsActive     prometheus.Gauge
	frameDuration      prometheus.Histogram
	pluginExecutions   *prometheus.CounterVec
	dispatchDropped    prometheus.Counter
}

// New creates the collectors on a private registry unless WithRegistry is given.
func New(opts ...Option) *Metrics {
	m := &Metrics{
		namespace: "robohand",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.framesProcessed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "frames_processed_total",
		Help:      "Total number of landmark frames processed, by source.",
	}, []string{"source"})

	m.commandsRecognized = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "commands_recognized_total",
		Help:      "Total number of frames that produced a command, by command.",
	}, []string{"command"})

	m.transitions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "session_transitions_total",
		Help:      "Session events by kind (activated, suspended, changed).",
	}, []string{"event"})

	m.sessionsActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "sessions_active",
		Help:      "Number of open sessions.",
	})

	m.frameDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "frame_processing_seconds",
		Help:      "Time spent classifying one frame.",
		Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	})

	m.pluginExecutions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "plugin_executions_total",
		Help:      "Plugin executions by plugin and result (ok, error).",
	}, []string{"plugin", "result"})

	m.dispatchDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "dispatch_dropped_total",
		Help:      "Session events dropped because the dispatch queue was full.",
	})

	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// FrameProcessed records one frame from source and how long it took.
func (m *Metrics) FrameProcessed(source string, d time.Duration) {
	if m == nil {
		return
	}
	m.framesProcessed.WithLabelValues(source).Inc()
	m.frameDuration.Observe(d.Seconds())
}

// CommandRecognized counts a frame that produced command.
func (m *Metrics) CommandRecognized(command string) {
	if m == nil {
		return
	}
	m.commandsRecognized.WithLabelValues(command).Inc()
}

// Transition counts a session event.
func (m *Metrics) Transition(event string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(event).Inc()
}

// SessionOpened increments the open session gauge.
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessionsActive.Inc()
}

// SessionClosed decrements the open session gauge.
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessionsActive.Dec()
}

// PluginExecuted records a plugin run.
func (m *Metrics) PluginExecuted(plugin string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.pluginExecutions.WithLabelValues(plugin, result).Inc()
}

// DispatchDropped counts an event dropped by a full queue.
func (m *Metrics) DispatchDropped() {
	if m == nil {
		return
	}
	m.dispatchDropped.Inc()
}
