// Package metrics provides Prometheus instrumentation for the command engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Label constants for metrics.
const (
	LabelCommand = "command"
	LabelStatus  = "status"
	LabelCode    = "code"
)

// Status values for command execution.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Metrics tracks command engine activity. A nil *Metrics is a valid no-op
// receiver, so callers can pass nil when metrics are disabled.
type Metrics struct {
	commandsTotal   *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	scriptsTotal    prometheus.Counter
	documentsRead   prometheus.Counter
	documentsWrit   prometheus.Counter

	registered bool
}

// NewMetrics creates and registers engine metrics.
// If registry is nil, metrics are created but not registered (useful for testing).
func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bytengine",
				Subsystem: "engine",
				Name:      "commands_total",
				Help:      "Total number of commands executed",
			},
			[]string{LabelCommand, LabelStatus},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bytengine",
				Subsystem: "engine",
				Name:      "errors_total",
				Help:      "Total number of command errors by error code",
			},
			[]string{LabelCode},
		),

		commandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "bytengine",
				Subsystem: "engine",
				Name:      "command_duration_seconds",
				Help:      "Time spent executing a single command",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
			[]string{LabelCommand},
		),

		scriptsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "bytengine",
				Subsystem: "engine",
				Name:      "scripts_total",
				Help:      "Total number of scripts submitted for execution",
			},
		),

		documentsRead: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "bytengine",
				Subsystem: "query",
				Name:      "documents_read_total",
				Help:      "Total number of documents scanned by select statements",
			},
		),

		documentsWrit: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "bytengine",
				Subsystem: "query",
				Name:      "documents_written_total",
				Help:      "Total number of documents modified by set and unset statements",
			},
		),
	}

	if registry != nil {
		registry.MustRegister(
			m.commandsTotal,
			m.errorsTotal,
			m.commandDuration,
			m.scriptsTotal,
			m.documentsRead,
			m.documentsWrit,
		)
		m.registered = true
	}

	return m
}

// ObserveCommand records a completed command execution.
func (m *Metrics) ObserveCommand(command string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	status := StatusOK
	if err != nil {
		status = StatusError
	}

	m.commandsTotal.WithLabelValues(command, status).Inc()
	m.commandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// ObserveError records a command failure by error code.
func (m *Metrics) ObserveError(code string) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(code).Inc()
}

// ObserveScript records a script submission.
func (m *Metrics) ObserveScript() {
	if m == nil {
		return
	}
	m.scriptsTotal.Inc()
}

// ObserveDocumentsRead records documents scanned by a select.
func (m *Metrics) ObserveDocumentsRead(n int) {
	if m == nil {
		return
	}
	m.documentsRead.Add(float64(n))
}

// ObserveDocumentsWritten records documents touched by a mutation.
func (m *Metrics) ObserveDocumentsWritten(n int) {
	if m == nil {
		return
	}
	m.documentsWrit.Add(float64(n))
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	if m == nil || !m.registered {
		return
	}

	m.commandsTotal.Describe(ch)
	m.errorsTotal.Describe(ch)
	m.commandDuration.Describe(ch)
	ch <- m.scriptsTotal.Desc()
	ch <- m.documentsRead.Desc()
	ch <- m.documentsWrit.Desc()
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	if m == nil || !m.registered {
		return
	}

	m.commandsTotal.Collect(ch)
	m.errorsTotal.Collect(ch)
	m.commandDuration.Collect(ch)
	ch <- m.scriptsTotal
	ch <- m.documentsRead
	ch <- m.documentsWrit
}
