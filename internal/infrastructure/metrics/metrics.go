// Package metrics owns the Prometheus registry and the application
// collectors. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups every collector exported on /metrics
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	RemindersSent     prometheus.Counter
	RemindersFailed   prometheus.Counter
	ReminderTicks     prometheus.Counter
	ReminderParseErrs prometheus.Counter
	PersistErrors     *prometheus.CounterVec
}

// New creates and registers all collectors on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		RemindersSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reminders_sent_total",
			Help: "Reminder emails delivered",
		}),
		RemindersFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reminders_failed_total",
			Help: "Reminder emails that could not be delivered",
		}),
		ReminderTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reminder_ticks_total",
			Help: "Reminder evaluation passes",
		}),
		ReminderParseErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "reminder_parse_errors_total",
			Help: "Tasks skipped because the due date could not be parsed",
		}),
		PersistErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_persist_errors_total",
				Help: "Failed writes to the storage backend",
			},
			[]string{"kind"},
		),
	}

	m.registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RemindersSent,
		m.RemindersFailed,
		m.ReminderTicks,
		m.ReminderParseErrs,
		m.PersistErrors,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ReminderSent() {
	if m != nil {
		m.RemindersSent.Inc()
	}
}

func (m *Metrics) ReminderFailed() {
	if m != nil {
		m.RemindersFailed.Inc()
	}
}

func (m *Metrics) Tick() {
	if m != nil {
		m.ReminderTicks.Inc()
	}
}

func (m *Metrics) ParseError() {
	if m != nil {
		m.ReminderParseErrs.Inc()
	}
}

func (m *Metrics) PersistError(kind string) {
	if m != nil {
		m.PersistErrors.WithLabelValues(kind).Inc()
	}
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
