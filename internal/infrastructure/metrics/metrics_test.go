package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ReminderSent()
		m.ReminderFailed()
		m.Tick()
		m.ParseError()
		m.PersistError("tasks")
		m.ObserveRequest("GET", "/api/v1/tasks", 200, time.Millisecond)
	})
}

func TestCounters(t *testing.T) {
	m := New()
	m.ReminderSent()
	m.ReminderSent()
	m.ReminderFailed()
	m.Tick()
	m.PersistError("tasks")
	m.ObserveRequest("GET", "/api/v1/tasks", 200, 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RemindersSent))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RemindersFailed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReminderTicks))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PersistErrors.WithLabelValues("tasks")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/v1/tasks", "200")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "reminders_sent_total 2")
}
