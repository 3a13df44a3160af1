package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.BookingCreated()
		m.BookingFailed("conflict")
		m.LoginAttempt("local", "failure")
		m.DocumentRendered("bilty")
		m.ReminderSent()
	})
}

func TestCountersAndHandler(t *testing.T) {
	m := NewMetrics("fleetiva")
	m.BookingCreated()
	m.BookingCreated()
	m.LoginAttempt("local", "success")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "fleetiva_bookings_created_total 2")
	assert.Contains(t, body, `fleetiva_login_attempts_total{provider="local",status="success"} 1`)
}

func TestInstancesAreIndependent(t *testing.T) {
	a := NewMetrics("fleetiva")
	b := NewMetrics("fleetiva")
	a.BookingCreated()

	rec := httptest.NewRecorder()
	b.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "fleetiva_bookings_created_total 0")
}
