package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncSubmitted()
		m.IncTransition("approved", true)
		m.IncAllocated()
		m.IncAllocationRetry()
		m.IncCertificate()
		m.IncEnqueued("approval", "ok")
		m.IncDelivered("approval", "sent")
		m.ObserveHTTP("GET", "/ping", 200, time.Millisecond)
	})
}

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncSubmitted()
	m.IncSubmitted()
	m.IncTransition("approved", true)
	m.IncTransition("rejected", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ApplicationsSubmitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusTransitions.WithLabelValues("approved", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StatusTransitions.WithLabelValues("rejected", "false")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := NewRegistry()
	m := New(reg)
	m.IncAllocated()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "sesi_membership_numbers_allocated_total 1"))
	assert.True(t, strings.Contains(body, "go_goroutines"))
}
