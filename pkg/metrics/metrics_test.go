package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_DomainCounters(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), "rooms")

	m.IncConflicts("search", 3)
	m.IncConflicts("search", 0)
	m.IncBookingsCreated(2)
	m.IncWriteRaceLost()

	assert.Equal(t, 3.0, testutil.ToFloat64(m.conflictsDetected.WithLabelValues("rooms", "search")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.bookingsCreated.WithLabelValues("rooms")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.writeRacesLost.WithLabelValues("rooms")))
}

func TestMetrics_HTTPAndPool(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), "rooms")

	m.ObserveHTTPRequest("POST", "/api/v1/rooms/availability", 200, 15*time.Millisecond)
	m.SetDBPoolStats(5, 2, 3, 7)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("rooms", "POST", "/api/v1/rooms/availability", "200")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.dbOpenConnections.WithLabelValues("rooms")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.dbWaitCount.WithLabelValues("rooms")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)
		m.ObserveDBQuery("select", time.Millisecond)
		m.SetDBPoolStats(1, 1, 0, 0)
		m.IncConflicts("check", 1)
		m.ObserveRoomsExamined(4)
		m.IncBookingsCreated(1)
		m.IncWriteRaceLost()
	})
}
