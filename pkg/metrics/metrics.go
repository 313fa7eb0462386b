// Package metrics holds the Prometheus collectors of the room booking service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups every collector the service exports. A nil *Metrics records nothing.
type Metrics struct {
	serviceName string

	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Database
	dbQueryDuration   *prometheus.HistogramVec
	dbOpenConnections *prometheus.GaugeVec
	dbInUse           *prometheus.GaugeVec
	dbIdle            *prometheus.GaugeVec
	dbWaitCount       *prometheus.GaugeVec

	// Domain
	conflictsDetected *prometheus.CounterVec
	roomsExamined     *prometheus.HistogramVec
	bookingsCreated   *prometheus.CounterVec
	writeRacesLost    *prometheus.CounterVec
}

// New registers collectors in the default Prometheus registry
func New(serviceName string) *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegistry registers collectors in reg
func NewWithRegistry(reg prometheus.Registerer, serviceName string) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		serviceName: serviceName,

		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "path", "status"}),

		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "path"}),

		dbQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),

		dbOpenConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),

		dbInUse: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		dbIdle: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),

		dbWaitCount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		conflictsDetected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_conflicts_detected_total",
			Help: "Conflicts found while evaluating requested windows",
		}, []string{"service", "operation"}),

		roomsExamined: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "availability_rooms_examined",
			Help:    "Candidate rooms examined per availability search",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}, []string{"service"}),

		bookingsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Bookings persisted",
		}, []string{"service"}),

		writeRacesLost: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_write_races_lost_total",
			Help: "Booking inserts rejected by the transactional re-check",
		}, []string{"service"}),
	}
}

// ObserveHTTPRequest records one HTTP request
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(m.serviceName, method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// ObserveDBQuery records one database round trip
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(m.serviceName, operation).Observe(duration.Seconds())
}

// SetDBPoolStats publishes connection pool gauges
func (m *Metrics) SetDBPoolStats(open, inUse, idle int, waitCount int64) {
	if m == nil {
		return
	}
	m.dbOpenConnections.WithLabelValues(m.serviceName).Set(float64(open))
	m.dbInUse.WithLabelValues(m.serviceName).Set(float64(inUse))
	m.dbIdle.WithLabelValues(m.serviceName).Set(float64(idle))
	m.dbWaitCount.WithLabelValues(m.serviceName).Set(float64(waitCount))
}

// IncConflicts counts conflicts detected by an operation (search, check, create)
func (m *Metrics) IncConflicts(operation string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.conflictsDetected.WithLabelValues(m.serviceName, operation).Add(float64(n))
}

// ObserveRoomsExamined records how many candidates one search looked at
func (m *Metrics) ObserveRoomsExamined(n int) {
	if m == nil {
		return
	}
	m.roomsExamined.WithLabelValues(m.serviceName).Observe(float64(n))
}

// IncBookingsCreated counts persisted bookings
func (m *Metrics) IncBookingsCreated(n int) {
	if m == nil {
		return
	}
	m.bookingsCreated.WithLabelValues(m.serviceName).Add(float64(n))
}

// IncWriteRaceLost counts inserts lost to a concurrent writer
func (m *Metrics) IncWriteRaceLost() {
	if m == nil {
		return
	}
	m.writeRacesLost.WithLabelValues(m.serviceName).Inc()
}
