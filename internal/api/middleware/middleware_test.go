package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuth(t *testing.T) {
	var got int64
	h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "valid", header: "42", status: http.StatusNoContent},
		{name: "missing", header: "", status: http.StatusUnauthorized},
		{name: "not a number", header: "abc", status: http.StatusUnauthorized},
		{name: "negative", header: "-1", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = 0
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tt.header != "" {
				req.Header.Set(UserIDHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusNoContent {
				assert.Equal(t, int64(42), got)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	const incoming = "6f1c2f0e-9a55-4c36-a3a4-4f1c2b9b8e11"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, incoming, seen)

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.NotEqual(t, "not-a-uuid", seen)
}

type fakeLogger struct {
	infos []string
	warns []string
}

func (l *fakeLogger) Info(format string, v ...interface{}) {
	l.infos = append(l.infos, fmt.Sprintf(format, v...))
}

func (l *fakeLogger) Warn(format string, v ...interface{}) {
	l.warns = append(l.warns, fmt.Sprintf(format, v...))
}

func TestAccessLog_IncludesRequestID(t *testing.T) {
	log := &fakeLogger{}
	r := mux.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(log))
	r.HandleFunc("/bookings/{bookingId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.HandleFunc("/broken", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	const id = "6f1c2f0e-9a55-4c36-a3a4-4f1c2b9b8e11"
	req := httptest.NewRequest(http.MethodGet, "/bookings/5", nil)
	req.Header.Set(RequestIDHeader, id)
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, log.infos, 1)
	assert.True(t, strings.HasPrefix(log.infos[0], "GET /bookings/5 - status=204"))
	assert.Contains(t, log.infos[0], "request_id="+id)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/broken", nil))

	require.Len(t, log.warns, 1)
	assert.Contains(t, log.warns[0], "POST /broken - status=500")
	assert.Contains(t, log.warns[0], "request_id="+rec.Header().Get(RequestIDHeader))
}

type recordedRequest struct {
	method, path string
	status       int
}

type fakeHTTPMetrics struct {
	observed []recordedRequest
}

func (f *fakeHTTPMetrics) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	f.observed = append(f.observed, recordedRequest{method: method, path: path, status: status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	m := &fakeHTTPMetrics{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/rooms/{roomId}/conflicts", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}).Methods(http.MethodPost)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/rooms/17/conflicts", nil))

	require.Len(t, m.observed, 1)
	assert.Equal(t, recordedRequest{method: http.MethodPost, path: "/rooms/{roomId}/conflicts", status: http.StatusConflict}, m.observed[0])
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(1, 2)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set(UserIDHeader, user)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("1"))
	assert.Equal(t, http.StatusOK, call("1"))
	assert.Equal(t, http.StatusTooManyRequests, call("1"))
	assert.Equal(t, http.StatusOK, call("2"), "limits are per client")

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, call("1"))
}
