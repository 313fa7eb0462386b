package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// AccessLogger интерфейс логгера журнала запросов
type AccessLogger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// AccessLog пишет строку на каждый запрос вместе с его X-Request-ID.
// Подключается после RequestID, иначе идентификатора в контексте ещё нет.
func AccessLog(log AccessLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			const format = "%s %s - status=%d duration=%s request_id=%s"
			args := []interface{}{r.Method, r.URL.Path, rec.status, time.Since(start), GetRequestID(r.Context())}
			if rec.status >= http.StatusInternalServerError {
				log.Warn(format, args...)
				return
			}
			log.Info(format, args...)
		})
	}
}
