package middleware

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-AssistantBooking/pkg/requestid"
)

// AccessLog пишет строку лога на каждый обработанный запрос
func AccessLog(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			logger.Info("HTTP %s %s - status=%d, bytes=%d, duration_ms=%d, request_id=%s, remote=%s",
				r.Method, r.URL.Path, rec.status, rec.bytes, time.Since(start).Milliseconds(),
				requestid.FromContext(r.Context()), r.RemoteAddr)
		})
	}
}
