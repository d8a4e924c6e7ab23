package middleware

import (
	"net/http"
	"time"
	_ "time/tzdata"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestTimestampLayout renders request log times, e.g. "01/05/2024, 1:30:00 pm"
const RequestTimestampLayout = "02/01/2006, 3:04:05 pm"

// RequestLogger returns an HTTP middleware that emits exactly one log line
// per request once the response completes. Timestamps are rendered in loc.
// The response body, headers and status pass through untouched.
func RequestLogger(logger *zap.Logger, loc *time.Location) func(http.Handler) http.Handler {
	if loc == nil {
		loc = time.UTC
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}

				level := zapcore.InfoLevel
				if status >= http.StatusInternalServerError {
					level = zapcore.ErrorLevel
				} else if status >= http.StatusBadRequest {
					level = zapcore.WarnLevel
				}

				logger.Log(level, "request",
					zap.String("timestamp", start.In(loc).Format(RequestTimestampLayout)),
					zap.String("method", r.Method),
					zap.String("path", r.RequestURI),
					zap.Int("status", status),
					zap.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000.0),
					zap.String("request_id", GetRequestIDFromContext(r.Context())),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
