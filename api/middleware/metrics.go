package middleware

import (
	"net/http"
	"strconv"
	"time"

	"macarabia_sync/metrics"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		labels := prometheus.Labels{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": strconv.Itoa(ww.Status()),
		}

		metrics.HttpRequests.With(labels).Inc()
		metrics.HttpDuration.With(labels).
			Observe(time.Since(start).Seconds())
	})
}
