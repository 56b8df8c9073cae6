package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/ipg-checkout/pkg/metrics"
	"github.com/go-chi/chi/middleware"
)

func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.ObserveHTTP(r.Method, strconv.Itoa(status), float64(time.Since(start).Milliseconds()))
		})
	}
}
