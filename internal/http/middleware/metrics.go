package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/metrics"
)

// unmatchedRoute — метка для запросов без зарегистрированного маршрута,
// чтобы произвольные пути не раздували кардинальность.
const unmatchedRoute = "unmatched"

// Metrics считает запросы и латентность по шаблону маршрута chi.
// Шаблон известен только после маршрутизации, поэтому читается после next.
// Маршруты-заглушки ("/api/*" и т.п.) считаются несовпавшими.
func Metrics(m *metrics.Metrics) Middleware {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)

			route := unmatchedRoute
			if rc := chi.RouteContext(r.Context()); rc != nil {
				if p := rc.RoutePattern(); p != "" && !strings.HasSuffix(p, "/*") {
					route = p
				}
			}

			m.ObserveHTTP(r.Method, route, sw.Status(), time.Since(start))
		})
	}
}
