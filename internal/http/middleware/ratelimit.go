package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	apierrors "github.com/pribylovaa/go-news-aggregator/news-gateway/internal/errors"
)

// RateLimit ограничивает число запросов с одного IP в скользящем окне.
// requests <= 0 или window <= 0 отключают ограничение.
func RateLimit(requests int, window time.Duration) Middleware {
	if requests <= 0 || window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(requests, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			apierrors.WriteError(w, r, apierrors.ErrRateLimited)
		}),
	)
}
