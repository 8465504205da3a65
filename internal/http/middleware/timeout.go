package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/pkg/log"
)

// Timeout ограничивает время обработки запроса значением d.
//
// Контракт:
//  1. d <= 0 — обработчик вызывается без изменения контекста;
//  2. дедлайн во входящем контексте раньше now+d — он сохраняется;
//  3. иначе контекст оборачивается context.WithTimeout(ctx, d).
//
// Если дедлайн истёк до конца обработки, пишется событие request_deadline_exceeded:
// ответ сформирует сам обработчик (апстрим вернёт ошибку по отменённому контексту).
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if dl, ok := ctx.Deadline(); !ok || time.Until(dl) > d {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, d)
				defer cancel()
			}

			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				log.From(ctx).Warn("request_deadline_exceeded",
					slog.String("path", r.URL.Path),
					slog.Duration("timeout", d),
					slog.Int("status", sw.Status()),
				)
			}
		})
	}
}
