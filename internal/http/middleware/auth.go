package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	apierrors "github.com/pribylovaa/go-news-aggregator/news-gateway/internal/errors"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/models"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/pkg/log"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/service"
)

// TokenVerifier проверяет токен доступа (см. service.Service.VerifyToken).
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (models.Identity, error)
}

type identityKey struct{}

// Auth — шлюз для защищённых маршрутов.
//   - нет/пустой/не Bearer заголовок Authorization -> 401 "Access token required";
//   - токен не прошёл проверку -> 403 "Invalid or expired token";
//   - иначе Identity кладётся в контекст (см. IdentityFrom), запрос проходит дальше.
//
// Хранилище не опрашивается: доверяем claims до истечения токена.
func Auth(v TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				apierrors.WriteError(w, r, service.ErrUnauthorized)
				return
			}

			id, err := v.VerifyToken(r.Context(), token)
			if err != nil {
				log.From(r.Context()).Warn("auth_token_rejected",
					slog.String("path", r.URL.Path),
					log.Err(err),
				)
				apierrors.WriteError(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey{}, id)
			ctx = log.With(ctx, slog.String("user_id", id.UserID.String()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFrom возвращает проверенную личность из контекста запроса.
func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(models.Identity)
	return id, ok
}

// bearerToken вынимает токен из "Bearer <token>". Схема сравнивается без учёта регистра.
func bearerToken(header string) (string, bool) {
	const prefix = "bearer "

	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}

	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}
