// service содержит бизнес-логику news-gateway:
// регистрацию/вход пользователей, выпуск/проверку токенов, работу с предпочтениями
// и кэширующее чтение из новостного провайдера.
//
// Основные аспекты:
//   - Service не хранит состояние запроса; экземпляр безопасен для конкурентного
//     использования при условии, что хранилище и кэш потокобезопасны.
//   - Ошибки возвращаются обёрнутыми в op и маппятся транспортом на HTTP-статусы
//     (см. комментарии к переменным ошибок ниже и internal/errors).
package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/cache"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/config"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/metrics"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/models"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/storage"
)

var (
	// ErrInvalidArgument — некорректные входные данные. HTTP 400.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnauthorized — токен не передан. HTTP 401.
	ErrUnauthorized = errors.New("access token required")

	// ErrInvalidCredentials — неизвестный email или неверный пароль.
	// Оба случая неразличимы снаружи. HTTP 401.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken — токен не прошёл проверку. HTTP 403.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenMalformed — токен не разбирается или содержит некорректные claims.
	ErrTokenMalformed = fmt.Errorf("%w: malformed", ErrInvalidToken)

	// ErrTokenExpired — срок действия токена истёк.
	ErrTokenExpired = fmt.Errorf("%w: expired", ErrInvalidToken)

	// ErrTokenSignatureInvalid — подпись не совпала или алгоритм неожиданный.
	ErrTokenSignatureInvalid = fmt.Errorf("%w: signature invalid", ErrInvalidToken)

	// ErrEmailTaken — email уже зарегистрирован. HTTP 409.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrNotFound — пользователь не найден. HTTP 404.
	ErrNotFound = errors.New("user not found")
)

// ValidationError — ошибка валидации с причиной, пригодной для ответа клиенту.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrInvalidArgument }

func invalid(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NewsClient — новостной провайдер (см. internal/newsapi).
type NewsClient interface {
	Fetch(ctx context.Context, kind models.NewsKind, params url.Values) (*models.NewsResponse, error)
}

// Service описывает бизнес-логику news-gateway.
type Service struct {
	users    storage.Users
	news     NewsClient
	cache    cache.Cache[*models.NewsResponse]
	auth     config.AuthConfig
	cacheCfg config.CacheConfig
	metrics  *metrics.Metrics // может быть nil
	now      func() time.Time
}

// New создаёт новый экземпляр Service с процессным кэшем по умолчанию.
func New(users storage.Users, news NewsClient, auth config.AuthConfig, cacheCfg config.CacheConfig) *Service {
	return &Service{
		users:    users,
		news:     news,
		cache:    cache.NewMemory[*models.NewsResponse](),
		auth:     auth,
		cacheCfg: cacheCfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SetCache заменяет кэш ответов провайдера.
func (s *Service) SetCache(c cache.Cache[*models.NewsResponse]) {
	s.cache = c
}

// SetMetrics подключает метрики (опционально).
func (s *Service) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}
