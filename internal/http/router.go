package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	apierrors "github.com/pribylovaa/go-news-aggregator/news-gateway/internal/errors"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/http/handlers"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/http/middleware"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/metrics"
)

// Service — бизнес-логика для хендлеров и шлюза аутентификации.
type Service interface {
	handlers.Service
	middleware.TokenVerifier
}

// RateLimit — лимит запросов с одного IP; нулевое значение отключает лимит.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger         *slog.Logger
	Timeout        time.Duration
	BasePath       string // например, "/api"; если пустой — роуты регистрируются на корне.
	Metrics        *metrics.Metrics
	AllowedOrigins []string
	RateLimit      RateLimit
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Metrics(opts.Metrics),
		middleware.SecureHeaders(),
		cors.Handler(corsOptions(opts.AllowedOrigins)),
		middleware.RateLimit(opts.RateLimit.Requests, opts.RateLimit.Window),
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	root.NotFound(routeNotFound)
	root.MethodNotAllowed(routeNotFound)

	h := handlers.New(svc)
	auth := middleware.Auth(svc)

	root.Get("/health", h.Health)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		sub.NotFound(routeNotFound)
		sub.MethodNotAllowed(routeNotFound)
		registerRoutes(sub, h, auth)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h, auth)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, auth middleware.Middleware) {
	// auth
	r.Post("/auth/register", h.RegisterUser)
	r.Post("/auth/login", h.LoginUser)
	r.With(auth).Get("/auth/profile", h.Profile)

	// news
	r.Get("/news/everything", h.Everything)
	r.Get("/news/headlines", h.TopHeadlines)
	r.Get("/news/sources", h.Sources)

	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Get("/news/personalized", h.Personalized)
		r.Get("/news/preferences", h.GetPreferences)
		r.Put("/news/preferences", h.UpdatePreferences)
	})
}

// Неизвестный маршрут и неподдерживаемый метод отвечают одинаково.
func routeNotFound(w http.ResponseWriter, r *http.Request) {
	apierrors.WriteError(w, r, apierrors.ErrRouteNotFound)
}

func corsOptions(origins []string) cors.Options {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.HeaderRequestID},
		ExposedHeaders: []string{middleware.HeaderRequestID},
		MaxAge:         300,
	}
}
