package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/metrics"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/models"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/newsapi"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/pkg/log"
)

// Everything ищет статьи по всем источникам провайдера.
func (s *Service) Everything(ctx context.Context, q url.Values) (*models.NewsResponse, error) {
	const op = "service.news.Everything"

	params, err := validateEverything(q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := s.fetch(ctx, models.KindEverything, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

// TopHeadlines возвращает главные заголовки.
func (s *Service) TopHeadlines(ctx context.Context, q url.Values) (*models.NewsResponse, error) {
	const op = "service.news.TopHeadlines"

	params, err := validateHeadlines(q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := s.fetch(ctx, models.KindHeadlines, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

// Sources возвращает справочник источников провайдера.
func (s *Service) Sources(ctx context.Context, q url.Values) (*models.NewsResponse, error) {
	const op = "service.news.Sources"

	resp, err := s.fetch(ctx, models.KindSources, filterSources(q))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

// Personalized ищет статьи с учётом сохранённых предпочтений пользователя:
// sources и language берутся из предпочтений и заменяют значения из запроса.
// Пустые предпочтения убирают соответствующий параметр целиком.
// Остальные параметры запроса передаются провайдеру как есть, без проверки
// и без значений по умолчанию.
func (s *Service) Personalized(ctx context.Context, userID uuid.UUID, q url.Values) (*models.NewsResponse, error) {
	const op = "service.news.Personalized"

	user, err := s.userByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	params := canonical(q)
	prefs := user.Preferences.Normalize()
	params.Set("sources", strings.Join(prefs.Sources, ","))
	params.Set("language", strings.Join(prefs.Languages, ","))

	resp, err := s.fetch(ctx, models.KindEverything, params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp, nil
}

// ClearCache удаляет все закэшированные ответы.
func (s *Service) ClearCache(ctx context.Context) {
	s.cache.Flush()

	log.From(ctx).Info("news_cache_cleared",
		slog.String("op", "service.news.ClearCache"),
	)
}

// fetch — чтение через кэш: попадание возвращается без обращения к провайдеру,
// промах идёт к провайдеру и при успехе сохраняется на TTL типа запроса.
// Ошибки провайдера не кэшируются. Одновременные промахи по одному ключу
// не объединяются: каждый выполняет свой запрос.
func (s *Service) fetch(ctx context.Context, kind models.NewsKind, params url.Values) (*models.NewsResponse, error) {
	const op = "service.news.fetch"

	lg := log.From(ctx)

	canon := canonical(params)
	key := cacheKey(kind, canon)

	if resp, ok := s.cache.Get(key); ok {
		s.metrics.CacheHit(string(kind))
		lg.Debug("news_cache_hit",
			slog.String("op", op),
			slog.String("kind", string(kind)),
		)
		return resp, nil
	}
	s.metrics.CacheMiss(string(kind))

	resp, err := s.news.Fetch(ctx, kind, canon)
	if err != nil {
		outcome := metrics.OutcomeUnavailable
		if errors.Is(err, newsapi.ErrUpstreamRejected) {
			outcome = metrics.OutcomeRejected
		}
		s.metrics.Upstream(string(kind), outcome)

		lg.Warn("upstream_fetch_failed",
			slog.String("op", op),
			slog.String("kind", string(kind)),
			slog.String("outcome", outcome),
			log.Err(err),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.Upstream(string(kind), metrics.OutcomeOK)

	s.cache.Set(key, resp, s.ttl(kind))

	return resp, nil
}

func (s *Service) ttl(kind models.NewsKind) time.Duration {
	if kind == models.KindSources {
		return s.cacheCfg.SourcesTTL
	}

	return s.cacheCfg.ArticlesTTL
}

// canonical нормализует параметры: значения обрезаются, пустые отбрасываются,
// значения одного ключа сортируются. apiKey в параметры не попадает никогда.
func canonical(params url.Values) url.Values {
	out := url.Values{}
	for k, vs := range params {
		if k == "apiKey" {
			continue
		}

		for _, v := range vs {
			if v = strings.TrimSpace(v); v != "" {
				out.Add(k, v)
			}
		}

		if vals, ok := out[k]; ok {
			sort.Strings(vals)
		}
	}

	return out
}

// cacheKey — "<kind>:" + канонически закодированные параметры (ключи отсортированы).
// Наборы, равные по значению, дают одинаковый ключ независимо от порядка.
func cacheKey(kind models.NewsKind, canon url.Values) string {
	return string(kind) + ":" + canon.Encode()
}
