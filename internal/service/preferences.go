package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/models"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/pkg/log"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/storage"
)

// Preferences возвращает текущие предпочтения пользователя.
func (s *Service) Preferences(ctx context.Context, userID uuid.UUID) (models.Preferences, error) {
	const op = "service.preferences.Preferences"

	user, err := s.userByID(ctx, userID)
	if err != nil {
		return models.Preferences{}, fmt.Errorf("%s: %w", op, err)
	}

	return user.Preferences.Normalize(), nil
}

// UpdatePreferences выполняет поверхностное слияние: переданные поля заменяют
// прежние целиком, непереданные сохраняются.
func (s *Service) UpdatePreferences(ctx context.Context, userID uuid.UUID, update models.PreferencesUpdate) (models.Preferences, error) {
	const op = "service.preferences.UpdatePreferences"

	user, err := s.users.UpdatePreferences(ctx, userID, update)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Preferences{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		log.From(ctx).Error("update_preferences_failed",
			slog.String("op", op),
			slog.String("user_id", userID.String()),
			log.Err(err),
		)
		return models.Preferences{}, fmt.Errorf("%s: %w", op, err)
	}

	return user.Preferences.Normalize(), nil
}
