// storage содержит контракт хранилища учётных записей news-gateway.
//
// Реализации:
//   - memory — процессное хранилище под мьютексом (по умолчанию);
//   - postgres — постоянное хранилище на pgx/v5.
package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/models"
)

var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — нарушение уникальности (email/id).
	ErrAlreadyExists = errors.New("already exists")
)

// Users выполняет операции над учётными записями.
// Промах выражается ошибкой ErrNotFound, а не паникой или nil без ошибки.
type Users interface {
	// SaveUser создаёт нового пользователя.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByEmail находит пользователя по email (точное совпадение).
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// UpdatePreferences выполняет частичное обновление предпочтений
	// и возвращает обновлённую запись. Реализация должна обновить updated_at.
	UpdatePreferences(ctx context.Context, id uuid.UUID, update models.PreferencesUpdate) (*models.User, error)
}

// Storage задает контракт работы с хранилищем.
type Storage interface {
	Users
	Close()
}
