package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/models"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/storage"
)

const userColumns = `id, email, password_hash, categories, sources, countries, languages, created_at, updated_at`

// SaveUser создает нового пользователя в БД.
func (s *Storage) SaveUser(ctx context.Context, user *models.User) error {
	const op = "storage.postgres.SaveUser"

	query := `
		INSERT INTO users(` + userColumns + `)
		VALUES (, , , , , , , , )
	`

	prefs := user.Preferences.Normalize()

	_, err := s.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		prefs.Categories,
		prefs.Sources,
		prefs.Countries,
		prefs.Languages,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UserByEmail находит пользователя по email.
func (s *Storage) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.postgres.UserByEmail"

	query := `SELECT ` + userColumns + ` FROM users WHERE email = `

	user, err := scanUser(s.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UserByID находит пользователя по ID.
func (s *Storage) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "storage.postgres.UserByID"

	query := `SELECT ` + userColumns + ` FROM users WHERE id = `

	user, err := scanUser(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

// UpdatePreferences обновляет только переданные поля (NULL -> COALESCE оставляет прежнее значение).
func (s *Storage) UpdatePreferences(ctx context.Context, id uuid.UUID, update models.PreferencesUpdate) (*models.User, error) {
	const op = "storage.postgres.UpdatePreferences"

	query := `
		UPDATE users SET
			categories = COALESCE(, categories),
			sources    = COALESCE(, sources),
			countries  = COALESCE(, countries),
			languages  = COALESCE(, languages),
			updated_at = 
		WHERE id = 
		RETURNING ` + userColumns

	user, err := scanUser(s.db.QueryRow(ctx, query,
		id,
		nullableArray(update.Categories),
		nullableArray(update.Sources),
		nullableArray(update.Countries),
		nullableArray(update.Languages),
		time.Now().UTC(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Preferences.Categories,
		&user.Preferences.Sources,
		&user.Preferences.Countries,
		&user.Preferences.Languages,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Preferences = user.Preferences.Normalize()
	return &user, nil
}

// nullableArray — nil -> SQL NULL, иначе массив (пустой массив остаётся '{}').
func nullableArray(v *[]string) any {
	if v == nil {
		return nil
	}
	if *v == nil {
		return []string{}
	}

	return *v
}
