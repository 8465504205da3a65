package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/models"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/pkg/log"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/pkg/redact"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// maxPasswordBytes — bcrypt учитывает только первые 72 байта пароля.
const maxPasswordBytes = 72

// RegisterUser регистрирует нового пользователя и выпускает для него токен.
// prefs == nil означает набор по умолчанию (все поля пустые).
func (s *Service) RegisterUser(ctx context.Context, email, password string, prefs *models.Preferences) (*models.Session, error) {
	const op = "service.auth.RegisterUser"

	lg := log.From(ctx)

	email, err := validateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := validatePassword(password); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.users.UserByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := s.hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p := models.DefaultPreferences()
	if prefs != nil {
		p = prefs.Clone()
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Preferences:  p,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.SaveUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}

		lg.Error("save_user_failed",
			slog.String("op", op),
			slog.String("email", redact.Email(email)),
			log.Err(err),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("user_registered",
		slog.String("op", op),
		slog.String("user_id", user.ID.String()),
		slog.String("email", redact.Email(email)),
	)

	return s.session(ctx, user)
}

// LoginUser выполняет вход по email+пароль.
// Неизвестный email и неверный пароль дают одну и ту же ошибку ErrInvalidCredentials.
func (s *Service) LoginUser(ctx context.Context, email, password string) (*models.Session, error) {
	const op = "service.auth.LoginUser"

	email, err := validateEmail(email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if password == "" {
		return nil, fmt.Errorf("%s: %w", op, invalid(`"password" is not allowed to be empty`))
	}

	user, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !checkPassword(user.PasswordHash, password) {
		log.From(ctx).Warn("login_password_mismatch",
			slog.String("op", op),
			slog.String("user_id", user.ID.String()),
		)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	return s.session(ctx, user)
}

// Profile возвращает учётную запись пользователя.
func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	const op = "service.auth.Profile"

	user, err := s.userByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Service) session(ctx context.Context, user *models.User) (*models.Session, error) {
	const op = "service.auth.session"

	token, exp, err := s.IssueToken(ctx, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.Session{User: user, Token: token, ExpiresAt: exp}, nil
}

// userByID переводит промах хранилища в ErrNotFound сервиса.
func (s *Service) userByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.UserByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, err
	}

	return user, nil
}

// hashPassword хэширует пароль с помощью bcrypt.
func (s *Service) hashPassword(password string) (string, error) {
	const op = "service.auth.hashPassword"

	cost := s.auth.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	bytes, err := bcrypt.GenerateFromPassword(passwordBytes(password), cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), passwordBytes(password)) == nil
}

// passwordBytes обрезает пароль до maxPasswordBytes: хвост bcrypt всё равно не учитывает,
// а GenerateFromPassword на более длинном вводе возвращает ErrPasswordTooLong.
func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}

	return b
}

// validateEmail проверяет формат email и обрезает пробелы снаружи.
// Регистр сохраняется: адреса сравниваются в том виде, в каком сохранены.
func validateEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", invalid(`"email" is required`)
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", invalid(`"email" must be a valid email`)
	}

	return email, nil
}

// validatePassword проверяет минимальную длину пароля.
func validatePassword(pw string) error {
	if pw == "" {
		return invalid(`"password" is required`)
	}

	if utf8.RuneCountInString(pw) < minPasswordLen {
		return invalid(`"password" length must be at least %d characters long`, minPasswordLen)
	}

	return nil
}
