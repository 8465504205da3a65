package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/models"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/pkg/log"
)

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// IssueToken выпускает подписанный HS256 токен для пользователя.
// Токен нигде не хранится и действует auth.token_ttl с момента выпуска.
func (s *Service) IssueToken(ctx context.Context, userID uuid.UUID, email string) (string, time.Time, error) {
	const op = "service.token.IssueToken"

	now := s.now()
	expiresAt := now.Add(s.auth.TokenTTL)

	claims := accessClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.auth.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.auth.JWTSecret))
	if err != nil {
		log.From(ctx).Error("access_token_sign_failed",
			slog.String("op", op),
			log.Err(err),
		)
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	return signed, expiresAt, nil
}

// VerifyToken проверяет подпись и срок действия токена и возвращает его claims.
// Пользователь в хранилище повторно не ищется: токен остаётся валидным до истечения,
// даже если учётная запись изменилась.
func (s *Service) VerifyToken(ctx context.Context, token string) (models.Identity, error) {
	const op = "service.token.VerifyToken"

	parsed, err := jwt.ParseWithClaims(token, &accessClaims{},
		func(*jwt.Token) (interface{}, error) {
			return []byte(s.auth.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.auth.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		var kind error
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			kind = ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			kind = ErrTokenSignatureInvalid
		default:
			kind = ErrTokenMalformed
		}

		log.From(ctx).Debug("access_token_rejected",
			slog.String("op", op),
			slog.String("reason", kind.Error()),
		)
		return models.Identity{}, fmt.Errorf("%s: %w", op, kind)
	}

	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid {
		return models.Identity{}, fmt.Errorf("%s: %w", op, ErrTokenMalformed)
	}

	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return models.Identity{}, fmt.Errorf("%s: %w", op, ErrTokenMalformed)
	}

	return models.Identity{UserID: uid, Email: claims.Email}, nil
}
