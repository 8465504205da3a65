package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	apierrors "github.com/pribylovaa/go-news-aggregator/news-gateway/internal/errors"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/models"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/service"
)

// MaxBodyBytes — предел размера JSON-тела запроса.
const MaxBodyBytes = 10 << 20

// Service — бизнес-логика, доступная HTTP-слою (реализуется service.Service).
type Service interface {
	RegisterUser(ctx context.Context, email, password string, prefs *models.Preferences) (*models.Session, error)
	LoginUser(ctx context.Context, email, password string) (*models.Session, error)
	Profile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	Preferences(ctx context.Context, userID uuid.UUID) (models.Preferences, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, update models.PreferencesUpdate) (models.Preferences, error)

	Everything(ctx context.Context, q url.Values) (*models.NewsResponse, error)
	TopHeadlines(ctx context.Context, q url.Values) (*models.NewsResponse, error)
	Sources(ctx context.Context, q url.Values) (*models.NewsResponse, error)
	Personalized(ctx context.Context, userID uuid.UUID, q url.Values) (*models.NewsResponse, error)
}

// Handlers агрегирует зависимости REST-эндпойнтов.
type Handlers struct {
	svc Service
	now func() time.Time
}

func New(svc Service) *Handlers {
	return &Handlers{svc: svc, now: time.Now}
}

// decodeStrict — строгий JSON-декодер: неизвестные поля запрещены, размер ограничен.
// Пустое тело трактуется как пустой объект: обязательность полей проверяет сервис.
// Ошибки разбора возвращаются как *service.ValidationError.
func decodeStrict(w http.ResponseWriter, r *http.Request, value any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(value)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var (
		maxErr  *http.MaxBytesError
		typeErr *json.UnmarshalTypeError
		synErr  *json.SyntaxError
	)

	switch {
	case errors.As(err, &maxErr):
		return &service.ValidationError{Reason: "Request body too large"}
	case errors.As(err, &typeErr):
		return &service.ValidationError{Reason: fmt.Sprintf(`"%s" must be %s`, typeErr.Field, kindName(typeErr.Type))}
	case errors.As(err, &synErr), errors.Is(err, io.ErrUnexpectedEOF):
		return &service.ValidationError{Reason: "Invalid JSON body"}
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return &service.ValidationError{Reason: fmt.Sprintf(`"%s" is not allowed`, field)}
	default:
		return &service.ValidationError{Reason: "Invalid JSON body"}
	}
}

// Health — проверка живости в формате публичного API.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	apierrors.WriteJSON(w, http.StatusOK, models.HealthResponse{
		Success:   true,
		Message:   "News API is running",
		Timestamp: h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

func kindName(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Struct, reflect.Map, reflect.Pointer:
		return "an object"
	case reflect.String:
		return "a string"
	default:
		return "a " + t.Kind().String()
	}
}
