// errors стандартизирует ответы HTTP-слоя news-gateway.
// Каждый ответ — конверт {success, data?, message?, error?}.
//
// На вход ToHTTP принимает ошибку сервиса или провайдера, на выход даёт:
//   - корректный HTTP-статус;
//   - безопасное сообщение без утечки внутренних деталей.
//
// Маппинг:
//   - *service.ValidationError -> 400 с причиной;
//   - service.ErrUnauthorized -> 401 "Access token required";
//   - service.ErrInvalidCredentials -> 401;
//   - service.ErrInvalidToken (и производные) -> 403;
//   - service.ErrNotFound -> 404;
//   - service.ErrEmailTaken -> 409;
//   - ErrRateLimited -> 429;
//   - *newsapi.Error -> 500 "News API error: <сообщение провайдера>";
//   - прочее -> 500 "Internal server error".
package errors

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"

	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/newsapi"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/pkg/log"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/service"
)

var (
	// ErrRouteNotFound — маршрут не зарегистрирован.
	ErrRouteNotFound = stderrors.New("route not found")
	// ErrRateLimited — превышен лимит запросов с адреса клиента.
	ErrRateLimited = stderrors.New("rate limited")
)

// Сообщения клиенту.
const (
	MsgAccessTokenRequired = "Access token required"
	MsgInvalidToken        = "Invalid or expired token"
	MsgInvalidCredentials  = "Invalid email or password"
	MsgUserNotFound        = "User not found"
	MsgEmailTaken          = "User with this email already exists"
	MsgRouteNotFound       = "Route not found"
	MsgRateLimited         = "Too many requests from this IP, please try again later."
	MsgInternal            = "Internal server error"
	newsAPIPrefix          = "News API error: "
)

// Response — единый конверт ответа.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ToHTTP конвертирует ошибку в HTTP-статус и конверт ответа.
// err == nil — программная ошибка вызова: возвращаем 500, чтобы не маскировать баг.
func ToHTTP(err error) (int, Response) {
	fail := func(status int, msg string) (int, Response) {
		return status, Response{Success: false, Error: msg}
	}

	if err == nil {
		return fail(http.StatusInternalServerError, MsgInternal)
	}

	var verr *service.ValidationError
	if stderrors.As(err, &verr) {
		return fail(http.StatusBadRequest, verr.Reason)
	}

	var nerr *newsapi.Error
	if stderrors.As(err, &nerr) {
		return fail(http.StatusInternalServerError, newsAPIPrefix+nerr.Message)
	}

	switch {
	case stderrors.Is(err, service.ErrInvalidArgument):
		return fail(http.StatusBadRequest, "Invalid request")
	case stderrors.Is(err, service.ErrUnauthorized):
		return fail(http.StatusUnauthorized, MsgAccessTokenRequired)
	case stderrors.Is(err, service.ErrInvalidCredentials):
		return fail(http.StatusUnauthorized, MsgInvalidCredentials)
	case stderrors.Is(err, service.ErrInvalidToken):
		return fail(http.StatusForbidden, MsgInvalidToken)
	case stderrors.Is(err, service.ErrNotFound):
		return fail(http.StatusNotFound, MsgUserNotFound)
	case stderrors.Is(err, ErrRouteNotFound):
		return fail(http.StatusNotFound, MsgRouteNotFound)
	case stderrors.Is(err, service.ErrEmailTaken):
		return fail(http.StatusConflict, MsgEmailTaken)
	case stderrors.Is(err, ErrRateLimited):
		return fail(http.StatusTooManyRequests, MsgRateLimited)
	default:
		return fail(http.StatusInternalServerError, MsgInternal)
	}
}

// WriteError — хелпер для HTTP-хендлеров и мидлваров.
// Ошибки 5xx логируются целиком: клиенту уходит только безопасное сообщение.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	if status >= http.StatusInternalServerError && err != nil {
		log.From(r.Context()).Error("request_failed",
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			log.Err(err),
		)
	}

	WriteJSON(w, status, resp)
}

// WriteOK пишет успешный конверт.
func WriteOK(w http.ResponseWriter, status int, data any, message string) {
	WriteJSON(w, status, Response{Success: true, Data: data, Message: message})
}

// WriteJSON пишет произвольное тело в JSON.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
