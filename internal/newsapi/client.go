// newsapi — HTTP-клиент внешнего новостного провайдера (newsapi.org v2).
//
// Клиент выполняет GET {base}/everything | /top-headlines | /sources,
// передаёт параметры запроса как есть и добавляет apiKey. Ошибки приводятся
// к двум видам:
//   - ErrUpstreamUnavailable — транспортный сбой или нераспознанный ответ;
//   - ErrUpstreamRejected — провайдер вернул корректный ответ со status == "error".
//
// Повторов нет: ошибка сразу возвращается вызывающему коду.
package newsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/models"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/pkg/log"
)

var (
	// ErrUpstreamUnavailable — провайдер недоступен на транспортном уровне.
	// HTTP: 500 с сообщением провайдера/транспорта.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrUpstreamRejected — провайдер отклонил запрос (status == "error").
	// HTTP: 500 с сообщением провайдера.
	ErrUpstreamRejected = errors.New("upstream rejected")
)

const (
	maxBodyBytes     = 10 << 20
	defaultMessage   = "News API error"
	statusError      = "error"
	apiKeyParam      = "apiKey"
	DefaultBaseURL   = "https://newsapi.org/v2"
	defaultUserAgent = "news-gateway"
)

// Error — нормализованная ошибка провайдера.
type Error struct {
	// Kind — ErrUpstreamUnavailable или ErrUpstreamRejected.
	Kind error
	// StatusCode — HTTP-статус ответа (0, если ответа не было).
	StatusCode int
	// Code — машинный код провайдера (например, "apiKeyInvalid").
	Code string
	// Message — сообщение провайдера или транспорта.
	Message string
	// Err — исходная транспортная ошибка, если есть.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}

	return []error{e.Kind}
}

// Options — параметры клиента.
type Options struct {
	BaseURL    string
	APIKey     string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client // если nil — создаётся с Timeout
}

// Client — клиент провайдера; безопасен для конкурентного использования.
type Client struct {
	base   *url.URL
	apiKey string
	ua     string
	http   *http.Client
}

// New создаёт клиента. APIKey обязателен.
func New(opts Options) (*Client, error) {
	const op = "newsapi.New"

	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("%s: empty api key", op)
	}

	raw := opts.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}

	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("%s: parse base url: %w", op, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%s: base url %q must be absolute", op, raw)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	return &Client{base: base, apiKey: opts.APIKey, ua: ua, http: hc}, nil
}

// Path возвращает путь эндпойнта провайдера для типа запроса.
func Path(kind models.NewsKind) (string, error) {
	switch kind {
	case models.KindEverything:
		return "/everything", nil
	case models.KindHeadlines:
		return "/top-headlines", nil
	case models.KindSources:
		return "/sources", nil
	default:
		return "", fmt.Errorf("unknown news kind %q", kind)
	}
}

// payload — ответ провайдера вместе с полями ошибки.
type payload struct {
	models.NewsResponse
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Fetch выполняет запрос к провайдеру.
func (c *Client) Fetch(ctx context.Context, kind models.NewsKind, params url.Values) (*models.NewsResponse, error) {
	const op = "newsapi.Fetch"

	lg := log.From(ctx)

	path, err := Path(kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q := url.Values{}
	for k, vs := range params {
		if k == apiKeyParam {
			continue
		}
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set(apiKeyParam, c.apiKey)

	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.ua)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error содержит полный URL вместе с apiKey — наружу отдаём только причину.
		msg := err.Error()
		var uerr *url.Error
		if errors.As(err, &uerr) {
			msg = uerr.Err.Error()
		}

		lg.Warn("upstream_request_failed",
			slog.String("op", op),
			slog.String("path", path),
			slog.String("err", msg),
		)
		return nil, fmt.Errorf("%s: %w", op, &Error{Kind: ErrUpstreamUnavailable, Message: msg, Err: err})
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, &Error{
			Kind:       ErrUpstreamUnavailable,
			StatusCode: resp.StatusCode,
			Message:    "failed to read response body",
			Err:        err,
		})
	}

	lg.Debug("upstream_response",
		slog.String("op", op),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("dur", time.Since(start)),
	)

	var p payload
	decodeErr := json.Unmarshal(body, &p)

	if decodeErr == nil && p.Status == statusError {
		msg := p.Message
		if msg == "" {
			msg = defaultMessage
		}

		return nil, fmt.Errorf("%s: %w", op, &Error{
			Kind:       ErrUpstreamRejected,
			StatusCode: resp.StatusCode,
			Code:       p.Code,
			Message:    msg,
		})
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %w", op, &Error{
			Kind:       ErrUpstreamUnavailable,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status %d", resp.StatusCode),
		})
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("%s: %w", op, &Error{
			Kind:       ErrUpstreamUnavailable,
			StatusCode: resp.StatusCode,
			Message:    "invalid response body",
			Err:        decodeErr,
		})
	}

	out := p.NewsResponse
	return &out, nil
}
