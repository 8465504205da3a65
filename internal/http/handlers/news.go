package handlers

import (
	"context"
	"net/http"
	"net/url"

	apierrors "github.com/pribylovaa/go-news-aggregator/news-gateway/internal/errors"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/http/middleware"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/models"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/service"
)

type newsFunc func(ctx context.Context, q url.Values) (*models.NewsResponse, error)

// serveNews — общий путь публичных новостных эндпойнтов.
func serveNews(fetch newsFunc, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := fetch(r.Context(), r.URL.Query())
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}

		apierrors.WriteOK(w, http.StatusOK, resp, message)
	}
}

func (h *Handlers) Everything(w http.ResponseWriter, r *http.Request) {
	serveNews(h.svc.Everything, "News articles retrieved successfully")(w, r)
}

func (h *Handlers) TopHeadlines(w http.ResponseWriter, r *http.Request) {
	serveNews(h.svc.TopHeadlines, "Top headlines retrieved successfully")(w, r)
}

func (h *Handlers) Sources(w http.ResponseWriter, r *http.Request) {
	serveNews(h.svc.Sources, "News sources retrieved successfully")(w, r)
}

func (h *Handlers) Personalized(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrUnauthorized)
		return
	}

	resp, err := h.svc.Personalized(r.Context(), id.UserID, r.URL.Query())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	apierrors.WriteOK(w, http.StatusOK, resp, "Personalized news retrieved successfully")
}
