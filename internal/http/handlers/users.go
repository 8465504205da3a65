package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/go-news-aggregator/news-gateway/internal/errors"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/http/middleware"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/models"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/service"
)

func (h *Handlers) GetPreferences(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrUnauthorized)
		return
	}

	prefs, err := h.svc.Preferences(r.Context(), id.UserID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	apierrors.WriteOK(w, http.StatusOK, models.PreferencesResponse{Preferences: prefs}, "")
}

func (h *Handlers) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrUnauthorized)
		return
	}

	var in models.PreferencesRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	prefs, err := h.svc.UpdatePreferences(r.Context(), id.UserID, in.Update())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	apierrors.WriteOK(w, http.StatusOK, models.PreferencesResponse{Preferences: prefs}, "Preferences updated successfully")
}
