package handlers

import (
	"net/http"

	apierrors "github.com/pribylovaa/go-news-aggregator/news-gateway/internal/errors"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/http/middleware"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/models"
	"github.com/pribylovaa/go-news-aggregator/news-gateway/internal/service"
)

func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	sess, err := h.svc.RegisterUser(r.Context(), in.Email, in.Password, in.Preferences)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	apierrors.WriteOK(w, http.StatusCreated, models.AuthResponseFrom(sess), "User registered successfully")
}

func (h *Handlers) LoginUser(w http.ResponseWriter, r *http.Request) {
	var in models.LoginRequest
	if err := decodeStrict(w, r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	sess, err := h.svc.LoginUser(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	apierrors.WriteOK(w, http.StatusOK, models.AuthResponseFrom(sess), "Login successful")
}

func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrUnauthorized)
		return
	}

	user, err := h.svc.Profile(r.Context(), id.UserID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	apierrors.WriteOK(w, http.StatusOK, models.ProfileViewFrom(user), "")
}
