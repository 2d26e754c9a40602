package http

import (
	"fmt"
	"net/http"

	"github.com/tuanvumaihuynh/sales-analytics/internal/auth"
)

type refreshTokenRequest struct {
	Refresh string `json:"refresh"`
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) error {
	var form auth.CredentialsForm
	if err := decodeJSON(w, r, &form); err != nil {
		return err
	}

	user, err := h.Auth.Register(r.Context(), form)
	if err != nil {
		return fmt.Errorf("auth service register: %w", err)
	}

	return writeJSON(w, http.StatusCreated, UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	})
}

func (h *handler) obtainToken(w http.ResponseWriter, r *http.Request) error {
	var form auth.CredentialsForm
	if err := decodeJSON(w, r, &form); err != nil {
		return err
	}

	pair, err := h.Auth.ObtainTokens(r.Context(), form)
	if err != nil {
		return fmt.Errorf("auth service obtain tokens: %w", err)
	}

	return writeJSON(w, http.StatusOK, pair)
}

func (h *handler) refreshToken(w http.ResponseWriter, r *http.Request) error {
	var req refreshTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}

	pair, err := h.Auth.RefreshTokens(r.Context(), req.Refresh)
	if err != nil {
		return fmt.Errorf("auth service refresh tokens: %w", err)
	}

	return writeJSON(w, http.StatusOK, pair)
}
