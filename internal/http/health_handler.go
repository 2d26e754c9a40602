package http

import (
	"context"
	"net/http"
	"time"
)

func (h *handler) health(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if ok, err := h.Health.IsHealthy(ctx); err != nil || !ok {
		return writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "unavailable", Database: "down"})
	}

	return writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Database: "up"})
}
