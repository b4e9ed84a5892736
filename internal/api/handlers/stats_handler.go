package handlers

import (
	"context"
	"net/http"

	"github.com/isdelr/devblogs-be/internal/models"
)

// StatsSource provides the latest stats snapshot.
type StatsSource interface {
	Latest(ctx context.Context) (models.StatsSnapshot, error)
}

// StatsHandler serves content and host statistics.
type StatsHandler struct {
	source StatsSource
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(source StatsSource) *StatsHandler {
	return &StatsHandler{source: source}
}

// Get returns the latest snapshot.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	snap, err := h.source.Latest(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
