package api

import (
	"net/http"
	"time"

	"libraryapi/internal/httpx"
	"libraryapi/internal/stats"
)

type StatsHandler struct {
	service *stats.Service
}

func NewStatsHandler(service *stats.Service) *StatsHandler {
	return &StatsHandler{service: service}
}

// Get handles GET /api/statistics
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Snapshot(r.Context(), time.Now().UTC())
	if err != nil {
		writeDomainError(r, w, err)
		return
	}
	httpx.JSONSuccess(r, w, snapshot, nil)
}
