package handler

import (
	"context"
	"net/http"

	"github.com/dialdirectory/web/internal/model"
	"github.com/dialdirectory/web/internal/view"
)

// StatsSource computes the dashboard counts.
type StatsSource interface {
	Stats(ctx context.Context) (*model.DashboardStats, error)
}

// DashboardHandler serves the staff dashboard home.
type DashboardHandler struct {
	pages
	stats StatsSource
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(v Renderer, stats StatsSource) *DashboardHandler {
	return &DashboardHandler{pages: pages{view: v}, stats: stats}
}

// Home handles GET /dashboard/.
func (h *DashboardHandler) Home(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, view.PageDashboard, "Dashboard", &view.DashboardData{Stats: stats})
}
