package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hercal-app/hercal/internal/domain"
	"github.com/hercal-app/hercal/internal/service"
	"github.com/hercal-app/hercal/internal/view"
	datastar "github.com/starfederation/datastar-go/datastar"
)

const cyclePageSize = 5

// DashboardHandler serves the dashboard page, its content fragment, and
// the load-more flow.
type DashboardHandler struct {
	cycles *service.CycleService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(cycles *service.CycleService) *DashboardHandler {
	return &DashboardHandler{cycles: cycles}
}

// HandleDashboard renders the full dashboard page with the payload
// inline, through the same resilient read as the fragment. When the store
// stays unavailable after retries it falls back to the skeleton page,
// whose client controller keeps hydrating from the fragment endpoint.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	data, err := h.cycles.Dashboard(r.Context(), user.ID, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			slog.Warn("dashboard falling back to skeleton", "user_id", user.ID, "error", err)
			view.DashboardSkeleton(user.DisplayName).Render(r.Context(), w)
			return
		}
		slog.Error("dashboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view.DashboardPage(user.DisplayName, data.Cycles, data.Estimate, cyclePageSize).Render(r.Context(), w)
}

// HandleFragment renders the dashboard content for the authenticated user.
// When the store stays unavailable after retries it answers 503 with a
// short plain-text body so the client can tell "try again" from "broken".
func (h *DashboardHandler) HandleFragment(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	data, err := h.cycles.Dashboard(r.Context(), user.ID, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			slog.Warn("dashboard fragment unavailable", "user_id", user.ID, "error", err)
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("Database unavailable after multiple attempts."))
			return
		}
		slog.Error("dashboard fragment", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view.DashboardFragment(data.Cycles, data.Estimate, cyclePageSize).Render(r.Context(), w)
}

// HandleLoadMore appends further cycle rows via SSE and replaces the
// load-more button with an updated count.
func (h *DashboardHandler) HandleLoadMore(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	cycles, total, err := h.cycles.MoreCycles(r.Context(), user.ID, cyclePageSize, offset)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			http.Error(w, "Database unavailable after multiple attempts.", http.StatusServiceUnavailable)
			return
		}
		slog.Error("load more cycles", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	nextOffset := offset + len(cycles)

	sse := datastar.NewSSE(w, r)

	// Append new rows to the table.
	sse.PatchElementTempl(
		view.CycleRows(cycles),
		datastar.WithSelectorID("cycle-rows"),
		datastar.WithModeAppend(),
	)

	// Replace the load-more button (updates count or removes it).
	sse.PatchElementTempl(
		view.LoadMoreButton(total, nextOffset),
	)
}
