package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hercal-app/hercal/internal/domain"
	"github.com/hercal-app/hercal/internal/service"
)

// CycleAPIHandler exposes the JSON CRUD surface under /api/cycles. Every
// operation is scoped to the authenticated owner.
type CycleAPIHandler struct {
	cycles *service.CycleService
}

// NewCycleAPIHandler creates a new CycleAPIHandler.
func NewCycleAPIHandler(cycles *service.CycleService) *CycleAPIHandler {
	return &CycleAPIHandler{cycles: cycles}
}

// HandleList returns all of the user's cycles, most recent first.
// GET /api/cycles
func (h *CycleAPIHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	cycles, err := h.cycles.ListByUser(r.Context(), user.ID)
	if err != nil {
		h.writeServiceError(w, "list cycles", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"cycles": toCycleDTOs(cycles)})
}

// HandleEstimate returns the derived stats for the user's history,
// computed through the same retrying read path as the dashboard.
// GET /api/cycles/estimate
func (h *CycleAPIHandler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	data, err := h.cycles.Dashboard(r.Context(), user.ID, time.Now())
	if err != nil {
		h.writeServiceError(w, "estimate cycles", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"estimate": toEstimateDTO(data.Estimate)})
}

// HandleGet returns a single cycle.
// GET /api/cycles/{id}
func (h *CycleAPIHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid cycle id.")
		return
	}

	cycle, err := h.cycles.GetByID(r.Context(), user.ID, id)
	if err != nil {
		h.writeServiceError(w, "get cycle", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"cycle": toCycleDTO(cycle)})
}

// HandleCreate stores a new cycle entry.
// POST /api/cycles
// Request: {"lastPeriodStart":"2026-01-01","nextPeriodStart":"2026-01-29"}
func (h *CycleAPIHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	var req cycleRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	last, next, err := req.dates()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cycle, err := h.cycles.Create(r.Context(), user.ID, last, next)
	if err != nil {
		h.writeServiceError(w, "create cycle", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"cycle": toCycleDTO(cycle)})
}

// HandleUpdate rewrites an existing cycle's dates.
// PUT /api/cycles/{id}
func (h *CycleAPIHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid cycle id.")
		return
	}

	var req cycleRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	last, next, err := req.dates()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cycle, err := h.cycles.Update(r.Context(), user.ID, id, last, next)
	if err != nil {
		h.writeServiceError(w, "update cycle", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"cycle": toCycleDTO(cycle)})
}

// HandleDelete removes a cycle entry.
// DELETE /api/cycles/{id}
func (h *CycleAPIHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid cycle id.")
		return
	}

	if err := h.cycles.Delete(r.Context(), user.ID, id); err != nil {
		h.writeServiceError(w, "delete cycle", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeServiceError maps the domain error taxonomy onto HTTP statuses:
// validation 400, missing/foreign 404, transient store fault 503, and
// anything else a logged 500.
func (h *CycleAPIHandler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Cycle not found.")
	case errors.Is(err, domain.ErrStoreUnavailable):
		slog.Warn(op+": store unavailable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Database temporarily unavailable. Please retry.")
	default:
		slog.Error(op, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
