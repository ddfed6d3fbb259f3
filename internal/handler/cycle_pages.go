package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/hercal-app/hercal/internal/domain"
	"github.com/hercal-app/hercal/internal/service"
	"github.com/hercal-app/hercal/internal/view"
)

// CyclePageHandler serves the HTML forms for adding, editing, and
// deleting cycle entries.
type CyclePageHandler struct {
	cycles *service.CycleService
}

// NewCyclePageHandler creates a new CyclePageHandler.
func NewCyclePageHandler(cycles *service.CycleService) *CyclePageHandler {
	return &CyclePageHandler{cycles: cycles}
}

// HandleNewPage renders the empty entry form.
// GET /cycles/new
func (h *CyclePageHandler) HandleNewPage(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	view.CycleFormPage(user.DisplayName, "Add Entry", "/cycles/new", "", "", "").Render(r.Context(), w)
}

// HandleNew stores a new entry from the form submission.
// POST /cycles/new
func (h *CyclePageHandler) HandleNew(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	lastRaw := r.PostFormValue("last_period_start")
	nextRaw := r.PostFormValue("next_period_start")

	last, next, err := parseFormDates(lastRaw, nextRaw)
	if err == nil {
		_, err = h.cycles.Create(r.Context(), user.ID, last, next)
	}
	if err != nil {
		h.renderFormError(w, r, "Add Entry", "/cycles/new", lastRaw, nextRaw, err)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleEditPage renders the edit form pre-filled with the entry's dates.
// GET /cycles/{id}/edit
func (h *CyclePageHandler) HandleEditPage(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	cycle, ok := h.loadCycle(w, r, user.ID)
	if !ok {
		return
	}

	action := fmt.Sprintf("/cycles/%d/edit", cycle.ID)
	view.CycleFormPage(user.DisplayName, "Edit Entry", action,
		view.FormDate(cycle.LastPeriodStart), view.FormDate(cycle.NextPeriodStart), "").Render(r.Context(), w)
}

// HandleEdit rewrites the entry's dates from the form submission.
// POST /cycles/{id}/edit
func (h *CyclePageHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	lastRaw := r.PostFormValue("last_period_start")
	nextRaw := r.PostFormValue("next_period_start")

	last, next, err := parseFormDates(lastRaw, nextRaw)
	if err == nil {
		_, err = h.cycles.Update(r.Context(), user.ID, id, last, next)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.renderFormError(w, r, "Edit Entry", fmt.Sprintf("/cycles/%d/edit", id), lastRaw, nextRaw, err)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleDeletePage renders the delete confirmation page.
// GET /cycles/{id}/delete
func (h *CyclePageHandler) HandleDeletePage(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	cycle, ok := h.loadCycle(w, r, user.ID)
	if !ok {
		return
	}

	view.CycleDeletePage(user.DisplayName, cycle).Render(r.Context(), w)
}

// HandleDelete removes the entry after confirmation.
// POST /cycles/{id}/delete
func (h *CyclePageHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.cycles.Delete(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("delete cycle", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// loadCycle fetches the entry named in the path for the given owner,
// writing the error response itself when the lookup fails.
func (h *CyclePageHandler) loadCycle(w http.ResponseWriter, r *http.Request, userID int64) (*domain.Cycle, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	cycle, err := h.cycles.GetByID(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
			return nil, false
		}
		slog.Error("load cycle", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return nil, false
	}
	return cycle, true
}

func (h *CyclePageHandler) renderFormError(w http.ResponseWriter, r *http.Request, heading, action, lastRaw, nextRaw string, err error) {
	user := UserFromContext(r.Context())

	msg := "An unexpected error occurred. Please try again."
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrInvalidInput) {
		msg = "Please enter valid dates; the predicted date must come after the start date."
		status = http.StatusUnprocessableEntity
	} else {
		slog.Error("save cycle", "error", err)
	}

	w.WriteHeader(status)
	view.CycleFormPage(user.DisplayName, heading, action, lastRaw, nextRaw, msg).Render(r.Context(), w)
}

func parseFormDates(lastRaw, nextRaw string) (last, next time.Time, err error) {
	last, err = time.ParseInLocation(isoDate, lastRaw, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start date", domain.ErrInvalidInput)
	}
	next, err = time.ParseInLocation(isoDate, nextRaw, time.UTC)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid predicted date", domain.ErrInvalidInput)
	}
	return last, next, nil
}
