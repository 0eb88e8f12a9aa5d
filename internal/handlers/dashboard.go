package handlers

import (
	"net/http"
	"strings"

	"github.com/aawaaz/casedesk/internal/dashboard"
	"github.com/aawaaz/casedesk/internal/forms"
	"github.com/aawaaz/casedesk/internal/middleware"
	"github.com/aawaaz/casedesk/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Mounter returns the dashboard for a session
type Mounter interface {
	For(s models.Session) (dashboard.Controller, error)
}

// DashboardHandler exposes the mounted role dashboard. Every route sits
// behind middleware.RequireSession.
type DashboardHandler struct {
	router Mounter
	logger *zap.SugaredLogger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(router Mounter, logger *zap.SugaredLogger) *DashboardHandler {
	return &DashboardHandler{router: router, logger: logger}
}

func (h *DashboardHandler) controller(w http.ResponseWriter, r *http.Request) (dashboard.Controller, bool) {
	s, ok := middleware.SessionFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not signed in")
		return nil, false
	}
	c, err := h.router.For(s)
	if err != nil {
		respondFailure(w, h.logger, "open dashboard", err)
		return nil, false
	}
	return c, true
}

// capability narrows the controller to an optional role interface
func capability[T any](w http.ResponseWriter, c dashboard.Controller) (T, bool) {
	v, ok := c.(T)
	if !ok {
		respondError(w, http.StatusForbidden, dashboard.ErrForbidden.Error())
	}
	return v, ok
}

// finish answers a mutation with the fresh snapshot. A write whose refetch
// failed still succeeded; the notice list tells the view about the refetch.
func (h *DashboardHandler) finish(w http.ResponseWriter, c dashboard.Controller, action string, err error) {
	if err != nil && !dashboard.Committed(err) {
		respondFailure(w, h.logger, action, err)
		return
	}
	respondJSON(w, http.StatusOK, c.Snapshot())
}

// Get handles GET /console/dashboard. The first request after sign-in
// triggers the initial load.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	if c.Phase() == dashboard.PhaseIdle {
		// Partial failures are already notices; the snapshot holds the rest.
		if err := c.Load(r.Context()); err != nil {
			h.logger.Warnw("Dashboard loaded partially", "role", c.Role(), "error", err)
		}
	}
	respondJSON(w, http.StatusOK, c.Snapshot())
}

// Reload handles POST /console/dashboard/reload
func (h *DashboardHandler) Reload(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	if err := c.Load(r.Context()); err != nil {
		h.logger.Warnw("Dashboard reloaded partially", "role", c.Role(), "error", err)
	}
	respondJSON(w, http.StatusOK, c.Snapshot())
}

// Cases handles GET /console/cases?search=&status=&district=
func (h *DashboardHandler) Cases(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	c.SetFilter(dashboard.Filter{
		Search:   q.Get("search"),
		Status:   models.CaseStatus(q.Get("status")),
		District: q.Get("district"),
	})
	respondJSON(w, http.StatusOK, c.Cases())
}

// OpenCase handles POST /console/cases/{id}/open. A failed reports fetch
// still opens the case; the detail carries the error for a retry.
func (h *DashboardHandler) OpenCase(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	err := c.OpenCase(r.Context(), id)
	snap := c.Snapshot()
	opened := snap.Detail != nil && strings.EqualFold(snap.Detail.Case.ID.String(), id)
	if err != nil && (!opened || snap.Detail.ReportsError == "") {
		respondFailure(w, h.logger, "open case", err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// CloseCase handles DELETE /console/cases/selected
func (h *DashboardHandler) CloseCase(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	c.CloseCase()
	respondJSON(w, http.StatusOK, c.Snapshot())
}

// RetryReports handles POST /console/cases/selected/reports/retry
func (h *DashboardHandler) RetryReports(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	h.finish(w, c, "load reports", c.RetryReports(r.Context()))
}

// Notices handles GET /console/notices
func (h *DashboardHandler) Notices(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, c.Notices())
}

// DismissNotices handles DELETE /console/notices
func (h *DashboardHandler) DismissNotices(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	c.DismissNotices()
	w.WriteHeader(http.StatusNoContent)
}

// Forms handles GET /console/forms
func (h *DashboardHandler) Forms(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not signed in")
		return
	}
	respondJSON(w, http.StatusOK, forms.ForRole(s.Role))
}

// Form handles GET /console/forms/{resource}
func (h *DashboardHandler) Form(w http.ResponseWriter, r *http.Request) {
	s, ok := middleware.SessionFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not signed in")
		return
	}
	form, ok := forms.For(s.Role, chi.URLParam(r, "resource"))
	if !ok {
		respondError(w, http.StatusNotFound, "No such form for this role")
		return
	}
	respondJSON(w, http.StatusOK, form)
}
