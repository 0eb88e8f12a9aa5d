package handlers

import (
	"net/http"

	"github.com/aawaaz/casedesk/internal/dashboard"
	"github.com/aawaaz/casedesk/internal/models"
	"github.com/go-chi/chi/v5"
)

// Role-specific writes. Each one is refused with 403 when the mounted
// dashboard does not offer the capability.

// CreatePerson handles POST /console/persons
func (h *DashboardHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	ed, c, ok := editor[dashboard.PersonEditor](h, w, r)
	if !ok {
		return
	}
	var req models.CreatePersonRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.finish(w, c, "create person", ed.CreatePerson(r.Context(), &req))
}

// UpdatePerson handles PUT /console/persons/{id}
func (h *DashboardHandler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	ed, c, ok := editor[dashboard.PersonEditor](h, w, r)
	if !ok {
		return
	}
	var req models.UpdatePersonRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.finish(w, c, "update person", ed.UpdatePerson(r.Context(), chi.URLParam(r, "id"), req))
}

// DeletePerson handles DELETE /console/persons/{id}
func (h *DashboardHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	ed, c, ok := editor[dashboard.PersonEditor](h, w, r)
	if !ok {
		return
	}
	h.finish(w, c, "delete person", ed.DeletePerson(r.Context(), chi.URLParam(r, "id")))
}

// CreateDepartment handles POST /console/departments
func (h *DashboardHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	ed, c, ok := editor[dashboard.DepartmentEditor](h, w, r)
	if !ok {
		return
	}
	var req models.DepartmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.finish(w, c, "create department", ed.CreateDepartment(r.Context(), req))
}

// UpdateDepartment handles PUT /console/departments/{id}
func (h *DashboardHandler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	ed, c, ok := editor[dashboard.DepartmentEditor](h, w, r)
	if !ok {
		return
	}
	var req models.DepartmentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.finish(w, c, "update department", ed.UpdateDepartment(r.Context(), chi.URLParam(r, "id"), req))
}

// DeleteDepartment handles DELETE /console/departments/{id}
func (h *DashboardHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	ed, c, ok := editor[dashboard.DepartmentEditor](h, w, r)
	if !ok {
		return
	}
	h.finish(w, c, "delete department", ed.DeleteDepartment(r.Context(), chi.URLParam(r, "id")))
}

// CreateCase handles POST /console/cases
func (h *DashboardHandler) CreateCase(w http.ResponseWriter, r *http.Request) {
	ed, c, ok := editor[dashboard.CaseEditor](h, w, r)
	if !ok {
		return
	}
	var req models.CreateCaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.finish(w, c, "create case", ed.CreateCase(r.Context(), req))
}

// UpdateCase handles PUT /console/cases/{id}
func (h *DashboardHandler) UpdateCase(w http.ResponseWriter, r *http.Request) {
	ed, c, ok := editor[dashboard.CaseEditor](h, w, r)
	if !ok {
		return
	}
	var req models.UpdateCaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.finish(w, c, "update case", ed.UpdateCase(r.Context(), chi.URLParam(r, "id"), req))
}

// DeleteCase handles DELETE /console/cases/{id}
func (h *DashboardHandler) DeleteCase(w http.ResponseWriter, r *http.Request) {
	ed, c, ok := editor[dashboard.CaseEditor](h, w, r)
	if !ok {
		return
	}
	h.finish(w, c, "delete case", ed.DeleteCase(r.Context(), chi.URLParam(r, "id")))
}

// SubmitReport handles POST /console/reports
func (h *DashboardHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	sub, c, ok := editor[dashboard.ReportSubmitter](h, w, r)
	if !ok {
		return
	}
	var req models.CreateReportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.finish(w, c, "submit report", sub.SubmitReport(r.Context(), req))
}

// StageFeedback handles POST /console/feedback/{reportId}. An empty text
// unstages the report.
func (h *DashboardHandler) StageFeedback(w http.ResponseWriter, r *http.Request) {
	rev, c, ok := editor[dashboard.FeedbackReviewer](h, w, r)
	if !ok {
		return
	}
	var body struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.finish(w, c, "stage feedback", rev.StageFeedback(models.ID(chi.URLParam(r, "reportId")), body.Text))
}

// SubmitFeedback handles POST /console/feedback/submit
func (h *DashboardHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	rev, c, ok := editor[dashboard.FeedbackReviewer](h, w, r)
	if !ok {
		return
	}
	h.finish(w, c, "submit feedback", rev.SubmitFeedback(r.Context()))
}

// UpdateCaseStatus handles PUT /console/cases/{id}/status
func (h *DashboardHandler) UpdateCaseStatus(w http.ResponseWriter, r *http.Request) {
	up, c, ok := editor[dashboard.StatusUpdater](h, w, r)
	if !ok {
		return
	}
	var body struct {
		Status models.CaseStatus `json:"status"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.finish(w, c, "update case status", up.UpdateCaseStatus(r.Context(), chi.URLParam(r, "id"), body.Status))
}

func editor[T any](h *DashboardHandler, w http.ResponseWriter, r *http.Request) (T, dashboard.Controller, bool) {
	var zero T
	c, ok := h.controller(w, r)
	if !ok {
		return zero, nil, false
	}
	v, ok := capability[T](w, c)
	return v, c, ok
}
