package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/aawaaz/casedesk/internal/models"
	"github.com/aawaaz/casedesk/internal/services"
	"go.uber.org/zap"
)

// Controller is what every role dashboard offers
type Controller interface {
	Role() models.Role
	Phase() Phase
	Load(ctx context.Context) error
	Snapshot() Snapshot
	SetFilter(f Filter)
	Cases() []models.Case
	OpenCase(ctx context.Context, id string) error
	RetryReports(ctx context.Context) error
	CloseCase()
	Notices() []Notice
	DismissNotices()
}

// PersonEditor is implemented by dashboards that manage persons
type PersonEditor interface {
	CreatePerson(ctx context.Context, req *models.CreatePersonRequest) error
	UpdatePerson(ctx context.Context, id string, req models.UpdatePersonRequest) error
	DeletePerson(ctx context.Context, id string) error
}

// DepartmentEditor is implemented by dashboards that manage departments
type DepartmentEditor interface {
	CreateDepartment(ctx context.Context, req models.DepartmentRequest) error
	UpdateDepartment(ctx context.Context, id string, req models.DepartmentRequest) error
	DeleteDepartment(ctx context.Context, id string) error
}

// CaseEditor is implemented by dashboards that manage cases
type CaseEditor interface {
	CreateCase(ctx context.Context, req models.CreateCaseRequest) error
	UpdateCase(ctx context.Context, id string, req models.UpdateCaseRequest) error
	DeleteCase(ctx context.Context, id string) error
}

// ReportSubmitter is implemented by dashboards that file reports
type ReportSubmitter interface {
	SubmitReport(ctx context.Context, req models.CreateReportRequest) error
}

// FeedbackReviewer is implemented by dashboards that review reports
type FeedbackReviewer interface {
	StageFeedback(reportID models.ID, text string) error
	SubmitFeedback(ctx context.Context) error
}

// StatusUpdater is implemented by dashboards that move case statuses
type StatusUpdater interface {
	UpdateCaseStatus(ctx context.Context, id string, status models.CaseStatus) error
}

// Router maps the session role to its dashboard and keeps the mounted
// controller for as long as the session lasts.
type Router struct {
	mu      sync.Mutex
	svc     *services.Set
	logger  *zap.SugaredLogger
	mounted Controller
	owner   string
}

// NewRouter creates a role router
func NewRouter(svc *services.Set, logger *zap.SugaredLogger) *Router {
	return &Router{svc: svc, logger: logger}
}

// New builds a fresh controller for the session's role
func New(s models.Session, svc *services.Set, logger *zap.SugaredLogger) (Controller, error) {
	switch s.Role {
	case models.RoleSuperadmin, models.RoleAdmin:
		return NewSuperadmin(s, svc, logger), nil
	case models.RoleMember, models.RolePolice:
		return NewMember(s, svc, logger), nil
	case models.RoleSDM, models.RoleDM, models.RoleSP:
		return NewSupervisor(s, svc, logger), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnsupportedRole, s.Role)
}

// For returns the dashboard mounted for s, building it on first use. A
// different session (new login) replaces the mounted dashboard.
func (r *Router) For(s models.Session) (Controller, error) {
	key := s.UserID.String() + "|" + s.AuthToken

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mounted != nil && r.owner == key {
		return r.mounted, nil
	}

	c, err := New(s, r.svc, r.logger)
	if err != nil {
		return nil, err
	}
	r.mounted, r.owner = c, key
	r.logger.Infow("Dashboard mounted", "role", s.Role, "user_id", s.UserID)
	return c, nil
}

// Unmount drops the mounted dashboard, e.g. on logout
func (r *Router) Unmount() {
	r.mu.Lock()
	r.mounted, r.owner = nil, ""
	r.mu.Unlock()
}
