package dashboard

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/aawaaz/casedesk/internal/models"
	"github.com/aawaaz/casedesk/internal/services"
	"github.com/aawaaz/casedesk/internal/transport"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Member is the case worker dashboard, also used by police members. It
// shows the cases the member is assigned to and the member's own reports.
type Member struct {
	core
	reports []models.Report

	teamMu sync.RWMutex
	// case id -> whether the member is on the case's team formation
	onTeam map[string]bool
}

// NewMember creates the member controller
func NewMember(s models.Session, svc *services.Set, logger *zap.SugaredLogger) *Member {
	m := &Member{}
	m.init(s, svc, logger)
	m.onTeam = make(map[string]bool)
	m.caseScope = m.assigned
	m.prepareScope = m.resolveTeams
	return m
}

// assigned reports whether the member supervises the case, appears on its
// department roster or belongs to its team formation.
func (m *Member) assigned(cs models.Case) bool {
	d, ok := cs.Detail()
	if !ok {
		return false
	}
	if d.SupervisorID != nil && *d.SupervisorID == m.session.UserID {
		return true
	}
	if d.HasMember(m.session.UserID) {
		return true
	}
	m.teamMu.RLock()
	defer m.teamMu.RUnlock()
	return m.onTeam[cs.ID.String()]
}

// resolveTeams fetches the team formation of every case that references one
// and is not already assigned through its roster. A team that cannot be
// fetched counts as not assigned.
func (m *Member) resolveTeams(ctx context.Context, cases []models.Case) {
	var g errgroup.Group
	for _, cs := range cases {
		d, ok := cs.Detail()
		if !ok || d.TeamID == nil || d.TeamID.IsZero() {
			continue
		}
		if d.HasMember(m.session.UserID) || (d.SupervisorID != nil && *d.SupervisorID == m.session.UserID) {
			continue
		}
		caseID, teamID := cs.ID.String(), d.TeamID.String()
		g.Go(func() error {
			member := false
			team, err := m.svc.TeamFormations.GetByID(ctx, teamID)
			switch {
			case err == nil:
				member = slices.Contains(team.MemberIDs, m.session.UserID)
			case !transport.IsNotFound(err):
				m.logger.Warnw("Failed to load team formation", "case_id", caseID, "team_id", teamID, "error", err)
			}
			m.teamMu.Lock()
			m.onTeam[caseID] = member
			m.teamMu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
}

// Load fetches assigned cases, persons, departments and the member's reports
func (m *Member) Load(ctx context.Context) error {
	m.setPhase(PhaseLoading)
	defer m.setPhase(PhaseReady)

	var reports []models.Report
	err := m.loadShared(ctx, fetchJob{name: "reports", run: func(ctx context.Context) (err error) {
		reports, err = m.svc.Reports.GetByPerson(ctx, m.session.UserID.String())
		return err
	}})

	m.mu.Lock()
	m.reports = sortReports(reports)
	m.mu.Unlock()
	return err
}

// Snapshot returns a copy of the dashboard state
func (m *Member) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := m.snapshotLocked()
	snap.Reports = clone(m.reports)
	return snap
}

// SubmitReport files a report as the signed-in member, then refetches the
// member's reports and, when that case is open, its report list.
func (m *Member) SubmitReport(ctx context.Context, req models.CreateReportRequest) error {
	req.PersonID = m.session.UserID
	if err := validate(m.validate, req); err != nil {
		return err
	}

	m.mu.RLock()
	_, ok := findCase(m.cases, req.CaseID)
	m.mu.RUnlock()
	if !ok {
		return ErrForbidden
	}

	return m.mutate(ctx, "submit report", func(ctx context.Context) error {
		if _, err := m.svc.Reports.Create(ctx, req); err != nil {
			return err
		}
		m.notify(NoticeInfo, "Report submitted")

		if err := m.refetchReports(ctx); err != nil {
			m.notify(NoticeError, "Failed to refresh reports: %s", userMessage(err))
			return &refreshError{err: err}
		}

		m.mu.RLock()
		open := m.detail != nil && strings.EqualFold(m.detail.Case.ID.String(), req.CaseID)
		m.mu.RUnlock()
		if open {
			if err := m.RetryReports(ctx); err != nil {
				return &refreshError{err: err}
			}
		}
		return nil
	})
}

func (m *Member) refetchReports(ctx context.Context) error {
	reports, err := m.svc.Reports.GetByPerson(ctx, m.session.UserID.String())
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.reports = sortReports(reports)
	m.mu.Unlock()
	return nil
}
