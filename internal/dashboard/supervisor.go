package dashboard

import (
	"context"
	"errors"
	"strings"

	"github.com/aawaaz/casedesk/internal/models"
	"github.com/aawaaz/casedesk/internal/services"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NothingToSubmit is the notice raised when a feedback batch is empty
const NothingToSubmit = "Nothing to submit"

// Supervisor serves the SDM, DM and SP roles. The SDM reviews reports and
// leaves feedback; DM and SP move cases through their statuses. SP only
// sees police persons.
type Supervisor struct {
	core
}

// NewSupervisor creates the controller for a supervisory session
func NewSupervisor(s models.Session, svc *services.Set, logger *zap.SugaredLogger) *Supervisor {
	sv := &Supervisor{}
	sv.init(s, svc, logger)
	if s.Role == models.RoleSP {
		sv.personScope = func(p models.Person) bool { return p.Role == models.RolePolice }
	}
	return sv
}

// Load fetches cases, persons and departments
func (s *Supervisor) Load(ctx context.Context) error {
	s.setPhase(PhaseLoading)
	defer s.setPhase(PhaseReady)
	return s.loadShared(ctx)
}

// Snapshot returns a copy of the dashboard state
func (s *Supervisor) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// StageFeedback keeps feedback text for a report of the open case until
// SubmitFeedback. Staging an empty text unstages the report.
func (s *Supervisor) StageFeedback(reportID models.ID, text string) error {
	if s.session.Role != models.RoleSDM {
		return ErrForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detail == nil {
		return ErrNoCaseSelected
	}
	if text == "" {
		delete(s.feedback, reportID)
		return nil
	}
	s.feedback[reportID] = text
	return nil
}

// SubmitFeedback sends every non-blank staged feedback concurrently. The
// batch succeeds or fails as a whole: on failure the staged texts stay for a
// retry, on success they are cleared and the open case's reports refetched.
func (s *Supervisor) SubmitFeedback(ctx context.Context) error {
	if s.session.Role != models.RoleSDM {
		return ErrForbidden
	}

	s.mu.RLock()
	if s.detail == nil {
		s.mu.RUnlock()
		return ErrNoCaseSelected
	}
	batch := make(map[models.ID]string, len(s.feedback))
	for id, text := range s.feedback {
		if strings.TrimSpace(text) != "" {
			batch[id] = strings.TrimSpace(text)
		}
	}
	s.mu.RUnlock()

	if len(batch) == 0 {
		s.notify(NoticeInfo, NothingToSubmit)
		return nil
	}

	return s.mutate(ctx, "submit feedback", func(ctx context.Context) error {
		var (
			g      errgroup.Group
			failed = make(chan error, len(batch))
		)
		for id, text := range batch {
			id, text := id, text
			g.Go(func() error {
				_, err := s.svc.Reports.Update(ctx, id.String(), models.UpdateReportRequest{SDMFeedback: text})
				if err != nil {
					s.logger.Errorw("Failed to submit feedback", "report_id", id, "error", err)
					failed <- err
				}
				return nil
			})
		}
		_ = g.Wait()
		close(failed)

		var errs []error
		for err := range failed {
			errs = append(errs, err)
		}
		if len(errs) > 0 {
			return errors.Join(errs...)
		}

		s.mu.Lock()
		for id := range batch {
			delete(s.feedback, id)
		}
		s.mu.Unlock()

		s.notify(NoticeInfo, "Feedback submitted")
		s.logger.Infow("Feedback submitted", "reports", len(batch))
		if err := s.RetryReports(ctx); err != nil {
			return &refreshError{err: err}
		}
		return nil
	})
}

// UpdateCaseStatus moves a case to status and refetches cases. Only DM and
// SP may change statuses.
func (s *Supervisor) UpdateCaseStatus(ctx context.Context, id string, status models.CaseStatus) error {
	if s.session.Role != models.RoleDM && s.session.Role != models.RoleSP {
		return ErrForbidden
	}
	req := models.UpdateCaseRequest{Status: &status}
	if err := validate(s.validate, req); err != nil {
		return err
	}
	return s.mutate(ctx, "update case status", func(ctx context.Context) error {
		if _, err := s.svc.Cases.Update(ctx, id, req); err != nil {
			return err
		}
		return s.refetchCases(ctx)
	})
}
