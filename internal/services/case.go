package services

import (
	"context"
	"time"

	"github.com/aawaaz/casedesk/internal/models"
	"github.com/aawaaz/casedesk/internal/transport"
	"go.uber.org/zap"
)

// Defaults the backend expects on a freshly filed case
const (
	initialCaseStatus = "active"
)

// CaseService handles case endpoints. It returns raw payloads; callers
// normalize them with the mappers package.
type CaseService struct {
	client *transport.Client
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewCaseService creates a new case service
func NewCaseService(client *transport.Client, logger *zap.SugaredLogger) *CaseService {
	return &CaseService{client: client, logger: logger, now: time.Now}
}

// GetAll returns every case
func (s *CaseService) GetAll(ctx context.Context) ([]models.RawCase, error) {
	var cases []models.RawCase
	if err := s.client.Get(ctx, casesEndpoint.collection(), nil, &cases); err != nil {
		return nil, err
	}
	s.logger.Debugw("Fetched cases", "count", len(cases))
	return cases, nil
}

// GetByID returns one case
func (s *CaseService) GetByID(ctx context.Context, id string) (*models.RawCase, error) {
	var c models.RawCase
	if err := s.client.Get(ctx, casesEndpoint.item(id), nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByDistrict returns the cases filed in a district
func (s *CaseService) GetByDistrict(ctx context.Context, district string) ([]models.RawCase, error) {
	var cases []models.RawCase
	if err := s.client.Get(ctx, casesEndpoint.collection(), queryOf("district", district), &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// Create files a new case. Status, finalReportSubmitted and createdAt are
// pre-filled; whatever the server echoes back is authoritative.
func (s *CaseService) Create(ctx context.Context, req models.CreateCaseRequest) (*models.RawCase, error) {
	if req.Status == "" {
		req.Status = initialCaseStatus
	}
	if req.FinalReportSubmitted == nil {
		submitted := false
		req.FinalReportSubmitted = &submitted
	}
	if req.CreatedAt == "" {
		req.CreatedAt = s.now().UTC().Format(time.RFC3339)
	}

	var created models.RawCase
	if err := s.client.Post(ctx, casesEndpoint.collection(), req, &created); err != nil {
		return nil, err
	}

	s.logger.Infow("Case created",
		"id", created.ID,
		"department_id", req.DepartmentID,
		"created_by", req.CreatedBy,
	)
	return &created, nil
}

// Update applies a partial update; omitted fields stay unchanged server-side
func (s *CaseService) Update(ctx context.Context, id string, req models.UpdateCaseRequest) (*models.RawCase, error) {
	var updated models.RawCase
	if err := s.client.Put(ctx, casesEndpoint.item(id), req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a case. "Already gone" and "now gone" are not distinguished.
func (s *CaseService) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, casesEndpoint.item(id), nil); err != nil {
		return err
	}
	s.logger.Infow("Case deleted", "id", id)
	return nil
}

// GetTeam returns the team formation assigned to a case
func (s *CaseService) GetTeam(ctx context.Context, caseID string) (*models.TeamFormation, error) {
	var team models.TeamFormation
	if err := s.client.Get(ctx, casesEndpoint.sub(caseID, "team"), nil, &team); err != nil {
		return nil, err
	}
	if team.CaseID == "" {
		team.CaseID = caseID
	}
	return &team, nil
}
