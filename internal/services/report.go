package services

import (
	"context"

	"github.com/aawaaz/casedesk/internal/models"
	"github.com/aawaaz/casedesk/internal/transport"
	"go.uber.org/zap"
)

// ReportService handles report endpoints
type ReportService struct {
	client *transport.Client
	logger *zap.SugaredLogger
}

// NewReportService creates a new report service
func NewReportService(client *transport.Client, logger *zap.SugaredLogger) *ReportService {
	return &ReportService{client: client, logger: logger}
}

// GetAll always returns an empty collection. The backend has no bulk
// report endpoint, so no request is made.
func (s *ReportService) GetAll(ctx context.Context) ([]models.Report, error) {
	return []models.Report{}, nil
}

// GetByID returns one report
func (s *ReportService) GetByID(ctx context.Context, id string) (*models.Report, error) {
	var r models.Report
	if err := s.client.Get(ctx, reportsEndpoint.item(id), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetByCase returns the reports filed against a case
func (s *ReportService) GetByCase(ctx context.Context, caseID string) ([]models.Report, error) {
	var reports []models.Report
	if err := s.client.Get(ctx, reportsEndpoint.collection(), queryOf("caseId", caseID), &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// GetByPerson returns the reports a person has filed
func (s *ReportService) GetByPerson(ctx context.Context, personID string) ([]models.Report, error) {
	var reports []models.Report
	if err := s.client.Get(ctx, reportsEndpoint.collection(), queryOf("personId", personID), &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// Create files a report
func (s *ReportService) Create(ctx context.Context, req models.CreateReportRequest) (*models.Report, error) {
	var created models.Report
	if err := s.client.Post(ctx, reportsEndpoint.collection(), req, &created); err != nil {
		return nil, err
	}

	s.logger.Infow("Report submitted",
		"id", created.ID,
		"case_id", req.CaseID,
		"person_id", req.PersonID,
	)
	return &created, nil
}

// Update sets supervisory feedback on a report
func (s *ReportService) Update(ctx context.Context, id string, req models.UpdateReportRequest) (*models.Report, error) {
	var updated models.Report
	if err := s.client.Put(ctx, reportsEndpoint.item(id), req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a report
func (s *ReportService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, reportsEndpoint.item(id), nil)
}
