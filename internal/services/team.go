package services

import (
	"context"

	"github.com/aawaaz/casedesk/internal/models"
	"github.com/aawaaz/casedesk/internal/transport"
	"go.uber.org/zap"
)

// TeamFormationService handles team formation endpoints
type TeamFormationService struct {
	client *transport.Client
	logger *zap.SugaredLogger
}

// NewTeamFormationService creates a new team formation service
func NewTeamFormationService(client *transport.Client, logger *zap.SugaredLogger) *TeamFormationService {
	return &TeamFormationService{client: client, logger: logger}
}

// GetAll always returns an empty collection; there is no bulk endpoint
func (s *TeamFormationService) GetAll(ctx context.Context) ([]models.TeamFormation, error) {
	return []models.TeamFormation{}, nil
}

// GetByID returns one team formation
func (s *TeamFormationService) GetByID(ctx context.Context, id string) (*models.TeamFormation, error) {
	var t models.TeamFormation
	if err := s.client.Get(ctx, teamFormationsEndpoint.item(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create forms a team for a case
func (s *TeamFormationService) Create(ctx context.Context, req models.TeamFormationRequest) (*models.TeamFormation, error) {
	var created models.TeamFormation
	if err := s.client.Post(ctx, teamFormationsEndpoint.collection(), req, &created); err != nil {
		return nil, err
	}
	s.logger.Infow("Team formed", "case_id", req.CaseID, "members", len(req.MemberIDs))
	return &created, nil
}

// Update replaces a team's roster
func (s *TeamFormationService) Update(ctx context.Context, id string, req models.TeamFormationRequest) (*models.TeamFormation, error) {
	var updated models.TeamFormation
	if err := s.client.Put(ctx, teamFormationsEndpoint.item(id), req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete dissolves a team
func (s *TeamFormationService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, teamFormationsEndpoint.item(id), nil)
}

// GetResponse returns the case-specific response recorded for a team
func (s *TeamFormationService) GetResponse(ctx context.Context, id string) (*models.TeamResponse, error) {
	var resp models.TeamResponse
	if err := s.client.Get(ctx, teamFormationsEndpoint.sub(id, "response"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SubmitResponse records a team's response for its case
func (s *TeamFormationService) SubmitResponse(ctx context.Context, id string, resp models.TeamResponse) (*models.TeamResponse, error) {
	var saved models.TeamResponse
	if err := s.client.Post(ctx, teamFormationsEndpoint.sub(id, "response"), resp, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}
