package services

import (
	"context"

	"github.com/aawaaz/casedesk/internal/models"
	"github.com/aawaaz/casedesk/internal/transport"
	"go.uber.org/zap"
)

// DepartmentService handles department endpoints
type DepartmentService struct {
	client *transport.Client
	logger *zap.SugaredLogger
}

// NewDepartmentService creates a new department service
func NewDepartmentService(client *transport.Client, logger *zap.SugaredLogger) *DepartmentService {
	return &DepartmentService{client: client, logger: logger}
}

// GetAll returns every department
func (s *DepartmentService) GetAll(ctx context.Context) ([]models.Department, error) {
	var depts []models.Department
	if err := s.client.Get(ctx, departmentsEndpoint.collection(), nil, &depts); err != nil {
		return nil, err
	}
	return depts, nil
}

// GetByID returns one department
func (s *DepartmentService) GetByID(ctx context.Context, id string) (*models.Department, error) {
	var d models.Department
	if err := s.client.Get(ctx, departmentsEndpoint.item(id), nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetByDistrict returns the departments of one district
func (s *DepartmentService) GetByDistrict(ctx context.Context, district string) ([]models.Department, error) {
	var depts []models.Department
	if err := s.client.Get(ctx, departmentsEndpoint.collection(), queryOf("district", district), &depts); err != nil {
		return nil, err
	}
	return depts, nil
}

// Create adds a department
func (s *DepartmentService) Create(ctx context.Context, req models.DepartmentRequest) (*models.Department, error) {
	var created models.Department
	if err := s.client.Post(ctx, departmentsEndpoint.collection(), req, &created); err != nil {
		return nil, err
	}
	s.logger.Infow("Department created", "id", created.ID, "name", created.Name)
	return &created, nil
}

// Update applies a partial update
func (s *DepartmentService) Update(ctx context.Context, id string, req models.DepartmentRequest) (*models.Department, error) {
	var updated models.Department
	if err := s.client.Put(ctx, departmentsEndpoint.item(id), req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a department
func (s *DepartmentService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, departmentsEndpoint.item(id), nil)
}
