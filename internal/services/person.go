package services

import (
	"context"
	"strings"

	"github.com/aawaaz/casedesk/internal/models"
	"github.com/aawaaz/casedesk/internal/transport"
	"go.uber.org/zap"
)

// PersonService handles person endpoints
type PersonService struct {
	client *transport.Client
	logger *zap.SugaredLogger
}

// NewPersonService creates a new person service
func NewPersonService(client *transport.Client, logger *zap.SugaredLogger) *PersonService {
	return &PersonService{client: client, logger: logger}
}

// GetAll returns every person
func (s *PersonService) GetAll(ctx context.Context) ([]models.RawPerson, error) {
	var persons []models.RawPerson
	if err := s.client.Get(ctx, personsEndpoint.collection(), nil, &persons); err != nil {
		return nil, err
	}
	return stripPasswords(persons), nil
}

// GetByID returns one person
func (s *PersonService) GetByID(ctx context.Context, id string) (*models.RawPerson, error) {
	var p models.RawPerson
	if err := s.client.Get(ctx, personsEndpoint.item(id), nil, &p); err != nil {
		return nil, err
	}
	p.Password = ""
	return &p, nil
}

// GetByEmail returns the persons registered under an email address
func (s *PersonService) GetByEmail(ctx context.Context, email string) ([]models.RawPerson, error) {
	persons, err := s.lookupByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return stripPasswords(persons), nil
}

// lookupByEmail keeps the stored passwords; only Login may see them
func (s *PersonService) lookupByEmail(ctx context.Context, email string) ([]models.RawPerson, error) {
	var persons []models.RawPerson
	if err := s.client.Get(ctx, personsEndpoint.collection(), queryOf("email", email), &persons); err != nil {
		return nil, err
	}
	return persons, nil
}

// GetByDepartment returns the persons belonging to a department
func (s *PersonService) GetByDepartment(ctx context.Context, departmentID string) ([]models.RawPerson, error) {
	var persons []models.RawPerson
	if err := s.client.Get(ctx, personsEndpoint.collection(), queryOf("departmentId", departmentID), &persons); err != nil {
		return nil, err
	}
	return stripPasswords(persons), nil
}

// Create registers a new person. The password is cleared from req once the
// call returns, whatever the outcome.
func (s *PersonService) Create(ctx context.Context, req *models.CreatePersonRequest) (*models.RawPerson, error) {
	defer func() { req.Password = "" }()

	var created models.RawPerson
	if err := s.client.Post(ctx, personsEndpoint.collection(), req, &created); err != nil {
		return nil, err
	}
	created.Password = ""

	s.logger.Infow("Person created", "id", created.ID, "role", req.Role)
	return &created, nil
}

// Update applies a partial update
func (s *PersonService) Update(ctx context.Context, id string, req models.UpdatePersonRequest) (*models.RawPerson, error) {
	var updated models.RawPerson
	if err := s.client.Put(ctx, personsEndpoint.item(id), req, &updated); err != nil {
		return nil, err
	}
	updated.Password = ""
	return &updated, nil
}

// Delete removes a person
func (s *PersonService) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, personsEndpoint.item(id), nil); err != nil {
		return err
	}
	s.logger.Infow("Person deleted", "id", id)
	return nil
}

// Login is the client-side credential check used when the backend has no
// auth endpoint. It returns nil, nil when the user is absent or the
// password does not match.
func (s *PersonService) Login(ctx context.Context, email, password string) (*models.RawPerson, error) {
	persons, err := s.lookupByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	for _, p := range persons {
		if !strings.EqualFold(p.Email, email) {
			continue
		}
		if p.Password != password {
			s.logger.Infow("Client-side login rejected", "email", email)
			return nil, nil
		}
		p.Password = ""
		return &p, nil
	}
	return nil, nil
}

func stripPasswords(persons []models.RawPerson) []models.RawPerson {
	for i := range persons {
		persons[i].Password = ""
	}
	return persons
}
