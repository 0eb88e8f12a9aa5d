package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/aawaaz/casedesk/internal/models"
	"github.com/aawaaz/casedesk/internal/transport"
	"go.uber.org/zap"
)

// AdminService handles admin accounts and admin login
type AdminService struct {
	client *transport.Client
	logger *zap.SugaredLogger
}

// NewAdminService creates a new admin service
func NewAdminService(client *transport.Client, logger *zap.SugaredLogger) *AdminService {
	return &AdminService{client: client, logger: logger}
}

// Login authenticates an administrator
func (s *AdminService) Login(ctx context.Context, creds models.Credentials) (*models.AdminLoginResponse, error) {
	var resp models.AdminLoginResponse
	if err := s.client.PostAnonymous(ctx, adminEndpoint.action("login"), creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetAll returns every admin account
func (s *AdminService) GetAll(ctx context.Context) ([]models.AdminUser, error) {
	var admins []models.AdminUser
	if err := s.client.Get(ctx, adminEndpoint.collection(), nil, &admins); err != nil {
		return nil, err
	}
	return admins, nil
}

// GetByID returns one admin account
func (s *AdminService) GetByID(ctx context.Context, id string) (*models.AdminUser, error) {
	var a models.AdminUser
	if err := s.client.Get(ctx, adminEndpoint.item(id), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Create adds an admin account
func (s *AdminService) Create(ctx context.Context, req models.AdminUserRequest) (*models.AdminUser, error) {
	var created models.AdminUser
	if err := s.client.Post(ctx, adminEndpoint.collection(), req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update applies a partial update
func (s *AdminService) Update(ctx context.Context, id string, req models.AdminUserRequest) (*models.AdminUser, error) {
	var updated models.AdminUser
	if err := s.client.Put(ctx, adminEndpoint.item(id), req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes an admin account
func (s *AdminService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, adminEndpoint.item(id), nil)
}

// AuthService wraps the server-side authentication endpoints
type AuthService struct {
	client *transport.Client
	logger *zap.SugaredLogger
}

// NewAuthService creates a new auth service
func NewAuthService(client *transport.Client, logger *zap.SugaredLogger) *AuthService {
	return &AuthService{client: client, logger: logger}
}

// Login authenticates a person against /api/auth/login
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (*models.AuthLoginResponse, error) {
	var resp models.AuthLoginResponse
	if err := s.client.PostAnonymous(ctx, authEndpoint.action("login"), creds, &resp); err != nil {
		return nil, err
	}
	resp.User.Password = ""
	return &resp, nil
}

// Logout invalidates token server-side. The token is passed explicitly
// because the local session is already gone by the time this runs.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	_, err := s.client.Request(ctx, authEndpoint.action("logout"), transport.Options{
		Method:  http.MethodPost,
		Headers: http.Header{"Authorization": []string{"Bearer " + token}},
	})
	return err
}

// Register creates an account through the auth endpoint
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.RawPerson, error) {
	var created models.RawPerson
	if err := s.client.PostAnonymous(ctx, authEndpoint.action("register"), req, &created); err != nil {
		return nil, err
	}
	created.Password = ""
	return &created, nil
}

// HealthService probes backend liveness
type HealthService struct {
	client *transport.Client
}

// NewHealthService creates a new health service
func NewHealthService(client *transport.Client) *HealthService {
	return &HealthService{client: client}
}

// Ping calls GET /hi
func (s *HealthService) Ping(ctx context.Context) error {
	_, err := s.client.Request(ctx, "/hi", transport.Options{})
	var apiErr *transport.APIError
	if err != nil && errors.As(err, &apiErr) && apiErr.Code == transport.CodeMalformedResponse {
		// /hi answers with plain text
		return nil
	}
	return err
}
