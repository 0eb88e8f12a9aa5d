// Package session owns the single authenticated identity of the console:
// hydration from durable storage, the login chain, logout and invalidation.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aawaaz/casedesk/internal/mappers"
	"github.com/aawaaz/casedesk/internal/models"
	"github.com/aawaaz/casedesk/internal/services"
	"github.com/aawaaz/casedesk/internal/transport"
	"go.uber.org/zap"
)

// State is the lifecycle state of the manager
type State string

const (
	StateUninitialized State = "uninitialized"
	StateHydrating     State = "hydrating"
	StateAuthenticated State = "authenticated"
	StateAnonymous     State = "anonymous"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAuthenticated   = errors.New("not authenticated")
)

const serverLogoutTimeout = 5 * time.Second

// Options toggles the fallback login paths
type Options struct {
	// ClientSideLogin enables the person email lookup check for backends
	// without an auth endpoint.
	ClientSideLogin bool
	// DemoMode enables the demo account table after every other path failed.
	DemoMode bool
	Demo     *DemoAccounts
	Tokens   *LocalTokens
}

// Manager holds the session. It implements transport.TokenSource.
type Manager struct {
	mu      sync.RWMutex
	state   State
	current *models.Session

	store  Store
	svc    *services.Set
	opts   Options
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewManager creates a manager in the uninitialized state
func NewManager(store Store, svc *services.Set, opts Options, logger *zap.SugaredLogger) *Manager {
	return &Manager{
		state:  StateUninitialized,
		store:  store,
		svc:    svc,
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// Token returns the bearer token of the current session, or ""
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return ""
	}
	return m.current.AuthToken
}

// State returns the lifecycle state
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Current returns a copy of the active session
func (m *Manager) Current() (models.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return models.Session{}, false
	}
	return *m.current, true
}

// Hydrate restores the session from durable storage without any network
// call. Both the user record and the token must be present.
func (m *Manager) Hydrate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = StateHydrating
	m.current = nil

	userJSON, hasUser, err := m.store.Get(ctx, KeyUser)
	if err != nil {
		m.state = StateAnonymous
		return fmt.Errorf("read persisted user: %w", err)
	}
	token, hasToken, err := m.store.Get(ctx, KeyAuthToken)
	if err != nil {
		m.state = StateAnonymous
		return fmt.Errorf("read persisted token: %w", err)
	}
	if !hasUser || !hasToken || token == "" {
		m.state = StateAnonymous
		return nil
	}

	var s models.Session
	if err := json.Unmarshal([]byte(userJSON), &s); err != nil || !s.Role.Valid() {
		m.logger.Warnw("Discarding unreadable persisted session", "error", err)
		m.state = StateAnonymous
		return m.store.Delete(ctx, KeyUser, KeyAuthToken)
	}
	s.AuthToken = token
	s.ExpiresAt = ExpiryOf(token)
	if !s.ExpiresAt.IsZero() && !s.ExpiresAt.After(m.now()) {
		m.logger.Infow("Persisted session expired", "user_id", s.UserID)
		m.state = StateAnonymous
		return m.store.Delete(ctx, KeyUser, KeyAuthToken)
	}

	m.current = &s
	m.state = StateAuthenticated
	m.logger.Infow("Session hydrated", "user_id", s.UserID, "role", s.Role)
	return nil
}

// Login runs the login chain: admin login, auth login, then the optional
// client-side and demo fallbacks. A successful login replaces any current
// session.
func (m *Manager) Login(ctx context.Context, creds models.Credentials) (models.Session, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return models.Session{}, ErrInvalidCredentials
	}

	var serverErrs []error
	attempt := func(name string, fn func() (*models.Session, error)) *models.Session {
		s, err := fn()
		if err != nil {
			m.logger.Infow("Login path failed", "path", name, "email", creds.Email, "error", err)
			serverErrs = append(serverErrs, err)
			return nil
		}
		return s
	}

	s := attempt("admin", func() (*models.Session, error) { return m.adminLogin(ctx, creds) })
	if s == nil {
		s = attempt("auth", func() (*models.Session, error) { return m.authLogin(ctx, creds) })
	}
	if s == nil && m.opts.ClientSideLogin {
		s = attempt("client-side", func() (*models.Session, error) { return m.clientSideLogin(ctx, creds) })
	}
	if s == nil && m.opts.DemoMode {
		if acct, ok := m.opts.Demo.Authenticate(creds.Email, creds.Password); ok {
			m.logger.Warnw("Demo mode login", "email", acct.Email, "role", acct.Role)
			demo, err := m.localSession(models.Session{
				UserID:      acct.ID,
				DisplayName: acct.Name,
				Email:       acct.Email,
				Role:        acct.Role,
			})
			if err != nil {
				return models.Session{}, err
			}
			s = demo
		}
	}

	if s == nil {
		if allTransportFailures(serverErrs) {
			return models.Session{}, serverErrs[len(serverErrs)-1]
		}
		return models.Session{}, ErrInvalidCredentials
	}

	m.commit(ctx, *s)
	return *s, nil
}

func (m *Manager) adminLogin(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	resp, err := m.svc.Admins.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, ErrInvalidCredentials
	}
	role := resp.Admin.Role
	if !role.Valid() {
		role = models.RoleAdmin
	}
	return &models.Session{
		UserID:      resp.Admin.ID,
		DisplayName: resp.Admin.Name,
		Email:       resp.Admin.Email,
		Role:        role,
		AuthToken:   resp.Token,
		ExpiresAt:   ExpiryOf(resp.Token),
	}, nil
}

func (m *Manager) authLogin(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	resp, err := m.svc.Auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, ErrInvalidCredentials
	}
	s := personSession(mappers.MapPerson(resp.User, nil))
	s.AuthToken = resp.Token
	s.ExpiresAt = ExpiryOf(resp.Token)
	return &s, nil
}

func (m *Manager) clientSideLogin(ctx context.Context, creds models.Credentials) (*models.Session, error) {
	raw, err := m.svc.Persons.Login(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, ErrInvalidCredentials
	}
	return m.localSession(personSession(mappers.MapPerson(*raw, nil)))
}

// localSession attaches a locally issued token to s
func (m *Manager) localSession(s models.Session) (*models.Session, error) {
	if m.opts.Tokens == nil {
		return nil, errors.New("local session tokens are not configured")
	}
	token, err := m.opts.Tokens.Issue(s)
	if err != nil {
		return nil, err
	}
	s.AuthToken = token
	s.ExpiresAt = ExpiryOf(token)
	return &s, nil
}

func personSession(p models.Person) models.Session {
	name := p.FullName()
	if name == "" {
		name = p.Email
	}
	return models.Session{
		UserID:       p.ID,
		DisplayName:  name,
		Email:        p.Email,
		Role:         p.Role,
		DepartmentID: p.DepartmentID,
	}
}

// commit installs s and persists it. A persistence failure is logged; the
// in-memory session stays valid for this process.
func (m *Manager) commit(ctx context.Context, s models.Session) {
	m.mu.Lock()
	m.current = &s
	m.state = StateAuthenticated
	m.mu.Unlock()

	userJSON, err := json.Marshal(s)
	if err == nil {
		err = m.store.Set(ctx, KeyUser, string(userJSON))
	}
	if err == nil {
		err = m.store.Set(ctx, KeyAuthToken, s.AuthToken)
	}
	if err != nil {
		m.logger.Errorw("Failed to persist session", "user_id", s.UserID, "error", err)
	}

	m.logger.Infow("Logged in", "user_id", s.UserID, "role", s.Role)
}

// Logout clears the session and durable storage before returning. The
// server-side logout call runs in the background and its outcome is only logged.
func (m *Manager) Logout(ctx context.Context) error {
	token := m.clear()
	err := m.store.Delete(ctx, KeyUser, KeyAuthToken)

	if token != "" {
		go func() {
			bg, cancel := context.WithTimeout(context.Background(), serverLogoutTimeout)
			defer cancel()
			if err := m.svc.Auth.Logout(bg, token); err != nil {
				m.logger.Debugw("Server logout failed", "error", err)
			}
		}()
	}

	if err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}
	m.logger.Info("Logged out")
	return nil
}

// Invalidate drops the session after the backend rejected its token or it
// expired. No server call is made.
func (m *Manager) Invalidate(reason string) {
	if m.clear() == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), serverLogoutTimeout)
	defer cancel()
	if err := m.store.Delete(ctx, KeyUser, KeyAuthToken); err != nil {
		m.logger.Errorw("Failed to clear invalidated session", "error", err)
	}
	m.logger.Warnw("Session invalidated", "reason", reason)
}

// HandleUnauthorized is the transport's 401 hook. Only a rejection of the
// current session's own token invalidates it.
func (m *Manager) HandleUnauthorized(token string) {
	if token == "" || token != m.Token() {
		return
	}
	m.Invalidate("backend rejected token")
}

// Expired reports whether the current session's token has passed its exp claim
func (m *Manager) Expired() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current != nil && !m.current.ExpiresAt.IsZero() && !m.current.ExpiresAt.After(m.now())
}

// clear resets in-memory state and returns the token that was active
func (m *Manager) clear() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	token := ""
	if m.current != nil {
		token = m.current.AuthToken
	}
	m.current = nil
	m.state = StateAnonymous
	return token
}

func allTransportFailures(errs []error) bool {
	if len(errs) == 0 {
		return false
	}
	for _, err := range errs {
		if !transport.IsTransportFailure(err) {
			return false
		}
	}
	return true
}
