package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aawaaz/casedesk/internal/dashboard"
	"github.com/aawaaz/casedesk/internal/models"
	"github.com/aawaaz/casedesk/internal/services"
	"github.com/aawaaz/casedesk/internal/session"
	"github.com/aawaaz/casedesk/internal/transport"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const caseID = "11111111-1111-4111-8111-111111111111"

// fakeAuth signs in anyone using the password "secret" as the role encoded
// in the email's local part.
type fakeAuth struct {
	mu        sync.Mutex
	current   *models.Session
	logoutErr error
}

func (a *fakeAuth) Login(_ context.Context, creds models.Credentials) (models.Session, error) {
	if creds.Password != "secret" {
		return models.Session{}, session.ErrInvalidCredentials
	}
	local, _, _ := strings.Cut(creds.Email, "@")
	s := models.Session{UserID: "8", Email: creds.Email, Role: models.ParseRole(local), AuthToken: "tok-" + local}
	a.mu.Lock()
	a.current = &s
	a.mu.Unlock()
	return s, nil
}

func (a *fakeAuth) Logout(context.Context) error {
	a.mu.Lock()
	a.current = nil
	a.mu.Unlock()
	return a.logoutErr
}

func (a *fakeAuth) Current() (models.Session, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.current == nil {
		return models.Session{}, false
	}
	return *a.current, true
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type console struct {
	srv    *httptest.Server
	auth   *fakeAuth
	router *dashboard.Router
}

func backendServices(t *testing.T) *services.Set {
	t.Helper()
	mux := http.NewServeMux()
	serve := func(pattern, body string) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(body))
		})
	}
	serve("/api/cases", `[{"id":"`+caseID+`","status":"REPORTED","caseDetails":[{"district":"Ri-Bhoi","departmentMembers":{"police":[7]},"supervisorId":8}]}]`)
	serve("/api/persons", `[{"id":7,"firstName":"Ravi","lastName":"Roy","email":"ravi@example.org","role":"POLICE","departmentId":1}]`)
	serve("/api/departments", `[{"id":1,"name":"Police","district":"Ri-Bhoi"}]`)
	serve("/api/admin", `[]`)
	serve("/api/reports", `[]`)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	logger := zap.NewNop().Sugar()
	return services.NewSet(transport.NewClient(srv.URL, 5*time.Second, logger), logger)
}

func newConsole(t *testing.T, health *HealthHandler) *console {
	t.Helper()
	logger := zap.NewNop().Sugar()
	auth := &fakeAuth{}
	router := dashboard.NewRouter(backendServices(t), logger)
	if health == nil {
		health = NewHealthHandler(pinger{}, pinger{}, logger)
	}

	r := chi.NewRouter()
	Console{
		Health:    health,
		Sessions:  NewSessionHandler(auth, router, logger),
		Dashboard: NewDashboardHandler(router, logger),
		Active:    auth,
	}.Mount(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &console{srv: srv, auth: auth, router: router}
}

func (c *console) do(t *testing.T, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, c.srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func (c *console) login(t *testing.T, role string) {
	t.Helper()
	resp, _ := c.do(t, http.MethodPost, "/console/session", `{"email":"`+role+`@example.org","password":"secret"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDashboardRequiresSession(t *testing.T) {
	c := newConsole(t, nil)

	resp, _ := c.do(t, http.MethodGet, "/console/dashboard", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = c.do(t, http.MethodGet, "/console/session", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginAndDashboard(t *testing.T) {
	c := newConsole(t, nil)

	resp, body := c.do(t, http.MethodPost, "/console/session", `{"email":"superadmin@example.org","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, session.ErrInvalidCredentials.Error(), body["error"])

	resp, body = c.do(t, http.MethodPost, "/console/session", `{"email":" superadmin@example.org ","password":"secret"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "SUPERADMIN", body["role"])
	assert.NotContains(t, body, "authToken")
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))

	resp, body = c.do(t, http.MethodGet, "/console/dashboard", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", body["phase"])
	assert.Len(t, body["cases"], 1)
	assert.Len(t, body["persons"], 1)
}

func TestCapabilityIsRoleScoped(t *testing.T) {
	c := newConsole(t, nil)
	c.login(t, "member")

	resp, _ := c.do(t, http.MethodPost, "/console/persons", `{}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = c.do(t, http.MethodPost, "/console/feedback/submit", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = c.do(t, http.MethodGet, "/console/forms/reports", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = c.do(t, http.MethodGet, "/console/forms/persons", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidationErrorListsFields(t *testing.T) {
	c := newConsole(t, nil)
	c.login(t, "superadmin")

	resp, body := c.do(t, http.MethodPost, "/console/persons", `{"firstName":"Ana","email":"not-an-email"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "required", fields["lastName"])
	assert.Equal(t, "email", fields["email"])

	resp, _ = c.do(t, http.MethodPost, "/console/persons", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOpenCase(t *testing.T) {
	c := newConsole(t, nil)
	c.login(t, "sdm")

	resp, _ := c.do(t, http.MethodPost, "/console/feedback/submit", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = c.do(t, http.MethodGet, "/console/dashboard", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := c.do(t, http.MethodPost, "/console/cases/"+caseID+"/open", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail, ok := body["detail"].(map[string]any)
	require.True(t, ok)
	// No team route exists on the backend, so the roster is empty
	assert.Empty(t, detail["team"])

	resp, _ = c.do(t, http.MethodPost, "/console/cases/99999999-0000-4000-8000-000000000000/open", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = c.do(t, http.MethodDelete, "/console/cases/selected", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, body, "detail")
}

func TestCasesFilter(t *testing.T) {
	c := newConsole(t, nil)
	c.login(t, "superadmin")
	c.do(t, http.MethodGet, "/console/dashboard", "")

	req, err := http.NewRequest(http.MethodGet, c.srv.URL+"/console/cases?status=CLOSED", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var cases []models.Case
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cases))
	assert.Empty(t, cases)
}

func TestLogoutUnmountsDashboard(t *testing.T) {
	c := newConsole(t, nil)
	c.login(t, "superadmin")
	s, _ := c.auth.Current()
	before, err := c.router.For(s)
	require.NoError(t, err)

	resp, _ := c.do(t, http.MethodDelete, "/console/session", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	after, err := c.router.For(s)
	require.NoError(t, err)
	assert.NotSame(t, before, after)

	resp, _ = c.do(t, http.MethodGet, "/console/notices", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUnknownRoleIsForbidden(t *testing.T) {
	c := newConsole(t, nil)
	c.login(t, "visitor")

	resp, _ := c.do(t, http.MethodGet, "/console/dashboard", "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	logger := zap.NewNop().Sugar()
	c := newConsole(t, NewHealthHandler(pinger{err: errors.New("down")}, pinger{}, logger))

	resp, body := c.do(t, http.MethodGet, "/console/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "unreachable", body["backend"])
	assert.Equal(t, "connected", body["storage"])

	resp, body = c.do(t, http.MethodGet, "/hi", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestRespondFailureMapsTransportErrors(t *testing.T) {
	logger := zap.NewNop().Sugar()

	rec := httptest.NewRecorder()
	respondFailure(rec, logger, "load", &transport.APIError{Message: transport.NetworkErrorMessage})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = httptest.NewRecorder()
	respondFailure(rec, logger, "open case", &transport.APIError{
		Message: "Malformed response from /api/cases/x",
		Status:  http.StatusOK,
		Code:    transport.CodeMalformedResponse,
	})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), transport.CodeMalformedResponse)

	rec = httptest.NewRecorder()
	respondFailure(rec, logger, "load", &transport.APIError{Message: "Gone", Status: http.StatusGone})
	assert.Equal(t, http.StatusGone, rec.Code)

	rec = httptest.NewRecorder()
	respondFailure(rec, logger, "load", errors.New("disk on fire"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to load")
}
