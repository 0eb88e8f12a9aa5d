package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aawaaz/casedesk/internal/models"
	"github.com/aawaaz/casedesk/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSet(t *testing.T, handler http.HandlerFunc) *Set {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	logger := zap.NewNop().Sugar()
	return NewSet(transport.NewClient(srv.URL, 5*time.Second, logger), logger)
}

func TestCaseCreatePrefillsDefaults(t *testing.T) {
	var sent map[string]any
	set := newTestSet(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/cases", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"8a3c56c2-8f0e-4b7c-a5a0-9c0f0d3a1b11","status":"active"}`))
	})

	created, err := set.Cases.Create(context.Background(), models.CreateCaseRequest{
		Title:        "X",
		Description:  "Y",
		CreatedBy:    1,
		DepartmentID: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "active", created.Status)

	assert.Equal(t, "X", sent["title"])
	assert.Equal(t, "Y", sent["description"])
	assert.EqualValues(t, 1, sent["createdBy"])
	assert.EqualValues(t, 2, sent["departmentId"])
	assert.Equal(t, "active", sent["status"])
	assert.Equal(t, false, sent["finalReportSubmitted"])

	createdAt, ok := sent["createdAt"].(string)
	require.True(t, ok)
	_, err = time.Parse(time.RFC3339, createdAt)
	assert.NoError(t, err)
}

func TestBulkFallbacksNeverTouchNetwork(t *testing.T) {
	// Unreachable backend: nothing listens on this port after Close.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s", r.URL.Path)
	}))
	srv.Close()
	logger := zap.NewNop().Sugar()
	set := NewSet(transport.NewClient(srv.URL, time.Second, logger), logger)

	reports, err := set.Reports.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reports)

	teams, err := set.TeamFormations.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, teams)
}

func TestGetByIDPropagatesNotFound(t *testing.T) {
	set := newTestSet(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Department not found"}`))
	})

	_, err := set.Departments.GetByID(context.Background(), "99")
	require.Error(t, err)
	assert.True(t, transport.IsNotFound(err))
}

func TestQueryProjections(t *testing.T) {
	set := newTestSet(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/reports":
			assert.Equal(t, "c-1", r.URL.Query().Get("caseId"))
		case "/api/cases":
			assert.Equal(t, "Nagaon", r.URL.Query().Get("district"))
		case "/api/cases/c-1/team":
			_, _ = w.Write([]byte(`{"member_ids":[4,"5"]}`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
	ctx := context.Background()

	_, err := set.Reports.GetByCase(ctx, "c-1")
	require.NoError(t, err)
	_, err = set.Cases.GetByDistrict(ctx, "Nagaon")
	require.NoError(t, err)

	team, err := set.Cases.GetTeam(ctx, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", team.CaseID)
	assert.Equal(t, []models.ID{"4", "5"}, team.MemberIDs)
}

func TestPersonLoginFallback(t *testing.T) {
	set := newTestSet(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("email") == "asha@example.org" {
			_, _ = w.Write([]byte(`[{"id":12,"email":"asha@example.org","password":"s3cret","role":"member"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
	ctx := context.Background()

	p, err := set.Persons.Login(ctx, "asha@example.org", "s3cret")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, models.ID("12"), p.ID)
	assert.Empty(t, p.Password)

	p, err = set.Persons.Login(ctx, "asha@example.org", "wrong")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = set.Persons.Login(ctx, "nobody@example.org", "s3cret")
	require.NoError(t, err)
	assert.Nil(t, p)

	persons, err := set.Persons.GetByEmail(ctx, "asha@example.org")
	require.NoError(t, err)
	require.Len(t, persons, 1)
	assert.Empty(t, persons[0].Password)
}

func TestPersonCreateClearsPassword(t *testing.T) {
	set := newTestSet(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hunter22", body["password"])
		_, _ = w.Write([]byte(`{"id":3,"email":"r@example.org","password":"hunter22"}`))
	})

	req := &models.CreatePersonRequest{Email: "r@example.org", Password: "hunter22"}
	created, err := set.Persons.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, req.Password)
	assert.Empty(t, created.Password)
}

func TestAdminLoginDecodesEnvelope(t *testing.T) {
	set := newTestSet(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/admin/login", r.URL.Path)
		_, _ = w.Write([]byte(`{"admin":{"id":1,"name":"Root","email":"root@example.org","role":"superadmin"},"token":"abc"}`))
	})

	resp, err := set.Admins.Login(context.Background(), models.Credentials{Email: "root@example.org", Password: "x"})
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.Token)
	assert.Equal(t, models.RoleSuperadmin, resp.Admin.Role)
}

func TestHealthPingAcceptsPlainText(t *testing.T) {
	set := newTestSet(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hi"))
	})
	assert.NoError(t, set.Health.Ping(context.Background()))
}
