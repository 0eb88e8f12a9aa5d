package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, zap.NewNop().Sugar(), opts...)
}

func TestRequestNoContentForEveryMethod(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, method, r.Method)
				w.WriteHeader(http.StatusNoContent)
			})

			body, err := c.Request(context.Background(), "/api/cases/1", Options{Method: method, Body: map[string]string{"a": "b"}})
			require.NoError(t, err)
			assert.Nil(t, body)
		})
	}
}

func TestRequestReturnsJSONBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7}`))
	})

	body, err := c.Request(context.Background(), "/api/persons/7", Options{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7}`, string(body))
}

func TestErrorPrefersServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"email already registered","code":"DUPLICATE_EMAIL"}`))
	})

	_, err := c.Request(context.Background(), "/api/persons", Options{Method: http.MethodPost})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "email already registered", apiErr.Message)
	assert.Equal(t, "DUPLICATE_EMAIL", apiErr.Code)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestErrorWithNumericCodeKeepsMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"Email already registered","code":1062}`))
	})

	_, err := c.Request(context.Background(), "/api/persons", Options{Method: http.MethodPost})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Email already registered", apiErr.Message)
	assert.Equal(t, "1062", apiErr.Code)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
}

func TestErrorIgnoresNonScalarFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":{"en":"bad"},"error":"Bad input","code":null}`))
	})

	_, err := c.Request(context.Background(), "/api/persons", Options{Method: http.MethodPost})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Bad input", apiErr.Message)
	assert.Empty(t, apiErr.Code)
}

func TestErrorFallsBackToStatusMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>upstream down</html>`))
	})

	_, err := c.Request(context.Background(), "/api/cases", Options{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "HTTP Error 502", apiErr.Message)
	assert.Empty(t, apiErr.Code)
	assert.False(t, apiErr.IsTransportFailure())
}

func TestNetworkFailureHasStatusZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(url, time.Second, zap.NewNop().Sugar())
	_, err := c.Request(context.Background(), "/api/cases", Options{})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 0, apiErr.Status)
	assert.Equal(t, NetworkErrorMessage, apiErr.Message)
	assert.True(t, IsTransportFailure(err))
}

func TestBearerTokenAndHeaderMerge(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "text/plain", r.Header.Get("Content-Type"))
		assert.Equal(t, "yes", r.Header.Get("X-Trace"))
		w.WriteHeader(http.StatusNoContent)
	}, WithTokenSource(staticToken("tok-123")))

	_, err := c.Request(context.Background(), "/hi", Options{
		Headers: http.Header{"Content-Type": {"text/plain"}, "X-Trace": {"yes"}},
	})
	require.NoError(t, err)
}

func TestMissingTokenStillSendsRequest(t *testing.T) {
	called := false
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`[]`))
	}, WithTokenSource(staticToken("")))

	_, err := c.Request(context.Background(), "/api/departments", Options{})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestUnauthorizedHookFires(t *testing.T) {
	fired := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, WithUnauthorizedHook(func(token string) { fired++ }))

	_, err := c.Request(context.Background(), "/api/cases", Options{})
	require.Error(t, err)
	assert.Equal(t, 1, fired)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
}

func TestConvenienceFormsEncodeAndDecode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.Equal(t, http.MethodPut, r.Method)
		assert.JSONEq(t, `{"name":"x"}`, string(raw))
		_, _ = w.Write([]byte(`{"name":"x","id":3}`))
	})

	var out struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, c.Put(context.Background(), "/api/departments/3", map[string]string{"name": "x"}, &out))
	assert.Equal(t, 3, out.ID)
}

func TestMalformedSuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	var out json.RawMessage
	err := c.Get(context.Background(), "/api/cases", nil, &out)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, CodeMalformedResponse, apiErr.Code)
}

func TestAnonymousAndCallerAuthorization(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	}, WithTokenSource(staticToken("session")))

	var hooked []string
	c.SetUnauthorizedHook(func(token string) { hooked = append(hooked, token) })

	_, _ = c.Request(context.Background(), "/api/auth/login", Options{Method: http.MethodPost, Anonymous: true})
	_, _ = c.Request(context.Background(), "/api/auth/logout", Options{
		Method:  http.MethodPost,
		Headers: http.Header{"Authorization": {"Bearer old"}},
	})

	assert.Equal(t, []string{"", "Bearer old"}, seen)
	assert.Equal(t, []string{"", "old"}, hooked)
}
