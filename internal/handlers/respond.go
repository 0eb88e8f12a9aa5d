// Package handlers contains the console's HTTP handlers. Handlers decode
// requests, drive the mounted dashboard controller, and return JSON.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aawaaz/casedesk/internal/dashboard"
	"github.com/aawaaz/casedesk/internal/session"
	"github.com/aawaaz/casedesk/internal/transport"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// errorBody is the JSON shape of every failed console response
type errorBody struct {
	Error  string            `json:"error"`
	Code   string            `json:"code,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorBody{Error: message})
}

// respondFailure maps a controller or session error onto a status code
func respondFailure(w http.ResponseWriter, logger *zap.SugaredLogger, action string, err error) {
	var (
		verr   *dashboard.ValidationError
		apiErr *transport.APIError
	)

	switch {
	case errors.As(err, &verr):
		respondJSON(w, http.StatusBadRequest, errorBody{Error: "Validation failed", Fields: verr.Fields})
	case errors.Is(err, dashboard.ErrForbidden), errors.Is(err, dashboard.ErrUnsupportedRole):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, dashboard.ErrNoCaseSelected):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrInvalidCredentials), errors.Is(err, session.ErrNotAuthenticated):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &apiErr):
		// No response, or a success body that could not be read, is the
		// backend's fault rather than the caller's.
		status := apiErr.Status
		if status < http.StatusBadRequest || apiErr.Code == transport.CodeMalformedResponse {
			status = http.StatusBadGateway
		}
		logger.Warnw("Backend call failed", "action", action, "status", apiErr.Status, "error", err)
		respondJSON(w, status, errorBody{Error: apiErr.Message, Code: apiErr.Code})
	default:
		logger.Errorw("Request failed", "action", action, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}
