package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/aawaaz/casedesk/internal/models"
	"go.uber.org/zap"
)

// Authenticator is the part of the session manager the handlers drive
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (models.Session, error)
	Logout(ctx context.Context) error
	Current() (models.Session, bool)
}

// Unmounter drops the mounted dashboard
type Unmounter interface {
	Unmount()
}

// SessionHandler handles sign-in and sign-out
type SessionHandler struct {
	auth   Authenticator
	router Unmounter
	logger *zap.SugaredLogger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(auth Authenticator, router Unmounter, logger *zap.SugaredLogger) *SessionHandler {
	return &SessionHandler{auth: auth, router: router, logger: logger}
}

// Login handles POST /console/session
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	creds.Email = strings.TrimSpace(creds.Email)

	s, err := h.auth.Login(r.Context(), creds)
	if err != nil {
		respondFailure(w, h.logger, "sign in", err)
		return
	}
	respondJSON(w, http.StatusOK, s)
}

// Current handles GET /console/session
func (h *SessionHandler) Current(w http.ResponseWriter, r *http.Request) {
	s, ok := h.auth.Current()
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not signed in")
		return
	}
	respondJSON(w, http.StatusOK, s)
}

// Logout handles DELETE /console/session. The dashboard is unmounted even
// when clearing durable storage failed.
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	err := h.auth.Logout(r.Context())
	h.router.Unmount()
	if err != nil {
		respondFailure(w, h.logger, "sign out", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
