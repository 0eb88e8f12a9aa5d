package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Watcher periodically drops the session once its token has expired
type Watcher struct {
	manager *Manager
	logger  *zap.SugaredLogger
}

// NewWatcher creates a new background expiry watcher
func NewWatcher(m *Manager, logger *zap.SugaredLogger) *Watcher {
	return &Watcher{manager: m, logger: logger}
}

// Start begins the periodic expiry check loop
func (w *Watcher) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.check()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Session watcher stopped")
			return
		case <-ticker.C:
			w.check()
		}
	}
}

func (w *Watcher) check() {
	if w.manager.State() != StateAuthenticated {
		return
	}
	if w.manager.Expired() {
		w.manager.Invalidate("token expired")
	}
}
