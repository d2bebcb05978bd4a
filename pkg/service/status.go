package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/filxconnect/cli/pkg/api"
	"github.com/filxconnect/cli/pkg/config"
	"github.com/filxconnect/cli/pkg/logger"
	"github.com/filxconnect/cli/pkg/session"
)

// StatusTransition reports a change in the signed-in user's moderation
// state.
type StatusTransition struct {
	From api.UserStatus
	To   api.UserStatus
}

// StatusService polls the signed-in user's account record and reports
// moderation state transitions. A pending account becoming active, or
// any account becoming blocked, is surfaced through the callback so
// the command layer can redirect.
type StatusService struct {
	mu      sync.Mutex
	current api.UserStatus
	known   bool
}

// NewStatusService creates a new status service
func NewStatusService() *StatusService {
	return &StatusService{}
}

// Check fetches the account's current moderation state.
func (ss *StatusService) Check(ctx context.Context) (api.UserStatus, error) {
	userID := session.CurrentUserID()

	user, err := api.GetUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch account status: %w", err)
	}

	ss.mu.Lock()
	ss.current = user.Status
	ss.known = true
	ss.mu.Unlock()
	return user.Status, nil
}

// Watch polls the account status on the configured interval until ctx
// is cancelled, invoking onChange for every transition.
func (ss *StatusService) Watch(ctx context.Context, onChange func(StatusTransition)) {
	interval := config.GetInterval("sync.status_interval")
	logger.Debug("Starting status watcher", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Status watcher stopped")
			return
		case <-ticker.C:
			ss.mu.Lock()
			prev, known := ss.current, ss.known
			ss.mu.Unlock()

			status, err := ss.Check(ctx)
			if err != nil {
				logger.Warn("Status poll failed", "error", err)
				continue
			}
			if known && status != prev {
				logger.Info("Account status changed", "from", int(prev), "to", int(status))
				if onChange != nil {
					onChange(StatusTransition{From: prev, To: status})
				}
			}
		}
	}
}
