// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package remote

import (
	"context"
	"time"

	"github.com/pterm/pterm"

	lserrors "lakeshift/cli/internal/errors"
)

// SessionManager creates execution contexts on running clusters. One
// context scopes a sequence of statement submissions to one cluster; a
// context is never reused across clusters.
type SessionManager struct {
	channel  CommandChannel
	settle   time.Duration
	attempts int
}

// NewSessionManager returns a session manager. settle is slept once
// before the first create call so commands are not submitted before the
// cluster runtime can accept them; attempts bounds how often context
// creation is tried.
func NewSessionManager(channel CommandChannel, settle time.Duration, attempts int) *SessionManager {
	if attempts <= 0 {
		attempts = 1
	}
	return &SessionManager{channel: channel, settle: settle, attempts: attempts}
}

// Open creates an execution context on the cluster and returns its id.
func (m *SessionManager) Open(ctx context.Context, clusterID string) (string, error) {
	pterm.Info.Println("Creating remote execution context")
	if err := sleepCtx(ctx, m.settle); err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt < m.attempts; attempt++ {
		id, err := m.channel.CreateContext(ctx, clusterID)
		if err != nil {
			lastErr = err
			continue
		}
		if id != "" {
			return id, nil
		}
		lastErr = lserrors.New(lserrors.SessionFailed, "service returned no execution context id")
	}
	return "", lserrors.Wrap(lserrors.SessionFailed, "unable to establish remote session", lastErr)
}

// sleepCtx blocks for d or until ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
