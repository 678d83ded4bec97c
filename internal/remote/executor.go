// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package remote

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pterm/pterm"

	"lakeshift/cli/internal/api"
	lserrors "lakeshift/cli/internal/errors"
)

// Executor submits single statements to an execution context and polls
// them to a terminal state. Polling is a constant-interval loop bounded
// by the configured timeout, never open-ended.
type Executor struct {
	channel      CommandChannel
	pollInterval time.Duration
	timeout      time.Duration
}

// NewExecutor returns an executor with the given poll interval and the
// per-command timeout bounding the polling loop.
func NewExecutor(channel CommandChannel, pollInterval, timeout time.Duration) *Executor {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	return &Executor{channel: channel, pollInterval: pollInterval, timeout: timeout}
}

var errStillRunning = errors.New("command still running")

// Run submits stmt in the execution context and waits for its result.
// An error-tagged result is returned to the caller as data; only
// submission and polling failures are Go errors.
func (e *Executor) Run(ctx context.Context, clusterID, contextID, stmt string) (Result, error) {
	commandID, err := e.channel.Execute(ctx, clusterID, contextID, stmt)
	if err != nil {
		return Result{}, lserrors.Wrap(lserrors.SubmissionFailed, "command submission failed", err)
	}
	if commandID == "" {
		return Result{}, lserrors.New(lserrors.SubmissionFailed, "service returned no command id")
	}

	pollCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var status api.CommandStatus
	poll := func() error {
		st, err := e.channel.Status(pollCtx, clusterID, contextID, commandID)
		if err != nil {
			return backoff.Permanent(err)
		}
		if !st.Terminal() {
			return errStillRunning
		}
		status = st
		return nil
	}
	policy := backoff.WithContext(backoff.NewConstantBackOff(e.pollInterval), pollCtx)
	if err := backoff.Retry(poll, policy); err != nil {
		return Result{}, lserrors.Wrap(lserrors.CommandFailed, "command did not reach a terminal state", err)
	}

	res := DecodeResult(status.Results)
	if res.Type == ResultError {
		pterm.Warning.Printfln("remote statement failed: %s", res.Summary)
	}
	return res, nil
}
