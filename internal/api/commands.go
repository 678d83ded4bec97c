// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Command lifecycle statuses reported by the 1.2 command channel.
const (
	CommandQueued   = "Queued"
	CommandRunning  = "Running"
	CommandFinished = "Finished"
	CommandError    = "Error"
)

// LanguagePython is the interactive language used for all submitted
// statements; the crawl drives the remote runtime through python snippets.
const LanguagePython = "python"

// CommandStatus is one poll of a submitted command. Results stays raw
// until the command reaches a terminal state and the caller decodes it.
type CommandStatus struct {
	Status  string          `json:"status"`
	Results json.RawMessage `json:"results"`
}

// Terminal reports whether the command has stopped executing.
func (cs CommandStatus) Terminal() bool {
	return cs.Status != CommandQueued && cs.Status != CommandRunning
}

// CommandService wraps the 1.2 execution-context and command endpoints.
type CommandService struct {
	client *Client
}

// NewCommandService returns a command service bound to the client.
func NewCommandService(c *Client) *CommandService { return &CommandService{client: c} }

// CreateContext opens an execution context on the cluster and returns its
// id. An empty id with no transport error means the service refused the
// session; the caller decides how to surface that.
func (s *CommandService) CreateContext(ctx context.Context, clusterID string) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	body := map[string]string{
		"language":  LanguagePython,
		"clusterId": clusterID,
	}
	if err := s.client.do(ctx, http.MethodPost, prefixV12+"/contexts/create", nil, body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// Execute submits a statement to an execution context and returns the
// command id to poll.
func (s *CommandService) Execute(ctx context.Context, clusterID, contextID, command string) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	body := map[string]string{
		"language":  LanguagePython,
		"clusterId": clusterID,
		"contextId": contextID,
		"command":   command,
	}
	if err := s.client.do(ctx, http.MethodPost, prefixV12+"/commands/execute", nil, body, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

// Status fetches the current status and, once terminal, the results of a
// submitted command.
func (s *CommandService) Status(ctx context.Context, clusterID, contextID, commandID string) (CommandStatus, error) {
	q := url.Values{}
	q.Set("clusterId", clusterID)
	q.Set("contextId", contextID)
	q.Set("commandId", commandID)
	var out CommandStatus
	if err := s.client.do(ctx, http.MethodGet, prefixV12+"/commands/status", q, nil, &out); err != nil {
		return CommandStatus{}, err
	}
	return out, nil
}
