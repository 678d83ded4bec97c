// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package remote drives statement execution on a running cluster through
// the workspace command channel: it opens execution contexts, submits
// python statements, polls them to completion and decodes the result
// payloads. Statement builders keep all remote output on the text channel
// so results stay parseable and bounded in size.
package remote

import (
	"context"
	"encoding/json"

	"lakeshift/cli/internal/api"
)

// CommandChannel is the capability the session manager and executor need
// from the workspace API. *api.CommandService satisfies it; tests use fakes.
type CommandChannel interface {
	CreateContext(ctx context.Context, clusterID string) (string, error)
	Execute(ctx context.Context, clusterID, contextID, command string) (string, error)
	Status(ctx context.Context, clusterID, contextID, commandID string) (api.CommandStatus, error)
}

// ResultType tags the variants of a command result.
type ResultType string

const (
	// ResultText carries the printed output of the statement.
	ResultText ResultType = "text"
	// ResultError carries the remote error summary and cause.
	ResultError ResultType = "error"
	// ResultOther is any payload the channel returned that is neither
	// text nor error (images, tables, missing results).
	ResultOther ResultType = "other"
)

// Result is the tagged union a finished command produces. Exactly one
// variant is meaningful, selected by Type; Raw retains the full payload
// for audit lines regardless of variant.
type Result struct {
	Type    ResultType
	Text    string // ResultText
	Summary string // ResultError
	Cause   string // ResultError
	Raw     json.RawMessage
}

// DecodeResult classifies a raw results payload into the Result union.
// Unknown or missing resultType values decode as ResultOther rather than
// failing; an error result is data to the caller, not a fault.
func DecodeResult(raw json.RawMessage) Result {
	res := Result{Type: ResultOther, Raw: raw}
	if len(raw) == 0 {
		return res
	}
	var payload struct {
		ResultType string `json:"resultType"`
		Data       any    `json:"data"`
		Summary    string `json:"summary"`
		Cause      string `json:"cause"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return res
	}
	switch payload.ResultType {
	case "text":
		if s, ok := payload.Data.(string); ok {
			return Result{Type: ResultText, Text: s, Raw: raw}
		}
	case "error":
		return Result{Type: ResultError, Summary: payload.Summary, Cause: payload.Cause, Raw: raw}
	}
	return res
}
