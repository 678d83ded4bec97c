// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package api implements the REST client for the workspace service.
// It covers the 2.0 endpoints used for cluster, instance-pool and
// instance-profile management, and the 1.2 command channel used to run
// statements on a cluster (execution contexts, command submission and
// command status polling).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lakeshift/cli/internal/logging"
)

// API version prefixes. The command channel predates the 2.0 API and is
// only served under 1.2.
const (
	prefixV20 = "/api/2.0"
	prefixV12 = "/api/1.2"
)

// Client performs authenticated JSON requests against one workspace.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// New creates a workspace client for the given host and API token.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Host returns the workspace base URL the client talks to.
func (c *Client) Host() string { return c.baseURL }

// do performs a single JSON request. A non-nil body is sent as a JSON
// object; query parameters are appended when given. The response body is
// decoded into out when out is non-nil. Non-2xx responses are returned as
// errors carrying the (masked) response body.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("workspace request %s %s: %s", method, path, logging.Mask(err.Error()))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: logging.Mask(string(data))}
	}
	if out == nil {
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, out)
}

// StatusError is a non-2xx workspace response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Ping verifies connectivity and credentials with a cheap read call.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, prefixV20+"/clusters/spark-versions", nil, nil, nil)
}
