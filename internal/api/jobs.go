// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"context"
	"net/http"
)

// JobRecord is one job as the workspace returns it: a numeric job_id, an
// optional creator_user_name and the settings object the create endpoint
// accepts. Kept raw for line-JSON export.
type JobRecord map[string]any

// ID returns the job id, or 0 when absent.
func (r JobRecord) ID() int64 {
	v, _ := r["job_id"].(float64) // decoded JSON numbers arrive as float64
	return int64(v)
}

// Settings returns the job's settings object, or nil when absent.
func (r JobRecord) Settings() map[string]any {
	v, _ := r["settings"].(map[string]any)
	return v
}

// Name returns the job name from settings.
func (r JobRecord) Name() string {
	if s := r.Settings(); s != nil {
		if name, ok := s["name"].(string); ok {
			return name
		}
	}
	return ""
}

// JobsService wraps the 2.0 jobs endpoints.
type JobsService struct {
	client *Client
}

// NewJobsService returns a jobs service bound to the client.
func NewJobsService(c *Client) *JobsService { return &JobsService{client: c} }

// List returns all job records in the workspace.
func (s *JobsService) List(ctx context.Context) ([]JobRecord, error) {
	var out struct {
		Jobs []JobRecord `json:"jobs"`
	}
	if err := s.client.do(ctx, http.MethodGet, prefixV20+"/jobs/list", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Jobs, nil
}

// Create registers a job from a settings object and returns the new job id.
func (s *JobsService) Create(ctx context.Context, settings map[string]any) (int64, error) {
	var out struct {
		JobID int64 `json:"job_id"`
	}
	if err := s.client.do(ctx, http.MethodPost, prefixV20+"/jobs/create", nil, settings, &out); err != nil {
		return 0, err
	}
	return out.JobID, nil
}

// Delete removes a job.
func (s *JobsService) Delete(ctx context.Context, jobID int64) error {
	return s.client.do(ctx, http.MethodPost, prefixV20+"/jobs/delete", nil,
		map[string]int64{"job_id": jobID}, nil)
}
