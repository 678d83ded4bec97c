// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"context"
	"net/http"
)

// PoolRecord is one instance-pool configuration as returned by the
// workspace, kept raw for line-JSON export.
type PoolRecord map[string]any

// ID returns the pool id.
func (r PoolRecord) ID() string {
	v, _ := r["instance_pool_id"].(string)
	return v
}

// Name returns the pool name.
func (r PoolRecord) Name() string {
	v, _ := r["instance_pool_name"].(string)
	return v
}

// InstancePoolService wraps the 2.0 instance-pools endpoints.
type InstancePoolService struct {
	client *Client
}

// NewInstancePoolService returns an instance-pool service bound to the client.
func NewInstancePoolService(c *Client) *InstancePoolService {
	return &InstancePoolService{client: c}
}

// List returns all instance pools in the workspace.
func (s *InstancePoolService) List(ctx context.Context) ([]PoolRecord, error) {
	var out struct {
		InstancePools []PoolRecord `json:"instance_pools"`
	}
	if err := s.client.do(ctx, http.MethodGet, prefixV20+"/instance-pools/list", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.InstancePools, nil
}

// Create registers an instance pool from an exported record.
func (s *InstancePoolService) Create(ctx context.Context, conf PoolRecord) error {
	return s.client.do(ctx, http.MethodPost, prefixV20+"/instance-pools/create", nil, conf, nil)
}
