// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"context"
	"net/http"
)

// Cluster states reported by the workspace.
const (
	StateRunning    = "RUNNING"
	StatePending    = "PENDING"
	StateTerminated = "TERMINATED"
)

// ClusterRecord is one cluster configuration as the workspace returns it.
// Records are kept as raw objects because export/import filters fields by
// name rather than working with a fixed struct.
type ClusterRecord map[string]any

func (r ClusterRecord) str(key string) string {
	v, _ := r[key].(string)
	return v
}

// ID returns the cluster id.
func (r ClusterRecord) ID() string { return r.str("cluster_id") }

// Name returns the cluster name.
func (r ClusterRecord) Name() string { return r.str("cluster_name") }

// State returns the lifecycle state, e.g. RUNNING.
func (r ClusterRecord) State() string { return r.str("state") }

// ClusterService wraps the 2.0 cluster lifecycle endpoints.
type ClusterService struct {
	client *Client
}

// NewClusterService returns a cluster service bound to the client.
func NewClusterService(c *Client) *ClusterService { return &ClusterService{client: c} }

// List returns all cluster records in the workspace.
func (s *ClusterService) List(ctx context.Context) ([]ClusterRecord, error) {
	var out struct {
		Clusters []ClusterRecord `json:"clusters"`
	}
	if err := s.client.do(ctx, http.MethodGet, prefixV20+"/clusters/list", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Clusters, nil
}

// ListRunning returns only clusters in the RUNNING state.
func (s *ClusterService) ListRunning(ctx context.Context) ([]ClusterRecord, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var running []ClusterRecord
	for _, c := range all {
		if c.State() == StateRunning {
			running = append(running, c)
		}
	}
	return running, nil
}

// Create submits a cluster config and returns the new cluster id.
func (s *ClusterService) Create(ctx context.Context, conf ClusterRecord) (string, error) {
	var out struct {
		ClusterID string `json:"cluster_id"`
	}
	if err := s.client.do(ctx, http.MethodPost, prefixV20+"/clusters/create", nil, conf, &out); err != nil {
		return "", err
	}
	return out.ClusterID, nil
}

// Edit replaces a cluster's configuration. The config must carry the
// cluster_id of the cluster being edited.
func (s *ClusterService) Edit(ctx context.Context, conf ClusterRecord) error {
	return s.client.do(ctx, http.MethodPost, prefixV20+"/clusters/edit", nil, conf, nil)
}

// Get fetches the current record for one cluster.
func (s *ClusterService) Get(ctx context.Context, clusterID string) (ClusterRecord, error) {
	var out ClusterRecord
	err := s.client.do(ctx, http.MethodPost, prefixV20+"/clusters/get", nil,
		map[string]string{"cluster_id": clusterID}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete terminates a cluster; the config is retained by the workspace.
func (s *ClusterService) Delete(ctx context.Context, clusterID string) error {
	return s.client.do(ctx, http.MethodPost, prefixV20+"/clusters/delete", nil,
		map[string]string{"cluster_id": clusterID}, nil)
}

// PermanentDelete removes a cluster and its config entirely.
func (s *ClusterService) PermanentDelete(ctx context.Context, clusterID string) error {
	return s.client.do(ctx, http.MethodPost, prefixV20+"/clusters/permanent-delete", nil,
		map[string]string{"cluster_id": clusterID}, nil)
}

// Pin keeps a cluster config from being removed by retention.
func (s *ClusterService) Pin(ctx context.Context, clusterID string) error {
	return s.client.do(ctx, http.MethodPost, prefixV20+"/clusters/pin", nil,
		map[string]string{"cluster_id": clusterID}, nil)
}

// Unpin reverses Pin.
func (s *ClusterService) Unpin(ctx context.Context, clusterID string) error {
	return s.client.do(ctx, http.MethodPost, prefixV20+"/clusters/unpin", nil,
		map[string]string{"cluster_id": clusterID}, nil)
}

// ListSparkVersions returns the runtime versions offered by the workspace.
func (s *ClusterService) ListSparkVersions(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := s.client.do(ctx, http.MethodGet, prefixV20+"/clusters/spark-versions", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
