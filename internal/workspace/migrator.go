// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package workspace migrates cluster, instance-pool, instance-profile
// and job configuration between workspace deployments. Exported records
// are line-delimited JSON under the export directory; imports replay
// them with the field fixups the target workspace needs (pool and
// cluster id remapping, creator tagging, unregistered IAM role removal).
package workspace

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lakeshift/cli/internal/api"
)

// Exported artifact names under the export directory.
const (
	ClustersLog         = "clusters.log"
	SkippedClustersLog  = "skipped_clusters.log"
	InstanceProfilesLog = "instance_profiles.log"
	InstancePoolsLog    = "instance_pools.log"
)

// ClusterAPI is the cluster-lifecycle surface the migrator consumes.
type ClusterAPI interface {
	List(ctx context.Context) ([]api.ClusterRecord, error)
	Create(ctx context.Context, conf api.ClusterRecord) (string, error)
	Delete(ctx context.Context, clusterID string) error
	Pin(ctx context.Context, clusterID string) error
}

// PoolAPI is the instance-pool registry surface.
type PoolAPI interface {
	List(ctx context.Context) ([]api.PoolRecord, error)
	Create(ctx context.Context, conf api.PoolRecord) error
}

// ProfileAPI is the instance-profile registry surface.
type ProfileAPI interface {
	List(ctx context.Context) ([]api.ProfileRecord, error)
	Add(ctx context.Context, arn string) error
}

// Migrator exports and imports workspace configuration records. aws
// selects the fallback job cluster config used when an imported job's
// cluster cannot be resolved.
type Migrator struct {
	clusters  ClusterAPI
	pools     PoolAPI
	profiles  ProfileAPI
	jobs      JobAPI
	exportDir string
	aws       bool
}

// NewMigrator returns a migrator writing under exportDir.
func NewMigrator(clusters ClusterAPI, pools PoolAPI, profiles ProfileAPI, jobs JobAPI, exportDir string, aws bool) *Migrator {
	return &Migrator{
		clusters:  clusters,
		pools:     pools,
		profiles:  profiles,
		jobs:      jobs,
		exportDir: exportDir,
		aws:       aws,
	}
}

func (m *Migrator) path(name string) string {
	return filepath.Join(m.exportDir, name)
}

// writeJSONLines writes one compact JSON object per line.
func writeJSONLines[T any](path string, records []T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fp.Close()
	w := bufio.NewWriter(fp)
	enc := json.NewEncoder(w)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return w.Flush()
}

// readJSONLines reads a line-JSON file into records. A missing file
// returns ok=false so callers can report "nothing to import".
func readJSONLines[T any](path string) (records []T, ok bool, err error) {
	fp, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer fp.Close()

	sc := bufio.NewScanner(fp)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var r T
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			return nil, true, fmt.Errorf("malformed record in %s: %w", path, err)
		}
		records = append(records, r)
	}
	if err := sc.Err(); err != nil {
		return nil, true, err
	}
	return records, true, nil
}
