// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package workspace

import (
	"context"

	"github.com/pterm/pterm"

	"lakeshift/cli/internal/api"
)

// JobsLog is the exported jobs artifact under the export directory.
const JobsLog = "jobs.log"

// JobAPI is the jobs surface the migrator consumes.
type JobAPI interface {
	List(ctx context.Context) ([]api.JobRecord, error)
	Create(ctx context.Context, settings map[string]any) (int64, error)
}

// Fallback cluster configs for jobs whose existing cluster no longer has
// a counterpart in the target workspace, or whose stored cluster config
// the create endpoint rejects.
var (
	fallbackJobClusterAWS = map[string]any{
		"num_workers":   8,
		"spark_version": "6.1.x-scala2.11",
		"node_type_id":  "i3.xlarge",
		"spark_env_vars": map[string]any{
			"PYSPARK_PYTHON": "/lakeshift/python3/bin/python3",
		},
		"enable_elastic_disk": false,
	}
	fallbackJobClusterAzure = map[string]any{
		"num_workers":   8,
		"spark_version": "6.2.x-scala2.11",
		"node_type_id":  "Standard_DS3_v2",
		"spark_env_vars": map[string]any{
			"PYSPARK_PYTHON": "/lakeshift/python3/bin/python3",
		},
	}
)

func (m *Migrator) fallbackJobCluster() map[string]any {
	if m.aws {
		return fallbackJobClusterAWS
	}
	return fallbackJobClusterAzure
}

// ExportJobs writes every job record, one JSON object per line, to
// jobs.log.
func (m *Migrator) ExportJobs(ctx context.Context) error {
	jobs, err := m.jobs.List(ctx)
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		pterm.Info.Println("No jobs to export.")
		return nil
	}
	if err := writeJSONLines(m.path(JobsLog), jobs); err != nil {
		return err
	}
	pterm.Info.Printfln("Exported %d jobs", len(jobs))
	return nil
}

// ImportJobs replays exported job settings into the workspace. Jobs
// pinned to an existing cluster get the cluster id remapped old to new by
// cluster-name matching; a job whose cluster has no counterpart falls
// back to a fresh cloud-default job cluster. A create the endpoint
// rejects (stale node types, removed runtime versions) is retried once
// with the same fallback cluster.
func (m *Migrator) ImportJobs(ctx context.Context) error {
	records, ok, err := readJSONLines[api.JobRecord](m.path(JobsLog))
	if err != nil {
		return err
	}
	if !ok {
		pterm.Info.Println("No job configurations to import.")
		return nil
	}

	mapping, err := m.clusterIDMapping(ctx)
	if err != nil {
		return err
	}

	for _, job := range records {
		settings := job.Settings()
		if settings == nil {
			pterm.Warning.Printfln("job %d has no settings, skipping", job.ID())
			continue
		}
		prepared := prepareJobSettings(settings, mapping, m.fallbackJobCluster())

		pterm.Info.Printfln("Importing job: %s", job.Name())
		if _, err := m.jobs.Create(ctx, prepared); err != nil {
			pterm.Info.Println("Resetting job to default cluster configs due to expired configurations.")
			delete(prepared, "existing_cluster_id")
			prepared["new_cluster"] = m.fallbackJobCluster()
			if _, err := m.jobs.Create(ctx, prepared); err != nil {
				pterm.Warning.Printfln("job create failed for %s: %v", job.Name(), err)
			}
		}
	}
	return nil
}

// prepareJobSettings returns a copy of job settings ready for create. An
// existing_cluster_id is remapped through the cluster mapping; when the
// cluster is gone the job is reset to a fresh fallback cluster instead.
func prepareJobSettings(settings map[string]any, mapping map[string]string, fallback map[string]any) map[string]any {
	out := make(map[string]any, len(settings))
	for k, v := range settings {
		out[k] = v
	}
	oldID, ok := out["existing_cluster_id"].(string)
	if !ok {
		return out
	}
	newID, found := mapping[oldID]
	if !found {
		pterm.Info.Println("Existing cluster has been removed. Resetting job to use new cluster.")
		delete(out, "existing_cluster_id")
		out["new_cluster"] = fallback
		return out
	}
	out["existing_cluster_id"] = newID
	return out
}

// clusterIDMapping maps exported cluster ids to their counterparts in the
// target workspace by matching cluster names against clusters.log. An
// absent clusters.log yields an empty mapping, so every cluster-pinned
// job falls back to a fresh cluster.
func (m *Migrator) clusterIDMapping(ctx context.Context) (map[string]string, error) {
	records, ok, err := readJSONLines[api.ClusterRecord](m.path(ClustersLog))
	if err != nil {
		return nil, err
	}
	if !ok {
		return map[string]string{}, nil
	}
	oldByName := make(map[string]string, len(records))
	for _, c := range records {
		oldByName[c.Name()] = c.ID()
	}

	current, err := m.clusters.List(ctx)
	if err != nil {
		return nil, err
	}
	mapping := make(map[string]string, len(current))
	for _, c := range current {
		if oldID, found := oldByName[c.Name()]; found {
			mapping[oldID] = c.ID()
		}
	}
	return mapping, nil
}
