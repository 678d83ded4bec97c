// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package workspace

import (
	"context"
	"regexp"
	"strings"

	"github.com/pterm/pterm"

	"lakeshift/cli/internal/api"
)

// createConfigFields is the whitelist of cluster fields that survive
// export; everything else is runtime state the create endpoint rejects.
var createConfigFields = map[string]struct{}{
	"num_workers":             {},
	"autoscale":               {},
	"cluster_name":            {},
	"spark_version":           {},
	"spark_conf":              {},
	"aws_attributes":          {},
	"node_type_id":            {},
	"driver_node_type_id":     {},
	"ssh_public_keys":         {},
	"custom_tags":             {},
	"cluster_log_conf":        {},
	"init_scripts":            {},
	"spark_env_vars":          {},
	"autotermination_minutes": {},
	"enable_elastic_disk":     {},
	"instance_pool_id":        {},
	"pinned_by_user_name":     {},
	"creator_user_name":       {},
	"cluster_id":              {},
}

// Automated clusters are excluded from migration: job clusters follow the
// job-<id>-run-<id> format and model endpoints carry the mlflow prefix.
var (
	jobClusterPattern = regexp.MustCompile(`^job-\d+-run-\d+$`)
	mlModelPrefix     = "mlflow-model-"
)

// IsAutomatedCluster reports whether a cluster name identifies a job run
// or model-serving cluster rather than an interactive one.
func IsAutomatedCluster(name string) bool {
	return jobClusterPattern.MatchString(name) || strings.HasPrefix(name, mlModelPrefix)
}

// ExportClusters writes every interactive cluster config, filtered to the
// creation-field whitelist, one JSON object per line to clusters.log.
// Automated clusters go to skipped_clusters.log unfiltered.
func (m *Migrator) ExportClusters(ctx context.Context) error {
	all, err := m.clusters.List(ctx)
	if err != nil {
		return err
	}

	var kept, skipped []api.ClusterRecord
	for _, c := range all {
		if IsAutomatedCluster(c.Name()) {
			skipped = append(skipped, c)
		} else {
			kept = append(kept, c)
		}
	}
	if err := writeJSONLines(m.path(SkippedClustersLog), skipped); err != nil {
		return err
	}

	registered, err := m.registeredProfileARNs(ctx)
	if err != nil {
		return err
	}

	filtered := make([]api.ClusterRecord, 0, len(kept))
	for _, c := range kept {
		filtered = append(filtered, filterClusterRecord(c, registered))
	}
	if err := writeJSONLines(m.path(ClustersLog), filtered); err != nil {
		return err
	}
	pterm.Info.Printfln("Exported %d clusters (%d skipped as automated)", len(filtered), len(skipped))
	return nil
}

// registeredProfileARNs returns the set of instance profile ARNs known to
// the workspace, used to drop default roles clusters picked up outside
// the registry.
func (m *Migrator) registeredProfileARNs(ctx context.Context) (map[string]struct{}, error) {
	profiles, err := m.profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	arns := make(map[string]struct{}, len(profiles))
	for _, p := range profiles {
		arns[p.ARN()] = struct{}{}
	}
	return arns, nil
}

// filterClusterRecord copies a cluster record keeping only whitelisted
// fields. An aws_attributes.instance_profile_arn not present in the
// registry is removed so the import does not reference a role the target
// workspace cannot resolve.
func filterClusterRecord(c api.ClusterRecord, registered map[string]struct{}) api.ClusterRecord {
	out := api.ClusterRecord{}
	for k, v := range c {
		if _, ok := createConfigFields[k]; ok {
			out[k] = v
		}
	}
	if attrs, ok := out["aws_attributes"].(map[string]any); ok {
		copied := make(map[string]any, len(attrs))
		for k, v := range attrs {
			copied[k] = v
		}
		if arn, ok := copied["instance_profile_arn"].(string); ok {
			if _, known := registered[arn]; !known {
				pterm.Info.Printfln("Skipping log of default IAM role: %s", arn)
				delete(copied, "instance_profile_arn")
			}
		}
		out["aws_attributes"] = copied
	}
	return out
}

// ImportClusters replays exported cluster configs into the workspace.
// Existing names are skipped; pool-backed clusters get their pool id
// remapped and node-type fields dropped; every cluster is tagged with its
// original creator, created, then immediately terminated so only the
// config lands.
func (m *Migrator) ImportClusters(ctx context.Context) error {
	records, ok, err := readJSONLines[api.ClusterRecord](m.path(ClustersLog))
	if err != nil {
		return err
	}
	if !ok {
		pterm.Info.Println("No clusters to import.")
		return nil
	}

	existing, err := m.clusters.List(ctx)
	if err != nil {
		return err
	}
	names := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		names[c.Name()] = struct{}{}
	}

	var poolMapping map[string]string // built lazily, only pool clusters need it

	for _, conf := range records {
		name := conf.Name()
		if _, found := names[name]; found {
			pterm.Info.Printfln("Cluster already exists, skipping: %s", name)
			continue
		}

		creator, _ := conf["creator_user_name"].(string)
		_, wasPinned := conf["pinned_by_user_name"]

		prepared := prepareClusterConfig(conf, creator)
		if _, hasPool := prepared["instance_pool_id"]; hasPool {
			if poolMapping == nil {
				poolMapping, err = m.poolIDMapping(ctx)
				if err != nil {
					return err
				}
			}
			var ok bool
			prepared, ok = remapPoolCluster(prepared, poolMapping)
			if !ok {
				pterm.Warning.Printfln("No matching instance pool in target workspace, skipping: %s", name)
				continue
			}
		}

		pterm.Info.Printfln("Creating cluster: %s", name)
		clusterID, err := m.clusters.Create(ctx, prepared)
		if err != nil {
			pterm.Warning.Printfln("create failed for %s: %v", name, err)
			continue
		}
		// only the config should land; stop the cluster right away
		if err := m.clusters.Delete(ctx, clusterID); err != nil {
			pterm.Warning.Printfln("terminate failed for %s: %v", name, err)
		}
		if wasPinned {
			if err := m.clusters.Pin(ctx, clusterID); err != nil {
				pterm.Warning.Printfln("pin failed for %s: %v", name, err)
			}
		}
	}
	return nil
}

// prepareClusterConfig returns a creation-ready copy of an exported
// record: identity fields are stripped and the original creator becomes a
// custom tag for cost tracking.
func prepareClusterConfig(conf api.ClusterRecord, creator string) api.ClusterRecord {
	out := api.ClusterRecord{}
	for k, v := range conf {
		out[k] = v
	}
	delete(out, "cluster_id")
	delete(out, "creator_user_name")
	delete(out, "pinned_by_user_name")

	tags := map[string]any{}
	if existing, ok := out["custom_tags"].(map[string]any); ok {
		for k, v := range existing {
			tags[k] = v
		}
	}
	tags["OriginalCreator"] = creator
	out["custom_tags"] = tags
	return out
}

// remapPoolCluster adapts a pool-backed cluster config: node types are
// owned by the pool, and all aws attributes except the IAM role are
// inherited from it. Reports false when the pool has no counterpart in
// the target workspace.
func remapPoolCluster(conf api.ClusterRecord, poolMapping map[string]string) (api.ClusterRecord, bool) {
	out := api.ClusterRecord{}
	for k, v := range conf {
		out[k] = v
	}
	delete(out, "node_type_id")
	delete(out, "driver_node_type_id")
	delete(out, "enable_elastic_disk")

	if attrs, ok := out["aws_attributes"].(map[string]any); ok {
		if arn, ok := attrs["instance_profile_arn"].(string); ok && arn != "" {
			out["aws_attributes"] = map[string]any{"instance_profile_arn": arn}
		} else {
			delete(out, "aws_attributes")
		}
	}

	oldID, _ := out["instance_pool_id"].(string)
	newID, found := poolMapping[oldID]
	if !found {
		return nil, false
	}
	out["instance_pool_id"] = newID
	return out, true
}
