// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package workspace

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"lakeshift/cli/internal/api"
)

// fakeJobs records created job settings and can reject a configurable
// number of leading create calls.
type fakeJobs struct {
	jobs        []api.JobRecord
	created     []map[string]any
	failCreates int
}

func (f *fakeJobs) List(ctx context.Context) ([]api.JobRecord, error) {
	return f.jobs, nil
}

func (f *fakeJobs) Create(ctx context.Context, settings map[string]any) (int64, error) {
	if f.failCreates > 0 {
		f.failCreates--
		return 0, fmt.Errorf("INVALID_PARAMETER_VALUE: node type no longer available")
	}
	f.created = append(f.created, settings)
	return int64(len(f.created)), nil
}

func newJobsMigrator(t *testing.T, ws *fakeWorkspace, jobs *fakeJobs, aws bool) (*Migrator, string) {
	t.Helper()
	dir := t.TempDir()
	return NewMigrator(ws, fakePools{ws}, fakeProfiles{ws}, jobs, dir, aws), dir
}

func TestExportJobs(t *testing.T) {
	jobs := &fakeJobs{
		jobs: []api.JobRecord{
			{"job_id": float64(101), "settings": map[string]any{"name": "nightly"}},
			{"job_id": float64(102), "settings": map[string]any{"name": "hourly"}},
		},
	}
	m, dir := newJobsMigrator(t, &fakeWorkspace{}, jobs, true)
	if err := m.ExportJobs(context.Background()); err != nil {
		t.Fatalf("ExportJobs: %v", err)
	}

	records, ok, err := readJSONLines[api.JobRecord](filepath.Join(dir, JobsLog))
	if err != nil || !ok {
		t.Fatalf("read jobs.log: %v", err)
	}
	if len(records) != 2 || records[0].Name() != "nightly" || records[1].ID() != 102 {
		t.Errorf("records = %v", records)
	}
}

func TestImportJobsRemapsExistingCluster(t *testing.T) {
	ws := &fakeWorkspace{
		clusters: []api.ClusterRecord{
			{"cluster_id": "c-new", "cluster_name": "shared-etl"},
		},
	}
	jobs := &fakeJobs{}
	m, dir := newJobsMigrator(t, ws, jobs, true)

	if err := writeJSONLines(filepath.Join(dir, ClustersLog), []api.ClusterRecord{
		{"cluster_id": "c-old", "cluster_name": "shared-etl"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := writeJSONLines(filepath.Join(dir, JobsLog), []api.JobRecord{
		{"job_id": float64(7), "settings": map[string]any{
			"name":                "nightly",
			"existing_cluster_id": "c-old",
		}},
	}); err != nil {
		t.Fatal(err)
	}

	if err := m.ImportJobs(context.Background()); err != nil {
		t.Fatalf("ImportJobs: %v", err)
	}
	if len(jobs.created) != 1 {
		t.Fatalf("created = %v", jobs.created)
	}
	if jobs.created[0]["existing_cluster_id"] != "c-new" {
		t.Errorf("cluster id not remapped: %v", jobs.created[0])
	}
	if _, present := jobs.created[0]["new_cluster"]; present {
		t.Error("remapped job must keep its existing cluster, not gain a new one")
	}
}

func TestImportJobsFallsBackWhenClusterGone(t *testing.T) {
	ws := &fakeWorkspace{} // target workspace has no clusters
	jobs := &fakeJobs{}
	m, dir := newJobsMigrator(t, ws, jobs, true)

	if err := writeJSONLines(filepath.Join(dir, JobsLog), []api.JobRecord{
		{"job_id": float64(8), "settings": map[string]any{
			"name":                "orphaned",
			"existing_cluster_id": "c-gone",
		}},
	}); err != nil {
		t.Fatal(err)
	}

	if err := m.ImportJobs(context.Background()); err != nil {
		t.Fatalf("ImportJobs: %v", err)
	}
	if len(jobs.created) != 1 {
		t.Fatalf("created = %v", jobs.created)
	}
	created := jobs.created[0]
	if _, present := created["existing_cluster_id"]; present {
		t.Error("removed cluster reference must be dropped")
	}
	nc, ok := created["new_cluster"].(map[string]any)
	if !ok {
		t.Fatalf("fallback cluster missing: %v", created)
	}
	if nc["node_type_id"] != "i3.xlarge" {
		t.Errorf("aws fallback expected, got %v", nc)
	}

	// azure deployments get the azure fallback
	jobsAz := &fakeJobs{}
	mAz, dirAz := newJobsMigrator(t, &fakeWorkspace{}, jobsAz, false)
	if err := writeJSONLines(filepath.Join(dirAz, JobsLog), []api.JobRecord{
		{"job_id": float64(9), "settings": map[string]any{
			"name":                "orphaned",
			"existing_cluster_id": "c-gone",
		}},
	}); err != nil {
		t.Fatal(err)
	}
	if err := mAz.ImportJobs(context.Background()); err != nil {
		t.Fatalf("ImportJobs: %v", err)
	}
	if nc := jobsAz.created[0]["new_cluster"].(map[string]any); nc["node_type_id"] != "Standard_DS3_v2" {
		t.Errorf("azure fallback expected, got %v", nc)
	}
}

func TestImportJobsRetriesRejectedCreateWithFallback(t *testing.T) {
	jobs := &fakeJobs{failCreates: 1}
	m, dir := newJobsMigrator(t, &fakeWorkspace{}, jobs, true)

	if err := writeJSONLines(filepath.Join(dir, JobsLog), []api.JobRecord{
		{"job_id": float64(10), "settings": map[string]any{
			"name":        "stale",
			"new_cluster": map[string]any{"node_type_id": "r3.xlarge", "spark_version": "old"},
		}},
	}); err != nil {
		t.Fatal(err)
	}

	if err := m.ImportJobs(context.Background()); err != nil {
		t.Fatalf("ImportJobs: %v", err)
	}
	if len(jobs.created) != 1 {
		t.Fatalf("created = %v", jobs.created)
	}
	nc := jobs.created[0]["new_cluster"].(map[string]any)
	if nc["node_type_id"] != "i3.xlarge" {
		t.Errorf("rejected create must retry with the fallback cluster, got %v", nc)
	}
}

func TestImportJobsWithoutLog(t *testing.T) {
	jobs := &fakeJobs{}
	m, _ := newJobsMigrator(t, &fakeWorkspace{}, jobs, true)
	if err := m.ImportJobs(context.Background()); err != nil {
		t.Errorf("ImportJobs without log: %v", err)
	}
	if len(jobs.created) != 0 {
		t.Error("nothing should be created without an exported jobs.log")
	}
}
