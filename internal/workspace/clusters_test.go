// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package workspace

import (
	"context"
	"path/filepath"
	"testing"

	"lakeshift/cli/internal/api"
)

func TestIsAutomatedCluster(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "job-482-run-17", want: true},
		{name: "mlflow-model-prod", want: true},
		{name: "job-482-run-17x", want: false}, // pattern anchors at end
		{name: "xjob-482-run-17", want: false},
		{name: "job-482-run-", want: false},
		{name: "interactive-etl", want: false},
		{name: "mlflow-modeling", want: false}, // prefix must include trailing dash
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAutomatedCluster(tt.name); got != tt.want {
				t.Errorf("IsAutomatedCluster(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestFilterClusterRecord(t *testing.T) {
	registered := map[string]struct{}{"arn:aws:iam::111:role/etl": {}}

	in := api.ClusterRecord{
		"cluster_name":  "etl",
		"spark_version": "7.3.x-scala2.12",
		"state":         "RUNNING", // runtime field, must be dropped
		"driver":        map[string]any{"node_id": "n1"},
		"aws_attributes": map[string]any{
			"availability":         "SPOT",
			"instance_profile_arn": "arn:aws:iam::111:role/etl",
		},
	}
	out := filterClusterRecord(in, registered)
	if _, ok := out["state"]; ok {
		t.Error("runtime field survived the whitelist")
	}
	if _, ok := out["driver"]; ok {
		t.Error("driver field survived the whitelist")
	}
	attrs := out["aws_attributes"].(map[string]any)
	if attrs["instance_profile_arn"] != "arn:aws:iam::111:role/etl" {
		t.Error("registered IAM role must be kept")
	}

	// an unregistered role is removed, and the source record is untouched
	out2 := filterClusterRecord(in, map[string]struct{}{})
	attrs2 := out2["aws_attributes"].(map[string]any)
	if _, ok := attrs2["instance_profile_arn"]; ok {
		t.Error("unregistered IAM role must be removed")
	}
	srcAttrs := in["aws_attributes"].(map[string]any)
	if _, ok := srcAttrs["instance_profile_arn"]; !ok {
		t.Error("source record was mutated")
	}
}

func TestPrepareClusterConfig(t *testing.T) {
	in := api.ClusterRecord{
		"cluster_name":        "etl",
		"cluster_id":          "c-123",
		"creator_user_name":   "ana@example.com",
		"pinned_by_user_name": "ana@example.com",
		"custom_tags":         map[string]any{"team": "data"},
	}
	out := prepareClusterConfig(in, "ana@example.com")

	for _, field := range []string{"cluster_id", "creator_user_name", "pinned_by_user_name"} {
		if _, ok := out[field]; ok {
			t.Errorf("%s must not be sent to create", field)
		}
	}
	tags := out["custom_tags"].(map[string]any)
	if tags["OriginalCreator"] != "ana@example.com" || tags["team"] != "data" {
		t.Errorf("tags = %v", tags)
	}
	// record without tags grows one
	out2 := prepareClusterConfig(api.ClusterRecord{"cluster_name": "x"}, "bo@example.com")
	if out2["custom_tags"].(map[string]any)["OriginalCreator"] != "bo@example.com" {
		t.Error("OriginalCreator tag missing")
	}
}

func TestRemapPoolCluster(t *testing.T) {
	mapping := map[string]string{"pool-old": "pool-new"}

	in := api.ClusterRecord{
		"cluster_name":        "pooled",
		"instance_pool_id":    "pool-old",
		"node_type_id":        "i3.xlarge",
		"driver_node_type_id": "i3.xlarge",
		"enable_elastic_disk": true,
		"aws_attributes": map[string]any{
			"availability":         "SPOT",
			"instance_profile_arn": "arn:aws:iam::111:role/etl",
		},
	}
	out, ok := remapPoolCluster(in, mapping)
	if !ok {
		t.Fatal("expected pool to remap")
	}
	if out["instance_pool_id"] != "pool-new" {
		t.Errorf("pool id = %v", out["instance_pool_id"])
	}
	for _, field := range []string{"node_type_id", "driver_node_type_id", "enable_elastic_disk"} {
		if _, present := out[field]; present {
			t.Errorf("%s must be dropped for pool clusters", field)
		}
	}
	attrs := out["aws_attributes"].(map[string]any)
	if len(attrs) != 1 || attrs["instance_profile_arn"] != "arn:aws:iam::111:role/etl" {
		t.Errorf("aws_attributes = %v, want only the IAM role", attrs)
	}

	// no IAM role: aws_attributes disappears entirely
	in2 := api.ClusterRecord{
		"instance_pool_id": "pool-old",
		"aws_attributes":   map[string]any{"availability": "SPOT"},
	}
	out2, _ := remapPoolCluster(in2, mapping)
	if _, present := out2["aws_attributes"]; present {
		t.Error("aws_attributes without a role must be dropped")
	}

	// unknown pool reports false
	if _, ok := remapPoolCluster(api.ClusterRecord{"instance_pool_id": "gone"}, mapping); ok {
		t.Error("unknown pool must not remap")
	}
}

// fakeWorkspace implements the ClusterAPI/PoolAPI/ProfileAPI surfaces for
// migrator tests.
type fakeWorkspace struct {
	clusters []api.ClusterRecord
	pools    []api.PoolRecord
	profiles []api.ProfileRecord

	created    []api.ClusterRecord
	terminated []string
	pinned     []string
	addedARNs  []string
	poolsMade  []api.PoolRecord
}

func (f *fakeWorkspace) List(ctx context.Context) ([]api.ClusterRecord, error) {
	return f.clusters, nil
}

func (f *fakeWorkspace) Create(ctx context.Context, conf api.ClusterRecord) (string, error) {
	f.created = append(f.created, conf)
	return "new-cluster", nil
}

func (f *fakeWorkspace) Delete(ctx context.Context, clusterID string) error {
	f.terminated = append(f.terminated, clusterID)
	return nil
}

func (f *fakeWorkspace) Pin(ctx context.Context, clusterID string) error {
	f.pinned = append(f.pinned, clusterID)
	return nil
}

type fakePools struct{ fakeWorkspace *fakeWorkspace }

func (f fakePools) List(ctx context.Context) ([]api.PoolRecord, error) {
	return f.fakeWorkspace.pools, nil
}

func (f fakePools) Create(ctx context.Context, conf api.PoolRecord) error {
	f.fakeWorkspace.poolsMade = append(f.fakeWorkspace.poolsMade, conf)
	return nil
}

type fakeProfiles struct{ fakeWorkspace *fakeWorkspace }

func (f fakeProfiles) List(ctx context.Context) ([]api.ProfileRecord, error) {
	return f.fakeWorkspace.profiles, nil
}

func (f fakeProfiles) Add(ctx context.Context, arn string) error {
	f.fakeWorkspace.addedARNs = append(f.fakeWorkspace.addedARNs, arn)
	return nil
}

func newTestMigrator(t *testing.T, ws *fakeWorkspace) (*Migrator, string) {
	t.Helper()
	dir := t.TempDir()
	return NewMigrator(ws, fakePools{ws}, fakeProfiles{ws}, &fakeJobs{}, dir, true), dir
}

func TestExportClustersSplitsAutomated(t *testing.T) {
	ws := &fakeWorkspace{
		clusters: []api.ClusterRecord{
			{"cluster_name": "job-482-run-17", "spark_version": "7.3.x"},
			{"cluster_name": "mlflow-model-prod", "spark_version": "7.3.x"},
			{"cluster_name": "job-482-run-17x", "spark_version": "7.3.x"},
			{"cluster_name": "interactive", "spark_version": "7.3.x", "state": "RUNNING"},
		},
	}
	m, dir := newTestMigrator(t, ws)
	if err := m.ExportClusters(context.Background()); err != nil {
		t.Fatalf("ExportClusters: %v", err)
	}

	kept, ok, err := readJSONLines[api.ClusterRecord](filepath.Join(dir, ClustersLog))
	if err != nil || !ok {
		t.Fatalf("read clusters.log: %v", err)
	}
	skipped, ok, err := readJSONLines[api.ClusterRecord](filepath.Join(dir, SkippedClustersLog))
	if err != nil || !ok {
		t.Fatalf("read skipped_clusters.log: %v", err)
	}

	keptNames := map[string]bool{}
	for _, c := range kept {
		keptNames[c.Name()] = true
	}
	if !keptNames["interactive"] || !keptNames["job-482-run-17x"] {
		t.Errorf("kept = %v", keptNames)
	}
	if keptNames["job-482-run-17"] || keptNames["mlflow-model-prod"] {
		t.Errorf("automated cluster leaked into clusters.log: %v", keptNames)
	}
	if len(skipped) != 2 {
		t.Errorf("skipped = %v", skipped)
	}
	// whitelist applied to kept records
	for _, c := range kept {
		if _, present := c["state"]; present {
			t.Errorf("state field survived in %v", c)
		}
	}
}

func TestImportClustersSkipsExistingAndPins(t *testing.T) {
	ws := &fakeWorkspace{
		clusters: []api.ClusterRecord{{"cluster_name": "already-there"}},
	}
	m, dir := newTestMigrator(t, ws)
	records := []api.ClusterRecord{
		{"cluster_name": "already-there", "creator_user_name": "x@example.com"},
		{"cluster_name": "fresh", "creator_user_name": "y@example.com", "pinned_by_user_name": "y@example.com"},
	}
	if err := writeJSONLines(filepath.Join(dir, ClustersLog), records); err != nil {
		t.Fatal(err)
	}

	if err := m.ImportClusters(context.Background()); err != nil {
		t.Fatalf("ImportClusters: %v", err)
	}
	if len(ws.created) != 1 || ws.created[0].Name() != "fresh" {
		t.Fatalf("created = %v", ws.created)
	}
	if tags := ws.created[0]["custom_tags"].(map[string]any); tags["OriginalCreator"] != "y@example.com" {
		t.Errorf("tags = %v", tags)
	}
	if len(ws.terminated) != 1 || ws.terminated[0] != "new-cluster" {
		t.Errorf("terminated = %v", ws.terminated)
	}
	if len(ws.pinned) != 1 {
		t.Errorf("pinned = %v", ws.pinned)
	}
}

func TestImportClustersRemapsPools(t *testing.T) {
	ws := &fakeWorkspace{
		pools: []api.PoolRecord{
			{"instance_pool_name": "warm", "instance_pool_id": "pool-new"},
		},
	}
	m, dir := newTestMigrator(t, ws)
	if err := writeJSONLines(filepath.Join(dir, InstancePoolsLog), []api.PoolRecord{
		{"instance_pool_name": "warm", "instance_pool_id": "pool-old"},
	}); err != nil {
		t.Fatal(err)
	}
	if err := writeJSONLines(filepath.Join(dir, ClustersLog), []api.ClusterRecord{
		{
			"cluster_name":     "pooled",
			"instance_pool_id": "pool-old",
			"node_type_id":     "i3.xlarge",
		},
	}); err != nil {
		t.Fatal(err)
	}

	if err := m.ImportClusters(context.Background()); err != nil {
		t.Fatalf("ImportClusters: %v", err)
	}
	if len(ws.created) != 1 {
		t.Fatalf("created = %v", ws.created)
	}
	if ws.created[0]["instance_pool_id"] != "pool-new" {
		t.Errorf("pool id not remapped: %v", ws.created[0])
	}
}

func TestImportInstanceProfilesSkipsExisting(t *testing.T) {
	ws := &fakeWorkspace{
		profiles: []api.ProfileRecord{{"instance_profile_arn": "arn:aws:iam::111:role/existing"}},
	}
	m, dir := newTestMigrator(t, ws)
	if err := writeJSONLines(filepath.Join(dir, InstanceProfilesLog), []api.ProfileRecord{
		{"instance_profile_arn": "arn:aws:iam::111:role/existing"},
		{"instance_profile_arn": "arn:aws:iam::111:role/new"},
	}); err != nil {
		t.Fatal(err)
	}

	if err := m.ImportInstanceProfiles(context.Background()); err != nil {
		t.Fatalf("ImportInstanceProfiles: %v", err)
	}
	if len(ws.addedARNs) != 1 || ws.addedARNs[0] != "arn:aws:iam::111:role/new" {
		t.Errorf("added = %v", ws.addedARNs)
	}
}

func TestImportWithNoExportedFiles(t *testing.T) {
	ws := &fakeWorkspace{}
	m, _ := newTestMigrator(t, ws)
	ctx := context.Background()
	if err := m.ImportClusters(ctx); err != nil {
		t.Errorf("ImportClusters without log: %v", err)
	}
	if err := m.ImportInstancePools(ctx); err != nil {
		t.Errorf("ImportInstancePools without log: %v", err)
	}
	if err := m.ImportInstanceProfiles(ctx); err != nil {
		t.Errorf("ImportInstanceProfiles without log: %v", err)
	}
	if len(ws.created)+len(ws.poolsMade)+len(ws.addedARNs) != 0 {
		t.Error("nothing should be created without exported files")
	}
}
