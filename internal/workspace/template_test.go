// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"lakeshift/cli/internal/config"
)

func TestLoadTemplateEmbedded(t *testing.T) {
	for _, cloud := range []string{config.CloudAWS, config.CloudAzure} {
		tmpl, err := LoadTemplate(cloud, "")
		if err != nil {
			t.Fatalf("LoadTemplate(%s): %v", cloud, err)
		}
		if tmpl.Name() == "" {
			t.Errorf("%s template has no cluster name", cloud)
		}
	}
}

func TestLoadTemplateOverrideValidation(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.json")
	os.WriteFile(good, []byte(`{"cluster_name":"custom","spark_version":"7.3.x-scala2.12","node_type_id":"i3.xlarge","num_workers":2}`), 0o644)
	tmpl, err := LoadTemplate(config.CloudAWS, good)
	if err != nil {
		t.Fatalf("valid override rejected: %v", err)
	}
	if tmpl.Name() != "custom" {
		t.Errorf("name = %q", tmpl.Name())
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"spark_version":"7.3.x-scala2.12"}`), 0o644)
	if _, err := LoadTemplate(config.CloudAWS, bad); err == nil {
		t.Error("template missing required fields must be rejected")
	}
}

func TestWithInstanceProfileIsImmutable(t *testing.T) {
	tmpl, err := LoadTemplate(config.CloudAWS, "")
	if err != nil {
		t.Fatal(err)
	}

	derived := tmpl.WithInstanceProfile("arn:aws:iam::111:role/etl")

	base := tmpl.Config()
	if attrs, ok := base["aws_attributes"].(map[string]any); ok {
		if _, present := attrs["instance_profile_arn"]; present {
			t.Error("base template gained a role from a derived value")
		}
	}
	attrs := derived.Config()["aws_attributes"].(map[string]any)
	if attrs["instance_profile_arn"] != "arn:aws:iam::111:role/etl" {
		t.Errorf("derived attrs = %v", attrs)
	}

	// independent derivations do not interfere
	other := tmpl.WithInstanceProfile("arn:aws:iam::222:role/other")
	if other.Config()["aws_attributes"].(map[string]any)["instance_profile_arn"] == attrs["instance_profile_arn"] {
		t.Error("derivations share state")
	}
}

func TestTemplateConfigIsDeepCopy(t *testing.T) {
	tmpl, err := LoadTemplate(config.CloudAWS, "")
	if err != nil {
		t.Fatal(err)
	}
	conf := tmpl.Config()
	if attrs, ok := conf["aws_attributes"].(map[string]any); ok {
		attrs["availability"] = "MUTATED"
	}
	conf["cluster_name"] = "mutated"

	fresh := tmpl.Config()
	if fresh["cluster_name"] == "mutated" {
		t.Error("Config() shares the top-level map")
	}
	if attrs, ok := fresh["aws_attributes"].(map[string]any); ok {
		if attrs["availability"] == "MUTATED" {
			t.Error("Config() shares nested maps")
		}
	}
}
