// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package workspace

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"lakeshift/cli/internal/api"
	"lakeshift/cli/internal/config"
)

//go:embed templates/aws_cluster.json templates/azure_cluster.json templates/cluster_schema.json
var templateFS embed.FS

// Template is the immutable config of the DDL cluster used for metastore
// crawls. Derivations like WithInstanceProfile return a new value; the
// underlying record is never mutated after construction.
type Template struct {
	raw api.ClusterRecord
}

// LoadTemplate loads the cluster template for the given cloud: the
// override file when set, otherwise the embedded default. The template is
// validated against the bundled JSON Schema before use.
func LoadTemplate(cloud, overridePath string) (Template, error) {
	var data []byte
	var err error
	if overridePath != "" {
		data, err = os.ReadFile(overridePath)
	} else {
		name := "templates/azure_cluster.json"
		if cloud == config.CloudAWS {
			name = "templates/aws_cluster.json"
		}
		data, err = templateFS.ReadFile(name)
	}
	if err != nil {
		return Template{}, err
	}

	if err := validateTemplate(data); err != nil {
		return Template{}, err
	}

	var raw api.ClusterRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return Template{}, err
	}
	return Template{raw: raw}, nil
}

func validateTemplate(data []byte) error {
	schema, err := templateFS.ReadFile("templates/cluster_schema.json")
	if err != nil {
		return err
	}
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("cluster template is not valid JSON: %w", err)
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return fmt.Errorf("cluster template invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Name returns the cluster name the template creates.
func (t Template) Name() string { return t.raw.Name() }

// Config returns a deep copy of the template as a creation-ready record.
func (t Template) Config() api.ClusterRecord {
	return deepCopyRecord(t.raw)
}

// WithInstanceProfile returns a derived template whose aws_attributes
// carry the given instance profile ARN. The receiver is unchanged.
func (t Template) WithInstanceProfile(arn string) Template {
	out := deepCopyRecord(t.raw)
	attrs, _ := out["aws_attributes"].(map[string]any)
	if attrs == nil {
		attrs = map[string]any{}
	}
	attrs["instance_profile_arn"] = arn
	out["aws_attributes"] = attrs
	return Template{raw: out}
}

// deepCopyRecord copies a record through a JSON round trip so nested maps
// are not shared between derived values.
func deepCopyRecord(r api.ClusterRecord) api.ClusterRecord {
	b, err := json.Marshal(r)
	if err != nil {
		// records originate from decoded JSON, so this cannot happen
		panic(err)
	}
	var out api.ClusterRecord
	if err := json.Unmarshal(b, &out); err != nil {
		panic(err)
	}
	return out
}
