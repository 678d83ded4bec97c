// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package workspace

import (
	"context"

	"github.com/pterm/pterm"

	"lakeshift/cli/internal/api"
)

// ExportInstanceProfiles writes every registered instance profile, one
// JSON record per line, to instance_profiles.log. This is an AWS-only
// concept; on other clouds the listing is simply empty.
func (m *Migrator) ExportInstanceProfiles(ctx context.Context) error {
	profiles, err := m.profiles.List(ctx)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		pterm.Info.Println("No instance profiles to export.")
		return nil
	}
	if err := writeJSONLines(m.path(InstanceProfilesLog), profiles); err != nil {
		return err
	}
	pterm.Info.Printfln("Exported %d instance profiles", len(profiles))
	return nil
}

// ImportInstanceProfiles registers exported profile ARNs, skipping ones
// the target workspace already knows.
func (m *Migrator) ImportInstanceProfiles(ctx context.Context) error {
	records, ok, err := readJSONLines[api.ProfileRecord](m.path(InstanceProfilesLog))
	if err != nil {
		return err
	}
	if !ok {
		pterm.Info.Println("No instance profiles to import.")
		return nil
	}

	current, err := m.profiles.List(ctx)
	if err != nil {
		return err
	}
	existing := make(map[string]struct{}, len(current))
	for _, p := range current {
		existing[p.ARN()] = struct{}{}
	}

	for _, p := range records {
		arn := p.ARN()
		if arn == "" {
			continue
		}
		if _, found := existing[arn]; found {
			pterm.Info.Printfln("Skipping since profile exists: %s", arn)
			continue
		}
		pterm.Info.Printfln("Importing arn: %s", arn)
		if err := m.profiles.Add(ctx, arn); err != nil {
			pterm.Warning.Printfln("profile add failed for %s: %v", arn, err)
		}
	}
	return nil
}
