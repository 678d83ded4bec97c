// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package workspace

import (
	"context"

	"github.com/pterm/pterm"

	"lakeshift/cli/internal/api"
)

// ExportInstancePools writes every instance pool, one JSON record per
// line, to instance_pools.log.
func (m *Migrator) ExportInstancePools(ctx context.Context) error {
	pools, err := m.pools.List(ctx)
	if err != nil {
		return err
	}
	if len(pools) == 0 {
		pterm.Info.Println("No instance pools to export.")
		return nil
	}
	if err := writeJSONLines(m.path(InstancePoolsLog), pools); err != nil {
		return err
	}
	pterm.Info.Printfln("Exported %d instance pools", len(pools))
	return nil
}

// ImportInstancePools replays exported pool configs into the workspace.
func (m *Migrator) ImportInstancePools(ctx context.Context) error {
	records, ok, err := readJSONLines[api.PoolRecord](m.path(InstancePoolsLog))
	if err != nil {
		return err
	}
	if !ok {
		pterm.Info.Println("No instance pools to import.")
		return nil
	}
	for _, pool := range records {
		if err := m.pools.Create(ctx, pool); err != nil {
			pterm.Warning.Printfln("pool create failed for %s: %v", pool.Name(), err)
		}
	}
	return nil
}

// poolIDMapping maps exported pool ids to their counterparts in the
// target workspace by matching pool names.
func (m *Migrator) poolIDMapping(ctx context.Context) (map[string]string, error) {
	current, err := m.pools.List(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]string, len(current))
	for _, p := range current {
		byName[p.Name()] = p.ID()
	}

	records, ok, err := readJSONLines[api.PoolRecord](m.path(InstancePoolsLog))
	if err != nil {
		return nil, err
	}
	if !ok {
		return map[string]string{}, nil
	}
	mapping := make(map[string]string, len(records))
	for _, old := range records {
		if newID, found := byName[old.Name()]; found {
			mapping[old.ID()] = newID
		}
	}
	return mapping, nil
}
