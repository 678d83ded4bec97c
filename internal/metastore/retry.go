// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package metastore

import (
	"context"

	"github.com/pterm/pterm"
)

// retryFailed replays still-failing extractions against each registered
// instance profile in listing order: attach the profile to the cluster,
// wait for it to come back, open a fresh execution context and re-attempt
// every table still in the failing set. A table leaves the set on its
// first success and is never retried under a later role. This is one
// best-effort pass per role, not a fixed-point loop. Absence of any
// registered profile means the pass is skipped entirely.
func (e *Exporter) retryFailed(ctx context.Context, clusterID string, flog *FailLog) error {
	remaining, err := flog.Load()
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		return nil
	}

	profiles, err := e.profiles.List(ctx)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		pterm.Info.Println("No registered instance profiles to retry export")
		return nil
	}
	pterm.Info.Printfln("Instance profiles exist, retrying %d failed tables with each profile", len(remaining))

	for _, profile := range profiles {
		if len(remaining) == 0 {
			break
		}
		arn := profile.ARN()
		pterm.Info.Printfln("Reconfiguring cluster with %s", arn)
		if err := e.clusters.AttachProfile(ctx, clusterID, arn); err != nil {
			return err
		}
		contextID, err := e.sessions.Open(ctx, clusterID)
		if err != nil {
			return err
		}

		var still []Failure
		for _, f := range remaining {
			db, table, err := f.SplitTable()
			if err != nil {
				pterm.Warning.Println(err.Error())
				still = append(still, f)
				continue
			}
			ok, _, err := e.extractTable(ctx, clusterID, contextID, db, table)
			if err != nil {
				return err
			}
			if !ok {
				pterm.Info.Printfln("failed to get ddl for %s.%s with iam role %s", db, table, arn)
				still = append(still, f)
			}
		}
		remaining = still
	}

	if err := flog.Rewrite(remaining); err != nil {
		return err
	}
	pterm.Info.Printfln("Failed count after retry: %d", len(remaining))
	return nil
}
