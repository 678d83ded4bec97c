// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package workspace

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pterm/pterm"

	"lakeshift/cli/internal/api"
	lserrors "lakeshift/cli/internal/errors"
)

// LauncherAPI is the cluster surface the launcher consumes.
type LauncherAPI interface {
	List(ctx context.Context) ([]api.ClusterRecord, error)
	Create(ctx context.Context, conf api.ClusterRecord) (string, error)
	Edit(ctx context.Context, conf api.ClusterRecord) error
	Get(ctx context.Context, clusterID string) (api.ClusterRecord, error)
}

// Launcher manages the lifecycle of the DDL cluster the metastore crawl
// runs on: resolve an existing cluster by template name, create one when
// absent, and reconfigure it with alternate instance profiles.
type Launcher struct {
	clusters     LauncherAPI
	template     Template
	aws          bool
	pollInterval time.Duration
	waitTimeout  time.Duration
}

// NewLauncher returns a launcher for the given template. pollInterval and
// waitTimeout bound the wait for a cluster to reach RUNNING.
func NewLauncher(clusters LauncherAPI, template Template, aws bool, pollInterval, waitTimeout time.Duration) *Launcher {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	if waitTimeout <= 0 {
		waitTimeout = 30 * time.Minute
	}
	return &Launcher{
		clusters:     clusters,
		template:     template,
		aws:          aws,
		pollInterval: pollInterval,
		waitTimeout:  waitTimeout,
	}
}

// Launch resolves or creates the DDL cluster and returns its id once the
// cluster is RUNNING. On AWS a non-empty iamRole is attached to the
// config before creation.
func (l *Launcher) Launch(ctx context.Context, iamRole string) (string, error) {
	tmpl := l.template
	if iamRole != "" && l.aws {
		pterm.Info.Printfln("Creating cluster with %s", iamRole)
		tmpl = tmpl.WithInstanceProfile(iamRole)
	}

	if id, err := l.findRunningByName(ctx, tmpl.Name()); err != nil {
		return "", err
	} else if id != "" {
		return id, nil
	}

	id, err := l.clusters.Create(ctx, tmpl.Config())
	if err != nil {
		return "", lserrors.Wrap(lserrors.ClusterLaunchFailed,
			"could not launch cluster; verify the cloud setting and cluster template", err)
	}
	if err := l.waitForRunning(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

// AttachProfile reconfigures the cluster with an instance profile and
// blocks until the cluster reports RUNNING again.
func (l *Launcher) AttachProfile(ctx context.Context, clusterID, arn string) error {
	if !l.aws {
		return lserrors.New(lserrors.ClusterLaunchFailed, "instance profiles require an AWS deployment")
	}
	pterm.Info.Printfln("Updating cluster with %s", arn)
	conf := l.template.WithInstanceProfile(arn).Config()
	conf["cluster_id"] = clusterID
	if err := l.clusters.Edit(ctx, conf); err != nil {
		return err
	}
	return l.waitForRunning(ctx, clusterID)
}

// findRunningByName returns the id of a RUNNING cluster with the given
// name, or "" when none exists.
func (l *Launcher) findRunningByName(ctx context.Context, name string) (string, error) {
	clusters, err := l.clusters.List(ctx)
	if err != nil {
		return "", err
	}
	for _, c := range clusters {
		if c.State() == api.StateRunning && c.Name() == name {
			return c.ID(), nil
		}
	}
	return "", nil
}

var errNotRunning = errors.New("cluster not yet running")

// waitForRunning polls the cluster state until RUNNING, bounded by the
// wait timeout.
func (l *Launcher) waitForRunning(ctx context.Context, clusterID string) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.waitTimeout)
	defer cancel()

	poll := func() error {
		c, err := l.clusters.Get(waitCtx, clusterID)
		if err != nil {
			return backoff.Permanent(err)
		}
		if c.State() != api.StateRunning {
			pterm.Info.Printfln("Cluster state: %s", c.State())
			return errNotRunning
		}
		return nil
	}
	policy := backoff.WithContext(backoff.NewConstantBackOff(l.pollInterval), waitCtx)
	if err := backoff.Retry(poll, policy); err != nil {
		return lserrors.Wrap(lserrors.ClusterLaunchFailed, "cluster did not reach RUNNING", err)
	}
	return nil
}
