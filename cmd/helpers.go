// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

// This file contains helper functions that wire configuration, credentials
// and the API client into the service objects the subcommands drive.
package cmd

import (
	"os"
	"strings"

	"lakeshift/cli/internal/api"
	"lakeshift/cli/internal/config"
	lserrors "lakeshift/cli/internal/errors"
	"lakeshift/cli/internal/keychain"
	"lakeshift/cli/internal/metastore"
	"lakeshift/cli/internal/remote"
	"lakeshift/cli/internal/workspace"
)

// runtime bundles the loaded configuration with an authenticated API
// client. Every subcommand that talks to a workspace starts from one.
type runtime struct {
	cfg    config.Config
	client *api.Client
}

// newRuntime loads the configuration and resolves the API token from the
// LAKESHIFT_TOKEN environment variable or the OS keychain (env wins, for
// CI use). It fails with a login hint when no workspace is configured.
func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, lserrors.New(lserrors.NotLoggedIn, "no workspace configured; run 'lakeshift login' first")
	}
	token, err := resolveToken()
	if err != nil {
		return nil, err
	}
	return &runtime{cfg: cfg, client: api.New(cfg.Host, token)}, nil
}

// resolveToken returns the API token from the environment or the keychain.
func resolveToken() (string, error) {
	if t := strings.TrimSpace(os.Getenv("LAKESHIFT_TOKEN")); t != "" {
		return t, nil
	}
	km, err := keychain.GetManager()
	if err != nil {
		return "", lserrors.Wrap(lserrors.NotLoggedIn, "keychain unavailable", err)
	}
	token, err := km.LoadAPIToken()
	if err != nil || strings.TrimSpace(token) == "" {
		return "", lserrors.New(lserrors.NotLoggedIn, "no API token stored; run 'lakeshift login' first")
	}
	return token, nil
}

// exportDir returns the effective export directory: the --export-dir flag
// when set, otherwise the configured default.
func (rt *runtime) exportDir(flag string) string {
	if strings.TrimSpace(flag) != "" {
		return flag
	}
	return rt.cfg.ExportDir
}

// migrator builds the workspace config migrator over the given export
// directory.
func (rt *runtime) migrator(dir string) *workspace.Migrator {
	return workspace.NewMigrator(
		api.NewClusterService(rt.client),
		api.NewInstancePoolService(rt.client),
		api.NewInstanceProfileService(rt.client),
		api.NewJobsService(rt.client),
		dir,
		rt.cfg.IsAWS(),
	)
}

// crawlDeps builds the cluster launcher, session manager and command
// executor the metastore crawl runs on. The launcher is loaded with the
// embedded cluster template unless the config points at an override file.
func (rt *runtime) crawlDeps() (*workspace.Launcher, *remote.SessionManager, *remote.Executor, error) {
	tmpl, err := workspace.LoadTemplate(rt.cfg.Cloud, rt.cfg.ClusterTemplate)
	if err != nil {
		return nil, nil, nil, err
	}
	clusters := api.NewClusterService(rt.client)
	commands := api.NewCommandService(rt.client)
	launcher := workspace.NewLauncher(clusters, tmpl, rt.cfg.IsAWS(),
		rt.cfg.PollInterval.Std(), rt.cfg.CommandTimeout.Std())
	sessions := remote.NewSessionManager(commands,
		rt.cfg.SessionSettleDelay.Std(), rt.cfg.SessionAttempts)
	executor := remote.NewExecutor(commands,
		rt.cfg.PollInterval.Std(), rt.cfg.CommandTimeout.Std())
	return launcher, sessions, executor, nil
}

// exporter builds the metastore exporter writing under dir.
func (rt *runtime) exporter(dir string, skipRetry bool) (*metastore.Exporter, error) {
	launcher, sessions, executor, err := rt.crawlDeps()
	if err != nil {
		return nil, err
	}
	return metastore.NewExporter(metastore.ExporterConfig{
		Clusters:  launcher,
		Sessions:  sessions,
		Runner:    executor,
		Profiles:  api.NewInstanceProfileService(rt.client),
		ExportDir: dir,
		BatchSize: rt.cfg.BatchSize,
		AWS:       rt.cfg.IsAWS(),
		SkipRetry: skipRetry,
	}), nil
}

// importer builds the metastore importer reading from dir.
func (rt *runtime) importer(dir string) (*metastore.Importer, error) {
	launcher, sessions, executor, err := rt.crawlDeps()
	if err != nil {
		return nil, err
	}
	return metastore.NewImporter(launcher, sessions, executor, dir), nil
}
