// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package metastore exports and imports Hive metastore DDL through a
// running cluster. The exporter enumerates databases and tables in
// batches over the remote command channel, extracts per-table DDL into
// local files and records per-table failures; the importer replays the
// stored DDL into another workspace. Crawling is strictly sequential:
// one command at a time against one execution context.
package metastore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pterm/pterm"

	"lakeshift/cli/internal/api"
	lserrors "lakeshift/cli/internal/errors"
	"lakeshift/cli/internal/remote"
)

// Local artifact names under the export directory.
const (
	DirName     = "metastore"
	FailLogName = "failed_metastore.log"
)

// Runner executes one statement in an execution context.
type Runner interface {
	Run(ctx context.Context, clusterID, contextID, stmt string) (remote.Result, error)
}

// Sessions opens execution contexts on running clusters.
type Sessions interface {
	Open(ctx context.Context, clusterID string) (string, error)
}

// ClusterOps is the cluster-lifecycle capability the crawl needs: resolve
// or launch the DDL cluster, and reconfigure it with an instance profile.
type ClusterOps interface {
	Launch(ctx context.Context, iamRole string) (string, error)
	AttachProfile(ctx context.Context, clusterID, arn string) error
}

// ProfileLister lists the registered instance profiles used as alternate
// credentials by the retry pass.
type ProfileLister interface {
	List(ctx context.Context) ([]api.ProfileRecord, error)
}

// ExporterConfig wires an Exporter.
type ExporterConfig struct {
	Clusters  ClusterOps
	Sessions  Sessions
	Runner    Runner
	Profiles  ProfileLister
	ExportDir string
	BatchSize int
	AWS       bool
	SkipRetry bool
}

// Exporter crawls the remote metastore into local DDL files.
type Exporter struct {
	clusters  ClusterOps
	sessions  Sessions
	runner    Runner
	profiles  ProfileLister
	exportDir string
	batchSize int
	aws       bool
	skipRetry bool
}

// NewExporter returns an exporter over the given capabilities.
func NewExporter(cfg ExporterConfig) *Exporter {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	return &Exporter{
		clusters:  cfg.Clusters,
		sessions:  cfg.Sessions,
		runner:    cfg.Runner,
		profiles:  cfg.Profiles,
		exportDir: cfg.ExportDir,
		batchSize: cfg.BatchSize,
		aws:       cfg.AWS,
		skipRetry: cfg.SkipRetry,
	}
}

// ExportAll crawls every database in the metastore. Per-table failures
// are recorded and, on AWS deployments that have not opted out, replayed
// against each registered instance profile afterwards.
func (e *Exporter) ExportAll(ctx context.Context) error {
	start := time.Now()
	clusterID, err := e.clusters.Launch(ctx, "")
	if err != nil {
		return err
	}
	pterm.Info.Printfln("Cluster ready after %s", time.Since(start).Round(time.Second))

	contextID, err := e.sessions.Open(ctx, clusterID)
	if err != nil {
		return err
	}

	flog := NewFailLog(filepath.Join(e.exportDir, FailLogName))
	if err := flog.Remove(); err != nil {
		return err
	}

	dbs, err := e.listDatabases(ctx, clusterID, contextID)
	if err != nil {
		return err
	}
	for _, db := range dbs {
		if err := e.exportTables(ctx, clusterID, contextID, db, flog); err != nil {
			return err
		}
	}

	failedBefore, err := flog.Count()
	if err != nil {
		return err
	}
	if e.skipRetry || !e.aws {
		pterm.Info.Printfln("Failed count: %d", failedBefore)
		pterm.Info.Printfln("Total databases attempted: %d", len(dbs))
		return nil
	}

	pterm.Info.Println("Retrying failed metastore export with registered IAM roles")
	if err := e.retryFailed(ctx, clusterID, flog); err != nil {
		return err
	}
	pterm.Info.Printfln("Failed count before retry: %d", failedBefore)
	pterm.Info.Printfln("Total databases attempted: %d", len(dbs))
	return nil
}

// ExportDatabase crawls one database, optionally launching the cluster
// with an instance profile attached.
func (e *Exporter) ExportDatabase(ctx context.Context, db, iamRole string) error {
	start := time.Now()
	clusterID, err := e.clusters.Launch(ctx, iamRole)
	if err != nil {
		return err
	}
	pterm.Info.Printfln("Cluster ready after %s", time.Since(start).Round(time.Second))

	contextID, err := e.sessions.Open(ctx, clusterID)
	if err != nil {
		return err
	}

	flog := NewFailLog(filepath.Join(e.exportDir, FailLogName))
	if err := flog.Remove(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(e.exportDir, DirName, db), 0o755); err != nil {
		return err
	}
	return e.exportTables(ctx, clusterID, contextID, db, flog)
}

// listDatabases enumerates every database in bounded slices and eagerly
// creates the local directory for each, even ones that end up empty.
func (e *Exporter) listDatabases(ctx context.Context, clusterID, contextID string) ([]string, error) {
	res, err := e.runner.Run(ctx, clusterID, contextID, remote.CollectDatabases())
	if err != nil {
		return nil, err
	}
	if res.Type != remote.ResultText {
		pterm.Error.Println(string(res.Raw))
		return nil, lserrors.New(lserrors.CommandFailed, "cannot identify number of databases")
	}
	count, err := remote.ParseCount(res.Text)
	if err != nil {
		return nil, err
	}

	var dbs []string
	for _, r := range Ranges(count, e.batchSize) {
		res, err := e.runner.Run(ctx, clusterID, contextID, remote.SliceDatabases(r.Start, r.End))
		if err != nil {
			return nil, err
		}
		if res.Type != remote.ResultText {
			pterm.Error.Println(string(res.Raw))
			return nil, lserrors.New(lserrors.CommandFailed, "database listing slice failed")
		}
		names, err := remote.ParseStringList(res.Text)
		if err != nil {
			return nil, err
		}
		for _, db := range names {
			pterm.Info.Printfln("Database: %s", db)
			if err := os.MkdirAll(filepath.Join(e.exportDir, DirName, db), 0o755); err != nil {
				return nil, err
			}
			dbs = append(dbs, db)
		}
	}
	return dbs, nil
}

// exportTables enumerates the tables of one database in bounded slices
// and extracts each table's DDL. A non-text extraction result goes to the
// failure log; it never aborts the crawl.
func (e *Exporter) exportTables(ctx context.Context, clusterID, contextID, db string, flog *FailLog) error {
	if _, err := e.runner.Run(ctx, clusterID, contextID, remote.CollectTables(db)); err != nil {
		return err
	}
	res, err := e.runner.Run(ctx, clusterID, contextID, remote.CountTables())
	if err != nil {
		return err
	}
	if res.Type != remote.ResultText {
		pterm.Error.Println(string(res.Raw))
		return lserrors.New(lserrors.CommandFailed, fmt.Sprintf("cannot identify number of tables in %s", db))
	}
	count, err := remote.ParseCount(res.Text)
	if err != nil {
		return err
	}

	for _, r := range Ranges(count, e.batchSize) {
		res, err := e.runner.Run(ctx, clusterID, contextID, remote.SliceTables(r.Start, r.End))
		if err != nil {
			return err
		}
		if res.Type != remote.ResultText {
			pterm.Error.Println(string(res.Raw))
			return lserrors.New(lserrors.CommandFailed, fmt.Sprintf("table listing slice failed for %s", db))
		}
		tables, err := remote.ParseStringList(res.Text)
		if err != nil {
			return err
		}
		for _, table := range tables {
			pterm.Info.Printfln("Table: %s.%s", db, table)
			ok, res, err := e.extractTable(ctx, clusterID, contextID, db, table)
			if err != nil {
				return err
			}
			if !ok {
				failure := Failure{Table: db + "." + table, Raw: res.Raw}
				if err := flog.Append(failure); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// extractTable fetches one table's DDL and writes it verbatim to
// metastore/<db>/<table>. It reports false when the result was not text;
// the raw result is returned for the failure log.
func (e *Exporter) extractTable(ctx context.Context, clusterID, contextID, db, table string) (bool, remote.Result, error) {
	res, err := e.runner.Run(ctx, clusterID, contextID, remote.ShowCreateTable(db, table))
	if err != nil {
		return false, res, err
	}
	if res.Type != remote.ResultText {
		return false, res, nil
	}
	dir := filepath.Join(e.exportDir, DirName, db)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, res, err
	}
	if err := os.WriteFile(filepath.Join(dir, table), []byte(res.Text), 0o644); err != nil {
		return false, res, err
	}
	return true, res, nil
}

// Importer replays locally stored DDL into a workspace.
type Importer struct {
	clusters  ClusterOps
	sessions  Sessions
	runner    Runner
	exportDir string
}

// NewImporter returns an importer over the given capabilities.
func NewImporter(clusters ClusterOps, sessions Sessions, runner Runner, exportDir string) *Importer {
	return &Importer{clusters: clusters, sessions: sessions, runner: runner, exportDir: exportDir}
}

// ImportAll walks the local metastore directory, creates each database
// idempotently and replays every stored table DDL. Entries at the
// database level that are not directories are structural errors: reported
// per entry, the rest of the import continues.
func (i *Importer) ImportAll(ctx context.Context) error {
	root := filepath.Join(i.exportDir, DirName)
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("no local metastore export at %s: %w", root, err)
	}

	clusterID, err := i.clusters.Launch(ctx, "")
	if err != nil {
		return err
	}
	contextID, err := i.sessions.Open(ctx, clusterID)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			err := lserrors.New(lserrors.StructuralError,
				fmt.Sprintf("only databases should exist at this level: %s", entry.Name()))
			pterm.Error.Println(err.Error())
			continue
		}
		db := entry.Name()
		if _, err := i.runner.Run(ctx, clusterID, contextID, remote.CreateDatabase(db)); err != nil {
			return err
		}

		tables, err := os.ReadDir(filepath.Join(root, db))
		if err != nil {
			return err
		}
		for _, t := range tables {
			ddl, err := os.ReadFile(filepath.Join(root, db, t.Name()))
			if err != nil {
				return err
			}
			pterm.Info.Printfln("Importing table %s.%s", db, t.Name())
			res, err := i.runner.Run(ctx, clusterID, contextID, remote.ApplyDDL(string(ddl)))
			if err != nil {
				return err
			}
			if res.Type == remote.ResultError {
				pterm.Warning.Printfln("import failed for %s.%s: %s", db, t.Name(), res.Summary)
			} else {
				pterm.Success.Printfln("Imported %s.%s", db, t.Name())
			}
		}
	}
	return nil
}
