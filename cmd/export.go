// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	exportDirFlag    string
	exportDatabase   string
	exportIAMRole    string
	exportSkipFailed bool
)

// exportCmd groups the export subcommands. Each subcommand reads one kind
// of resource from the configured workspace and writes it as local
// artifacts under the export directory.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export workspace resources to local artifact files",
	Long: `The export command reads resources from the configured workspace and writes
them as local artifacts: cluster configs, instance pools, instance profiles
and jobs as JSON-lines logs, and Hive metastore DDL as one file per table.

The artifacts are what 'lakeshift import' replays into another workspace.`,
}

var exportClustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Export interactive cluster configs",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		return rt.migrator(rt.exportDir(exportDirFlag)).ExportClusters(cmd.Context())
	},
}

var exportPoolsCmd = &cobra.Command{
	Use:   "pools",
	Short: "Export instance pool configs",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		return rt.migrator(rt.exportDir(exportDirFlag)).ExportInstancePools(cmd.Context())
	},
}

var exportJobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Export job configs",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		return rt.migrator(rt.exportDir(exportDirFlag)).ExportJobs(cmd.Context())
	},
}

var exportProfilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Export registered instance profile ARNs",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		return rt.migrator(rt.exportDir(exportDirFlag)).ExportInstanceProfiles(cmd.Context())
	},
}

// exportMetastoreCmd launches (or reuses) a small cluster on the source
// workspace and crawls the Hive metastore into per-table DDL files. The
// crawl can take a while on large metastores; the cursor is hidden so the
// progress output stays clean.
var exportMetastoreCmd = &cobra.Command{
	Use:   "metastore",
	Short: "Export Hive metastore DDL, one file per table",
	Long: `Launches a cluster on the source workspace and extracts the CREATE TABLE
statement of every table into <export-dir>/metastore/<database>/<table>.

Tables whose DDL cannot be read (usually because the data lives behind an
IAM role the cluster does not carry) are recorded in failed_metastore.log.
On AWS workspaces the crawl then relaunches against each registered
instance profile and re-attempts the failed tables, unless --skip-failed
is set. Use --database to restrict the crawl to a single database, and
--iam-role to launch that crawl with a specific instance profile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		if exportIAMRole != "" && exportDatabase == "" {
			return fmt.Errorf("--iam-role requires --database")
		}
		exp, err := rt.exporter(rt.exportDir(exportDirFlag), exportSkipFailed)
		if err != nil {
			return err
		}

		cursor.Hide()
		defer cursor.Show()

		if exportDatabase != "" {
			err = exp.ExportDatabase(cmd.Context(), exportDatabase, exportIAMRole)
		} else {
			err = exp.ExportAll(cmd.Context())
		}
		if err != nil {
			return err
		}
		pterm.Success.Println("Metastore export complete")
		return nil
	},
}

// exportAllCmd runs every export in sequence: cheap config exports first,
// then the metastore crawl.
var exportAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Export clusters, pools, profiles, jobs and the metastore",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		dir := rt.exportDir(exportDirFlag)
		mig := rt.migrator(dir)

		if rt.cfg.IsAWS() {
			if err := mig.ExportInstanceProfiles(cmd.Context()); err != nil {
				return err
			}
		}
		if err := mig.ExportInstancePools(cmd.Context()); err != nil {
			return err
		}
		if err := mig.ExportClusters(cmd.Context()); err != nil {
			return err
		}
		if err := mig.ExportJobs(cmd.Context()); err != nil {
			return err
		}

		exp, err := rt.exporter(dir, exportSkipFailed)
		if err != nil {
			return err
		}
		cursor.Hide()
		defer cursor.Show()
		if err := exp.ExportAll(cmd.Context()); err != nil {
			return err
		}
		pterm.Success.Printfln("Export complete; artifacts written under %s", dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.PersistentFlags().StringVar(&exportDirFlag, "export-dir", "", "Directory for exported artifacts (default from config)")
	exportMetastoreCmd.Flags().StringVar(&exportDatabase, "database", "", "Export only this database")
	exportMetastoreCmd.Flags().StringVar(&exportIAMRole, "iam-role", "", "Instance profile ARN to launch the cluster with (requires --database)")
	exportMetastoreCmd.Flags().BoolVar(&exportSkipFailed, "skip-failed", false, "Skip the IAM-role retry pass for failed tables")
	exportAllCmd.Flags().BoolVar(&exportSkipFailed, "skip-failed", false, "Skip the IAM-role retry pass for failed tables")
	exportCmd.AddCommand(exportClustersCmd, exportPoolsCmd, exportProfilesCmd, exportJobsCmd, exportMetastoreCmd, exportAllCmd)
}
