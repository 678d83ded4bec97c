// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var importDirFlag string

// importCmd groups the import subcommands. Each subcommand replays
// previously exported artifacts into the configured workspace.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import exported artifacts into the workspace",
	Long: `The import command replays artifacts produced by 'lakeshift export' into the
configured workspace: cluster configs, instance pools, instance profiles,
jobs and Hive metastore DDL.

Order matters when importing everything: profiles and pools are created
before clusters so that cluster configs referencing them can be remapped,
jobs follow clusters so existing-cluster references can be resolved, and
the metastore DDL is applied last on a freshly launched cluster.`,
}

var importClustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Import cluster configs, remapping pool references",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		return rt.migrator(rt.exportDir(importDirFlag)).ImportClusters(cmd.Context())
	},
}

var importPoolsCmd = &cobra.Command{
	Use:   "pools",
	Short: "Import instance pool configs",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		return rt.migrator(rt.exportDir(importDirFlag)).ImportInstancePools(cmd.Context())
	},
}

var importProfilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Import instance profile ARNs",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		return rt.migrator(rt.exportDir(importDirFlag)).ImportInstanceProfiles(cmd.Context())
	},
}

var importJobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Import job configs, remapping existing-cluster references",
	Long: `Replays exported job configs into the workspace. Jobs pinned to an
existing cluster get the cluster id remapped by cluster-name matching
against clusters.log; jobs whose cluster has no counterpart are reset to
a fresh cloud-default job cluster. Import clusters first so the remapping
has targets to match.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		return rt.migrator(rt.exportDir(importDirFlag)).ImportJobs(cmd.Context())
	},
}

var importMetastoreCmd = &cobra.Command{
	Use:   "metastore",
	Short: "Replay exported metastore DDL",
	Long: `Launches a cluster on the target workspace and replays the DDL files under
<export-dir>/metastore: every database directory becomes a CREATE DATABASE
IF NOT EXISTS, and every table file inside it is applied as-is.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		imp, err := rt.importer(rt.exportDir(importDirFlag))
		if err != nil {
			return err
		}
		cursor.Hide()
		defer cursor.Show()
		if err := imp.ImportAll(cmd.Context()); err != nil {
			return err
		}
		pterm.Success.Println("Metastore import complete")
		return nil
	},
}

// importAllCmd replays everything in dependency order.
var importAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Import profiles, pools, clusters, jobs and the metastore",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		dir := rt.exportDir(importDirFlag)
		mig := rt.migrator(dir)

		if rt.cfg.IsAWS() {
			if err := mig.ImportInstanceProfiles(cmd.Context()); err != nil {
				return err
			}
		}
		if err := mig.ImportInstancePools(cmd.Context()); err != nil {
			return err
		}
		if err := mig.ImportClusters(cmd.Context()); err != nil {
			return err
		}
		if err := mig.ImportJobs(cmd.Context()); err != nil {
			return err
		}

		imp, err := rt.importer(dir)
		if err != nil {
			return err
		}
		cursor.Hide()
		defer cursor.Show()
		if err := imp.ImportAll(cmd.Context()); err != nil {
			return err
		}
		pterm.Success.Println("Import complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.PersistentFlags().StringVar(&importDirFlag, "export-dir", "", "Directory holding exported artifacts (default from config)")
	importCmd.AddCommand(importClustersCmd, importPoolsCmd, importProfilesCmd, importJobsCmd, importMetastoreCmd, importAllCmd)
}
