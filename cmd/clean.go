// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"lakeshift/cli/internal/api"
)

var cleanYesFlag bool

// cleanCmd groups the destructive cleanup subcommands. They are meant for
// resetting a workspace between migration dry runs.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove clusters or jobs from the workspace",
	Long: `The clean command wipes a class of resources from the configured workspace.
It is intended for resetting a target workspace between migration dry runs;
the removals are not reversible.`,
}

var cleanClustersCmd = &cobra.Command{
	Use:   "clusters",
	Short: "Permanently delete every cluster",
	Long: `Unpins and permanently deletes every cluster in the workspace. Unlike a
plain terminate, a permanent delete also drops the cluster config, so the
cluster cannot be restarted afterwards.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		if !confirmClean("permanently delete every cluster") {
			return nil
		}
		svc := api.NewClusterService(rt.client)
		clusters, err := svc.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, c := range clusters {
			// Pinned clusters refuse permanent deletion, so unpin first.
			if err := svc.Unpin(cmd.Context(), c.ID()); err != nil {
				pterm.Warning.Printfln("Could not unpin cluster %s: %v", c.Name(), err)
			}
			if err := svc.PermanentDelete(cmd.Context(), c.ID()); err != nil {
				return fmt.Errorf("deleting cluster %s: %w", c.Name(), err)
			}
			pterm.Info.Printfln("Deleted cluster %s (%s)", c.Name(), c.ID())
		}
		pterm.Success.Printfln("Removed %d clusters", len(clusters))
		return nil
	},
}

var cleanJobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Delete every job",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		if !confirmClean("delete every job") {
			return nil
		}
		svc := api.NewJobsService(rt.client)
		jobs, err := svc.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, j := range jobs {
			if err := svc.Delete(cmd.Context(), j.ID()); err != nil {
				return fmt.Errorf("deleting job %q: %w", j.Name(), err)
			}
			pterm.Info.Printfln("Deleted job %q (%d)", j.Name(), j.ID())
		}
		pterm.Success.Printfln("Removed %d jobs", len(jobs))
		return nil
	},
}

// confirmClean asks for confirmation unless --yes was passed.
func confirmClean(action string) bool {
	if cleanYesFlag {
		return true
	}
	ok, _ := pterm.DefaultInteractiveConfirm.
		WithDefaultText(fmt.Sprintf("This will %s in the workspace. Continue?", action)).
		Show()
	if !ok {
		pterm.Info.Println("Aborted.")
	}
	return ok
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.PersistentFlags().BoolVar(&cleanYesFlag, "yes", false, "Skip the confirmation prompt")
	cleanCmd.AddCommand(cleanClustersCmd, cleanJobsCmd)
}
