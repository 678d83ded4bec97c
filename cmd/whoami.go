// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"lakeshift/cli/internal/api"
	lserrors "lakeshift/cli/internal/errors"
)

// whoamiCmd represents the whoami command for displaying the current
// connection state. It shows the configured workspace and verifies that
// the stored token is still accepted by it.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the configured workspace and token status",
	Long: `The whoami command shows which workspace this CLI is configured against and
whether the stored API token is still accepted by it. It is useful for
verifying credentials before running an export or import.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			if lserrors.HasKind(err, lserrors.NotLoggedIn) {
				fmt.Println("Not logged in.")
				fmt.Println("Run 'lakeshift login --host https://<workspace>' to get started.")
				return nil
			}
			return err
		}

		fmt.Printf("Workspace: %s (%s)\n", rt.cfg.Host, rt.cfg.Cloud)
		versions, err := api.NewClusterService(rt.client).ListSparkVersions(cmd.Context())
		if err != nil {
			fmt.Println("Token:     rejected or workspace unreachable")
			return err
		}
		fmt.Println("Token:     valid")
		if list, ok := versions["versions"].([]any); ok {
			fmt.Printf("Runtimes:  %d versions available\n", len(list))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
