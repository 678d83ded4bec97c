// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the lakeshift CLI.
// It implements subcommands for workspace login and for exporting and
// importing cluster configs, instance pools, instance profiles and Hive
// metastore DDL, using the Cobra CLI framework with pterm terminal output.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lakeshift/cli/internal/config"
	"lakeshift/cli/internal/logging"
)

var (
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "lakeshift",
	Short:         "Migrate configuration and metastore DDL between workspaces",
	Long:          `Lakeshift is a command-line tool that migrates cluster configurations, instance pools, instance profiles and Hive metastore table DDL between two workspace deployments of a managed analytics platform.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("lakeshift %s\n", Version)

			cfg, err := config.Load()
			if err == nil && cfg.Host != "" {
				if rt, err := newRuntime(); err == nil {
					if err := rt.client.Ping(cmd.Context()); err == nil {
						fmt.Printf("workspace %s reachable\n", cfg.Host)
					} else {
						fmt.Printf("workspace %s unreachable\n", cfg.Host)
					}
				}
			}
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application. Errors are masked before display so
// tokens embedded in request bodies or URLs never reach the terminal.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, logging.PresentError("lakeshift", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version and workspace reachability")
}
