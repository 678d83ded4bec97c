// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"lakeshift/cli/internal/config"
	"lakeshift/cli/internal/keychain"
)

// logoutCmd represents the logout command for clearing stored credentials.
// It removes the API token from the OS keychain and flips the config file
// back to the logged-out state. The workspace URL is kept so a later login
// does not have to repeat it.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API token",
	Long: `The logout command removes the stored API token from the OS keychain and
marks the configuration as logged out. The workspace URL and other settings
are preserved.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if km, err := keychain.GetManager(); err == nil {
			_ = km.ClearAuth()
		}
		if cfg, err := config.Load(); err == nil && cfg.LoggedIn {
			cfg.LoggedIn = false
			_ = config.Save(cfg)
		}
		pterm.Success.Println("Credentials removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
