// Copyright (c) 2025 Lakeshift
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"lakeshift/cli/internal/api"
	"lakeshift/cli/internal/config"
	"lakeshift/cli/internal/keychain"
)

var (
	loginHost  string
	loginCloud string
)

// loginCmd represents the login command for connecting a workspace.
// It stores the workspace URL in the config file and the API token in the
// OS keychain, after verifying the pair against the workspace REST API.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Store workspace credentials for later commands",
	Long: `The login command records which workspace this CLI talks to and stores the
API token used to authenticate against it. The token is read from the
LAKESHIFT_TOKEN environment variable when set, otherwise it is prompted for
interactively with masked input.

The workspace URL and cloud flavor go into the config file; the token goes
into the OS keychain (or an encrypted fallback file when no keychain is
available). The pair is verified with a cheap API call before being saved.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if strings.TrimSpace(loginHost) != "" {
			cfg.Host = strings.TrimRight(strings.TrimSpace(loginHost), "/")
		}
		if strings.TrimSpace(loginCloud) != "" {
			cfg.Cloud = strings.ToLower(strings.TrimSpace(loginCloud))
		}
		if cfg.Host == "" {
			return fmt.Errorf("no workspace URL; pass --host https://<workspace>")
		}
		if cfg.Cloud != config.CloudAWS && cfg.Cloud != config.CloudAzure {
			return fmt.Errorf("unknown cloud %q; expected %q or %q", cfg.Cloud, config.CloudAWS, config.CloudAzure)
		}

		token := strings.TrimSpace(os.Getenv("LAKESHIFT_TOKEN"))
		if token == "" {
			token, err = pterm.DefaultInteractiveTextInput.
				WithMask("*").
				Show("API token for " + cfg.Host)
			if err != nil {
				return err
			}
			token = strings.TrimSpace(token)
		}
		if token == "" {
			return fmt.Errorf("no API token provided")
		}

		// Verify before saving anything
		if err := api.New(cfg.Host, token).Ping(ctx); err != nil {
			return fmt.Errorf("could not reach %s with the given token: %w", cfg.Host, err)
		}

		km, err := keychain.GetManager()
		if err != nil {
			return err
		}
		if err := km.SaveAPIToken(token); err != nil {
			return err
		}
		cfg.LoggedIn = true
		if err := config.Save(cfg); err != nil {
			return err
		}

		pterm.Success.Printfln("Logged in to %s (%s)", cfg.Host, cfg.Cloud)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVar(&loginHost, "host", "", "Workspace URL, e.g. https://acme.cloud.example.com")
	loginCmd.Flags().StringVar(&loginCloud, "cloud", "", "Cloud flavor of the workspace: aws or azure")
}
