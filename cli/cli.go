// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

// Package cli assembles the repoctl command tree. Every command runs the
// same pipeline: validate parameters, call the platform through the shared
// client, render the result.
package cli

import (
	"fmt"

	"github.com/repohub/repoctl/cli/cmd/records"
	"github.com/repohub/repoctl/cli/cmd/users"
	"github.com/repohub/repoctl/cli/util/clictx"
	"github.com/repohub/repoctl/client"
	"github.com/spf13/cobra"
)

var configFile string

// New builds the root command.
func New(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "repoctl",
		Short: "Administration commands for the repository platform",
		Long: `Repoctl manages records, drafts, persistent identifiers, file
attachments and users of a repository platform from the command line.

The platform address and the set of supported data models come from the
config file and REPOCTL_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := client.LoadConfig(configFile)
			if err != nil {
				return err
			}

			c, err := client.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to create client: %w", err)
			}

			ctx := clictx.WithClient(cmd.Context(), c)
			ctx = clictx.WithConfig(ctx, cfg)
			cmd.SetContext(ctx)

			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if c, ok := clictx.GetClientFromContext(cmd.Context()); ok {
				return c.Close()
			}

			return nil
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "",
		"path to the repoctl config file")

	// flag-parse failures are input errors, not service errors
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &client.ValidationError{Reason: err.Error()}
	})

	root.AddCommand(
		records.Command,
		users.Command,
		newVersionCommand(version),
	)

	return root
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "repoctl %s\n", version)
		},
	}
}
