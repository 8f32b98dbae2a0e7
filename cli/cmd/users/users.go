// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

// Package users holds the management commands for registered accounts.
package users

import (
	"strconv"

	"github.com/repohub/repoctl/cli/options"
	"github.com/repohub/repoctl/cli/presenter"
	"github.com/repohub/repoctl/cli/util/clictx"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:   "users",
	Short: "Management commands for users",
}

var listOpts struct {
	OutputFile string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered users",
	Args:  options.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, cfg, err := clictx.Require(cmd.Context())
		if err != nil {
			return err
		}

		users, err := c.ListUsers(cmd.Context())
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(users))

		for _, user := range users {
			active := "NO"
			if user.Active {
				active = "YES"
			}

			rows = append(rows, []string{
				strconv.Itoa(user.ID), user.Email, active, user.ConfirmedAt,
			})
		}

		p := presenter.New(cmd.OutOrStdout(), presenter.WithColor(!cfg.NoColor))

		return p.Table([]string{"id", "email", "active", "confirmed"}, rows, listOpts.OutputFile)
	},
}

func init() {
	listCmd.Flags().StringVar(&listOpts.OutputFile, "output-file", "",
		"write the table to this file instead of stdout")

	Command.AddCommand(listCmd)
}
