// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

// Package pids holds the commands managing the persistent identifiers of a
// record: list, add and replace.
package pids

import (
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:   "pids",
	Short: "Management commands for record persistent identifiers",
}

func init() {
	Command.AddCommand(listCmd, addCmd, replaceCmd)
}
