// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

// Package identifiers holds the commands managing the metadata identifiers
// of a record: list, add and replace. Adding never overwrites an existing
// scheme; that is what replace is for.
package identifiers

import (
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:   "identifiers",
	Short: "Management commands for record identifiers",
}

func init() {
	Command.AddCommand(listCmd, addCmd, replaceCmd)
}
