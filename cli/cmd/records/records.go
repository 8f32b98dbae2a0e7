// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

// Package records holds the management commands for repository records:
// counting, listing, updating, deleting, publishing, access changes and
// file attachments, plus the identifiers and pids subgroups.
package records

import (
	"github.com/repohub/repoctl/cli/cmd/records/identifiers"
	"github.com/repohub/repoctl/cli/cmd/records/pids"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:   "records",
	Short: "Management commands for records",
}

func init() {
	Command.AddCommand(
		countCmd,
		listCmd,
		updateCmd,
		deleteCmd,
		publishCmd,
		modifyAccessCmd,
		addFileCmd,
		replaceFileCmd,
		deleteFileCmd,
		listFilesCmd,
		identifiers.Command,
		pids.Command,
	)
}
