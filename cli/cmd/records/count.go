// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package records

import (
	"github.com/repohub/repoctl/cli/options"
	"github.com/repohub/repoctl/cli/presenter"
	"github.com/repohub/repoctl/cli/util/clictx"
	"github.com/repohub/repoctl/client"
	"github.com/spf13/cobra"
)

var countOpts struct {
	DataModel  string
	RecordType string
}

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count records of one data model",
	Args:  options.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, cfg, err := clictx.Require(cmd.Context())
		if err != nil {
			return err
		}

		if err := options.ValidateDataModel(cfg, countOpts.DataModel); err != nil {
			return err
		}

		if err := options.ValidateRecordType(countOpts.RecordType); err != nil {
			return err
		}

		count, err := c.Count(cmd.Context(), countOpts.DataModel, countOpts.RecordType)
		if err != nil {
			return err
		}

		p := presenter.New(cmd.OutOrStdout(), presenter.WithColor(!cfg.NoColor))
		p.Successf("%d records", count)

		return nil
	},
}

func init() {
	flags := countCmd.Flags()
	flags.StringVar(&countOpts.DataModel, "data-model", client.DefaultDataModel,
		"data model the records belong to")
	flags.StringVar(&countOpts.RecordType, "record-type", client.RecordTypeRecord,
		"count published records or drafts")
}
