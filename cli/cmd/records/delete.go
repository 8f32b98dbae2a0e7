// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package records

import (
	"errors"

	"github.com/repohub/repoctl/cli/options"
	"github.com/repohub/repoctl/cli/presenter"
	"github.com/repohub/repoctl/cli/util/clictx"
	"github.com/repohub/repoctl/client"
	"github.com/spf13/cobra"
)

var deleteOpts struct {
	DataModel string
}

var deleteCmd = &cobra.Command{
	Use:   "delete <record-ref>...",
	Short: "Delete records or their open drafts",
	Long: `Delete the given record references. When a reference has an open
draft, the draft is removed and the published record stays untouched;
otherwise the published record is soft-deleted.
`,
	Args: options.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cfg, err := clictx.Require(cmd.Context())
		if err != nil {
			return err
		}

		if err := options.ValidateDataModel(cfg, deleteOpts.DataModel); err != nil {
			return err
		}

		for _, ref := range args {
			if err := options.ValidateRecordRef(ref); err != nil {
				return err
			}
		}

		p := presenter.New(cmd.OutOrStdout(), presenter.WithColor(!cfg.NoColor))

		var failed bool

		for _, ref := range args {
			kind, err := c.Delete(cmd.Context(), deleteOpts.DataModel, ref)
			if err != nil {
				p.Errorf("'%s', %v", ref, err)

				failed = true

				continue
			}

			if kind == client.RecordTypeDraft {
				p.Successf("'%s', draft deleted", ref)
			} else {
				p.Successf("'%s', soft-deleted", ref)
			}
		}

		if failed {
			return errors.New("not all records could be deleted")
		}

		return nil
	},
}

func init() {
	deleteCmd.Flags().StringVar(&deleteOpts.DataModel, "data-model", client.DefaultDataModel,
		"data model the records belong to")
}
