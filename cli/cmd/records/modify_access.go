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

var modifyAccessOpts struct {
	DataModel    string
	RecordAccess string
	FilesAccess  string
	InputFile    string
}

var modifyAccessCmd = &cobra.Command{
	Use:   "modify-access [record-ref...]",
	Short: "Modify the access policy of records",
	Long: `Modify the access object of the given record references. Only the
parts passed via flags are changed.

Usage examples:

	repoctl records modify-access fcze8-4vx33 --record-access restricted
	repoctl records modify-access --input-file ids.json --files-access public
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cfg, err := clictx.Require(cmd.Context())
		if err != nil {
			return err
		}

		if err := options.ValidateDataModel(cfg, modifyAccessOpts.DataModel); err != nil {
			return err
		}

		if err := options.ValidateAccess("record-access", modifyAccessOpts.RecordAccess); err != nil {
			return err
		}

		if err := options.ValidateAccess("files-access", modifyAccessOpts.FilesAccess); err != nil {
			return err
		}

		if modifyAccessOpts.RecordAccess == "" && modifyAccessOpts.FilesAccess == "" {
			return &client.ValidationError{
				Field:  "record-access",
				Reason: "at least one of --record-access and --files-access is required",
			}
		}

		refs, err := collectRefs(args, modifyAccessOpts.InputFile)
		if err != nil {
			return err
		}

		p := presenter.New(cmd.OutOrStdout(), presenter.WithColor(!cfg.NoColor))

		var failed bool

		for _, ref := range refs {
			oldData, err := c.Read(cmd.Context(), modifyAccessOpts.DataModel, ref)
			if err != nil {
				p.Errorf("'%s', %v", ref, err)

				failed = true

				continue
			}

			newData := oldData.Clone()
			newData.SetAccess(modifyAccessOpts.RecordAccess, modifyAccessOpts.FilesAccess)

			if err := c.Update(cmd.Context(), modifyAccessOpts.DataModel, ref, newData, oldData); err != nil {
				p.Errorf("'%s', problem during update, %v", ref, err)

				failed = true

				continue
			}

			p.Successf("'%s', access updated", ref)
		}

		if failed {
			return errors.New("not all records could be updated")
		}

		return nil
	},
}

func init() {
	flags := modifyAccessCmd.Flags()
	flags.StringVar(&modifyAccessOpts.DataModel, "data-model", client.DefaultDataModel,
		"data model the records belong to")
	flags.StringVar(&modifyAccessOpts.RecordAccess, "record-access", "",
		"new access level of the record metadata (public or restricted)")
	flags.StringVar(&modifyAccessOpts.FilesAccess, "files-access", "",
		"new access level of the record files (public or restricted)")
	flags.StringVar(&modifyAccessOpts.InputFile, "input-file", "",
		"JSON array of record ids to modify")
}
