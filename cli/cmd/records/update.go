// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package records

import (
	"errors"

	"github.com/repohub/repoctl/api/core"
	"github.com/repohub/repoctl/cli/options"
	"github.com/repohub/repoctl/cli/presenter"
	"github.com/repohub/repoctl/cli/util/clictx"
	"github.com/repohub/repoctl/client"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var updateOpts struct {
	DataModel string
	Field     string
	Value     string
	InputFile string
}

var updateCmd = &cobra.Command{
	Use:   "update [record-ref...]",
	Short: "Update record documents",
	Long: `Update record documents, either by patching one JSON field on the
given record references or by replacing whole documents from an input file.

Usage examples:

	repoctl records update fcze8-4vx33 --field metadata.title --value '"New title"'
	repoctl records update --input-file records.json --data-model marc21

The input file holds a JSON array of complete record documents, each carrying
its id. Replacing whole documents can ruin records, use with care.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cfg, err := clictx.Require(cmd.Context())
		if err != nil {
			return err
		}

		if err := options.ValidateDataModel(cfg, updateOpts.DataModel); err != nil {
			return err
		}

		p := presenter.New(cmd.OutOrStdout(), presenter.WithColor(!cfg.NoColor))

		if updateOpts.InputFile != "" {
			return runBulkUpdate(cmd, c, p)
		}

		return runFieldPatch(cmd, args, c, p)
	},
}

func runFieldPatch(cmd *cobra.Command, args []string, c *client.Client, p *presenter.Presenter) error {
	if len(args) == 0 {
		return &client.ValidationError{Field: "record-ref", Reason: "at least one record reference is required"}
	}

	if err := options.ValidateFieldPath(updateOpts.Field); err != nil {
		return err
	}

	value, err := options.ParseJSONValue(updateOpts.Value)
	if err != nil {
		return err
	}

	for _, ref := range args {
		if err := options.ValidateRecordRef(ref); err != nil {
			return err
		}
	}

	var failed bool

	for _, ref := range args {
		oldData, err := c.Read(cmd.Context(), updateOpts.DataModel, ref)
		if err != nil {
			p.Errorf("'%s', %v", ref, err)

			failed = true

			continue
		}

		newData := oldData.Clone()
		if err := newData.SetField(updateOpts.Field, value); err != nil {
			p.Errorf("'%s', %v", ref, err)

			failed = true

			continue
		}

		if err := c.Update(cmd.Context(), updateOpts.DataModel, ref, newData, oldData); err != nil {
			p.Errorf("'%s', problem during update, %v", ref, err)

			failed = true

			continue
		}

		p.Successf("'%s', successfully updated", ref)
	}

	if failed {
		return errors.New("not all records could be updated")
	}

	return nil
}

func runBulkUpdate(cmd *cobra.Command, c *client.Client, p *presenter.Presenter) error {
	var documents []core.RecordData
	if err := options.ReadJSONFile(afero.NewOsFs(), updateOpts.InputFile, &documents); err != nil {
		return err
	}

	var failed bool

	for _, document := range documents {
		pid := document.ID()
		if pid == "" {
			p.Errorf("document without id, skipping")

			failed = true

			continue
		}

		p.Warnf("'%s', trying to update", pid)

		oldData, err := c.Read(cmd.Context(), updateOpts.DataModel, pid)
		if err != nil {
			p.Errorf("'%s', %v", pid, err)

			failed = true

			continue
		}

		if err := c.Update(cmd.Context(), updateOpts.DataModel, pid, document, oldData); err != nil {
			p.Errorf("'%s', problem during update, %v", pid, err)

			failed = true

			continue
		}

		p.Successf("'%s', successfully updated", pid)
	}

	if failed {
		return errors.New("not all records could be updated")
	}

	return nil
}

func init() {
	flags := updateCmd.Flags()
	flags.StringVar(&updateOpts.DataModel, "data-model", client.DefaultDataModel,
		"data model the records belong to")
	flags.StringVar(&updateOpts.Field, "field", "",
		"dot-separated path of the JSON field to patch, e.g. metadata.title")
	flags.StringVar(&updateOpts.Value, "value", "",
		"new value of the field as JSON")
	flags.StringVar(&updateOpts.InputFile, "input-file", "",
		"JSON array of complete record documents to apply")
}
