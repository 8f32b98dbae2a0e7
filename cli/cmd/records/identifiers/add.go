// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package identifiers

import (
	"github.com/repohub/repoctl/cli/options"
	"github.com/repohub/repoctl/cli/presenter"
	"github.com/repohub/repoctl/cli/util/clictx"
	"github.com/repohub/repoctl/client"
	"github.com/spf13/cobra"
)

var addOpts struct {
	DataModel  string
	Identifier string
	Scheme     string
	Value      string
}

var addCmd = &cobra.Command{
	Use:   "add <record-ref>",
	Short: "Add an identifier to a record",
	Long: `Add a metadata identifier to a record. The scheme must not be
present yet; use replace to change an existing identifier.

Usage examples:

	repoctl records identifiers add fcze8-4vx33 --scheme doi --value 10.48436/fcze8-4vx33
	repoctl records identifiers add fcze8-4vx33 -i '{"scheme": "doi", "identifier": "10.48436/fcze8-4vx33"}'
`,
	Args: options.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cfg, err := clictx.Require(cmd.Context())
		if err != nil {
			return err
		}

		if err := options.ValidateDataModel(cfg, addOpts.DataModel); err != nil {
			return err
		}

		if err := options.ValidateRecordRef(args[0]); err != nil {
			return err
		}

		identifier, err := options.ParseIdentifier(addOpts.Identifier, addOpts.Scheme, addOpts.Value)
		if err != nil {
			return err
		}

		pid := args[0]

		oldData, err := c.Read(cmd.Context(), addOpts.DataModel, pid)
		if err != nil {
			return err
		}

		current := oldData.Identifiers()
		for _, existing := range current {
			if existing.Scheme == identifier.Scheme {
				return &client.ConflictError{
					ID:     pid,
					Detail: "scheme '" + identifier.Scheme + "' already in identifiers",
				}
			}
		}

		newData := oldData.Clone()
		newData.SetIdentifiers(append(current, identifier))

		if err := c.Update(cmd.Context(), addOpts.DataModel, pid, newData, oldData); err != nil {
			return err
		}

		p := presenter.New(cmd.OutOrStdout(), presenter.WithColor(!cfg.NoColor))
		p.Successf("Identifier for '%s' added.", pid)

		return nil
	},
}

func init() {
	flags := addCmd.Flags()
	flags.StringVar(&addOpts.DataModel, "data-model", client.DefaultDataModel,
		"data model the record belongs to")
	flags.StringVarP(&addOpts.Identifier, "identifier", "i", "",
		"identifier as JSON with scheme and identifier keys")
	flags.StringVar(&addOpts.Scheme, "scheme", "", "identifier scheme, e.g. doi")
	flags.StringVar(&addOpts.Value, "value", "", "identifier value")
}
