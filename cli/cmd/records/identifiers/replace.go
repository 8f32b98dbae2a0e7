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

var replaceOpts struct {
	DataModel  string
	Identifier string
	Scheme     string
	Value      string
}

var replaceCmd = &cobra.Command{
	Use:   "replace <record-ref>",
	Short: "Replace an existing identifier of a record",
	Long: `Replace the value of a metadata identifier. The scheme must
already be present; use add for new schemes.
`,
	Args: options.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cfg, err := clictx.Require(cmd.Context())
		if err != nil {
			return err
		}

		if err := options.ValidateDataModel(cfg, replaceOpts.DataModel); err != nil {
			return err
		}

		if err := options.ValidateRecordRef(args[0]); err != nil {
			return err
		}

		identifier, err := options.ParseIdentifier(replaceOpts.Identifier, replaceOpts.Scheme, replaceOpts.Value)
		if err != nil {
			return err
		}

		pid := args[0]

		oldData, err := c.Read(cmd.Context(), replaceOpts.DataModel, pid)
		if err != nil {
			return err
		}

		current := oldData.Identifiers()
		replaced := false

		for index, existing := range current {
			if existing.Scheme == identifier.Scheme {
				current[index] = identifier
				replaced = true

				break
			}
		}

		if !replaced {
			return &client.NotFoundError{Kind: "identifier", ID: identifier.Scheme}
		}

		newData := oldData.Clone()
		newData.SetIdentifiers(current)

		if err := c.Update(cmd.Context(), replaceOpts.DataModel, pid, newData, oldData); err != nil {
			return err
		}

		p := presenter.New(cmd.OutOrStdout(), presenter.WithColor(!cfg.NoColor))
		p.Successf("Identifier for '%s' replaced.", pid)

		return nil
	},
}

func init() {
	flags := replaceCmd.Flags()
	flags.StringVar(&replaceOpts.DataModel, "data-model", client.DefaultDataModel,
		"data model the record belongs to")
	flags.StringVarP(&replaceOpts.Identifier, "identifier", "i", "",
		"identifier as JSON with scheme and identifier keys")
	flags.StringVar(&replaceOpts.Scheme, "scheme", "", "identifier scheme, e.g. doi")
	flags.StringVar(&replaceOpts.Value, "value", "", "identifier value")
}
