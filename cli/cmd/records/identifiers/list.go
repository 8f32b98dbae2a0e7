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

var listOpts struct {
	DataModel  string
	OutputFile string
}

var listCmd = &cobra.Command{
	Use:   "list <record-ref>",
	Short: "List the identifiers of a record",
	Long: `List the metadata identifiers of a record as a (scheme, value)
table. A record without identifiers produces no output.
`,
	Args: options.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cfg, err := clictx.Require(cmd.Context())
		if err != nil {
			return err
		}

		if err := options.ValidateDataModel(cfg, listOpts.DataModel); err != nil {
			return err
		}

		if err := options.ValidateRecordRef(args[0]); err != nil {
			return err
		}

		data, err := c.Resolve(cmd.Context(), listOpts.DataModel, args[0])
		if err != nil {
			return err
		}

		identifiers := data.Identifiers()

		rows := make([][]string, 0, len(identifiers))
		for _, identifier := range identifiers {
			rows = append(rows, []string{identifier.Scheme, identifier.Identifier})
		}

		p := presenter.New(cmd.OutOrStdout(), presenter.WithColor(!cfg.NoColor))

		return p.Table([]string{"scheme", "identifier"}, rows, listOpts.OutputFile)
	},
}

func init() {
	flags := listCmd.Flags()
	flags.StringVar(&listOpts.DataModel, "data-model", client.DefaultDataModel,
		"data model the record belongs to")
	flags.StringVar(&listOpts.OutputFile, "output-file", "",
		"write the table to this file instead of stdout")
}
