// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package pids

import (
	"sort"

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
	Short: "List the persistent identifiers of a record",
	Args:  options.ExactArgs(1),
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

		pids := data.PIDs()

		schemes := make([]string, 0, len(pids))
		for scheme := range pids {
			schemes = append(schemes, scheme)
		}

		sort.Strings(schemes)

		rows := make([][]string, 0, len(schemes))
		for _, scheme := range schemes {
			rows = append(rows, []string{scheme, pids[scheme].Identifier, pids[scheme].Provider})
		}

		p := presenter.New(cmd.OutOrStdout(), presenter.WithColor(!cfg.NoColor))

		return p.Table([]string{"scheme", "identifier", "provider"}, rows, listOpts.OutputFile)
	},
}

func init() {
	flags := listCmd.Flags()
	flags.StringVar(&listOpts.DataModel, "data-model", client.DefaultDataModel,
		"data model the record belongs to")
	flags.StringVar(&listOpts.OutputFile, "output-file", "",
		"write the table to this file instead of stdout")
}
