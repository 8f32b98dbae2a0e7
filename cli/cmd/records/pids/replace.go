// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package pids

import (
	"github.com/repohub/repoctl/cli/options"
	"github.com/repohub/repoctl/cli/presenter"
	"github.com/repohub/repoctl/cli/util/clictx"
	"github.com/repohub/repoctl/client"
	"github.com/spf13/cobra"
)

var replaceOpts struct {
	DataModel string
	Scheme    string
	Value     string
	Provider  string
}

var replaceCmd = &cobra.Command{
	Use:   "replace <record-ref>",
	Short: "Replace a persistent identifier of a record",
	Long: `Replace the persistent identifier stored under an existing scheme,
for example to switch a doi to an unmanaged provider.

Usage examples:

	repoctl records pids replace fcze8-4vx33 --scheme doi --value 10.48436/fcze8-4vx33 --provider unmanaged
`,
	Args: options.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cfg, err := clictx.Require(cmd.Context())
		if err != nil {
			return err
		}

		pid, entry, err := validatePIDArgs(cfg, args[0], replaceOpts.DataModel,
			replaceOpts.Scheme, replaceOpts.Value, replaceOpts.Provider)
		if err != nil {
			return err
		}

		oldData, err := c.Read(cmd.Context(), replaceOpts.DataModel, pid)
		if err != nil {
			return err
		}

		if _, exists := oldData.PIDs()[replaceOpts.Scheme]; !exists {
			return &client.NotFoundError{Kind: "pid", ID: replaceOpts.Scheme}
		}

		newData := oldData.Clone()
		newData.SetPID(replaceOpts.Scheme, entry)

		if err := c.Update(cmd.Context(), replaceOpts.DataModel, pid, newData, oldData); err != nil {
			return err
		}

		p := presenter.New(cmd.OutOrStdout(), presenter.WithColor(!cfg.NoColor))
		p.Successf("'%s', successfully updated", pid)

		return nil
	},
}

func init() {
	flags := replaceCmd.Flags()
	flags.StringVar(&replaceOpts.DataModel, "data-model", client.DefaultDataModel,
		"data model the record belongs to")
	flags.StringVar(&replaceOpts.Scheme, "scheme", "", "pid scheme, e.g. doi")
	flags.StringVar(&replaceOpts.Value, "value", "", "pid value")
	flags.StringVar(&replaceOpts.Provider, "provider", "unmanaged", "pid provider")
}
