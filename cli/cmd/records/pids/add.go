// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package pids

import (
	"github.com/repohub/repoctl/api/core"
	"github.com/repohub/repoctl/cli/options"
	"github.com/repohub/repoctl/cli/presenter"
	"github.com/repohub/repoctl/cli/util/clictx"
	"github.com/repohub/repoctl/client"
	"github.com/spf13/cobra"
)

var addOpts struct {
	DataModel string
	Scheme    string
	Value     string
	Provider  string
}

var addCmd = &cobra.Command{
	Use:   "add <record-ref>",
	Short: "Add a persistent identifier to a record",
	Long: `Add a persistent identifier under a new scheme. The scheme must
not be present yet; use replace to change an existing entry.

Usage examples:

	repoctl records pids add fcze8-4vx33 --scheme doi --value 10.48436/fcze8-4vx33
`,
	Args: options.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cfg, err := clictx.Require(cmd.Context())
		if err != nil {
			return err
		}

		pid, entry, err := validatePIDArgs(cfg, args[0], addOpts.DataModel, addOpts.Scheme, addOpts.Value, addOpts.Provider)
		if err != nil {
			return err
		}

		oldData, err := c.Read(cmd.Context(), addOpts.DataModel, pid)
		if err != nil {
			return err
		}

		if _, exists := oldData.PIDs()[addOpts.Scheme]; exists {
			return &client.ConflictError{
				ID:     pid,
				Detail: "pid scheme '" + addOpts.Scheme + "' already present",
			}
		}

		newData := oldData.Clone()
		newData.SetPID(addOpts.Scheme, entry)

		if err := c.Update(cmd.Context(), addOpts.DataModel, pid, newData, oldData); err != nil {
			return err
		}

		p := presenter.New(cmd.OutOrStdout(), presenter.WithColor(!cfg.NoColor))
		p.Successf("PID for '%s' added.", pid)

		return nil
	},
}

// validatePIDArgs checks the shared pid-command inputs and builds the entry.
func validatePIDArgs(cfg *client.Config, ref, dataModel, scheme, value, provider string) (string, core.PID, error) {
	if err := options.ValidateDataModel(cfg, dataModel); err != nil {
		return "", core.PID{}, err
	}

	if err := options.ValidateRecordRef(ref); err != nil {
		return "", core.PID{}, err
	}

	if scheme == "" {
		return "", core.PID{}, &client.ValidationError{Field: "scheme", Reason: "must not be empty"}
	}

	if value == "" {
		return "", core.PID{}, &client.ValidationError{Field: "value", Reason: "must not be empty"}
	}

	return ref, core.PID{Identifier: value, Provider: provider}, nil
}

func init() {
	flags := addCmd.Flags()
	flags.StringVar(&addOpts.DataModel, "data-model", client.DefaultDataModel,
		"data model the record belongs to")
	flags.StringVar(&addOpts.Scheme, "scheme", "", "pid scheme, e.g. doi")
	flags.StringVar(&addOpts.Value, "value", "", "pid value")
	flags.StringVar(&addOpts.Provider, "provider", "unmanaged", "pid provider")
}
