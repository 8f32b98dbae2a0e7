// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package records

import (
	"github.com/itchyny/gojq"
	"github.com/repohub/repoctl/cli/options"
	"github.com/repohub/repoctl/cli/presenter"
	"github.com/repohub/repoctl/cli/util/clictx"
	"github.com/repohub/repoctl/client"
	"github.com/spf13/cobra"
)

var listOpts struct {
	DataModel  string
	RecordType string
	OutputFile string
	JqFilter   string
	Quiet      bool
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List records of one data model",
	Long: `List records of one data model as JSON documents.

An empty result produces no output at all. The optional jq filter is applied
to every record; records the filter reduces to nothing are skipped.

Usage examples:

	repoctl records list
	repoctl records list --data-model marc21 --record-type draft
	repoctl records list --output-file out.json --jq-filter '.pids.doi.identifier'
`,
	Args: options.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, cfg, err := clictx.Require(cmd.Context())
		if err != nil {
			return err
		}

		if err := options.ValidateDataModel(cfg, listOpts.DataModel); err != nil {
			return err
		}

		if err := options.ValidateRecordType(listOpts.RecordType); err != nil {
			return err
		}

		query, err := gojq.Parse(listOpts.JqFilter)
		if err != nil {
			return &client.ValidationError{Field: "jq-filter", Reason: err.Error()}
		}

		hits, err := c.List(cmd.Context(), listOpts.DataModel, listOpts.RecordType)
		if err != nil {
			return err
		}

		items := make([]any, 0, len(hits))

		for _, hit := range hits {
			iter := query.Run(map[string]any(hit))

			// only the filter's first result counts, matching jq -e behavior
			// for record-per-line output
			value, ok := iter.Next()
			if !ok || value == nil {
				continue
			}

			if err, isErr := value.(error); isErr {
				return &client.ValidationError{Field: "jq-filter", Reason: err.Error()}
			}

			items = append(items, value)
		}

		if len(items) == 0 {
			return nil
		}

		p := presenter.New(cmd.OutOrStdout(),
			presenter.WithColor(!cfg.NoColor),
			presenter.WithQuiet(listOpts.Quiet),
		)

		if err := p.JSONRows(items, listOpts.OutputFile); err != nil {
			return err
		}

		if listOpts.OutputFile != "" {
			p.Successf("wrote %d records to %s", len(items), listOpts.OutputFile)
		} else {
			p.Successf("%d records", len(items))
		}

		return nil
	},
}

func init() {
	flags := listCmd.Flags()
	flags.StringVar(&listOpts.DataModel, "data-model", client.DefaultDataModel,
		"data model the records belong to")
	flags.StringVar(&listOpts.RecordType, "record-type", client.RecordTypeRecord,
		"list published records or drafts")
	flags.StringVar(&listOpts.OutputFile, "output-file", "",
		"write results to this file instead of stdout")
	flags.StringVar(&listOpts.JqFilter, "jq-filter", ".",
		"jq filter applied to every record")
	flags.BoolVar(&listOpts.Quiet, "quiet", false,
		"suppress the summary line")
}
