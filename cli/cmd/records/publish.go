// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package records

import (
	"errors"

	"github.com/repohub/repoctl/cli/options"
	"github.com/repohub/repoctl/cli/presenter"
	"github.com/repohub/repoctl/cli/util/clictx"
	"github.com/repohub/repoctl/client"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var publishOpts struct {
	DataModel string
	InputFile string
}

var publishCmd = &cobra.Command{
	Use:   "publish [record-ref...]",
	Short: "Publish the drafts of the given records",
	Long: `Publish the drafts of the given record references. References can
be passed as arguments or as a JSON array of ids via --input-file.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cfg, err := clictx.Require(cmd.Context())
		if err != nil {
			return err
		}

		if err := options.ValidateDataModel(cfg, publishOpts.DataModel); err != nil {
			return err
		}

		refs, err := collectRefs(args, publishOpts.InputFile)
		if err != nil {
			return err
		}

		p := presenter.New(cmd.OutOrStdout(), presenter.WithColor(!cfg.NoColor))

		var failed bool

		for _, ref := range refs {
			record, err := c.Publish(cmd.Context(), publishOpts.DataModel, ref)
			if err != nil {
				p.Errorf("'%s', %v", ref, err)

				failed = true

				continue
			}

			p.Successf("record (%s) published", record.ID())
		}

		if failed {
			return errors.New("not all records could be published")
		}

		return nil
	},
}

// collectRefs merges record references given as arguments with those from an
// optional JSON-array input file, validating each one.
func collectRefs(args []string, inputFile string) ([]string, error) {
	refs := append([]string{}, args...)

	if inputFile != "" {
		var fromFile []string
		if err := options.ReadJSONFile(afero.NewOsFs(), inputFile, &fromFile); err != nil {
			return nil, err
		}

		refs = append(refs, fromFile...)
	}

	if len(refs) == 0 {
		return nil, &client.ValidationError{
			Field:  "record-ref",
			Reason: "at least one record reference is required",
		}
	}

	for _, ref := range refs {
		if err := options.ValidateRecordRef(ref); err != nil {
			return nil, err
		}
	}

	return refs, nil
}

func init() {
	flags := publishCmd.Flags()
	flags.StringVar(&publishOpts.DataModel, "data-model", client.DefaultDataModel,
		"data model the records belong to")
	flags.StringVar(&publishOpts.InputFile, "input-file", "",
		"JSON array of record ids to publish")
}
