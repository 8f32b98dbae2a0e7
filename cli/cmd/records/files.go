// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package records

import (
	"path/filepath"
	"strconv"

	"github.com/repohub/repoctl/cli/options"
	"github.com/repohub/repoctl/cli/presenter"
	"github.com/repohub/repoctl/cli/util/clictx"
	"github.com/repohub/repoctl/client"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var fileOpts struct {
	DataModel   string
	Key         string
	Path        string
	EnableFiles bool
	OutputFile  string
}

var addFileCmd = &cobra.Command{
	Use:   "add-file <record-ref>",
	Short: "Add a new file to a record",
	Long: `Add a new file to a record. Fails when a file with the same key
already exists (use replace-file) or when files are disabled on the record;
--enable-files lifts the latter for metadata-only records.
`,
	Args: options.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cfg, err := clictx.Require(cmd.Context())
		if err != nil {
			return err
		}

		ref, key, err := validateFileArgs(cfg, args[0], true)
		if err != nil {
			return err
		}

		content, err := options.OpenContentFile(afero.NewOsFs(), fileOpts.Path)
		if err != nil {
			return err
		}
		defer content.Close()

		if err := c.AddFile(cmd.Context(), fileOpts.DataModel, ref, key, content, fileOpts.EnableFiles); err != nil {
			return err
		}

		p := presenter.New(cmd.OutOrStdout(), presenter.WithColor(!cfg.NoColor))
		p.Successf("File added successfully.")

		return nil
	},
}

var replaceFileCmd = &cobra.Command{
	Use:   "replace-file <record-ref>",
	Short: "Replace the content of an existing file",
	Args:  options.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cfg, err := clictx.Require(cmd.Context())
		if err != nil {
			return err
		}

		ref, key, err := validateFileArgs(cfg, args[0], true)
		if err != nil {
			return err
		}

		content, err := options.OpenContentFile(afero.NewOsFs(), fileOpts.Path)
		if err != nil {
			return err
		}
		defer content.Close()

		if err := c.ReplaceFile(cmd.Context(), fileOpts.DataModel, ref, key, content); err != nil {
			return err
		}

		p := presenter.New(cmd.OutOrStdout(), presenter.WithColor(!cfg.NoColor))
		p.Successf("File replaced successfully.")

		return nil
	},
}

var deleteFileCmd = &cobra.Command{
	Use:   "delete-file <record-ref>",
	Short: "Delete a file from a record",
	Args:  options.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cfg, err := clictx.Require(cmd.Context())
		if err != nil {
			return err
		}

		ref, key, err := validateFileArgs(cfg, args[0], false)
		if err != nil {
			return err
		}

		if key == "" {
			return &client.ValidationError{Field: "key", Reason: "must not be empty"}
		}

		if err := c.DeleteFile(cmd.Context(), fileOpts.DataModel, ref, key); err != nil {
			return err
		}

		p := presenter.New(cmd.OutOrStdout(), presenter.WithColor(!cfg.NoColor))
		p.Successf("File deleted successfully.")

		return nil
	},
}

var listFilesCmd = &cobra.Command{
	Use:   "list-files <record-ref>",
	Short: "List the files attached to a record",
	Args:  options.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, cfg, err := clictx.Require(cmd.Context())
		if err != nil {
			return err
		}

		if err := options.ValidateDataModel(cfg, fileOpts.DataModel); err != nil {
			return err
		}

		if err := options.ValidateRecordRef(args[0]); err != nil {
			return err
		}

		list, err := c.ListFiles(cmd.Context(), fileOpts.DataModel, args[0])
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(list.Entries))
		for _, entry := range list.Entries {
			rows = append(rows, []string{entry.Key, strconv.FormatInt(entry.Size, 10)})
		}

		p := presenter.New(cmd.OutOrStdout(), presenter.WithColor(!cfg.NoColor))

		return p.Table([]string{"key", "size"}, rows, fileOpts.OutputFile)
	},
}

// validateFileArgs checks the shared file-command inputs and derives the
// file key from the content path when no explicit key is given.
func validateFileArgs(cfg *client.Config, ref string, needsPath bool) (string, string, error) {
	if err := options.ValidateDataModel(cfg, fileOpts.DataModel); err != nil {
		return "", "", err
	}

	if err := options.ValidateRecordRef(ref); err != nil {
		return "", "", err
	}

	if needsPath && fileOpts.Path == "" {
		return "", "", &client.ValidationError{Field: "path", Reason: "must not be empty"}
	}

	key := fileOpts.Key
	if key == "" && fileOpts.Path != "" {
		key = filepath.Base(fileOpts.Path)
	}

	return ref, key, nil
}

func init() {
	for _, cmd := range []*cobra.Command{addFileCmd, replaceFileCmd, deleteFileCmd, listFilesCmd} {
		cmd.Flags().StringVar(&fileOpts.DataModel, "data-model", client.DefaultDataModel,
			"data model the record belongs to")
		cmd.Flags().StringVar(&fileOpts.Key, "key", "",
			"file key, defaults to the base name of --path")
	}

	addFileCmd.Flags().StringVar(&fileOpts.Path, "path", "", "file to upload")
	addFileCmd.Flags().BoolVar(&fileOpts.EnableFiles, "enable-files", false,
		"enable files on a metadata-only record before adding")
	replaceFileCmd.Flags().StringVar(&fileOpts.Path, "path", "", "file to upload")
	listFilesCmd.Flags().StringVar(&fileOpts.OutputFile, "output-file", "",
		"write the table to this file instead of stdout")
}
