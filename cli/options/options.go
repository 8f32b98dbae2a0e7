// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

// Package options validates raw CLI arguments into typed values. All checks
// happen before any service call; every failure is a client.ValidationError.
package options

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/repohub/repoctl/api/core"
	"github.com/repohub/repoctl/client"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// wrapArgs turns cobra's positional-argument failures into validation
// errors so they hit the validation exit code, not the service one.
func wrapArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &client.ValidationError{Reason: err.Error()}
		}

		return nil
	}
}

// NoArgs rejects positional arguments.
var NoArgs = wrapArgs(cobra.NoArgs)

// ExactArgs requires exactly n positional arguments.
func ExactArgs(n int) cobra.PositionalArgs {
	return wrapArgs(cobra.ExactArgs(n))
}

// MinimumNArgs requires at least n positional arguments.
func MinimumNArgs(n int) cobra.PositionalArgs {
	return wrapArgs(cobra.MinimumNArgs(n))
}

// ValidateDataModel checks tag membership in the configured data-model set.
func ValidateDataModel(cfg *client.Config, tag string) error {
	if _, ok := cfg.DataModels[tag]; !ok {
		return &client.ValidationError{
			Field: "data-model",
			Reason: fmt.Sprintf("%q is not supported, expected one of: %s",
				tag, strings.Join(cfg.SupportedDataModels(), ", ")),
		}
	}

	return nil
}

// ValidateRecordRef checks the syntax of a record reference.
func ValidateRecordRef(ref string) error {
	if ref == "" {
		return &client.ValidationError{Field: "record-ref", Reason: "must not be empty"}
	}

	if strings.ContainsAny(ref, " \t\n/") {
		return &client.ValidationError{
			Field:  "record-ref",
			Reason: fmt.Sprintf("%q contains whitespace or slashes", ref),
		}
	}

	return nil
}

// ValidateRecordType checks the record-type choice.
func ValidateRecordType(recordType string) error {
	if recordType != client.RecordTypeRecord && recordType != client.RecordTypeDraft {
		return &client.ValidationError{
			Field:  "record-type",
			Reason: fmt.Sprintf("%q is not one of: record, draft", recordType),
		}
	}

	return nil
}

// ValidateAccess checks an access policy choice; empty means "leave as is".
func ValidateAccess(field, value string) error {
	if value == "" || value == core.AccessPublic || value == core.AccessRestricted {
		return nil
	}

	return &client.ValidationError{
		Field:  field,
		Reason: fmt.Sprintf("%q is not one of: public, restricted", value),
	}
}

// ParseIdentifier builds an identifier either from an inline JSON document
// (which must carry the scheme and identifier keys) or from the scheme and
// value flag pair.
func ParseIdentifier(rawJSON, scheme, value string) (core.Identifier, error) {
	if rawJSON != "" {
		parsed := map[string]string{}
		if err := json.Unmarshal([]byte(rawJSON), &parsed); err != nil {
			return core.Identifier{}, &client.ValidationError{
				Field:  "identifier",
				Reason: "invalid JSON: " + err.Error(),
			}
		}

		for _, key := range []string{"scheme", "identifier"} {
			if parsed[key] == "" {
				return core.Identifier{}, &client.ValidationError{
					Field:  "identifier",
					Reason: fmt.Sprintf("missing required key %q", key),
				}
			}
		}

		return core.Identifier{Scheme: parsed["scheme"], Identifier: parsed["identifier"]}, nil
	}

	if scheme == "" || value == "" {
		return core.Identifier{}, &client.ValidationError{
			Field:  "identifier",
			Reason: "either --identifier JSON or both --scheme and --value are required",
		}
	}

	return core.Identifier{Scheme: scheme, Identifier: value}, nil
}

// ParseJSONValue decodes the JSON value of a field patch.
func ParseJSONValue(raw string) (any, error) {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		return nil, &client.ValidationError{
			Field:  "value",
			Reason: "invalid JSON: " + err.Error(),
		}
	}

	return value, nil
}

// ValidateFieldPath checks the dot-separated path of a field patch.
func ValidateFieldPath(path string) error {
	if path == "" {
		return &client.ValidationError{Field: "field", Reason: "must not be empty"}
	}

	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			return &client.ValidationError{
				Field:  "field",
				Reason: fmt.Sprintf("%q contains an empty path segment", path),
			}
		}
	}

	return nil
}

// ReadJSONFile checks that path exists and decodes its JSON content.
func ReadJSONFile(fs afero.Fs, path string, out any) error {
	exists, err := afero.Exists(fs, path)
	if err != nil || !exists {
		return &client.ValidationError{
			Field:  "input-file",
			Reason: fmt.Sprintf("%q does not exist", path),
		}
	}

	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return &client.ValidationError{
			Field:  "input-file",
			Reason: "cannot read file: " + err.Error(),
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &client.ValidationError{
			Field:  "input-file",
			Reason: "invalid JSON: " + err.Error(),
		}
	}

	return nil
}

// OpenContentFile checks that path exists and opens it for reading.
func OpenContentFile(fs afero.Fs, path string) (afero.File, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil || !exists {
		return nil, &client.ValidationError{
			Field:  "path",
			Reason: fmt.Sprintf("%q does not exist", path),
		}
	}

	file, err := fs.Open(path)
	if err != nil {
		return nil, &client.ValidationError{
			Field:  "path",
			Reason: "cannot open file: " + err.Error(),
		}
	}

	return file, nil
}
