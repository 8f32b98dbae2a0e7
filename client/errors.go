// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"errors"
	"fmt"
)

// The client never leaks raw transport or platform errors: every failure is
// wrapped into exactly one of the kinds below before it reaches a command.

// ValidationError reports malformed CLI input. It is raised before any
// service call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}

	return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Reason)
}

// NotFoundError reports that a record, draft, identifier or file does not
// exist on the platform.
type NotFoundError struct {
	Kind string // "record", "draft", "identifier", "pid", "file"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q does not exist or is deleted", e.Kind, e.ID)
}

// FilesDisabledError reports a file operation attempted on a record whose
// files-enabled flag is off. No mutation has been performed.
type FilesDisabledError struct {
	ID string
}

func (e *FilesDisabledError) Error() string {
	return fmt.Sprintf("files are disabled on record %q", e.ID)
}

// ConflictError reports a state conflict surfaced by the platform, typically
// optimistic-locking failure on a concurrent draft update. The CLI surfaces
// it instead of retrying.
type ConflictError struct {
	ID     string
	Detail string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting change on record %q: %s", e.ID, e.Detail)
}

// ServiceError wraps any other failure of the platform or the transport.
type ServiceError struct {
	Status int
	Detail string
}

func (e *ServiceError) Error() string {
	if e.Status == 0 {
		return "service failure: " + e.Detail
	}

	return fmt.Sprintf("service failure (status %d): %s", e.Status, e.Detail)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError

	return errors.As(err, &notFound)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var validation *ValidationError

	return errors.As(err, &validation)
}
