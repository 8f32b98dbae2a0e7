// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

// Package client is the service adapter of the CLI: it executes repository
// operations against the platform's REST API and normalizes responses and
// failures into the command-facing types and error taxonomy.
package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/repohub/repoctl/utils/logging"
	"resty.dev/v3"
)

var logger = logging.Logger("client")

// Client talks to one repository deployment. It is safe for sequential use
// within a single invocation; the CLI creates one per run.
type Client struct {
	config *Config
	http   *resty.Client
}

// New creates a client from the given configuration.
func New(config *Config) (*Client, error) {
	if config == nil {
		config = &Config{}
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}

	if len(config.DataModels) == 0 {
		config.DataModels = DefaultDataModels
	}

	httpClient := resty.New().
		SetBaseURL(config.BaseURL).
		SetHeader("User-Agent", "repoctl").
		SetTimeout(config.Timeout)

	if config.Token != "" {
		httpClient.SetAuthToken(config.Token)
	}

	return &Client{
		config: config,
		http:   httpClient,
	}, nil
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.http.Close() //nolint:wrapcheck
}

// Config returns the configuration the client was built with.
func (c *Client) Config() *Config {
	return c.config
}

// prefix resolves a data-model tag to its API prefix. Selection is a strict
// lookup against the configured set, never a guess.
func (c *Client) prefix(dataModel string) (string, error) {
	prefix, ok := c.config.DataModels[dataModel]
	if !ok {
		return "", &ValidationError{
			Field:  "data-model",
			Reason: fmt.Sprintf("%q is not one of the supported data models", dataModel),
		}
	}

	return prefix, nil
}

// apiError is the error document returned by the platform API.
type apiError struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	ErrorType string `json:"error_type,omitempty"`
}

// statusError carries a non-2xx response until the calling operation wraps
// it with the record context it has at hand.
type statusError struct {
	status    int
	errorType string
	message   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.status, e.message)
}

// execute performs one request and decodes a successful response into out.
// Non-2xx responses come back as *statusError.
func (c *Client) execute(ctx context.Context, method, path string, body, out any) error {
	request := c.http.R().
		SetContext(ctx).
		SetError(&apiError{})

	if body != nil {
		request.SetBody(body)
	}

	if out != nil {
		request.SetResult(out)
	}

	logger.Debug("calling platform API", "method", method, "path", path)

	response, err := request.Execute(method, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	if response.IsError() {
		serviceErr := &statusError{status: response.StatusCode()}
		if payload, ok := response.Error().(*apiError); ok {
			serviceErr.errorType = payload.ErrorType
			serviceErr.message = payload.Message
		}

		return serviceErr
	}

	return nil
}

// wrapStatus converts a transport-level failure into the error taxonomy,
// attaching the entity kind and id the operation was working on.
func wrapStatus(err error, kind, id string) error {
	var status *statusError
	if !errors.As(err, &status) {
		return &ServiceError{Detail: err.Error()}
	}

	switch {
	case status.status == 404:
		return &NotFoundError{Kind: kind, ID: id}
	case status.status == 409:
		return &ConflictError{ID: id, Detail: status.message}
	case status.status == 403 && status.errorType == "files_disabled":
		return &FilesDisabledError{ID: id}
	default:
		return &ServiceError{Status: status.status, Detail: status.message}
	}
}
