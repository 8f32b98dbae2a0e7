// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

// Package clictx carries the shared client and configuration through the
// cobra command context.
package clictx

import (
	"context"
	"errors"

	"github.com/repohub/repoctl/client"
)

type clientKey struct{}

type configKey struct{}

// WithClient stores the client in the context.
func WithClient(ctx context.Context, c *client.Client) context.Context {
	return context.WithValue(ctx, clientKey{}, c)
}

// GetClientFromContext returns the client stored by WithClient.
func GetClientFromContext(ctx context.Context) (*client.Client, bool) {
	c, ok := ctx.Value(clientKey{}).(*client.Client)

	return c, ok
}

// WithConfig stores the configuration in the context.
func WithConfig(ctx context.Context, cfg *client.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// GetConfigFromContext returns the configuration stored by WithConfig.
func GetConfigFromContext(ctx context.Context) (*client.Config, bool) {
	cfg, ok := ctx.Value(configKey{}).(*client.Config)

	return cfg, ok
}

// Require returns the client and configuration or fails when the root
// command did not set them up.
func Require(ctx context.Context) (*client.Client, *client.Config, error) {
	c, ok := GetClientFromContext(ctx)
	if !ok {
		return nil, nil, errors.New("failed to get client from context")
	}

	cfg, ok := GetConfigFromContext(ctx)
	if !ok {
		return nil, nil, errors.New("failed to get config from context")
	}

	return c, cfg, nil
}
