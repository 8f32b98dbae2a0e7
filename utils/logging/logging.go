// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

// Package logging provides named component loggers for the CLI, the client
// and the test server. Log level is controlled via REPOCTL_LOG_LEVEL
// (debug, info, warn, error); default is warn so command output stays clean.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	once    sync.Once
	handler slog.Handler
)

// Logger returns a logger tagged with the given component name.
func Logger(name string) *slog.Logger {
	once.Do(func() {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: levelFromEnv(),
		})
	})

	return slog.New(handler).With("component", name)
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("REPOCTL_LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
