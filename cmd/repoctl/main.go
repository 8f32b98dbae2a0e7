// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/repohub/repoctl/cli"
	"github.com/repohub/repoctl/client"
)

var version = "dev"

// Exit codes: 0 success, 1 validation failure, 2 service failure.
const (
	exitValidation = 1
	exitService    = 2
)

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		if client.IsValidation(err) {
			os.Exit(exitValidation)
		}

		os.Exit(exitService)
	}
}
