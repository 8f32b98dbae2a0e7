// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"net/http"

	"github.com/repohub/repoctl/api/core"
)

// ListUsers returns the registered users of the platform.
func (c *Client) ListUsers(ctx context.Context) ([]core.User, error) {
	list := core.UserList{}
	if err := c.execute(ctx, http.MethodGet, "/api/users", nil, &list); err != nil {
		return nil, wrapStatus(err, "user", "")
	}

	return list.Hits, nil
}
