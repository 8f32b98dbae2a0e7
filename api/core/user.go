// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package core

// User is a registered account of the repository platform.
type User struct {
	ID          int    `json:"id"`
	Email       string `json:"email"`
	Active      bool   `json:"active"`
	ConfirmedAt string `json:"confirmed_at,omitempty"`
}

// UserList is one page of a user listing.
type UserList struct {
	Total int    `json:"total"`
	Hits  []User `json:"hits"`
}
