// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/repohub/repoctl/api/core"
)

// FileList is the files sub-resource of a record.
type FileList struct {
	Enabled bool             `json:"enabled"`
	Entries []core.FileEntry `json:"entries"`
}

// ListFiles returns the files attached to a record reference.
func (c *Client) ListFiles(ctx context.Context, dataModel, pid string) (*FileList, error) {
	prefix, err := c.prefix(dataModel)
	if err != nil {
		return nil, err
	}

	list := &FileList{}
	if err := c.execute(ctx, http.MethodGet, fmt.Sprintf("%s/%s/files", prefix, pid), nil, list); err != nil {
		return nil, wrapStatus(err, "record", pid)
	}

	return list, nil
}

// AddFile attaches new file content under key. The platform rejects the
// call when a file with that key already exists (use ReplaceFile) or when
// files are disabled on the record; enable lifts the latter for
// metadata-only records.
func (c *Client) AddFile(ctx context.Context, dataModel, pid, key string, content io.Reader, enable bool) error {
	prefix, err := c.prefix(dataModel)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("%s/%s/files/%s", prefix, pid, key)
	if enable {
		path += "?enable=1"
	}

	if err := c.execute(ctx, http.MethodPost, path, content, nil); err != nil {
		return wrapStatus(err, "file", key)
	}

	return nil
}

// ReplaceFile swaps the content of an existing file. The platform rejects
// the call when no file with that key exists.
func (c *Client) ReplaceFile(ctx context.Context, dataModel, pid, key string, content io.Reader) error {
	prefix, err := c.prefix(dataModel)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("%s/%s/files/%s", prefix, pid, key)
	if err := c.execute(ctx, http.MethodPut, path, content, nil); err != nil {
		return wrapStatus(err, "file", key)
	}

	return nil
}

// DeleteFile removes the file with the given key.
func (c *Client) DeleteFile(ctx context.Context, dataModel, pid, key string) error {
	prefix, err := c.prefix(dataModel)
	if err != nil {
		return err
	}

	path := fmt.Sprintf("%s/%s/files/%s", prefix, pid, key)
	if err := c.execute(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return wrapStatus(err, "file", key)
	}

	return nil
}
