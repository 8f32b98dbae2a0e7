// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/repohub/repoctl/api/core"
)

// RecordTypeRecord and RecordTypeDraft select which entity kind listing
// commands operate on.
const (
	RecordTypeRecord = "record"
	RecordTypeDraft  = "draft"
)

// Read fetches the published record with the given pid.
func (c *Client) Read(ctx context.Context, dataModel, pid string) (core.RecordData, error) {
	prefix, err := c.prefix(dataModel)
	if err != nil {
		return nil, err
	}

	data := core.RecordData{}
	if err := c.execute(ctx, http.MethodGet, fmt.Sprintf("%s/%s", prefix, pid), nil, &data); err != nil {
		return nil, wrapStatus(err, "record", pid)
	}

	return data, nil
}

// ReadDraft fetches the draft of the record with the given pid.
func (c *Client) ReadDraft(ctx context.Context, dataModel, pid string) (core.RecordData, error) {
	prefix, err := c.prefix(dataModel)
	if err != nil {
		return nil, err
	}

	data := core.RecordData{}
	if err := c.execute(ctx, http.MethodGet, fmt.Sprintf("%s/%s/draft", prefix, pid), nil, &data); err != nil {
		return nil, wrapStatus(err, "draft", pid)
	}

	return data, nil
}

// Resolve fetches a record reference for read-type operations: the published
// record wins, the draft is the fallback. The reverse rule for delete-type
// operations lives in Delete.
func (c *Client) Resolve(ctx context.Context, dataModel, pid string) (core.RecordData, error) {
	data, err := c.Read(ctx, dataModel, pid)
	if err == nil {
		return data, nil
	}

	if !IsNotFound(err) {
		return nil, err
	}

	data, err = c.ReadDraft(ctx, dataModel, pid)
	if err != nil {
		if IsNotFound(err) {
			return nil, &NotFoundError{Kind: "record", ID: pid}
		}

		return nil, err
	}

	return data, nil
}

// Exists reports whether a published record with the given pid exists.
func (c *Client) Exists(ctx context.Context, dataModel, pid string) (bool, error) {
	_, err := c.Read(ctx, dataModel, pid)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// ExistsDraft reports whether a draft with the given pid exists.
func (c *Client) ExistsDraft(ctx context.Context, dataModel, pid string) (bool, error) {
	_, err := c.ReadDraft(ctx, dataModel, pid)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

// Edit creates an editable draft from the published record.
func (c *Client) Edit(ctx context.Context, dataModel, pid string) (core.RecordData, error) {
	prefix, err := c.prefix(dataModel)
	if err != nil {
		return nil, err
	}

	data := core.RecordData{}
	if err := c.execute(ctx, http.MethodPost, fmt.Sprintf("%s/%s/draft", prefix, pid), nil, &data); err != nil {
		return nil, wrapStatus(err, "record", pid)
	}

	return data, nil
}

// UpdateDraft replaces the draft document. The platform checks the
// revision_id inside data for optimistic locking and reports a conflict on
// mismatch.
func (c *Client) UpdateDraft(ctx context.Context, dataModel, pid string, data core.RecordData) (core.RecordData, error) {
	prefix, err := c.prefix(dataModel)
	if err != nil {
		return nil, err
	}

	updated := core.RecordData{}
	if err := c.execute(ctx, http.MethodPut, fmt.Sprintf("%s/%s/draft", prefix, pid), data, &updated); err != nil {
		return nil, wrapStatus(err, "draft", pid)
	}

	return updated, nil
}

// Publish publishes the draft of the given record.
func (c *Client) Publish(ctx context.Context, dataModel, pid string) (core.RecordData, error) {
	prefix, err := c.prefix(dataModel)
	if err != nil {
		return nil, err
	}

	data := core.RecordData{}

	path := fmt.Sprintf("%s/%s/draft/actions/publish", prefix, pid)
	if err := c.execute(ctx, http.MethodPost, path, nil, &data); err != nil {
		return nil, wrapStatus(err, "draft", pid)
	}

	return data, nil
}

// DeleteDraft removes the draft, leaving any published record untouched.
func (c *Client) DeleteDraft(ctx context.Context, dataModel, pid string) error {
	prefix, err := c.prefix(dataModel)
	if err != nil {
		return err
	}

	if err := c.execute(ctx, http.MethodDelete, fmt.Sprintf("%s/%s/draft", prefix, pid), nil, nil); err != nil {
		return wrapStatus(err, "draft", pid)
	}

	return nil
}

// DeleteRecord soft-deletes the published record.
func (c *Client) DeleteRecord(ctx context.Context, dataModel, pid string) error {
	prefix, err := c.prefix(dataModel)
	if err != nil {
		return err
	}

	if err := c.execute(ctx, http.MethodDelete, fmt.Sprintf("%s/%s", prefix, pid), nil, nil); err != nil {
		return wrapStatus(err, "record", pid)
	}

	return nil
}

// Delete removes a record reference with the draft-first rule: if a draft
// exists it is deleted and the published record stays untouched, otherwise
// the published record is deleted. Never errors merely because both exist.
// Returns the kind of entity that was removed.
func (c *Client) Delete(ctx context.Context, dataModel, pid string) (string, error) {
	hasDraft, err := c.ExistsDraft(ctx, dataModel, pid)
	if err != nil {
		return "", err
	}

	if hasDraft {
		if err := c.DeleteDraft(ctx, dataModel, pid); err != nil {
			return "", err
		}

		return RecordTypeDraft, nil
	}

	if err := c.DeleteRecord(ctx, dataModel, pid); err != nil {
		if IsNotFound(err) {
			return "", &NotFoundError{Kind: "record", ID: pid}
		}

		return "", err
	}

	return RecordTypeRecord, nil
}

// List returns all non-deleted records or drafts of one data model.
func (c *Client) List(ctx context.Context, dataModel, recordType string) ([]core.RecordData, error) {
	prefix, err := c.prefix(dataModel)
	if err != nil {
		return nil, err
	}

	list := core.RecordList{}

	path := fmt.Sprintf("%s?type=%s", prefix, recordType)
	if err := c.execute(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, wrapStatus(err, "record", "")
	}

	return list.Hits, nil
}

// Count returns the number of non-deleted records or drafts of one data
// model.
func (c *Client) Count(ctx context.Context, dataModel, recordType string) (int, error) {
	prefix, err := c.prefix(dataModel)
	if err != nil {
		return 0, err
	}

	list := core.RecordList{}

	path := fmt.Sprintf("%s?type=%s&size=0", prefix, recordType)
	if err := c.execute(ctx, http.MethodGet, path, nil, &list); err != nil {
		return 0, wrapStatus(err, "record", "")
	}

	return list.Total, nil
}

// Update replaces a record's document while keeping it published. When no
// draft exists yet, one is created and published again after the update; if
// anything fails in between, the previous document is written back.
// When a draft already exists, only the draft is updated, mirroring the
// edit flow an operator would otherwise complete by hand.
func (c *Client) Update(ctx context.Context, dataModel, pid string, newData, oldData core.RecordData) error {
	hasDraft, err := c.ExistsDraft(ctx, dataModel, pid)
	if err != nil {
		return err
	}

	if !hasDraft {
		if _, err := c.Edit(ctx, dataModel, pid); err != nil {
			return err
		}
	}

	if _, err := c.UpdateDraft(ctx, dataModel, pid, newData); err != nil {
		return err
	}

	if !hasDraft {
		if _, err := c.Publish(ctx, dataModel, pid); err != nil {
			// restore the previous document so the draft does not linger
			// with half-applied data; the draft revision was bumped by the
			// update above, so the restore payload must not carry the old
			// revision or the optimistic lock rejects it
			restore := oldData.Clone()
			delete(restore, "revision_id")

			if _, restoreErr := c.UpdateDraft(ctx, dataModel, pid, restore); restoreErr != nil {
				logger.Error("failed to restore record after publish failure",
					"pid", pid, "error", restoreErr)
			}

			return err
		}
	}

	return nil
}
