// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/repohub/repoctl/api/core"
	"github.com/repohub/repoctl/client"
	"github.com/repohub/repoctl/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*client.Client, *server.Server) {
	t.Helper()

	s, err := server.New(client.DefaultDataModels)
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	c, err := client.New(&client.Config{BaseURL: ts.URL})
	require.NoError(t, err)

	t.Cleanup(func() { _ = c.Close() })

	return c, s
}

func TestCountAndListEmpty(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	count, err := c.Count(ctx, "rdm", client.RecordTypeRecord)
	require.NoError(t, err)
	assert.Zero(t, count)

	hits, err := c.List(ctx, "rdm", client.RecordTypeDraft)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestReadSeededRecord(t *testing.T) {
	c, s := newTestClient(t)
	ctx := context.Background()

	pid, err := s.CreateRecord("rdm", core.RecordData{
		"metadata": map[string]any{"title": "Seeded"},
	})
	require.NoError(t, err)

	data, err := c.Read(ctx, "rdm", pid)
	require.NoError(t, err)
	assert.Equal(t, pid, data.ID())
	assert.Equal(t, "Seeded", data.Metadata()["title"])

	count, err := c.Count(ctx, "rdm", client.RecordTypeRecord)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestReadUnknownRecord(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Read(context.Background(), "rdm", "missing-pid")
	require.Error(t, err)
	assert.True(t, client.IsNotFound(err))
}

func TestUnsupportedDataModel(t *testing.T) {
	c, _ := newTestClient(t)

	_, err := c.Read(context.Background(), "geodata", "some-pid")
	require.Error(t, err)
	assert.True(t, client.IsValidation(err))
}

func TestResolveFallsBackToDraft(t *testing.T) {
	c, s := newTestClient(t)
	ctx := context.Background()

	pid, err := s.CreateDraft("rdm", core.RecordData{
		"metadata": map[string]any{"title": "Draft only"},
	})
	require.NoError(t, err)

	data, err := c.Resolve(ctx, "rdm", pid)
	require.NoError(t, err)
	assert.Equal(t, "Draft only", data.Metadata()["title"])

	_, err = c.Resolve(ctx, "rdm", "missing-pid")
	require.Error(t, err)

	var notFound *client.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "record", notFound.Kind)
}

func TestDeletePrefersDraft(t *testing.T) {
	c, s := newTestClient(t)
	ctx := context.Background()

	pid, err := s.CreateRecord("rdm", core.RecordData{})
	require.NoError(t, err)

	_, err = c.Edit(ctx, "rdm", pid)
	require.NoError(t, err)

	kind, err := c.Delete(ctx, "rdm", pid)
	require.NoError(t, err)
	assert.Equal(t, client.RecordTypeDraft, kind)
	assert.False(t, s.HasDraft("rdm", pid))
	assert.True(t, s.HasRecord("rdm", pid), "published record must survive draft deletion")

	// no draft left, so the published record goes
	kind, err = c.Delete(ctx, "rdm", pid)
	require.NoError(t, err)
	assert.Equal(t, client.RecordTypeRecord, kind)
	assert.False(t, s.HasRecord("rdm", pid))

	_, err = c.Delete(ctx, "rdm", pid)
	assert.True(t, client.IsNotFound(err))
}

func TestUpdatePublishesChange(t *testing.T) {
	c, s := newTestClient(t)
	ctx := context.Background()

	pid, err := s.CreateRecord("rdm", core.RecordData{
		"metadata": map[string]any{"title": "Before"},
	})
	require.NoError(t, err)

	old, err := c.Read(ctx, "rdm", pid)
	require.NoError(t, err)

	updated := old.Clone()
	updated.Metadata()["title"] = "After"

	require.NoError(t, c.Update(ctx, "rdm", pid, updated, old))

	data, err := c.Read(ctx, "rdm", pid)
	require.NoError(t, err)
	assert.Equal(t, "After", data.Metadata()["title"])
	assert.False(t, s.HasDraft("rdm", pid), "update must not leave a draft behind")
}

func TestUpdateWithExistingDraftStaysDraft(t *testing.T) {
	c, s := newTestClient(t)
	ctx := context.Background()

	pid, err := s.CreateRecord("rdm", core.RecordData{
		"metadata": map[string]any{"title": "Published"},
	})
	require.NoError(t, err)

	old, err := c.Edit(ctx, "rdm", pid)
	require.NoError(t, err)

	updated := old.Clone()
	updated.Metadata()["title"] = "Pending"

	require.NoError(t, c.Update(ctx, "rdm", pid, updated, old))

	// draft carries the change, the published record does not
	assert.True(t, s.HasDraft("rdm", pid))

	data, err := c.Read(ctx, "rdm", pid)
	require.NoError(t, err)
	assert.Equal(t, "Published", data.Metadata()["title"])

	draft, err := c.ReadDraft(ctx, "rdm", pid)
	require.NoError(t, err)
	assert.Equal(t, "Pending", draft.Metadata()["title"])
}

func TestUpdateRestoresDraftOnPublishFailure(t *testing.T) {
	s, err := server.New(client.DefaultDataModels)
	require.NoError(t, err)

	// platform that can store drafts but fails every publish
	inner := s.Handler()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/draft/actions/publish") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"status":500,"message":"publish unavailable"}`))

			return
		}

		inner.ServeHTTP(w, r)
	}))
	t.Cleanup(ts.Close)

	c, err := client.New(&client.Config{BaseURL: ts.URL})
	require.NoError(t, err)

	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()

	pid, err := s.CreateRecord("rdm", core.RecordData{
		"metadata": map[string]any{"title": "Before"},
	})
	require.NoError(t, err)

	old, err := c.Read(ctx, "rdm", pid)
	require.NoError(t, err)

	updated := old.Clone()
	updated.Metadata()["title"] = "After"

	err = c.Update(ctx, "rdm", pid, updated, old)
	require.Error(t, err)

	var svcErr *client.ServiceError
	assert.ErrorAs(t, err, &svcErr)

	// the draft must hold the previous document again, not the
	// half-applied one
	draft, err := c.ReadDraft(ctx, "rdm", pid)
	require.NoError(t, err)
	assert.Equal(t, "Before", draft.Metadata()["title"])

	data, err := c.Read(ctx, "rdm", pid)
	require.NoError(t, err)
	assert.Equal(t, "Before", data.Metadata()["title"])
}

func TestUpdateDraftStaleRevision(t *testing.T) {
	c, s := newTestClient(t)
	ctx := context.Background()

	pid, err := s.CreateRecord("rdm", core.RecordData{})
	require.NoError(t, err)

	draft, err := c.Edit(ctx, "rdm", pid)
	require.NoError(t, err)

	_, err = c.UpdateDraft(ctx, "rdm", pid, draft)
	require.NoError(t, err)

	// draft still carries the old revision
	_, err = c.UpdateDraft(ctx, "rdm", pid, draft)
	require.Error(t, err)

	var conflict *client.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestIdentifierRoundTrip(t *testing.T) {
	c, s := newTestClient(t)
	ctx := context.Background()

	pid, err := s.CreateRecord("rdm", core.RecordData{
		"metadata": map[string]any{"title": "With identifiers"},
	})
	require.NoError(t, err)

	old, err := c.Read(ctx, "rdm", pid)
	require.NoError(t, err)

	updated := old.Clone()
	updated.SetIdentifiers(append(updated.Identifiers(), core.Identifier{
		Scheme:     "doi",
		Identifier: "10.1/xyz",
	}))

	require.NoError(t, c.Update(ctx, "rdm", pid, updated, old))

	data, err := c.Read(ctx, "rdm", pid)
	require.NoError(t, err)

	ids := data.Identifiers()
	require.Len(t, ids, 1)
	assert.Equal(t, core.Identifier{Scheme: "doi", Identifier: "10.1/xyz"}, ids[0])
}

func TestFilesDisabledLeavesRecordUntouched(t *testing.T) {
	c, s := newTestClient(t)
	ctx := context.Background()

	pid, err := s.CreateRecord("rdm", core.RecordData{
		"files": map[string]any{"enabled": false},
	})
	require.NoError(t, err)

	err = c.AddFile(ctx, "rdm", pid, "data.csv", strings.NewReader("a,b"), false)
	require.Error(t, err)

	var disabled *client.FilesDisabledError
	require.ErrorAs(t, err, &disabled)

	list, err := c.ListFiles(ctx, "rdm", pid)
	require.NoError(t, err)
	assert.False(t, list.Enabled)
	assert.Empty(t, list.Entries)
}

func TestFileLifecycle(t *testing.T) {
	c, s := newTestClient(t)
	ctx := context.Background()

	pid, err := s.CreateRecord("rdm", core.RecordData{
		"files": map[string]any{"enabled": false},
	})
	require.NoError(t, err)

	// enable on add flips the record's files flag
	require.NoError(t, c.AddFile(ctx, "rdm", pid, "data.csv", strings.NewReader("a,b"), true))

	data, err := c.Read(ctx, "rdm", pid)
	require.NoError(t, err)
	assert.True(t, data.FilesEnabled())

	err = c.AddFile(ctx, "rdm", pid, "data.csv", strings.NewReader("c,d"), false)
	require.Error(t, err)

	var conflict *client.ConflictError
	assert.ErrorAs(t, err, &conflict)

	require.NoError(t, c.ReplaceFile(ctx, "rdm", pid, "data.csv", strings.NewReader("c,d,e")))

	err = c.ReplaceFile(ctx, "rdm", pid, "other.csv", strings.NewReader("x"))
	assert.True(t, client.IsNotFound(err))

	list, err := c.ListFiles(ctx, "rdm", pid)
	require.NoError(t, err)
	require.Len(t, list.Entries, 1)
	assert.Equal(t, "data.csv", list.Entries[0].Key)
	assert.Equal(t, int64(5), list.Entries[0].Size)

	require.NoError(t, c.DeleteFile(ctx, "rdm", pid, "data.csv"))

	err = c.DeleteFile(ctx, "rdm", pid, "data.csv")
	assert.True(t, client.IsNotFound(err))
}

func TestListUsers(t *testing.T) {
	c, s := newTestClient(t)

	require.NoError(t, s.CreateUser(core.User{Email: "admin@example.org", Active: true}))

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "admin@example.org", users[0].Email)
	assert.True(t, users[0].Active)
}

func TestDataModelsAcrossPrefixes(t *testing.T) {
	c, s := newTestClient(t)
	ctx := context.Background()

	_, err := s.CreateRecord("rdm", core.RecordData{})
	require.NoError(t, err)

	pid, err := s.CreateRecord("marc21", core.RecordData{})
	require.NoError(t, err)

	count, err := c.Count(ctx, "marc21", client.RecordTypeRecord)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// the rdm prefix must not see marc21 records
	_, err = c.Read(ctx, "rdm", pid)
	assert.True(t, client.IsNotFound(err))

	var errs []error
	for _, tag := range []string{"rdm", "marc21", "lom"} {
		_, err := c.List(ctx, tag, client.RecordTypeRecord)
		errs = append(errs, err)
	}

	assert.NoError(t, errors.Join(errs...))
}
