// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package cli_test

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/repohub/repoctl/api/core"
	"github.com/repohub/repoctl/cli"
	"github.com/repohub/repoctl/client"
	"github.com/repohub/repoctl/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupPlatform starts an in-process platform and points the CLI at it via
// the environment, the way an operator would configure repoctl.
func setupPlatform(t *testing.T) *server.Server {
	t.Helper()

	s, err := server.New(client.DefaultDataModels)
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	t.Setenv("REPOCTL_BASE_URL", ts.URL)
	t.Setenv("REPOCTL_NO_COLOR", "true")

	return s
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}

	root := cli.New("test")
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)

	err := root.Execute()

	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	setupPlatform(t)

	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "repoctl test\n", out)
}

func TestRecordsCount(t *testing.T) {
	s := setupPlatform(t)

	out, err := runCommand(t, "records", "count")
	require.NoError(t, err)
	assert.Contains(t, out, "0 records")

	_, seedErr := s.CreateRecord("rdm", core.RecordData{})
	require.NoError(t, seedErr)

	out, err = runCommand(t, "records", "count")
	require.NoError(t, err)
	assert.Contains(t, out, "1 records")
}

func TestRecordsListEmptyIsSilent(t *testing.T) {
	setupPlatform(t)

	out, err := runCommand(t, "records", "list")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRecordsCountRejectsUnknownDataModel(t *testing.T) {
	setupPlatform(t)

	_, err := runCommand(t, "records", "count", "--data-model", "geodata")
	require.Error(t, err)
	assert.True(t, client.IsValidation(err))
}

func TestUnknownFlagIsValidationError(t *testing.T) {
	setupPlatform(t)

	_, err := runCommand(t, "records", "count", "--no-such-flag")
	require.Error(t, err)
	assert.True(t, client.IsValidation(err))
}

func TestWrongArgumentCountIsValidationError(t *testing.T) {
	setupPlatform(t)

	_, err := runCommand(t, "records", "delete")
	require.Error(t, err)
	assert.True(t, client.IsValidation(err))

	_, err = runCommand(t, "records", "count", "unexpected")
	require.Error(t, err)
	assert.True(t, client.IsValidation(err))
}

func TestPidsAddRequiresValue(t *testing.T) {
	s := setupPlatform(t)

	pid, err := s.CreateRecord("rdm", core.RecordData{})
	require.NoError(t, err)

	_, err = runCommand(t, "records", "pids", "add", pid, "--scheme", "doi", "--value", "")
	require.Error(t, err)
	assert.True(t, client.IsValidation(err))
}

func TestIdentifiersAddThenList(t *testing.T) {
	s := setupPlatform(t)

	pid, err := s.CreateRecord("rdm", core.RecordData{
		"metadata": map[string]any{"title": "A record"},
	})
	require.NoError(t, err)

	out, err := runCommand(t, "records", "identifiers", "add", pid,
		"--scheme", "doi", "--value", "10.1/xyz")
	require.NoError(t, err)
	assert.Contains(t, out, "added")

	out, err = runCommand(t, "records", "identifiers", "list", pid)
	require.NoError(t, err)
	assert.Contains(t, out, "doi")
	assert.Contains(t, out, "10.1/xyz")

	// adding the same scheme again must not overwrite
	_, err = runCommand(t, "records", "identifiers", "add", pid,
		"--scheme", "doi", "--value", "10.1/other")
	require.Error(t, err)

	var conflict *client.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestIdentifiersListEmptyIsSilent(t *testing.T) {
	s := setupPlatform(t)

	pid, err := s.CreateRecord("rdm", core.RecordData{})
	require.NoError(t, err)

	out, err := runCommand(t, "records", "identifiers", "list", pid)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestPidsAddThenList(t *testing.T) {
	s := setupPlatform(t)

	pid, err := s.CreateRecord("rdm", core.RecordData{})
	require.NoError(t, err)

	_, err = runCommand(t, "records", "pids", "add", pid,
		"--scheme", "doi", "--value", "10.1/abc")
	require.NoError(t, err)

	out, err := runCommand(t, "records", "pids", "list", pid)
	require.NoError(t, err)
	assert.Contains(t, out, "doi")
	assert.Contains(t, out, "10.1/abc")
	assert.Contains(t, out, "unmanaged")
}

func TestPublishWithoutDraftFails(t *testing.T) {
	s := setupPlatform(t)

	pid, err := s.CreateRecord("rdm", core.RecordData{})
	require.NoError(t, err)

	out, err := runCommand(t, "records", "publish", pid)
	require.Error(t, err, "publishing without a draft must fail")
	assert.Contains(t, out, pid)
}

func TestRecordsDelete(t *testing.T) {
	s := setupPlatform(t)

	pid, err := s.CreateRecord("rdm", core.RecordData{})
	require.NoError(t, err)

	out, err := runCommand(t, "records", "delete", pid)
	require.NoError(t, err)
	assert.Contains(t, out, "soft-deleted")
	assert.False(t, s.HasRecord("rdm", pid))
}

func TestPublishSeededDraft(t *testing.T) {
	s := setupPlatform(t)

	pid, err := s.CreateDraft("rdm", core.RecordData{
		"metadata": map[string]any{"title": "Fresh"},
	})
	require.NoError(t, err)

	out, err := runCommand(t, "records", "publish", pid)
	require.NoError(t, err)
	assert.Contains(t, out, "published")
	assert.True(t, s.HasRecord("rdm", pid))
	assert.False(t, s.HasDraft("rdm", pid))
}

func TestUsersList(t *testing.T) {
	s := setupPlatform(t)

	require.NoError(t, s.CreateUser(core.User{Email: "admin@example.org", Active: true}))

	out, err := runCommand(t, "users", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "admin@example.org")
	assert.Contains(t, out, "YES")
}

func TestUsersListEmptyIsSilent(t *testing.T) {
	setupPlatform(t)

	out, err := runCommand(t, "users", "list")
	require.NoError(t, err)
	assert.Empty(t, out)
}
