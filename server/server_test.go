// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/repohub/repoctl/api/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testModels = map[string]string{
	"rdm":    "/api/records",
	"marc21": "/api/marc21/records",
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	s, err := New(testModels)
	require.NoError(t, err)

	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	return s, ts
}

func doRequest(t *testing.T, method, url string, body []byte) (*http.Response, core.RecordData) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	doc := core.RecordData{}
	raw, _ := io.ReadAll(resp.Body)

	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &doc)
	}

	return resp, doc
}

func seedRecord(t *testing.T, s *Server, dataModel string, doc core.RecordData) string {
	t.Helper()

	pid, err := s.CreateRecord(dataModel, doc)
	require.NoError(t, err)

	return pid
}

func TestReadRecord(t *testing.T) {
	s, ts := newTestServer(t)

	pid := seedRecord(t, s, "rdm", core.RecordData{
		"metadata": map[string]any{"title": "A record"},
	})

	resp, doc := doRequest(t, http.MethodGet, ts.URL+"/api/records/"+pid, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, pid, doc.ID())

	resp, _ = doRequest(t, http.MethodGet, ts.URL+"/api/records/nope", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDraftLifecycle(t *testing.T) {
	s, ts := newTestServer(t)

	pid := seedRecord(t, s, "rdm", core.RecordData{
		"metadata": map[string]any{"title": "Original"},
	})

	// edit: derive a draft from the published record
	resp, draft := doRequest(t, http.MethodPost, ts.URL+"/api/records/"+pid+"/draft", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 1, draft.Revision())
	assert.True(t, s.HasDraft("rdm", pid))

	// update the draft
	draft.Metadata()["title"] = "Changed"
	body, err := json.Marshal(draft)
	require.NoError(t, err)

	resp, updated := doRequest(t, http.MethodPut, ts.URL+"/api/records/"+pid+"/draft", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, updated.Revision())

	// a stale revision is a conflict
	resp, _ = doRequest(t, http.MethodPut, ts.URL+"/api/records/"+pid+"/draft", body)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// publish moves the draft document into the published record
	resp, _ = doRequest(t, http.MethodPost, ts.URL+"/api/records/"+pid+"/draft/actions/publish", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.False(t, s.HasDraft("rdm", pid))

	resp, published := doRequest(t, http.MethodGet, ts.URL+"/api/records/"+pid, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Changed", published.Metadata()["title"])
}

func TestCreateDraftRequiresRecord(t *testing.T) {
	_, ts := newTestServer(t)

	resp, _ := doRequest(t, http.MethodPost, ts.URL+"/api/records/ghost/draft", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPublishStandaloneDraft(t *testing.T) {
	s, ts := newTestServer(t)

	pid, err := s.CreateDraft("rdm", core.RecordData{
		"metadata": map[string]any{"title": "Fresh"},
	})
	require.NoError(t, err)

	resp, _ := doRequest(t, http.MethodPost, ts.URL+"/api/records/"+pid+"/draft/actions/publish", nil)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	assert.True(t, s.HasRecord("rdm", pid))
	assert.False(t, s.HasDraft("rdm", pid))
}

func TestListFiltersByTypeAndModel(t *testing.T) {
	s, ts := newTestServer(t)

	seedRecord(t, s, "rdm", core.RecordData{})
	seedRecord(t, s, "rdm", core.RecordData{})
	seedRecord(t, s, "marc21", core.RecordData{})

	_, err := s.CreateDraft("rdm", core.RecordData{})
	require.NoError(t, err)

	var list core.RecordList

	resp, err := http.Get(ts.URL + "/api/records?type=record")
	require.NoError(t, err)

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	assert.Equal(t, 2, list.Total)
	assert.Len(t, list.Hits, 2)

	resp, err = http.Get(ts.URL + "/api/records?type=draft")
	require.NoError(t, err)

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	assert.Equal(t, 1, list.Total)

	resp, err = http.Get(ts.URL + "/api/marc21/records?type=record&size=0")
	require.NoError(t, err)

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	assert.Equal(t, 1, list.Total)
	assert.Empty(t, list.Hits)
}

func TestSoftDeleteHidesRecord(t *testing.T) {
	s, ts := newTestServer(t)

	pid := seedRecord(t, s, "rdm", core.RecordData{})

	resp, _ := doRequest(t, http.MethodDelete, ts.URL+"/api/records/"+pid, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doRequest(t, http.MethodGet, ts.URL+"/api/records/"+pid, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFilesGatedByEnabledFlag(t *testing.T) {
	s, ts := newTestServer(t)

	pid := seedRecord(t, s, "rdm", core.RecordData{
		"files": map[string]any{"enabled": false},
	})

	fileURL := ts.URL + "/api/records/" + pid + "/files/data.csv"

	// disabled: no mutation allowed
	resp, _ := doRequest(t, http.MethodPost, fileURL, []byte("a,b"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// enable on add, as for metadata-only records
	resp, _ = doRequest(t, http.MethodPost, fileURL+"?enable=1", []byte("a,b"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, record := doRequest(t, http.MethodGet, ts.URL+"/api/records/"+pid, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, record.FilesEnabled())

	// add is not replace
	resp, _ = doRequest(t, http.MethodPost, fileURL, []byte("c,d"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = doRequest(t, http.MethodPut, fileURL, []byte("c,d"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// replace needs an existing key
	resp, _ = doRequest(t, http.MethodPut, ts.URL+"/api/records/"+pid+"/files/other.csv", []byte("x"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, http.MethodDelete, fileURL, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doRequest(t, http.MethodDelete, fileURL, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListUsers(t *testing.T) {
	s, ts := newTestServer(t)

	require.NoError(t, s.CreateUser(core.User{Email: "admin@example.org", Active: true}))
	require.NoError(t, s.CreateUser(core.User{Email: "guest@example.org"}))

	resp, err := http.Get(ts.URL + "/api/users")
	require.NoError(t, err)

	defer resp.Body.Close()

	var list core.UserList
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Equal(t, 2, list.Total)
	assert.Equal(t, "admin@example.org", list.Hits[0].Email)
	assert.True(t, list.Hits[0].Active)
}
