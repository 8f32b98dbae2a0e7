// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/repohub/repoctl/api/core"
	"gorm.io/gorm"
)

type errorBody struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	ErrorType string `json:"error_type,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, errorType, message string) {
	writeJSON(w, status, errorBody{Status: status, Message: message, ErrorType: errorType})
}

func (s *Server) docOf(row *recordRow) core.RecordData {
	doc := core.RecordData{}
	if err := json.Unmarshal([]byte(row.Document), &doc); err != nil {
		logger.Error("stored document is corrupt", "pid", row.PID, "error", err)
	}

	return doc
}

func (s *Server) saveDoc(row *recordRow, doc core.RecordData) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err //nolint:wrapcheck
	}

	row.Document = string(raw)
	row.Revision = doc.Revision()

	return s.db.Save(row).Error //nolint:wrapcheck
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request, dataModel string) {
	isDraft := r.URL.Query().Get("type") == "draft"

	var rows []recordRow

	err := s.db.
		Where("data_model = ? AND is_draft = ? AND is_deleted = ?", dataModel, isDraft, false).
		Order("id").
		Find(&rows).Error
	if err != nil {
		writeError(w, http.StatusInternalServerError, "", err.Error())

		return
	}

	list := core.RecordList{Total: len(rows), Hits: []core.RecordData{}}

	if r.URL.Query().Get("size") != "0" {
		for i := range rows {
			list.Hits = append(list.Hits, s.docOf(&rows[i]))
		}
	}

	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleRead(w http.ResponseWriter, r *http.Request, dataModel string) {
	pid := mux.Vars(r)["pid"]

	row, err := s.findRecord(dataModel, pid, false)
	if err != nil {
		writeError(w, http.StatusNotFound, "", "record does not exist")

		return
	}

	writeJSON(w, http.StatusOK, s.docOf(row))
}

func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request, dataModel string) {
	pid := mux.Vars(r)["pid"]

	row, err := s.findRecord(dataModel, pid, false)
	if err != nil {
		writeError(w, http.StatusNotFound, "", "record does not exist")

		return
	}

	// soft delete, the platform keeps tombstones
	row.IsDeleted = true
	if err := s.db.Save(row).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateDraft(w http.ResponseWriter, r *http.Request, dataModel string) {
	pid := mux.Vars(r)["pid"]

	if row, err := s.findRecord(dataModel, pid, true); err == nil {
		writeJSON(w, http.StatusCreated, s.docOf(row))

		return
	}

	// a draft can only be derived from an existing published record
	record, err := s.findRecord(dataModel, pid, false)
	if err != nil {
		writeError(w, http.StatusNotFound, "", "record does not exist")

		return
	}

	draft := recordRow{
		PID:       pid,
		DataModel: dataModel,
		IsDraft:   true,
		Revision:  record.Revision,
		Document:  record.Document,
	}
	if err := s.db.Create(&draft).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, s.docOf(&draft))
}

func (s *Server) handleReadDraft(w http.ResponseWriter, r *http.Request, dataModel string) {
	pid := mux.Vars(r)["pid"]

	row, err := s.findRecord(dataModel, pid, true)
	if err != nil {
		writeError(w, http.StatusNotFound, "", "draft does not exist")

		return
	}

	writeJSON(w, http.StatusOK, s.docOf(row))
}

func (s *Server) handleUpdateDraft(w http.ResponseWriter, r *http.Request, dataModel string) {
	pid := mux.Vars(r)["pid"]

	row, err := s.findRecord(dataModel, pid, true)
	if err != nil {
		writeError(w, http.StatusNotFound, "", "draft does not exist")

		return
	}

	doc := core.RecordData{}
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "", "malformed document")

		return
	}

	// optimistic locking: a stale revision means someone else changed the
	// draft since it was read
	if doc.Revision() != 0 && doc.Revision() != row.Revision {
		writeError(w, http.StatusConflict, "", "revision mismatch")

		return
	}

	doc["id"] = pid
	doc["revision_id"] = row.Revision + 1

	if err := s.saveDoc(row, doc); err != nil {
		writeError(w, http.StatusInternalServerError, "", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDraft(w http.ResponseWriter, r *http.Request, dataModel string) {
	pid := mux.Vars(r)["pid"]

	row, err := s.findRecord(dataModel, pid, true)
	if err != nil {
		writeError(w, http.StatusNotFound, "", "draft does not exist")

		return
	}

	if err := s.db.Delete(row).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request, dataModel string) {
	pid := mux.Vars(r)["pid"]

	draft, err := s.findRecord(dataModel, pid, true)
	if err != nil {
		writeError(w, http.StatusNotFound, "", "draft does not exist")

		return
	}

	doc := s.docOf(draft)

	record, err := s.findRecord(dataModel, pid, false)
	if err == nil {
		doc["revision_id"] = record.Revision + 1
		if err := s.saveDoc(record, doc); err != nil {
			writeError(w, http.StatusInternalServerError, "", err.Error())

			return
		}
	} else { // draft without a published record: first publication
		row := recordRow{
			PID:       pid,
			DataModel: dataModel,
			IsDraft:   false,
			Revision:  doc.Revision(),
			Document:  draft.Document,
		}
		if err := s.db.Create(&row).Error; err != nil {
			writeError(w, http.StatusInternalServerError, "", err.Error())

			return
		}
	}

	if err := s.db.Delete(draft).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "", err.Error())

		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

// resolveDoc finds the document carrying the files-enabled flag: the
// published record wins, the draft is the fallback.
func (s *Server) resolveDoc(dataModel, pid string) (*recordRow, core.RecordData, bool) {
	row, err := s.findRecord(dataModel, pid, false)
	if err != nil {
		row, err = s.findRecord(dataModel, pid, true)
		if err != nil {
			return nil, nil, false
		}
	}

	return row, s.docOf(row), true
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request, dataModel string) {
	pid := mux.Vars(r)["pid"]

	_, doc, ok := s.resolveDoc(dataModel, pid)
	if !ok {
		writeError(w, http.StatusNotFound, "", "record does not exist")

		return
	}

	var rows []fileRow
	if err := s.db.Where("pid = ? AND data_model = ?", pid, dataModel).Order("key").Find(&rows).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "", err.Error())

		return
	}

	entries := make([]core.FileEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, core.FileEntry{Key: row.Key, Size: int64(len(row.Content))})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"enabled": doc.FilesEnabled(),
		"entries": entries,
	})
}

func (s *Server) handleAddFile(w http.ResponseWriter, r *http.Request, dataModel string) {
	pid := mux.Vars(r)["pid"]
	key := mux.Vars(r)["key"]

	row, doc, ok := s.resolveDoc(dataModel, pid)
	if !ok {
		writeError(w, http.StatusNotFound, "", "record does not exist")

		return
	}

	enable := r.URL.Query().Get("enable") == "1"
	if !doc.FilesEnabled() && !enable {
		writeError(w, http.StatusForbidden, "files_disabled", "files are disabled on this record")

		return
	}

	var existing fileRow
	if err := s.db.Where("pid = ? AND data_model = ? AND key = ?", pid, dataModel, key).
		First(&existing).Error; err == nil {
		writeError(w, http.StatusConflict, "", "file already exists, use replace")

		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		writeError(w, http.StatusInternalServerError, "", err.Error())

		return
	}

	content, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "", "failed to read content")

		return
	}

	file := fileRow{PID: pid, DataModel: dataModel, Key: key, Content: content}
	if err := s.db.Create(&file).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "", err.Error())

		return
	}

	if !doc.FilesEnabled() && enable {
		if err := doc.SetField("files.enabled", true); err == nil {
			if err := s.saveDoc(row, doc); err != nil {
				writeError(w, http.StatusInternalServerError, "", err.Error())

				return
			}
		}
	}

	w.WriteHeader(http.StatusCreated)
}

func (s *Server) handleReplaceFile(w http.ResponseWriter, r *http.Request, dataModel string) {
	pid := mux.Vars(r)["pid"]
	key := mux.Vars(r)["key"]

	_, doc, ok := s.resolveDoc(dataModel, pid)
	if !ok {
		writeError(w, http.StatusNotFound, "", "record does not exist")

		return
	}

	if !doc.FilesEnabled() {
		writeError(w, http.StatusForbidden, "files_disabled", "files are disabled on this record")

		return
	}

	var file fileRow
	if err := s.db.Where("pid = ? AND data_model = ? AND key = ?", pid, dataModel, key).
		First(&file).Error; err != nil {
		writeError(w, http.StatusNotFound, "", "file does not exist, use add")

		return
	}

	content, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "", "failed to read content")

		return
	}

	file.Content = content
	if err := s.db.Save(&file).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "", err.Error())

		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request, dataModel string) {
	pid := mux.Vars(r)["pid"]
	key := mux.Vars(r)["key"]

	_, doc, ok := s.resolveDoc(dataModel, pid)
	if !ok {
		writeError(w, http.StatusNotFound, "", "record does not exist")

		return
	}

	if !doc.FilesEnabled() {
		writeError(w, http.StatusForbidden, "files_disabled", "files are disabled on this record")

		return
	}

	var file fileRow
	if err := s.db.Where("pid = ? AND data_model = ? AND key = ?", pid, dataModel, key).
		First(&file).Error; err != nil {
		writeError(w, http.StatusNotFound, "", "file does not exist")

		return
	}

	if err := s.db.Delete(&file).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "", err.Error())

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListUsers(w http.ResponseWriter, _ *http.Request) {
	var rows []userRow
	if err := s.db.Order("id").Find(&rows).Error; err != nil {
		writeError(w, http.StatusInternalServerError, "", err.Error())

		return
	}

	list := core.UserList{Total: len(rows), Hits: []core.User{}}
	for _, row := range rows {
		list.Hits = append(list.Hits, core.User{
			ID:          int(row.ID),
			Email:       row.Email,
			Active:      row.Active,
			ConfirmedAt: row.ConfirmedAt,
		})
	}

	writeJSON(w, http.StatusOK, list)
}
