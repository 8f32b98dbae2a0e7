// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

// Package server is an embeddable stand-in for the repository platform. It
// implements the slice of the records, drafts, files and users API the CLI
// uses, backed by an in-memory sqlite database. Integration tests run the
// client against it; it is not a product storage engine.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/repohub/repoctl/api/core"
	"github.com/repohub/repoctl/utils/logging"
	"gorm.io/gorm"
)

var logger = logging.Logger("server")

// Server holds the routing table and the backing database.
type Server struct {
	db         *gorm.DB
	router     *mux.Router
	dataModels map[string]string
}

// New creates a server exposing the given data models (tag to API prefix).
// Every server gets its own private in-memory database.
func New(dataModels map[string]string) (*Server, error) {
	// a unique name keeps parallel test servers from sharing state
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&recordRow{}, &fileRow{}, &userRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	s := &Server{
		db:         db,
		router:     mux.NewRouter(),
		dataModels: dataModels,
	}

	s.routes()

	return s, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	for dataModel, prefix := range s.dataModels {
		sub := s.router.PathPrefix(prefix).Subrouter()

		// closure binds the data model of this prefix
		model := dataModel

		sub.HandleFunc("", s.withModel(model, s.handleList)).Methods(http.MethodGet)
		sub.HandleFunc("/{pid}", s.withModel(model, s.handleRead)).Methods(http.MethodGet)
		sub.HandleFunc("/{pid}", s.withModel(model, s.handleDeleteRecord)).Methods(http.MethodDelete)
		sub.HandleFunc("/{pid}/draft", s.withModel(model, s.handleCreateDraft)).Methods(http.MethodPost)
		sub.HandleFunc("/{pid}/draft", s.withModel(model, s.handleReadDraft)).Methods(http.MethodGet)
		sub.HandleFunc("/{pid}/draft", s.withModel(model, s.handleUpdateDraft)).Methods(http.MethodPut)
		sub.HandleFunc("/{pid}/draft", s.withModel(model, s.handleDeleteDraft)).Methods(http.MethodDelete)
		sub.HandleFunc("/{pid}/draft/actions/publish", s.withModel(model, s.handlePublish)).Methods(http.MethodPost)
		sub.HandleFunc("/{pid}/files", s.withModel(model, s.handleListFiles)).Methods(http.MethodGet)
		sub.HandleFunc("/{pid}/files/{key}", s.withModel(model, s.handleAddFile)).Methods(http.MethodPost)
		sub.HandleFunc("/{pid}/files/{key}", s.withModel(model, s.handleReplaceFile)).Methods(http.MethodPut)
		sub.HandleFunc("/{pid}/files/{key}", s.withModel(model, s.handleDeleteFile)).Methods(http.MethodDelete)
	}

	s.router.HandleFunc("/api/users", s.handleListUsers).Methods(http.MethodGet)
}

type modelHandler func(w http.ResponseWriter, r *http.Request, dataModel string)

func (s *Server) withModel(dataModel string, h modelHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h(w, r, dataModel)
	}
}

// CreateRecord seeds a published record and returns its pid. A pid is
// minted when the document does not carry one.
func (s *Server) CreateRecord(dataModel string, doc core.RecordData) (string, error) {
	pid := doc.ID()
	if pid == "" {
		pid = uuid.NewString()[:11]
		doc["id"] = pid
	}

	if _, ok := doc["revision_id"]; !ok {
		doc["revision_id"] = 1
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	row := recordRow{
		PID:       pid,
		DataModel: dataModel,
		IsDraft:   false,
		Revision:  doc.Revision(),
		Document:  string(raw),
	}
	if err := s.db.Create(&row).Error; err != nil {
		return "", fmt.Errorf("failed to store record: %w", err)
	}

	return pid, nil
}

// CreateDraft seeds an unpublished draft and returns its pid.
func (s *Server) CreateDraft(dataModel string, doc core.RecordData) (string, error) {
	pid := doc.ID()
	if pid == "" {
		pid = uuid.NewString()[:11]
		doc["id"] = pid
	}

	if _, ok := doc["revision_id"]; !ok {
		doc["revision_id"] = 1
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	row := recordRow{
		PID:       pid,
		DataModel: dataModel,
		IsDraft:   true,
		Revision:  doc.Revision(),
		Document:  string(raw),
	}
	if err := s.db.Create(&row).Error; err != nil {
		return "", fmt.Errorf("failed to store draft: %w", err)
	}

	return pid, nil
}

// CreateUser seeds a registered account.
func (s *Server) CreateUser(user core.User) error {
	row := userRow{
		Email:       user.Email,
		Active:      user.Active,
		ConfirmedAt: user.ConfirmedAt,
	}
	if err := s.db.Create(&row).Error; err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}

	return nil
}

// HasDraft reports whether an undeleted draft exists, for test assertions.
func (s *Server) HasDraft(dataModel, pid string) bool {
	_, err := s.findRecord(dataModel, pid, true)

	return err == nil
}

// HasRecord reports whether an undeleted published record exists.
func (s *Server) HasRecord(dataModel, pid string) bool {
	_, err := s.findRecord(dataModel, pid, false)

	return err == nil
}

func (s *Server) findRecord(dataModel, pid string, isDraft bool) (*recordRow, error) {
	row := &recordRow{}

	err := s.db.
		Where("pid = ? AND data_model = ? AND is_draft = ? AND is_deleted = ?",
			pid, dataModel, isDraft, false).
		First(row).Error
	if err != nil {
		return nil, fmt.Errorf("record lookup failed: %w", err)
	}

	return row, nil
}
