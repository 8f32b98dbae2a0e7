// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

package server

// recordRow stores one record or draft document. A pid can have at most one
// published row and one draft row per data model.
type recordRow struct {
	ID        uint   `gorm:"primaryKey"`
	PID       string `gorm:"column:pid;uniqueIndex:idx_record"`
	DataModel string `gorm:"uniqueIndex:idx_record"`
	IsDraft   bool   `gorm:"uniqueIndex:idx_record"`
	IsDeleted bool
	Revision  int
	Document  string
}

// fileRow stores the content of one file attachment. Files are shared
// between a record and its draft, matching the platform's bucket model.
type fileRow struct {
	ID        uint   `gorm:"primaryKey"`
	PID       string `gorm:"column:pid;uniqueIndex:idx_file"`
	DataModel string `gorm:"uniqueIndex:idx_file"`
	Key       string `gorm:"uniqueIndex:idx_file"`
	Content   []byte
}

// userRow stores one registered account.
type userRow struct {
	ID          uint `gorm:"primaryKey"`
	Email       string
	Active      bool
	ConfirmedAt string
}
