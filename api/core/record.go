// Copyright Repoctl Contributors
// SPDX-License-Identifier: Apache-2.0

// Package core holds the domain types shared between the CLI, the client
// and the test server: records, drafts, identifiers, PIDs, files and users.
package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Identifier is a (scheme, value) pair kept in a record's metadata.
type Identifier struct {
	Scheme     string `json:"scheme"`
	Identifier string `json:"identifier"`
}

// PID is one persistent-identifier entry of a record's pids object,
// keyed by scheme (e.g. "doi").
type PID struct {
	Identifier string `json:"identifier"`
	Provider   string `json:"provider,omitempty"`
}

// Access is the access policy of a record.
type Access struct {
	Record string `json:"record,omitempty"`
	Files  string `json:"files,omitempty"`
}

// Access policy values accepted by the platform.
const (
	AccessPublic     = "public"
	AccessRestricted = "restricted"
)

// FileEntry describes one file attached to a record or draft.
type FileEntry struct {
	Key      string `json:"key"`
	Size     int64  `json:"size,omitempty"`
	Checksum string `json:"checksum,omitempty"`
}

// RecordData is the raw JSON document of a record or draft. Commands operate
// on the whole document because the platform's update API replaces documents,
// not fields; the typed accessors below cover the pieces the CLI touches.
type RecordData map[string]any

// ID returns the record's pid value, or "" if unset.
func (d RecordData) ID() string {
	id, _ := d["id"].(string)

	return id
}

// Revision returns the record's revision id used for optimistic locking.
func (d RecordData) Revision() int {
	// numbers decode as float64 from JSON
	if f, ok := d["revision_id"].(float64); ok {
		return int(f)
	}

	if i, ok := d["revision_id"].(int); ok {
		return i
	}

	return 0
}

// Clone returns a deep copy of the document. Mutating helpers on the copy
// never touch the original.
func (d RecordData) Clone() RecordData {
	raw, err := json.Marshal(d)
	if err != nil {
		return RecordData{}
	}

	out := RecordData{}
	_ = json.Unmarshal(raw, &out)

	return out
}

// Metadata returns the metadata sub-document, creating it if absent.
func (d RecordData) Metadata() map[string]any {
	if m, ok := d["metadata"].(map[string]any); ok {
		return m
	}

	m := map[string]any{}
	d["metadata"] = m

	return m
}

// Identifiers returns the metadata identifiers of the record.
func (d RecordData) Identifiers() []Identifier {
	raw, ok := d.Metadata()["identifiers"].([]any)
	if !ok {
		return nil
	}

	out := make([]Identifier, 0, len(raw))

	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		scheme, _ := m["scheme"].(string)
		value, _ := m["identifier"].(string)
		out = append(out, Identifier{Scheme: scheme, Identifier: value})
	}

	return out
}

// SetIdentifiers replaces the metadata identifiers of the record.
func (d RecordData) SetIdentifiers(identifiers []Identifier) {
	raw := make([]any, 0, len(identifiers))
	for _, identifier := range identifiers {
		raw = append(raw, map[string]any{
			"scheme":     identifier.Scheme,
			"identifier": identifier.Identifier,
		})
	}

	d.Metadata()["identifiers"] = raw
}

// PIDs returns the persistent identifiers of the record keyed by scheme.
func (d RecordData) PIDs() map[string]PID {
	raw, ok := d["pids"].(map[string]any)
	if !ok {
		return map[string]PID{}
	}

	out := make(map[string]PID, len(raw))

	for scheme, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		value, _ := m["identifier"].(string)
		provider, _ := m["provider"].(string)
		out[scheme] = PID{Identifier: value, Provider: provider}
	}

	return out
}

// SetPID sets the persistent identifier for one scheme.
func (d RecordData) SetPID(scheme string, pid PID) {
	pids, ok := d["pids"].(map[string]any)
	if !ok {
		pids = map[string]any{}
		d["pids"] = pids
	}

	entry := map[string]any{"identifier": pid.Identifier}
	if pid.Provider != "" {
		entry["provider"] = pid.Provider
	}

	pids[scheme] = entry
}

// Access returns the record's access policy.
func (d RecordData) Access() Access {
	raw, ok := d["access"].(map[string]any)
	if !ok {
		return Access{}
	}

	record, _ := raw["record"].(string)
	files, _ := raw["files"].(string)

	return Access{Record: record, Files: files}
}

// SetAccess overrides parts of the record's access policy. Empty arguments
// leave the corresponding part untouched.
func (d RecordData) SetAccess(record, files string) {
	raw, ok := d["access"].(map[string]any)
	if !ok {
		raw = map[string]any{}
		d["access"] = raw
	}

	if record != "" {
		raw["record"] = record
	}

	if files != "" {
		raw["files"] = files
	}
}

// FilesEnabled reports whether file operations are permitted on the record.
func (d RecordData) FilesEnabled() bool {
	raw, ok := d["files"].(map[string]any)
	if !ok {
		return false
	}

	enabled, _ := raw["enabled"].(bool)

	return enabled
}

// SetField sets the value at a dot-separated path inside the document,
// creating intermediate objects as needed. Used by the generic field-patch
// command instead of one bespoke command per field.
func (d RecordData) SetField(path string, value any) error {
	segments := strings.Split(path, ".")

	current := map[string]any(d)

	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			if existing, present := current[segment]; present && existing != nil {
				return fmt.Errorf("field %q is not an object", segment)
			}

			next = map[string]any{}
			current[segment] = next
		}

		current = next
	}

	current[segments[len(segments)-1]] = value

	return nil
}

// GetField returns the value at a dot-separated path, or false if any
// segment is missing.
func (d RecordData) GetField(path string) (any, bool) {
	segments := strings.Split(path, ".")

	var current any = map[string]any(d)

	for _, segment := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// RecordList is one page of a record listing.
type RecordList struct {
	Total int          `json:"total"`
	Hits  []RecordData `json:"hits"`
}
