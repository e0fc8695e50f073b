// internal/domain/models.go
package domain

import (
	"time"

	"github.com/Annany2002/nebula-canvas/internal/design"
	"github.com/Annany2002/nebula-canvas/internal/history"
)

// User maps a display name to the stable id every record is keyed by.
type User struct {
	UserID      string
	DisplayName string
	CreatedAt   time.Time
}

// SchemaRecord is the persisted state of one user's dashboard.
type SchemaRecord struct {
	Schema       design.Design   `json:"schema"`
	History      []design.Design `json:"history"`
	HistoryIndex int             `json:"historyIndex"`
	UpdatedAt    time.Time       `json:"-"`
}

// NewSchemaRecord seeds a record whose history holds only d.
func NewSchemaRecord(d design.Design) *SchemaRecord {
	return &SchemaRecord{
		Schema:       d,
		History:      []design.Design{d.Clone()},
		HistoryIndex: history.Latest,
	}
}

// Buffer exposes the record's history as a history.Buffer capped at limit.
func (r *SchemaRecord) Buffer(limit int) *history.Buffer {
	b := history.NewBuffer(limit)
	b.Entries = append(b.Entries, r.History...)
	b.Cursor = r.HistoryIndex
	return b
}

// SetBuffer copies the buffer state back into the record and points Schema
// at the snapshot under the cursor.
func (r *SchemaRecord) SetBuffer(b *history.Buffer) {
	r.History = b.Entries
	r.HistoryIndex = b.Cursor
	if len(b.Entries) > 0 {
		r.Schema = b.At()
	}
}
