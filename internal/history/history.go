// internal/history/history.go
package history

import (
	"errors"

	"github.com/Annany2002/nebula-canvas/internal/design"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultCap is the number of snapshots kept when no cap is configured.
const DefaultCap = 10

// Latest is the cursor value meaning "no undo in progress".
const Latest = -1

// Append returns a new slice holding h followed by snap, keeping only the
// most recent limit entries. h itself is never modified. A limit below one
// falls back to DefaultCap.
func Append(h []design.Design, snap design.Design, limit int) []design.Design {
	if limit < 1 {
		limit = DefaultCap
	}
	start := 0
	if over := len(h) + 1 - limit; over > 0 {
		start = over
	}
	out := make([]design.Design, 0, len(h)-start+1)
	out = append(out, h[start:]...)
	return append(out, snap)
}

// CanUndo reports whether an older snapshot is reachable from cursor.
func CanUndo(cursor, length int) bool {
	return cursor > 0 || (cursor == Latest && length > 1)
}

// CanRedo reports whether a newer snapshot is reachable from cursor.
func CanRedo(cursor, length int) bool {
	return cursor >= 0 && cursor < length-1
}

// Undo moves cursor one step towards older snapshots. From Latest it lands
// on length-2, since the last entry is the design currently shown.
func Undo(cursor, length int) (int, bool) {
	if !CanUndo(cursor, length) {
		return cursor, false
	}
	if cursor == Latest {
		return length - 2, true
	}
	return cursor - 1, true
}

// Redo moves cursor one step towards the latest snapshot. Arriving at the
// last entry returns Latest.
func Redo(cursor, length int) (int, bool) {
	if !CanRedo(cursor, length) {
		return cursor, false
	}
	next := cursor + 1
	if next == length-1 {
		return Latest, true
	}
	return next, true
}

// Current returns the snapshot the cursor points at, or latest when the
// cursor is Latest or out of range.
func Current(h []design.Design, cursor int, latest design.Design) design.Design {
	if cursor == Latest || cursor < 0 || cursor >= len(h) {
		return latest
	}
	return h[cursor]
}

// Buffer bundles a snapshot log with its cursor, as persisted per user.
type Buffer struct {
	Entries []design.Design
	Cursor  int
	Cap     int
}

// NewBuffer returns an empty buffer positioned at Latest.
func NewBuffer(limit int) *Buffer {
	return &Buffer{Entries: []design.Design{}, Cursor: Latest, Cap: limit}
}

// Push records a newly committed design. Committing while viewing a past
// snapshot discards the undo position.
func (b *Buffer) Push(snap design.Design) {
	b.Entries = Append(b.Entries, snap, b.Cap)
	b.Cursor = Latest
}

// Undo steps back and returns the snapshot now in view.
func (b *Buffer) Undo() (design.Design, bool) {
	next, ok := Undo(b.Cursor, len(b.Entries))
	if !ok {
		return design.Design{}, false
	}
	b.Cursor = next
	return b.At(), true
}

// Redo steps forward and returns the snapshot now in view.
func (b *Buffer) Redo() (design.Design, bool) {
	next, ok := Redo(b.Cursor, len(b.Entries))
	if !ok {
		return design.Design{}, false
	}
	b.Cursor = next
	return b.At(), true
}

// At returns the snapshot in view: the entry under the cursor, or the newest
// entry when the cursor is Latest.
func (b *Buffer) At() design.Design {
	if len(b.Entries) == 0 {
		return design.Design{}
	}
	return Current(b.Entries, b.Cursor, b.Entries[len(b.Entries)-1])
}

func (b *Buffer) CanUndo() bool { return CanUndo(b.Cursor, len(b.Entries)) }
func (b *Buffer) CanRedo() bool { return CanRedo(b.Cursor, len(b.Entries)) }
