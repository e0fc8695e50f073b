package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Annany2002/nebula-canvas/internal/design"
	"github.com/Annany2002/nebula-canvas/internal/history"
)

func TestTrimHistory(t *testing.T) {
	snaps := func(n int) []design.Design {
		out := make([]design.Design, n)
		for i := range out {
			out[i] = design.Default()
			out[i].Layout.Order = []string{string(rune('a' + i))}
		}
		return out
	}

	tests := []struct {
		name       string
		entries    int
		cursor     int
		limit      int
		wantLen    int
		wantCursor int
		wantFirst  string
	}{
		{"within limit", 3, 1, 5, 3, 1, "a"},
		{"latest stays latest", 6, history.Latest, 4, 4, history.Latest, "c"},
		{"cursor shifts", 6, 4, 4, 4, 2, "c"},
		{"trimmed cursor clamps to oldest", 6, 0, 4, 4, 0, "c"},
		{"out of range cursor", 3, 7, 5, 3, history.Latest, "a"},
		{"zero limit uses default", 12, history.Latest, 0, history.DefaultCap, history.Latest, "c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cursor := trimHistory(snaps(tt.entries), tt.cursor, tt.limit)
			assert.Len(t, got, tt.wantLen)
			assert.Equal(t, tt.wantCursor, cursor)
			assert.Equal(t, tt.wantFirst, got[0].Layout.Order[0])
		})
	}
}

func TestCommandEnvelope(t *testing.T) {
	assert.JSONEq(t, `{"commands":[{"op":"apply_preset","value":"uber"}]}`,
		string(commandEnvelope([]byte(`[{"op":"apply_preset","value":"uber"}]`))))
}
