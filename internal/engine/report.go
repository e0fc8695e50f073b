// internal/engine/report.go
package engine

import (
	"fmt"

	"github.com/Annany2002/nebula-canvas/internal/command"
)

// Status is the result of applying one command.
type Status string

const (
	StatusApplied Status = "applied"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome records what happened to the command at Index.
type Outcome struct {
	Index  int        `json:"index"`
	Op     command.Op `json:"op"`
	Status Status     `json:"status"`
	Reason string     `json:"reason,omitempty"`
}

// Report lists one Outcome per input command, in input order.
type Report struct {
	Outcomes []Outcome `json:"outcomes"`
}

func (r Report) count(s Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

func (r Report) Applied() int { return r.count(StatusApplied) }
func (r Report) Skipped() int { return r.count(StatusSkipped) }
func (r Report) Failed() int  { return r.count(StatusFailed) }

// Summary renders a short human-readable line such as "9 of 10 changes applied".
func (r Report) Summary() string {
	return fmt.Sprintf("%d of %d changes applied", r.Applied(), len(r.Outcomes))
}
