package diagnostics

import (
	"time"

	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// RunStatusCompleted is the status carried by every persisted run.  Failed
// diagnoses are never persisted, so no other status value exists today; the
// field is stored explicitly so the record stays self-describing if that
// changes.
const RunStatusCompleted = "completed"

// Run is the persisted record of one diagnosis invocation.  A run is
// immutable after creation: when the inputs change, a new run supersedes the
// old one; nothing is ever edited in place.
type Run struct {
	ID         string     `json:"id" db:"id"`
	BusinessID string     `json:"business_id" db:"business_id"`
	InputHash  string     `json:"input_hash" db:"input_hash"`
	Status     string     `json:"status" db:"status"`
	Output     *dg.Output `json:"output" db:"output"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// NewRun assembles the persistence-ready record for one invocation.
func NewRun(id string, in *dg.Input, out *dg.Output) *Run {
	return &Run{
		ID:         id,
		BusinessID: in.Profile.ID,
		InputHash:  InputHash(in),
		Status:     RunStatusCompleted,
		Output:     out,
		CreatedAt:  in.AsOf,
	}
}

// Fresh reports whether the run still reflects the given input bundle.
func (r *Run) Fresh(in *dg.Input) bool {
	return r != nil && r.InputHash == InputHash(in)
}

//Personal.AI order the ending
