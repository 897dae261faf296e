package diagnostics

import (
	"context"

	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// InputLoader assembles the full diagnostics input bundle for a business.
// Implementations live in the infrastructure layer; only the profile is
// required and every other section may come back absent.
type InputLoader interface {
	LoadInput(ctx context.Context, businessID string) (*dg.Input, error)
}

// RunRepository stores and retrieves immutable diagnosis runs.
type RunRepository interface {
	// Save persists a new run.  Runs are append-only; saving a run with an
	// existing ID is an error.
	Save(ctx context.Context, run *Run) error

	// Latest returns the most recent run for a business, or a not-found
	// error when none exists.
	Latest(ctx context.Context, businessID string) (*Run, error)

	// Get returns a run by its ID.
	Get(ctx context.Context, runID string) (*Run, error)

	// ListByBusiness returns runs for a business, newest first.
	ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]*Run, error)
}

//Personal.AI order the ending
