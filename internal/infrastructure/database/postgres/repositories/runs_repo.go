package repositories

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/turtacn/SME-Diagnostics/internal/domain/diagnostics"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/database/postgres"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SME-Diagnostics/pkg/errors"
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

const (
	defaultRunPageSize = 20
	maxRunPageSize     = 100
)

// RunRepository persists diagnosis runs in the diagnosis_runs table.  The full
// output document is stored as a JSONB column so historical runs replay
// exactly as generated, independent of later rule-set changes.
type RunRepository struct {
	db  queryExecutor
	log logging.Logger
}

var _ diagnostics.RunRepository = (*RunRepository)(nil)

// NewRunRepository creates a RunRepository on the given connection.
func NewRunRepository(conn *postgres.Connection, log logging.Logger) *RunRepository {
	return &RunRepository{
		db:  conn.DB(),
		log: log.Named("run_repo"),
	}
}

// Save inserts a new run.  Runs are append-only: inserting an ID that already
// exists fails with a conflict rather than overwriting history.
func (r *RunRepository) Save(ctx context.Context, run *diagnostics.Run) error {
	if run == nil || run.ID == "" {
		return errors.InvalidParam("run and run ID are required")
	}

	payload, err := json.Marshal(run.Output)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode diagnosis output")
	}

	status := run.Status
	if status == "" {
		status = diagnostics.RunStatusCompleted
	}

	const query = `
		INSERT INTO diagnosis_runs (id, business_id, input_hash, status, output, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query,
		run.ID, run.BusinessID, run.InputHash, status, payload, run.CreatedAt)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeRunPersistFailed, "failed to insert diagnosis run")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to read insert result")
	}
	if affected == 0 {
		return errors.New(errors.ErrCodeRunAlreadyExists, "diagnosis run already exists").
			WithDetail(run.ID)
	}

	r.log.Debug("Saved diagnosis run",
		logging.String("run_id", run.ID),
		logging.String("business_id", run.BusinessID),
		logging.String("input_hash", run.InputHash),
	)
	return nil
}

// Latest returns the most recent run for a business.
func (r *RunRepository) Latest(ctx context.Context, businessID string) (*diagnostics.Run, error) {
	const query = `
		SELECT id, business_id, input_hash, status, output, created_at
		FROM diagnosis_runs
		WHERE business_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, businessID))
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeRunNotFound, "no diagnosis runs for business").
			WithDetail(businessID)
	}
	return run, err
}

// Get returns a run by its ID.
func (r *RunRepository) Get(ctx context.Context, runID string) (*diagnostics.Run, error) {
	const query = `
		SELECT id, business_id, input_hash, status, output, created_at
		FROM diagnosis_runs
		WHERE id = $1`

	run, err := scanRun(r.db.QueryRowContext(ctx, query, runID))
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeRunNotFound, "diagnosis run not found").
			WithDetail(runID)
	}
	return run, err
}

// ListByBusiness returns runs for a business, newest first.
func (r *RunRepository) ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]*diagnostics.Run, error) {
	if limit <= 0 {
		limit = defaultRunPageSize
	}
	if limit > maxRunPageSize {
		limit = maxRunPageSize
	}
	if offset < 0 {
		offset = 0
	}

	const query = `
		SELECT id, business_id, input_hash, status, output, created_at
		FROM diagnosis_runs
		WHERE business_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, businessID, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list diagnosis runs")
	}
	defer rows.Close()

	runs := []*diagnostics.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate diagnosis runs")
	}
	return runs, nil
}

// scanRun hydrates one run row, decoding the JSONB output payload.
func scanRun(s scanner) (*diagnostics.Run, error) {
	run := &diagnostics.Run{}
	var payload []byte
	err := s.Scan(&run.ID, &run.BusinessID, &run.InputHash, &run.Status, &payload, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan diagnosis run row")
	}

	out := &dg.Output{}
	if err := json.Unmarshal(payload, out); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode diagnosis output payload")
	}
	run.Output = out
	return run, nil
}

//Personal.AI order the ending
