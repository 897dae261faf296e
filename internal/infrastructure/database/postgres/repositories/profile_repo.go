package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/turtacn/SME-Diagnostics/internal/domain/diagnostics"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/database/postgres"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SME-Diagnostics/pkg/errors"
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// ProfileRepository assembles the full diagnostics input bundle from the
// business_profiles, financial_snapshots, documents, platform_behavior, and
// sector_benchmarks tables.  Profiles and financial snapshots are
// semi-structured, so both are stored as JSONB payloads keyed by business ID;
// the remaining tables use plain columns.
//
// Only the profile row is required.  Every other section loads best-effort:
// a missing row yields a nil/empty section, never an error.
type ProfileRepository struct {
	db  queryExecutor
	log logging.Logger

	// now supplies the diagnosis reference time; overridable in tests.
	now func() time.Time
}

var _ diagnostics.InputLoader = (*ProfileRepository)(nil)

// NewProfileRepository creates a ProfileRepository on the given connection.
func NewProfileRepository(conn *postgres.Connection, log logging.Logger) *ProfileRepository {
	return &ProfileRepository{
		db:  conn.DB(),
		log: log.Named("profile_repo"),
		now: time.Now,
	}
}

// LoadInput loads the complete input bundle for one business.
func (r *ProfileRepository) LoadInput(ctx context.Context, businessID string) (*dg.Input, error) {
	profile, err := r.loadProfile(ctx, businessID)
	if err != nil {
		return nil, err
	}

	in := &dg.Input{
		Profile: *profile,
		AsOf:    r.now().UTC(),
	}

	if in.Financial, err = r.loadFinancial(ctx, businessID); err != nil {
		return nil, err
	}
	if in.Documents, err = r.loadDocuments(ctx, businessID); err != nil {
		return nil, err
	}
	if in.Behavior, err = r.loadBehavior(ctx, businessID); err != nil {
		return nil, err
	}
	if profile.Sector != "" {
		if in.Benchmark, err = r.loadBenchmark(ctx, profile.Sector); err != nil {
			return nil, err
		}
	}

	r.log.Debug("Loaded diagnostics input bundle",
		logging.String("business_id", businessID),
		logging.Bool("has_financial", in.Financial != nil),
		logging.Int("documents", len(in.Documents)),
		logging.Bool("has_behavior", in.Behavior != nil),
		logging.Bool("has_benchmark", in.Benchmark != nil),
	)

	return in, nil
}

func (r *ProfileRepository) loadProfile(ctx context.Context, businessID string) (*dg.BusinessProfile, error) {
	const query = `
		SELECT data, last_modified
		FROM business_profiles
		WHERE id = $1`

	var (
		raw          []byte
		lastModified time.Time
	)
	err := r.db.QueryRowContext(ctx, query, businessID).Scan(&raw, &lastModified)
	if err == sql.ErrNoRows {
		return nil, errors.New(errors.ErrCodeProfileNotFound, "business profile not found").
			WithDetail(businessID)
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load business profile")
	}

	profile := &dg.BusinessProfile{}
	if err := json.Unmarshal(raw, profile); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode business profile payload")
	}
	profile.ID = businessID
	profile.LastModified = lastModified
	return profile, nil
}

func (r *ProfileRepository) loadFinancial(ctx context.Context, businessID string) (*dg.FinancialSnapshot, error) {
	const query = `
		SELECT data, last_modified
		FROM financial_snapshots
		WHERE business_id = $1`

	var (
		raw          []byte
		lastModified time.Time
	)
	err := r.db.QueryRowContext(ctx, query, businessID).Scan(&raw, &lastModified)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load financial snapshot")
	}

	fin := &dg.FinancialSnapshot{}
	if err := json.Unmarshal(raw, fin); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode financial snapshot payload")
	}
	fin.BusinessID = businessID
	fin.LastModified = lastModified
	return fin, nil
}

func (r *ProfileRepository) loadDocuments(ctx context.Context, businessID string) ([]dg.DocumentRecord, error) {
	const query = `
		SELECT id, doc_type, expires_at, uploaded_at
		FROM documents
		WHERE business_id = $1
		ORDER BY uploaded_at, id`

	rows, err := r.db.QueryContext(ctx, query, businessID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load documents")
	}
	defer rows.Close()

	var docs []dg.DocumentRecord
	for rows.Next() {
		doc := dg.DocumentRecord{BusinessID: businessID}
		var expiresAt sql.NullTime
		if err := rows.Scan(&doc.ID, &doc.Type, &expiresAt, &doc.UploadedAt); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan document row")
		}
		if expiresAt.Valid {
			t := expiresAt.Time
			doc.ExpiresAt = &t
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate document rows")
	}
	return docs, nil
}

func (r *ProfileRepository) loadBehavior(ctx context.Context, businessID string) (*dg.PlatformBehavior, error) {
	const query = `
		SELECT logins_per_month, avg_response_hours, profile_completion_pct, last_modified
		FROM platform_behavior
		WHERE business_id = $1`

	beh := &dg.PlatformBehavior{BusinessID: businessID}
	err := r.db.QueryRowContext(ctx, query, businessID).Scan(
		&beh.LoginsPerMonth,
		&beh.AvgResponseHours,
		&beh.ProfileCompletionPct,
		&beh.LastModified,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load platform behavior")
	}
	return beh, nil
}

func (r *ProfileRepository) loadBenchmark(ctx context.Context, sector string) (*dg.SectorBenchmark, error) {
	const query = `
		SELECT sector, high_growth_potential, common_challenges
		FROM sector_benchmarks
		WHERE sector = $1`

	bench := &dg.SectorBenchmark{}
	var challenges []byte
	err := r.db.QueryRowContext(ctx, query, sector).Scan(
		&bench.Sector,
		&bench.HighGrowthPotential,
		&challenges,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load sector benchmark")
	}
	if len(challenges) > 0 {
		if err := json.Unmarshal(challenges, &bench.CommonChallenges); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode sector challenges")
		}
	}
	return bench, nil
}

//Personal.AI order the ending
