package diagnosis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/SME-Diagnostics/internal/domain/diagnostics"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SME-Diagnostics/pkg/errors"
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

// ─────────────────────────────────────────────────────────────────────────────
// Fakes
// ─────────────────────────────────────────────────────────────────────────────

type fakeLoader struct {
	input *dg.Input
	err   error
	calls int
}

func (f *fakeLoader) LoadInput(ctx context.Context, businessID string) (*dg.Input, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.input, nil
}

type fakeRunRepo struct {
	runs    []*diagnostics.Run
	saveErr error
}

func (f *fakeRunRepo) Save(ctx context.Context, run *diagnostics.Run) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRunRepo) Latest(ctx context.Context, businessID string) (*diagnostics.Run, error) {
	for i := len(f.runs) - 1; i >= 0; i-- {
		if f.runs[i].BusinessID == businessID {
			return f.runs[i], nil
		}
	}
	return nil, errors.New(errors.ErrCodeRunNotFound, "no runs")
}

func (f *fakeRunRepo) Get(ctx context.Context, runID string) (*diagnostics.Run, error) {
	for _, r := range f.runs {
		if r.ID == runID {
			return r, nil
		}
	}
	return nil, errors.New(errors.ErrCodeRunNotFound, "no such run")
}

func (f *fakeRunRepo) ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]*diagnostics.Run, error) {
	var out []*diagnostics.Run
	for i := len(f.runs) - 1; i >= 0; i-- {
		if f.runs[i].BusinessID == businessID {
			out = append(out, f.runs[i])
		}
	}
	if offset >= len(out) {
		return []*diagnostics.Run{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeCache struct {
	entries      map[string]*dg.Output
	puts         int
	invalidated  int64
	getErr       error
	invalidErr   error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*dg.Output{}}
}

func (f *fakeCache) key(businessID, hash string) string { return businessID + "|" + hash }

func (f *fakeCache) Get(ctx context.Context, businessID, inputHash string) (*dg.Output, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.entries[f.key(businessID, inputHash)], nil
}

func (f *fakeCache) Put(ctx context.Context, businessID, inputHash string, out *dg.Output) error {
	f.puts++
	f.entries[f.key(businessID, inputHash)] = out
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context, businessID string) (int64, error) {
	if f.invalidErr != nil {
		return 0, f.invalidErr
	}
	f.invalidated++
	for k := range f.entries {
		delete(f.entries, k)
	}
	return f.invalidated, nil
}

type fakeLock struct {
	locked   int
	unlocked int
	lockErr  error
}

func (f *fakeLock) Lock(ctx context.Context) error {
	if f.lockErr != nil {
		return f.lockErr
	}
	f.locked++
	return nil
}

func (f *fakeLock) Unlock(ctx context.Context) error {
	f.unlocked++
	return nil
}

type fakeEvents struct {
	completed []kafka.DiagnosisCompletedPayload
	failed    []kafka.DiagnosisFailedPayload
	publishErr error
}

func (f *fakeEvents) DiagnosisRequested(ctx context.Context, p kafka.DiagnosisRequestedPayload) error {
	return nil
}

func (f *fakeEvents) DiagnosisCompleted(ctx context.Context, p kafka.DiagnosisCompletedPayload) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.completed = append(f.completed, p)
	return nil
}

func (f *fakeEvents) DiagnosisFailed(ctx context.Context, p kafka.DiagnosisFailedPayload) error {
	f.failed = append(f.failed, p)
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Fixtures
// ─────────────────────────────────────────────────────────────────────────────

func registeredInput() *dg.Input {
	return &dg.Input{
		Profile: dg.BusinessProfile{
			ID:                 "biz-1",
			Name:               "Zambezi Agro Supplies",
			Sector:             "agriculture",
			RegistrationStatus: dg.RegistrationCompany,
			TaxRegistered:      true,
			YearsInBusiness:    4,
			FullTimeEmployees:  12,
			HasWebsite:         true,
		},
		AsOf: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

type serviceFixture struct {
	svc    Service
	loader *fakeLoader
	repo   *fakeRunRepo
	cache  *fakeCache
	lock   *fakeLock
	events *fakeEvents
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	engine, err := diagnostics.NewEngine(diagnostics.DefaultRuleSet())
	require.NoError(t, err)

	f := &serviceFixture{
		loader: &fakeLoader{input: registeredInput()},
		repo:   &fakeRunRepo{},
		cache:  newFakeCache(),
		lock:   &fakeLock{},
		events: &fakeEvents{},
	}
	svc, err := NewService(Deps{
		Engine: engine,
		Loader: f.loader,
		Runs:   f.repo,
		Cache:  f.cache,
		Locks:  func(businessID string) Lock { return f.lock },
		Events: f.events,
		Logger: logging.NewNopLogger(),
	})
	require.NoError(t, err)
	f.svc = svc
	return f
}

// ─────────────────────────────────────────────────────────────────────────────
// Tests
// ─────────────────────────────────────────────────────────────────────────────

func TestNewService_RequiresCoreDeps(t *testing.T) {
	engine, err := diagnostics.NewEngine(diagnostics.DefaultRuleSet())
	require.NoError(t, err)
	loader := &fakeLoader{}
	repo := &fakeRunRepo{}

	_, err = NewService(Deps{Loader: loader, Runs: repo})
	assert.Error(t, err)
	_, err = NewService(Deps{Engine: engine, Runs: repo})
	assert.Error(t, err)
	_, err = NewService(Deps{Engine: engine, Loader: loader})
	assert.Error(t, err)

	_, err = NewService(Deps{Engine: engine, Loader: loader, Runs: repo})
	assert.NoError(t, err)
}

func TestDiagnose_ComputesAndPersists(t *testing.T) {
	f := newServiceFixture(t)

	result, err := f.svc.Diagnose(context.Background(), DiagnoseRequest{BusinessID: "biz-1"})
	require.NoError(t, err)

	require.NotNil(t, result.Run)
	assert.False(t, result.Reused)
	assert.Equal(t, "biz-1", result.Run.BusinessID)
	assert.NotEmpty(t, result.Run.ID)
	assert.NotEmpty(t, result.Run.InputHash)
	require.NotNil(t, result.Run.Output)

	// Persisted, cached, lock cycled, completion event out.
	assert.Len(t, f.repo.runs, 1)
	assert.Equal(t, 1, f.cache.puts)
	assert.Equal(t, 1, f.lock.locked)
	assert.Equal(t, 1, f.lock.unlocked)
	require.Len(t, f.events.completed, 1)
	assert.Equal(t, result.Run.ID, f.events.completed[0].RunID)
	assert.Equal(t, result.Run.InputHash, f.events.completed[0].InputHash)
}

func TestDiagnose_ReusesUnchangedInput(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	first, err := f.svc.Diagnose(ctx, DiagnoseRequest{BusinessID: "biz-1"})
	require.NoError(t, err)

	second, err := f.svc.Diagnose(ctx, DiagnoseRequest{BusinessID: "biz-1"})
	require.NoError(t, err)

	assert.True(t, second.Reused)
	assert.True(t, second.CacheHit)
	assert.Equal(t, first.Run.ID, second.Run.ID)
	// No second run was persisted and no second event published.
	assert.Len(t, f.repo.runs, 1)
	assert.Len(t, f.events.completed, 1)
}

func TestDiagnose_ForceRecomputes(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	first, err := f.svc.Diagnose(ctx, DiagnoseRequest{BusinessID: "biz-1"})
	require.NoError(t, err)
	second, err := f.svc.Diagnose(ctx, DiagnoseRequest{BusinessID: "biz-1", Force: true})
	require.NoError(t, err)

	assert.False(t, second.Reused)
	assert.NotEqual(t, first.Run.ID, second.Run.ID)
	// Deterministic engine: identical input yields an identical hash.
	assert.Equal(t, first.Run.InputHash, second.Run.InputHash)
	assert.Len(t, f.repo.runs, 2)
}

func TestDiagnose_ChangedInputSupersedesRun(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	first, err := f.svc.Diagnose(ctx, DiagnoseRequest{BusinessID: "biz-1"})
	require.NoError(t, err)

	// The profile gains a financial snapshot; the bundle hash moves.
	changed := registeredInput()
	changed.Financial = &dg.FinancialSnapshot{
		BusinessID: "biz-1",
		RevenueHistory: []dg.RevenueEntry{
			{Year: 2023, Revenue: 850000, Profit: 120000},
		},
		KeepsFinancialRecords: true,
		LastModified:          time.Date(2024, 6, 2, 9, 0, 0, 0, time.UTC),
	}
	f.loader.input = changed

	second, err := f.svc.Diagnose(ctx, DiagnoseRequest{BusinessID: "biz-1"})
	require.NoError(t, err)

	assert.False(t, second.Reused)
	assert.NotEqual(t, first.Run.InputHash, second.Run.InputHash)
	assert.Len(t, f.repo.runs, 2)
}

func TestDiagnose_LoaderFailurePublishesFailureEvent(t *testing.T) {
	f := newServiceFixture(t)
	f.loader.err = errors.New(errors.ErrCodeProfileNotFound, "unknown business")

	_, err := f.svc.Diagnose(context.Background(), DiagnoseRequest{BusinessID: "biz-404"})
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	require.Len(t, f.events.failed, 1)
	assert.Equal(t, "biz-404", f.events.failed[0].BusinessID)
	assert.Equal(t, string(errors.ErrCodeProfileNotFound), f.events.failed[0].ErrorCode)
	// The lock is still released.
	assert.Equal(t, f.lock.locked, f.lock.unlocked)
}

func TestDiagnose_SaveFailure(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.saveErr = errors.Internal("db down")

	_, err := f.svc.Diagnose(context.Background(), DiagnoseRequest{BusinessID: "biz-1"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRunPersistFailed))
	assert.Len(t, f.events.failed, 1)
	assert.Empty(t, f.events.completed)
}

func TestDiagnose_LockContention(t *testing.T) {
	f := newServiceFixture(t)
	f.lock.lockErr = errors.Conflict("already being diagnosed")

	_, err := f.svc.Diagnose(context.Background(), DiagnoseRequest{BusinessID: "biz-1"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeConflict))
	// Nothing was loaded or persisted.
	assert.Zero(t, f.loader.calls)
	assert.Empty(t, f.repo.runs)
}

func TestDiagnose_EventPublishFailureIsNotFatal(t *testing.T) {
	f := newServiceFixture(t)
	f.events.publishErr = errors.New(errors.ErrCodePublishFailed, "broker down")

	result, err := f.svc.Diagnose(context.Background(), DiagnoseRequest{BusinessID: "biz-1"})
	require.NoError(t, err)
	assert.NotNil(t, result.Run)
	assert.Len(t, f.repo.runs, 1)
}

func TestDiagnose_RequiresBusinessID(t *testing.T) {
	f := newServiceFixture(t)
	_, err := f.svc.Diagnose(context.Background(), DiagnoseRequest{})
	assert.Error(t, err)
}

func TestLatestAndGetRun(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	result, err := f.svc.Diagnose(ctx, DiagnoseRequest{BusinessID: "biz-1"})
	require.NoError(t, err)

	latest, err := f.svc.Latest(ctx, "biz-1")
	require.NoError(t, err)
	assert.Equal(t, result.Run.ID, latest.ID)

	got, err := f.svc.GetRun(ctx, result.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Run.ID, got.ID)

	_, err = f.svc.GetRun(ctx, "run-gone")
	assert.True(t, errors.IsNotFound(err))

	_, err = f.svc.Latest(ctx, "")
	assert.Error(t, err)
	_, err = f.svc.GetRun(ctx, "")
	assert.Error(t, err)
}

func TestListRuns_Paging(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.Diagnose(ctx, DiagnoseRequest{BusinessID: "biz-1", Force: true})
		require.NoError(t, err)
	}

	page, err := f.svc.ListRuns(ctx, ListRunsRequest{BusinessID: "biz-1", Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Runs, 2)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.PageSize)

	page, err = f.svc.ListRuns(ctx, ListRunsRequest{BusinessID: "biz-1", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Runs, 1)

	// Defaults apply when unset; oversized pages are clamped.
	page, err = f.svc.ListRuns(ctx, ListRunsRequest{BusinessID: "biz-1", PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, page.PageSize)

	_, err = f.svc.ListRuns(ctx, ListRunsRequest{})
	assert.Error(t, err)
}

func TestInvalidate(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Diagnose(ctx, DiagnoseRequest{BusinessID: "biz-1"})
	require.NoError(t, err)
	require.NotEmpty(t, f.cache.entries)

	require.NoError(t, f.svc.Invalidate(ctx, "biz-1"))
	assert.Empty(t, f.cache.entries)

	assert.Error(t, f.svc.Invalidate(ctx, ""))
}

func TestDiagnose_DeterministicOutput(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	first, err := f.svc.Diagnose(ctx, DiagnoseRequest{BusinessID: "biz-1"})
	require.NoError(t, err)
	second, err := f.svc.Diagnose(ctx, DiagnoseRequest{BusinessID: "biz-1", Force: true})
	require.NoError(t, err)

	assert.Equal(t, first.Run.Output.Scores, second.Run.Output.Scores)
	assert.Equal(t, first.Run.Output.HealthBand, second.Run.Output.HealthBand)
	assert.Equal(t, first.Run.Output.OverallSummary, second.Run.Output.OverallSummary)
}

//Personal.AI order the ending
