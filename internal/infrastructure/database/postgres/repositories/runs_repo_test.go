package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"
	"github.com/turtacn/SME-Diagnostics/internal/domain/diagnostics"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/database/postgres"
	"github.com/turtacn/SME-Diagnostics/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SME-Diagnostics/pkg/errors"
	dg "github.com/turtacn/SME-Diagnostics/pkg/types/diagnosis"
)

type RunRepoTestSuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	db   *sql.DB
	repo *RunRepository
	now  time.Time
}

func (s *RunRepoTestSuite) SetupTest() {
	var err error
	s.db, s.mock, err = sqlmock.New()
	s.NoError(err)

	log := logging.NewNopLogger()
	conn := postgres.NewConnectionWithDB(s.db, log)
	s.repo = NewRunRepository(conn, log)
	s.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func (s *RunRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.db.Close()
}

func (s *RunRepoTestSuite) testRun() *diagnostics.Run {
	return &diagnostics.Run{
		ID:         "run-1",
		BusinessID: "biz-1",
		InputHash:  "00000000deadbeef",
		Status:     diagnostics.RunStatusCompleted,
		Output: &dg.Output{
			HealthBand: dg.HealthEmerging,
			Stage:      dg.StageGrowth,
		},
		CreatedAt: s.now,
	}
}

func (s *RunRepoTestSuite) TestSave_Success() {
	run := s.testRun()

	s.mock.ExpectExec("INSERT INTO diagnosis_runs").
		WithArgs(run.ID, run.BusinessID, run.InputHash, run.Status, sqlmock.AnyArg(), run.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.NoError(s.repo.Save(context.Background(), run))
}

func (s *RunRepoTestSuite) TestSave_DefaultsEmptyStatusToCompleted() {
	run := s.testRun()
	run.Status = ""

	s.mock.ExpectExec("INSERT INTO diagnosis_runs").
		WithArgs(run.ID, run.BusinessID, run.InputHash, diagnostics.RunStatusCompleted,
			sqlmock.AnyArg(), run.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.NoError(s.repo.Save(context.Background(), run))
}

func (s *RunRepoTestSuite) TestSave_DuplicateID() {
	run := s.testRun()

	// ON CONFLICT DO NOTHING reports zero affected rows for a duplicate.
	s.mock.ExpectExec("INSERT INTO diagnosis_runs").
		WithArgs(run.ID, run.BusinessID, run.InputHash, run.Status, sqlmock.AnyArg(), run.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.repo.Save(context.Background(), run)
	s.True(errors.IsCode(err, errors.ErrCodeRunAlreadyExists))
}

func (s *RunRepoTestSuite) TestSave_RejectsNilAndEmptyID() {
	s.Error(s.repo.Save(context.Background(), nil))
	s.Error(s.repo.Save(context.Background(), &diagnostics.Run{}))
}

func (s *RunRepoTestSuite) runRows(ids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "business_id", "input_hash", "status", "output", "created_at"})
	for i, id := range ids {
		rows.AddRow(id, "biz-1", "00000000deadbeef", diagnostics.RunStatusCompleted,
			[]byte(`{"health_band":"emerging","business_stage":"growth"}`),
			s.now.Add(-time.Duration(i)*time.Hour))
	}
	return rows
}

func (s *RunRepoTestSuite) TestLatest_Found() {
	s.mock.ExpectQuery("FROM diagnosis_runs").
		WithArgs("biz-1").
		WillReturnRows(s.runRows("run-2"))

	run, err := s.repo.Latest(context.Background(), "biz-1")
	s.NoError(err)
	s.Require().NotNil(run)
	s.Equal("run-2", run.ID)
	s.Require().NotNil(run.Output)
	s.Equal(dg.HealthEmerging, run.Output.HealthBand)
	s.Equal(dg.StageGrowth, run.Output.Stage)
}

func (s *RunRepoTestSuite) TestLatest_NotFound() {
	s.mock.ExpectQuery("FROM diagnosis_runs").
		WithArgs("biz-none").
		WillReturnError(sql.ErrNoRows)

	run, err := s.repo.Latest(context.Background(), "biz-none")
	s.Nil(run)
	s.True(errors.IsCode(err, errors.ErrCodeRunNotFound))
	s.True(errors.IsNotFound(err))
}

func (s *RunRepoTestSuite) TestGet_Found() {
	s.mock.ExpectQuery("FROM diagnosis_runs").
		WithArgs("run-1").
		WillReturnRows(s.runRows("run-1"))

	run, err := s.repo.Get(context.Background(), "run-1")
	s.NoError(err)
	s.Equal("run-1", run.ID)
	s.Equal("biz-1", run.BusinessID)
	s.Equal(diagnostics.RunStatusCompleted, run.Status)
}

func (s *RunRepoTestSuite) TestGet_NotFound() {
	s.mock.ExpectQuery("FROM diagnosis_runs").
		WithArgs("run-x").
		WillReturnError(sql.ErrNoRows)

	_, err := s.repo.Get(context.Background(), "run-x")
	s.True(errors.IsCode(err, errors.ErrCodeRunNotFound))
}

func (s *RunRepoTestSuite) TestListByBusiness_AppliesPagingDefaults() {
	s.mock.ExpectQuery("FROM diagnosis_runs").
		WithArgs("biz-1", defaultRunPageSize, 0).
		WillReturnRows(s.runRows("run-3", "run-2", "run-1"))

	runs, err := s.repo.ListByBusiness(context.Background(), "biz-1", 0, -5)
	s.NoError(err)
	s.Require().Len(runs, 3)
	s.Equal("run-3", runs[0].ID)
	s.Equal("run-1", runs[2].ID)
}

func (s *RunRepoTestSuite) TestListByBusiness_ClampsPageSize() {
	s.mock.ExpectQuery("FROM diagnosis_runs").
		WithArgs("biz-1", maxRunPageSize, 10).
		WillReturnRows(s.runRows())

	runs, err := s.repo.ListByBusiness(context.Background(), "biz-1", 5000, 10)
	s.NoError(err)
	s.Empty(runs)
	s.NotNil(runs)
}

func (s *RunRepoTestSuite) TestCorruptOutputPayload() {
	rows := sqlmock.NewRows([]string{"id", "business_id", "input_hash", "status", "output", "created_at"}).
		AddRow("run-1", "biz-1", "00000000deadbeef", diagnostics.RunStatusCompleted, []byte(`{broken`), s.now)
	s.mock.ExpectQuery("FROM diagnosis_runs").
		WithArgs("run-1").
		WillReturnRows(rows)

	_, err := s.repo.Get(context.Background(), "run-1")
	s.True(errors.IsCode(err, errors.ErrCodeSerialization))
}

func TestRunRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RunRepoTestSuite))
}

//Personal.AI order the ending
