package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simlin/ltm/analysis"
	"github.com/simlin/ltm/internal/store"
	"github.com/simlin/ltm/linkscore"
	"github.com/simlin/ltm/loopdiscovery"
	"github.com/simlin/ltm/model"
	"github.com/simlin/ltm/partition"
)

func buildOneLoopAnalysis(t *testing.T) *analysis.Analysis {
	t.Helper()
	b := model.NewBuilder()
	_, err := b.DeclareStock("s")
	require.NoError(t, err)
	_, err = b.AddFlow("adjust", func(in []float64) (float64, error) { return in[0], nil }, "s")
	require.NoError(t, err)
	require.NoError(t, b.SetInitial("s", func(in []float64) (float64, error) { return 0, nil }))
	require.NoError(t, b.SetFlows("s", []string{"adjust"}, nil, false))
	m, err := b.Compile()
	require.NoError(t, err)

	part := partition.Compute(m)[0]
	a := analysis.New(m, []partition.Partition{part})

	loop := loopdiscovery.Loop{ID: 0, PartitionID: part.ID, Variables: part.Variables, Edges: []int{0, 1}}
	a.RecordStep(analysis.StepSnapshot{
		Links: make([]linkscore.Record, m.NumEdges()),
		Partitions: map[int]analysis.PartitionSnapshot{
			part.ID: {
				Loops:       []loopdiscovery.Loop{loop},
				Raw:         []float64{-0.5},
				Relative:    []float64{-1.0},
				Dominant:    []int{0},
				Denominator: 0.5,
			},
		},
	})
	return a
}

func TestBuildRows_FlattensOneStepOnePartition(t *testing.T) {
	a := buildOneLoopAnalysis(t)
	rows := store.BuildRows("run-1", a)

	require.Len(t, rows, 1)
	assert.Equal(t, "run-1", rows[0].RunID)
	assert.Equal(t, 0, rows[0].Step)
	assert.Equal(t, 0, rows[0].LoopID)
	assert.Equal(t, -0.5, rows[0].Raw)
	assert.Equal(t, -1.0, rows[0].Relative)
	assert.True(t, rows[0].Dominant)
}

func TestStore_SaveRunInsertsEveryRowInOneTransaction(t *testing.T) {
	a := buildOneLoopAnalysis(t)

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	s := store.OpenWithDB(sqlx.NewDb(sqlDB, "postgres"), time.Second)

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO loop_scores")
	mock.ExpectExec("INSERT INTO loop_scores").
		WithArgs("run-1", 0, 0, 0, -0.5, -1.0, true).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, s.SaveRun(context.Background(), "run-1", a))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveRunRollsBackOnInsertError(t *testing.T) {
	a := buildOneLoopAnalysis(t)

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	s := store.OpenWithDB(sqlx.NewDb(sqlDB, "postgres"), time.Second)

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO loop_scores")
	mock.ExpectExec("INSERT INTO loop_scores").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = s.SaveRun(context.Background(), "run-1", a)
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadRunReturnsArchivedRows(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	s := store.OpenWithDB(sqlx.NewDb(sqlDB, "postgres"), time.Second)

	rows := sqlmock.NewRows([]string{"run_id", "step", "partition_id", "loop_id", "raw_score", "relative_score", "dominant"}).
		AddRow("run-1", 0, 0, 0, -0.5, -1.0, true)
	mock.ExpectQuery("SELECT run_id, step, partition_id, loop_id, raw_score, relative_score, dominant").
		WithArgs("run-1").
		WillReturnRows(rows)

	got, err := s.LoadRun(context.Background(), "run-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "run-1", got[0].RunID)
	assert.True(t, got[0].Dominant)
	require.NoError(t, mock.ExpectationsWereMet())
}
