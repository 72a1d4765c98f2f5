package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/simlin/ltm/analysis"
)

// LoopScoreRow is one (run, step, partition, loop) archived record.
type LoopScoreRow struct {
	RunID       string  `db:"run_id"`
	Step        int     `db:"step"`
	PartitionID int     `db:"partition_id"`
	LoopID      int     `db:"loop_id"`
	Raw         float64 `db:"raw_score"`
	Relative    float64 `db:"relative_score"`
	Dominant    bool    `db:"dominant"`
}

// BuildRows flattens a completed run's Analysis into archivable rows, one
// per (step, partition, loop). It is a pure function over Analysis's
// already-computed read methods — no recomputation, matching §4.6.
func BuildRows(runID string, a *analysis.Analysis) []LoopScoreRow {
	var rows []LoopScoreRow
	for _, part := range a.Partitions() {
		for step := 0; step < a.Steps(); step++ {
			loops, ok := a.Loops(step, part.ID)
			if !ok {
				continue
			}
			dominant, _ := a.DominantSet(step, part.ID)
			isDominant := make(map[int]bool, len(dominant))
			for _, id := range dominant {
				isDominant[id] = true
			}
			for _, l := range loops {
				raw, _ := a.LoopRawScore(step, part.ID, l.ID)
				relative, _ := a.LoopRelativeScore(step, part.ID, l.ID)
				rows = append(rows, LoopScoreRow{
					RunID:       runID,
					Step:        step,
					PartitionID: part.ID,
					LoopID:      l.ID,
					Raw:         raw,
					Relative:    relative,
					Dominant:    isDominant[l.ID],
				})
			}
		}
	}
	return rows
}

// Store archives runs to Postgres via sqlx. The zero value is not usable;
// construct with Open or OpenWithDB.
type Store struct {
	db      *sqlx.DB
	timeout time.Duration
}

// Open dials dsn (a Postgres connection string) and pings it within
// timeout before returning a usable Store.
func Open(dsn string, timeout time.Duration) (*Store, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return OpenWithDB(db, timeout), nil
}

// OpenWithDB builds a Store around an already-opened *sqlx.DB, letting
// tests substitute a sqlmock-backed connection for the one Open would
// otherwise dial.
func OpenWithDB(db *sqlx.DB, timeout time.Duration) *Store {
	return &Store{db: db, timeout: timeout}
}

// Close closes the underlying connection.
func (s *Store) Close() error { return s.db.Close() }

// SaveRun archives a into the loop_scores table under runID, inside one
// transaction so a partial failure never leaves a half-written run
// behind.
func (s *Store) SaveRun(ctx context.Context, runID string, a *analysis.Analysis) error {
	rows := BuildRows(runID, a)
	if len(rows) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO loop_scores (run_id, step, partition_id, loop_id, raw_score, relative_score, dominant)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`)
	if err != nil {
		return fmt.Errorf("store: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.ExecContext(ctx, r.RunID, r.Step, r.PartitionID, r.LoopID, r.Raw, r.Relative, r.Dominant); err != nil {
			return fmt.Errorf("store: insert run %s step %d: %w", r.RunID, r.Step, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// LoadRun reads back every row archived for runID, ordered by step then
// partition then loop, for the `ltmctl replay` command (§10.8).
func (s *Store) LoadRun(ctx context.Context, runID string) ([]LoopScoreRow, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var rows []LoopScoreRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT run_id, step, partition_id, loop_id, raw_score, relative_score, dominant
		FROM loop_scores
		WHERE run_id = $1
		ORDER BY step, partition_id, loop_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("store: load run %s: %w", runID, err)
	}
	return rows, nil
}
