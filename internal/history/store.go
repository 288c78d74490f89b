// Package history persists exposure and transition history in SQLite so a
// risk-scoring collaborator can consume it after (or during) a run.
package history

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"abesim/internal/epi"
	"abesim/internal/simulation"
)

// Store wraps a SQLite database. One Store records one run at a time.
type Store struct {
	db    *sql.DB
	runID uuid.UUID
}

// Open opens (or creates) a SQLite database at path and runs migrations.
// Pass ":memory:" for an in-memory database (useful for tests).
func Open(path string) (*Store, error) {
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping history: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate history: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    seed INTEGER NOT NULL,
    workers INTEGER NOT NULL,
    lambda REAL NOT NULL,
    init_time INTEGER NOT NULL,
    step_size INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS exposures (
    run_id TEXT NOT NULL,
    step INTEGER NOT NULL,
    agent_id INTEGER NOT NULL,
    source_agent_id INTEGER NOT NULL,
    location_id INTEGER NOT NULL,
    start_time INTEGER NOT NULL,
    duration INTEGER NOT NULL,
    trace BLOB NOT NULL,
    infectivity REAL NOT NULL,
    symptom_factor REAL NOT NULL,
    location_transmissibility REAL NOT NULL,
    susceptibility REAL NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_exposures_agent ON exposures(run_id, agent_id);

CREATE TABLE IF NOT EXISTS transitions (
    run_id TEXT NOT NULL,
    step INTEGER NOT NULL,
    agent_id INTEGER NOT NULL,
    at INTEGER NOT NULL,
    state TEXT NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_transitions_agent ON transitions(run_id, agent_id);
`)
	return err
}

// RunMeta describes a run.
type RunMeta struct {
	Seed     uint64
	Workers  int
	Lambda   float64
	InitTime time.Time
	StepSize time.Duration
}

// BeginRun records meta under a fresh run id and makes it the current run.
func (s *Store) BeginRun(ctx context.Context, meta RunMeta) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, seed, workers, lambda, init_time, step_size, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id.String(), int64(meta.Seed), meta.Workers, meta.Lambda, meta.InitTime.UnixNano(), int64(meta.StepSize), time.Now().Unix(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert run: %w", err)
	}
	s.runID = id
	return id, nil
}

// RunID returns the current run id (uuid.Nil before BeginRun).
func (s *Store) RunID() uuid.UUID { return s.runID }

var _ simulation.Observer = (*Store)(nil)

// ObserveStep stores this step's exposures and transitions in one
// transaction.
func (s *Store) ObserveStep(ctx context.Context, r *simulation.StepReport) (err error) {
	if s.runID == uuid.Nil {
		return fmt.Errorf("history: ObserveStep before BeginRun")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	insExp, err := tx.PrepareContext(ctx, `INSERT INTO exposures
(run_id, step, agent_id, source_agent_id, location_id, start_time, duration, trace,
 infectivity, symptom_factor, location_transmissibility, susceptibility)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare exposures: %w", err)
	}
	defer insExp.Close()
	insTr, err := tx.PrepareContext(ctx, `INSERT INTO transitions (run_id, step, agent_id, at, state) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare transitions: %w", err)
	}
	defer insTr.Close()

	run := s.runID.String()
	for _, a := range r.Agents {
		for _, e := range a.NewExposures {
			if _, err = insExp.ExecContext(ctx, run, r.Step, a.ID, e.SourceAgentID, e.LocationID,
				e.StartTime.UnixNano(), int64(e.Duration), encodeTrace(e.ProximityTrace),
				e.Infectivity, e.SymptomFactor, e.LocationTransmissibility, e.Susceptibility); err != nil {
				return fmt.Errorf("insert exposure: %w", err)
			}
		}
		for _, t := range a.Transitions {
			if _, err = insTr.ExecContext(ctx, run, r.Step, a.ID, t.Time.UnixNano(), t.State.String()); err != nil {
				return fmt.Errorf("insert transition: %w", err)
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Exposures returns the stored exposure history of one agent in the given
// run, oldest first.
func (s *Store) Exposures(ctx context.Context, runID uuid.UUID, agentID int64) ([]epi.Exposure, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source_agent_id, location_id, start_time, duration, trace,
infectivity, symptom_factor, location_transmissibility, susceptibility
FROM exposures WHERE run_id = ? AND agent_id = ? ORDER BY step, start_time, location_id, source_agent_id`,
		runID.String(), agentID)
	if err != nil {
		return nil, fmt.Errorf("query exposures: %w", err)
	}
	defer rows.Close()

	var out []epi.Exposure
	for rows.Next() {
		var (
			e          epi.Exposure
			start, dur int64
			trace      []byte
		)
		if err := rows.Scan(&e.SourceAgentID, &e.LocationID, &start, &dur, &trace,
			&e.Infectivity, &e.SymptomFactor, &e.LocationTransmissibility, &e.Susceptibility); err != nil {
			return nil, fmt.Errorf("scan exposure: %w", err)
		}
		e.StartTime = time.Unix(0, start).UTC()
		e.Duration = time.Duration(dur)
		if e.ProximityTrace, err = decodeTrace(trace); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Transitions returns one agent's stored transitions in the given run.
func (s *Store) Transitions(ctx context.Context, runID uuid.UUID, agentID int64) ([]epi.HealthTransition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT at, state FROM transitions WHERE run_id = ? AND agent_id = ? ORDER BY step, rowid`,
		runID.String(), agentID)
	if err != nil {
		return nil, fmt.Errorf("query transitions: %w", err)
	}
	defer rows.Close()

	var out []epi.HealthTransition
	for rows.Next() {
		var (
			at    int64
			state string
		)
		if err := rows.Scan(&at, &state); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		hs, err := epi.ParseHealthState(state)
		if err != nil {
			return nil, err
		}
		out = append(out, epi.HealthTransition{Time: time.Unix(0, at).UTC(), State: hs})
	}
	return out, rows.Err()
}

// CountExposures returns the number of stored exposures for the run.
func (s *Store) CountExposures(ctx context.Context, runID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM exposures WHERE run_id = ?`, runID.String()).Scan(&n)
	return n, err
}

func encodeTrace(t epi.ProximityTrace) []byte {
	b := make([]byte, 4*len(t))
	for i, d := range t {
		binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(d))
	}
	return b
}

func decodeTrace(b []byte) (epi.ProximityTrace, error) {
	var t epi.ProximityTrace
	if len(b) != 4*len(t) {
		return t, fmt.Errorf("history: trace blob has %d bytes, want %d", len(b), 4*len(t))
	}
	for i := range t {
		t[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return t, nil
}
