// Package store persists simulation time series and cell reporter samples.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/notargets/gosagd/model_problems/SAGD2D"
)

type SQLiteStore struct {
	mu     sync.Mutex
	db     *sql.DB
	dbPath string
}

// Open creates or opens the database at dbPath. The special path ":memory:"
// opens a private in-memory database.
func Open(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = dbPath + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite works best with a single writer, and :memory: is per connection
	db.SetMaxOpenConns(1)
	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// BeginRun stores the run header and returns its id.
func (s *SQLiteStore) BeginRun(ctx context.Context, title string, width, height int,
	cfg SAGD2D.Config) (runID int64, err error) {
	var (
		cfgJSON []byte
		res     sql.Result
	)
	if cfgJSON, err = json.Marshal(cfg); err != nil {
		return 0, fmt.Errorf("failed to encode config: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (title, width, height, seed, activation, config, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		title, width, height, cfg.Seed, cfg.Activation.String(), string(cfgJSON),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	if runID, err = res.LastInsertId(); err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}
	return
}

func (s *SQLiteStore) RecordStep(ctx context.Context, runID int64, rec SAGD2D.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO model_vars (run_id, step, oil_produced, steam_injected, sor) VALUES (?, ?, ?, ?, ?)`,
		runID, rec.Step, rec.OilProduced, rec.SteamInjected, rec.SOR)
	if err != nil {
		return fmt.Errorf("failed to record step %d: %w", rec.Step, err)
	}
	return nil
}

// RecordCells writes the oil saturation and temperature of every cell in one
// transaction.
func (s *SQLiteStore) RecordCells(ctx context.Context, runID int64, step int,
	cells []SAGD2D.CellSnapshot) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO agent_vars (run_id, step, x, y, oil_saturation, temperature) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare cell insert: %w", err)
	}
	defer stmt.Close()
	for _, c := range cells {
		if _, err = stmt.ExecContext(ctx, runID, step, c.Pos.X, c.Pos.Y, c.Oil, c.Temperature); err != nil {
			return fmt.Errorf("failed to record cell %s at step %d: %w", c.Pos, step, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cells: %w", err)
	}
	return nil
}

// Series reads back the model reporters of a run in step order.
func (s *SQLiteStore) Series(ctx context.Context, runID int64) (series []SAGD2D.Record, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.QueryContext(ctx,
		`SELECT step, oil_produced, steam_injected, sor FROM model_vars WHERE run_id = ? ORDER BY step`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query series: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var r SAGD2D.Record
		if err = rows.Scan(&r.Step, &r.OilProduced, &r.SteamInjected, &r.SOR); err != nil {
			return nil, fmt.Errorf("failed to scan series row: %w", err)
		}
		series = append(series, r)
	}
	return series, rows.Err()
}

type CellSample struct {
	Step          int
	X, Y          int
	OilSaturation float64
	Temperature   float64
}

// CellSamples reads back the per cell reporters recorded at step.
func (s *SQLiteStore) CellSamples(ctx context.Context, runID int64, step int) (samples []CellSample, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.db.QueryContext(ctx,
		`SELECT step, x, y, oil_saturation, temperature FROM agent_vars
		 WHERE run_id = ? AND step = ? ORDER BY y, x`, runID, step)
	if err != nil {
		return nil, fmt.Errorf("failed to query cell samples: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var c CellSample
		if err = rows.Scan(&c.Step, &c.X, &c.Y, &c.OilSaturation, &c.Temperature); err != nil {
			return nil, fmt.Errorf("failed to scan cell sample: %w", err)
		}
		samples = append(samples, c)
	}
	return samples, rows.Err()
}

// Recorder returns a step listener that stores every step and, when
// agentEvery > 0, the cell reporters every agentEvery steps. The first write
// error stops further writes and is kept for Err.
func (s *SQLiteStore) Recorder(ctx context.Context, runID int64, agentEvery int) *Recorder {
	return &Recorder{store: s, ctx: ctx, runID: runID, agentEvery: agentEvery}
}

type Recorder struct {
	store      *SQLiteStore
	ctx        context.Context
	runID      int64
	agentEvery int
	err        error
}

func (r *Recorder) Err() error { return r.err }

func (r *Recorder) StepListener() SAGD2D.StepListener {
	return func(m *SAGD2D.SAGD, rec SAGD2D.Record, _ time.Duration) {
		if r.err != nil {
			return
		}
		if r.err = r.store.RecordStep(r.ctx, r.runID, rec); r.err != nil {
			return
		}
		if r.agentEvery > 0 && rec.Step%r.agentEvery == 0 {
			r.err = r.store.RecordCells(r.ctx, r.runID, rec.Step, m.Snapshot())
		}
	}
}
