package store

import (
	"context"
	"database/sql"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    seed INTEGER NOT NULL,
    activation TEXT NOT NULL,
    config TEXT NOT NULL,  -- JSON
    started_at TEXT NOT NULL
);

-- One row per step, the "Oil Produced" and "SOR" model reporters
CREATE TABLE IF NOT EXISTS model_vars (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    step INTEGER NOT NULL,
    oil_produced REAL NOT NULL,
    steam_injected REAL NOT NULL,
    sor REAL NOT NULL,
    PRIMARY KEY (run_id, step)
);

-- Per cell reporters, sampled every N steps
CREATE TABLE IF NOT EXISTS agent_vars (
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    step INTEGER NOT NULL,
    x INTEGER NOT NULL,
    y INTEGER NOT NULL,
    oil_saturation REAL NOT NULL,
    temperature REAL NOT NULL,
    PRIMARY KEY (run_id, step, x, y)
);
`

// InitSchema creates the tables when they do not exist yet.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
