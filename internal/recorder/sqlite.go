package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"MarketCross/internal/model"
)

// SQLiteRecorder persists the run log to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers are not blocked while runs are written.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			symbol       TEXT NOT NULL,
			provider     TEXT,
			short_period INTEGER,
			long_period  INTEGER,
			window_days  INTEGER,
			outcome      TEXT NOT NULL,
			message      TEXT,
			points       INTEGER,
			events       INTEGER,
			duration_ms  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON analysis_runs(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol ON analysis_runs(symbol, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun inserts one run.
func (r *SQLiteRecorder) RecordRun(rec model.RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	outcome := "ok"
	if !rec.Succeeded() {
		outcome = string(rec.Kind)
	}
	ts := rec.StartedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err := r.db.Exec(`INSERT INTO analysis_runs
		(timestamp, symbol, provider, short_period, long_period, window_days,
		 outcome, message, points, events, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		ts.UnixMilli(), rec.Symbol, rec.Provider, rec.ShortPeriod, rec.LongPeriod, rec.WindowDays,
		outcome, rec.Message, rec.Points, rec.Events, rec.Duration.Milliseconds(),
	)
	return err
}

// RecentRuns returns up to limit runs, newest first.
func (r *SQLiteRecorder) RecentRuns(limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT id, timestamp, symbol, provider, short_period, long_period,
		window_days, outcome, message, points, events, duration_ms
		FROM analysis_runs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var (
			row RunRow
			ms  int64
		)
		if err := rows.Scan(&row.ID, &ms, &row.Symbol, &row.Provider, &row.ShortPeriod, &row.LongPeriod,
			&row.WindowDays, &row.Outcome, &row.Message, &row.Points, &row.Events, &row.DurationMS); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		row.Timestamp = time.UnixMilli(ms)
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
