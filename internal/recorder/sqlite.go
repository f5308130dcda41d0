package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"OpportunityScanner/internal/model"
)

// SQLiteRecorder persists scan history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log.With().Str("component", "recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scans (
			id          TEXT PRIMARY KEY,
			timestamp   INTEGER NOT NULL,
			threshold   REAL,
			records     INTEGER,
			high_count  INTEGER,
			failures    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scans_ts ON scans(timestamp)`,

		`CREATE TABLE IF NOT EXISTS scan_rows (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			scan_id               TEXT NOT NULL REFERENCES scans(id),
			position              INTEGER,
			ticker                TEXT NOT NULL,
			price                 REAL,
			daily_change_pct      REAL,
			volatility_pct        REAL,
			expected_move         REAL,
			conservative_target   REAL,
			conservative_gain_pct REAL,
			aggressive_target     REAL,
			aggressive_gain_pct   REAL,
			high_volatility       INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scan_rows_ticker ON scan_rows(ticker)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordScan stores the scan header and every row in one transaction.
func (r *SQLiteRecorder) RecordScan(t *model.ResultTable) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO scans
		(id, timestamp, threshold, records, high_count, failures)
		VALUES (?,?,?,?,?,?)`,
		t.ScanID, t.ScannedAt.Unix(), t.Threshold,
		len(t.Records), len(t.HighVolatility()), len(t.Failures),
	); err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}

	for i, rec := range t.Records {
		high := 0
		if rec.VolatilityPct > t.Threshold {
			high = 1
		}
		if _, err := tx.Exec(`INSERT INTO scan_rows
			(scan_id, position, ticker, price, daily_change_pct, volatility_pct, expected_move,
			 conservative_target, conservative_gain_pct, aggressive_target, aggressive_gain_pct,
			 high_volatility)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
			t.ScanID, i, rec.Ticker, rec.Price, rec.DailyChangePct, rec.VolatilityPct, rec.ExpectedMove,
			rec.ConservativeTarget, rec.ConservativeGainPct, rec.AggressiveTarget, rec.AggressiveGainPct,
			high,
		); err != nil {
			return fmt.Errorf("insert row %s: %w", rec.Ticker, err)
		}
	}
	return tx.Commit()
}

// TickerHistory returns the recorded volatility of ticker, newest first.
func (r *SQLiteRecorder) TickerHistory(ticker string, limit int) ([]float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT sr.volatility_pct FROM scan_rows sr
		JOIN scans s ON s.id = sr.scan_id
		WHERE sr.ticker = ?
		ORDER BY s.timestamp DESC, sr.id DESC
		LIMIT ?`, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
