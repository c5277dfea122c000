package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (Grafana reads while bot writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS prediction_runs (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			symbol        TEXT,
			path_count    INTEGER,
			backend       TEXT,
			used_fallback INTEGER,
			volatility    REAL,
			current_price REAL,
			horizon_start INTEGER,
			horizon_end   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON prediction_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS path_summaries (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          INTEGER NOT NULL,
			path_index      INTEGER,
			entry_price     REAL,
			final_price     REAL,
			mean_resistance REAL,
			mean_confidence REAL,
			FOREIGN KEY(run_id) REFERENCES prediction_runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_paths_run ON path_summaries(run_id)`,

		`CREATE TABLE IF NOT EXISTS obm_signals (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			symbol    TEXT,
			signal    TEXT,
			strength  REAL,
			obm_value REAL,
			trend     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ts ON obm_signals(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(snap *RunSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	fallback := 0
	if snap.UsedFallback {
		fallback = 1
	}
	res, err := r.db.Exec(`INSERT INTO prediction_runs
		(timestamp, symbol, path_count, backend, used_fallback, volatility,
		 current_price, horizon_start, horizon_end)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), snap.Symbol, snap.PathCount, snap.Backend, fallback,
		snap.Volatility, snap.CurrentPrice, snap.HorizonStart, snap.HorizonEnd,
	)
	if err != nil {
		return err
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for _, p := range snap.PathSummaries {
		if _, err := r.db.Exec(`INSERT INTO path_summaries
			(run_id, path_index, entry_price, final_price, mean_resistance, mean_confidence)
			VALUES (?,?,?,?,?,?)`,
			runID, p.PathIndex, p.EntryPrice, p.FinalPrice, p.MeanResistance, p.MeanConfidence,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSignal(evt *SignalEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO obm_signals
		(timestamp, symbol, signal, strength, obm_value, trend)
		VALUES (?,?,?,?,?,?)`,
		evt.Timestamp, evt.Symbol, string(evt.Signal), evt.Strength, evt.OBMValue, evt.Trend,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
