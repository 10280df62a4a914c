// Package store persists run history using SQLite: one row per processing
// run plus one row per facade result, so past runs can be listed and
// compared without reprocessing the source files.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mfaller/shadetemp/internal/engine"
)

// Store handles persistent storage using SQLite
type Store struct {
	db *sql.DB
}

// NewStore creates a new store and initializes the database
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// initialize creates the database schema
func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		weather_file TEXT NOT NULL,
		solar_file TEXT NOT NULL,
		threshold REAL NOT NULL,
		delta_t REAL NOT NULL,
		year INTEGER NOT NULL,
		weather_records INTEGER NOT NULL,
		solar_records INTEGER NOT NULL,
		total_adjustments INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS run_facades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id INTEGER NOT NULL,
		facade TEXT NOT NULL,
		column_label TEXT DEFAULT '',
		adjustments INTEGER NOT NULL,
		output_file TEXT DEFAULT '',
		FOREIGN KEY (run_id) REFERENCES runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_run_facades_run ON run_facades(run_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Run is one persisted processing run.
type Run struct {
	ID               int64     `json:"id"`
	WeatherFile      string    `json:"weather_file"`
	SolarFile        string    `json:"solar_file"`
	Threshold        float64   `json:"threshold"`
	DeltaT           float64   `json:"delta_t"`
	Year             int       `json:"year"`
	WeatherRecords   int       `json:"weather_records"`
	SolarRecords     int       `json:"solar_records"`
	TotalAdjustments int       `json:"total_adjustments"`
	CreatedAt        time.Time `json:"created_at"`
}

// RunFacade is one facade's outcome within a persisted run.
type RunFacade struct {
	Facade      string `json:"facade"`
	Column      string `json:"column,omitempty"`
	Adjustments int    `json:"adjustments"`
	OutputFile  string `json:"output_file,omitempty"`
}

// SaveRun persists a run result and its facade outcomes. outputs maps
// facade keys to written output paths; facades that produced no file (no
// irradiance data) may be absent.
func (s *Store) SaveRun(res *engine.RunResult, outputs map[string]string) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`INSERT INTO runs
		(weather_file, solar_file, threshold, delta_t, year, weather_records, solar_records, total_adjustments, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		res.Params.WeatherFile, res.Params.SolarFile, res.Params.Threshold, res.Params.DeltaT,
		res.Year, res.WeatherCount, res.SolarCount, res.TotalAdjustments(), time.Now())
	if err != nil {
		return 0, fmt.Errorf("saving run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, fr := range res.Facades {
		key := fr.Facade.Key()
		_, err := tx.Exec(`INSERT INTO run_facades
			(run_id, facade, column_label, adjustments, output_file)
			VALUES (?, ?, ?, ?, ?)`,
			runID, key, fr.Column, fr.Adjustments, outputs[key])
		if err != nil {
			return 0, fmt.Errorf("saving facade result %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`SELECT id, weather_file, solar_file, threshold, delta_t,
		year, weather_records, solar_records, total_adjustments, created_at
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.WeatherFile, &r.SolarFile, &r.Threshold, &r.DeltaT,
			&r.Year, &r.WeatherRecords, &r.SolarRecords, &r.TotalAdjustments, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun retrieves a single run by ID.
func (s *Store) GetRun(id int64) (*Run, error) {
	var r Run
	err := s.db.QueryRow(`SELECT id, weather_file, solar_file, threshold, delta_t,
		year, weather_records, solar_records, total_adjustments, created_at
		FROM runs WHERE id = ?`, id).
		Scan(&r.ID, &r.WeatherFile, &r.SolarFile, &r.Threshold, &r.DeltaT,
			&r.Year, &r.WeatherRecords, &r.SolarRecords, &r.TotalAdjustments, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRunFacades retrieves the facade outcomes of a run.
func (s *Store) GetRunFacades(runID int64) ([]RunFacade, error) {
	rows, err := s.db.Query(`SELECT facade, column_label, adjustments, output_file
		FROM run_facades WHERE run_id = ? ORDER BY facade`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	facades := []RunFacade{}
	for rows.Next() {
		var f RunFacade
		if err := rows.Scan(&f.Facade, &f.Column, &f.Adjustments, &f.OutputFile); err != nil {
			return nil, err
		}
		facades = append(facades, f)
	}
	return facades, rows.Err()
}
