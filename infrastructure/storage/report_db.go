package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"page_objects/domain/entities"
	"page_objects/domain/interfaces"

	_ "modernc.org/sqlite"
)

const reportSchema = `
CREATE TABLE IF NOT EXISTS scenario_results (
	position    INTEGER PRIMARY KEY,
	run_id      TEXT NOT NULL,
	name        TEXT NOT NULL,
	status      TEXT NOT NULL,
	error       TEXT NOT NULL DEFAULT '',
	final_url   TEXT NOT NULL DEFAULT '',
	started_at  TEXT NOT NULL,
	duration_ns INTEGER NOT NULL
)`

type reportDB struct {
	dbPath string
}

// NewReportDB - creates report storage in SQLite database at path
func NewReportDB(path string) interfaces.ReportStore {
	return &reportDB{dbPath: path}
}

func (s *reportDB) open() (*sql.DB, error) {
	if dir := filepath.Dir(s.dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create report dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", s.dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open report db %s: %w", s.dbPath, err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 10000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.Exec(reportSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create report schema: %w", err)
	}
	return db, nil
}

// SaveResults - replaces stored rows with results of the last run
func (s *reportDB) SaveResults(results []entities.ScenarioResult) (err error) {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM scenario_results`); err != nil {
		return fmt.Errorf("failed to clear report: %w", err)
	}
	for i, r := range results {
		_, err = tx.Exec(
			`INSERT INTO scenario_results (position, run_id, name, status, error, final_url, started_at, duration_ns)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			i, r.RunID, r.Name, string(r.Status), r.Error, r.FinalURL,
			r.StartedAt.UTC().Format(time.RFC3339Nano), int64(r.Duration),
		)
		if err != nil {
			return fmt.Errorf("failed to save result %s: %w", r.Name, err)
		}
	}
	return tx.Commit()
}

// LoadResults - loads results of the last run in their original order
func (s *reportDB) LoadResults() ([]entities.ScenarioResult, error) {
	if _, err := os.Stat(s.dbPath); os.IsNotExist(err) {
		return []entities.ScenarioResult{}, nil
	}
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`SELECT run_id, name, status, error, final_url, started_at, duration_ns
		FROM scenario_results ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}
	defer rows.Close()

	results := []entities.ScenarioResult{}
	for rows.Next() {
		var (
			r        entities.ScenarioResult
			status   string
			started  string
			duration int64
		)
		if err := rows.Scan(&r.RunID, &r.Name, &status, &r.Error, &r.FinalURL, &started, &duration); err != nil {
			return nil, fmt.Errorf("failed to read result: %w", err)
		}
		r.Status = entities.ScenarioStatus(status)
		r.Duration = time.Duration(duration)
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("invalid start time of %s: %w", r.Name, err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
