package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"page_objects/domain/entities"
	"page_objects/domain/interfaces"

	json "github.com/json-iterator/go"
)

// Open - report storage picked by extension: SQLite for .db, .sqlite and
// .sqlite3, JSON file otherwise
func Open(path string) interfaces.ReportStore {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return NewReportDB(path)
	}
	return NewReportFile(path)
}

type reportFile struct {
	reportPath string
}

// NewReportFile - creates report storage at path, parent dirs are created on save
func NewReportFile(path string) interfaces.ReportStore {
	return &reportFile{reportPath: path}
}

// SaveResults - saves scenario results to file
func (s *reportFile) SaveResults(results []entities.ScenarioResult) error {
	if dir := filepath.Dir(s.reportPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return os.WriteFile(s.reportPath, data, 0644)
}

// LoadResults - loads scenario results of the last run
func (s *reportFile) LoadResults() ([]entities.ScenarioResult, error) {
	data, err := os.ReadFile(s.reportPath)
	if err != nil {
		if os.IsNotExist(err) {
			return []entities.ScenarioResult{}, nil
		}
		return nil, err
	}

	var results []entities.ScenarioResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", s.reportPath, err)
	}

	return results, nil
}
