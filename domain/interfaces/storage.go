package interfaces

import "page_objects/domain/entities"

// ReportStore defines the interface for keeping scenario run reports
type ReportStore interface {
	// SaveResults replaces stored report with results of the last run
	SaveResults(results []entities.ScenarioResult) error

	// LoadResults returns results of the last run, empty when nothing stored
	LoadResults() ([]entities.ScenarioResult, error)
}
