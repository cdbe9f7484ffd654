package entities

import "time"

// ScenarioResult represents the outcome of one scenario run
type ScenarioResult struct {
	RunID     string         `json:"run_id"`
	Name      string         `json:"name"`
	Status    ScenarioStatus `json:"status"`
	Error     string         `json:"error,omitempty"`
	FinalURL  string         `json:"final_url,omitempty"`
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration"`
}

// ScenarioStatus represents the status of a scenario
type ScenarioStatus string

const (
	ScenarioStatusPending  ScenarioStatus = "pending"
	ScenarioStatusRunning  ScenarioStatus = "running"
	ScenarioStatusPassed   ScenarioStatus = "passed"
	ScenarioStatusFailed   ScenarioStatus = "failed"
	ScenarioStatusCanceled ScenarioStatus = "canceled"
)

// Finished - reports whether the scenario reached a terminal status
func (s ScenarioStatus) Finished() bool {
	return s == ScenarioStatusPassed || s == ScenarioStatusFailed || s == ScenarioStatusCanceled
}
