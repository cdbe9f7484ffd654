package scenarios

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"page_objects/application/pageobject"
	"page_objects/domain/entities"
	"page_objects/domain/interfaces"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrScenarioFailed is returned by Run when at least one scenario didn't pass
var ErrScenarioFailed = errors.New("scenario failed")

// Func drives page objects through one user flow
type Func func(ctx context.Context, session interfaces.Session, config pageobject.ViewConfig) error

// Scenario is a named user flow
type Scenario struct {
	Name        string
	Description string
	Run         Func
}

// Select - picks scenarios by name keeping given order, all when names are empty
func Select(all []Scenario, names []string) ([]Scenario, error) {
	if len(names) == 0 {
		return all, nil
	}
	byName := make(map[string]Scenario, len(all))
	for _, s := range all {
		byName[s.Name] = s
	}
	selected := make([]Scenario, 0, len(names))
	for _, name := range names {
		s, ok := byName[strings.TrimSpace(name)]
		if !ok {
			return nil, fmt.Errorf("unknown scenario `%s`", name)
		}
		selected = append(selected, s)
	}
	return selected, nil
}

// Runner runs scenarios one by one against a single session
type Runner struct {
	session interfaces.Session
	config  pageobject.ViewConfig
	store   interfaces.ReportStore
	logger  *logrus.Logger
}

// NewRunner - creates new runner, store may be nil
func NewRunner(session interfaces.Session, config pageobject.ViewConfig, store interfaces.ReportStore, logger *logrus.Logger) *Runner {
	return &Runner{
		session: session,
		config:  config,
		store:   store,
		logger:  logger,
	}
}

// Run - executes scenarios sequentially. Scenarios left when ctx is done are
// reported as canceled. Results are saved even when some scenario failed.
func (r *Runner) Run(ctx context.Context, scenarios []Scenario) ([]entities.ScenarioResult, error) {
	results := make([]entities.ScenarioResult, 0, len(scenarios))
	runID := uuid.NewString()
	failed := 0

	for _, scenario := range scenarios {
		result := entities.ScenarioResult{
			RunID:     runID,
			Name:      scenario.Name,
			Status:    entities.ScenarioStatusPending,
			StartedAt: time.Now(),
		}

		select {
		case <-ctx.Done():
			result.Status = entities.ScenarioStatusCanceled
			result.Error = ctx.Err().Error()
			results = append(results, result)
			failed++
			continue
		default:
		}

		r.runOne(ctx, scenario, &result)
		if result.Status != entities.ScenarioStatusPassed {
			failed++
		}
		results = append(results, result)
	}

	if r.store != nil {
		if err := r.store.SaveResults(results); err != nil {
			return results, fmt.Errorf("failed to save results: %w", err)
		}
	}

	if failed > 0 {
		return results, fmt.Errorf("%w: %d of %d", ErrScenarioFailed, failed, len(scenarios))
	}
	return results, nil
}

func (r *Runner) runOne(ctx context.Context, scenario Scenario, result *entities.ScenarioResult) {
	log := r.logger.WithFields(logrus.Fields{"run": result.RunID, "scenario": scenario.Name})
	log.Info("Scenario started")
	result.Status = entities.ScenarioStatusRunning

	err := scenario.Run(ctx, r.session, r.config)
	result.Duration = time.Since(result.StartedAt)

	if current, urlErr := r.session.CurrentURL(context.WithoutCancel(ctx)); urlErr == nil {
		result.FinalURL = current
	}

	switch {
	case err == nil:
		result.Status = entities.ScenarioStatusPassed
		log.WithField("duration", result.Duration).Info("Scenario passed")
	case ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		result.Status = entities.ScenarioStatusCanceled
		result.Error = err.Error()
		log.Warn("Scenario canceled")
	default:
		result.Status = entities.ScenarioStatusFailed
		result.Error = err.Error()
		log.WithError(err).Error("Scenario failed")
	}
}
