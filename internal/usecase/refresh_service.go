package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fpl-optimizer/internal/platform/logging"
)

const (
	refreshStatusSuccess = "success"
	refreshStatusFailed  = "failed"
	refreshStatusSkipped = "skipped"

	refreshStepReference   = "reference"
	refreshStepManager     = "manager"
	refreshStepHistories   = "histories"
	refreshStepPredictions = "predictions"
)

type RefreshInput struct {
	ManagerIDs []int64 `validate:"dive,gt=0"`
	// SkipHistories keeps the stored element-summary lines and predictions.
	SkipHistories bool
	Horizon       int `validate:"gte=0,lte=38"`
}

type RefreshResult struct {
	SuccessCount int           `json:"success_count"`
	FailedCount  int           `json:"failed_count"`
	SkippedCount int           `json:"skipped_count"`
	Steps        []RefreshStep `json:"steps"`
}

type RefreshStep struct {
	Name       string `json:"name"`
	Key        string `json:"key,omitempty"`
	Status     string `json:"status"`
	Records    int    `json:"records"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

// RefreshService runs the ingestion pipeline in dependency order: reference
// data, manager squads, player histories, predictions. A reference failure
// skips everything after it; a manager failure only affects that manager.
// Refresh returns an error only when reference or history sync fails.
type RefreshService struct {
	ingestion   *IngestionService
	predictions *PredictionService
	logger      *logging.Logger
	now         func() time.Time
}

func NewRefreshService(ingestion *IngestionService, predictions *PredictionService, logger *logging.Logger) *RefreshService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RefreshService{
		ingestion:   ingestion,
		predictions: predictions,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *RefreshService) Refresh(ctx context.Context, input RefreshInput) (RefreshResult, error) {
	ctx, span := startSpan(ctx, "RefreshService.Refresh")
	defer span.End()

	if err := validateInput(ctx, input); err != nil {
		return RefreshResult{}, err
	}

	var out RefreshResult
	record := func(step RefreshStep) {
		switch step.Status {
		case refreshStatusSuccess:
			out.SuccessCount++
		case refreshStatusFailed:
			out.FailedCount++
		default:
			out.SkippedCount++
		}
		out.Steps = append(out.Steps, step)
	}

	var ref SyncReferenceResult
	refStep := s.run(refreshStepReference, "", func() (int, error) {
		var err error
		ref, err = s.ingestion.SyncReference(ctx)
		return ref.Players, err
	})
	record(refStep)
	if refStep.Status == refreshStatusFailed {
		for _, managerID := range input.ManagerIDs {
			record(skipped(refreshStepManager, fmt.Sprint(managerID), "reference sync failed"))
		}
		if !input.SkipHistories {
			record(skipped(refreshStepHistories, "", "reference sync failed"))
			record(skipped(refreshStepPredictions, "", "reference sync failed"))
		}
		s.logger.WarnContext(ctx, "refresh aborted", "error", refStep.Message)
		return out, fmt.Errorf("%w: refresh reference data: %s", ErrDependencyUnavailable, refStep.Message)
	}

	for _, managerID := range input.ManagerIDs {
		record(s.run(refreshStepManager, fmt.Sprint(managerID), func() (int, error) {
			res, err := s.ingestion.ImportManager(ctx, ImportManagerInput{ManagerID: managerID})
			return len(res.Squad.PlayerIDs), err
		}))
	}

	if input.SkipHistories {
		return out, nil
	}

	histStep := s.run(refreshStepHistories, "", func() (int, error) {
		res, err := s.ingestion.SyncPlayerHistories(ctx, SyncHistoriesInput{})
		return res.Lines, err
	})
	record(histStep)
	if histStep.Status == refreshStatusFailed {
		record(skipped(refreshStepPredictions, "", "history sync failed"))
		return out, fmt.Errorf("%w: refresh player histories: %s", ErrDependencyUnavailable, histStep.Message)
	}

	record(s.run(refreshStepPredictions, "", func() (int, error) {
		res, err := s.predictions.Predict(ctx, PredictInput{Horizon: input.Horizon})
		return res.Predictions, err
	}))

	s.logger.InfoContext(ctx, "refresh finished",
		"current_gameweek", ref.CurrentGameweek,
		"success", out.SuccessCount,
		"failed", out.FailedCount,
	)
	return out, nil
}

func (s *RefreshService) run(name, key string, fn func() (int, error)) RefreshStep {
	started := s.now()
	records, err := fn()
	step := RefreshStep{
		Name:       name,
		Key:        key,
		Status:     refreshStatusSuccess,
		Records:    records,
		DurationMs: s.now().Sub(started).Milliseconds(),
	}
	if err != nil {
		step.Status = refreshStatusFailed
		step.Message = err.Error()
		s.logger.Warn("refresh step failed", "step", name, "key", key, "error", err)
	}
	return step
}

func skipped(name, key, reason string) RefreshStep {
	return RefreshStep{Name: name, Key: key, Status: refreshStatusSkipped, Message: reason}
}
