package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/fantasy"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/lineup"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/prediction"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/recommendation"
	"github.com/riskibarqy/fpl-optimizer/internal/optimizer"
	idgen "github.com/riskibarqy/fpl-optimizer/internal/platform/id"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/logging"
)

// SolverConfig is shared by the lineup and transfer services.
type SolverConfig struct {
	// Timeout bounds one optimizer call; zero means no deadline.
	Timeout time.Duration
	// Horizon is the default number of upcoming gameweeks to sum points over.
	Horizon int
}

type OptimizerRepositories struct {
	Players         player.Repository
	Gameweeks       gameweek.Repository
	Predictions     prediction.Repository
	Squads          fantasy.SquadRepository
	Transfers       fantasy.TransferRepository
	Recommendations recommendation.Repository
}

type LineupService struct {
	repos  OptimizerRepositories
	engine *optimizer.Engine
	recs   recommendationWriter
	cfg    SolverConfig
	logger *logging.Logger
	now    func() time.Time
}

func NewLineupService(
	repos OptimizerRepositories,
	engine *optimizer.Engine,
	idGen idgen.Generator,
	cfg SolverConfig,
	logger *logging.Logger,
) *LineupService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = DefaultPredictionHorizon
	}

	return &LineupService{
		repos:  repos,
		engine: engine,
		recs:   recommendationWriter{repo: repos.Recommendations, idGen: idGen},
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

type SelectLineupInput struct {
	// ManagerID loads the stored squad when PlayerIDs is empty and keys the
	// saved recommendation.
	ManagerID int64   `validate:"gte=0"`
	PlayerIDs []int64 `validate:"omitempty,dive,gt=0"`
	Horizon   int     `validate:"gte=0,lte=38"`
	Persist   bool
}

type LineupResult struct {
	ManagerID        int64            `json:"manager_id,omitempty"`
	Gameweeks        []int            `json:"gameweeks"`
	Selection        lineup.Selection `json:"selection"`
	RecommendationID string           `json:"recommendation_id,omitempty"`
}

// SelectLineup picks the starting eleven, captain and bench order for the
// next gameweek from predicted points summed over the horizon.
func (s *LineupService) SelectLineup(ctx context.Context, input SelectLineupInput) (LineupResult, error) {
	ctx, span := startSpan(ctx, "LineupService.SelectLineup", managerAttr(input.ManagerID))
	defer span.End()

	if err := validateInput(ctx, input); err != nil {
		return LineupResult{}, err
	}
	if input.ManagerID == 0 && len(input.PlayerIDs) == 0 {
		return LineupResult{}, fmt.Errorf("%w: manager id or player ids are required", ErrInvalidInput)
	}

	current, err := currentGameweek(ctx, s.repos.Gameweeks)
	if err != nil {
		return LineupResult{}, err
	}
	horizon := input.Horizon
	if horizon == 0 {
		horizon = s.cfg.Horizon
	}
	gameweeks := gameweek.Horizon(current, horizon)
	if len(gameweeks) == 0 {
		return LineupResult{}, fmt.Errorf("%w: no gameweeks left after gameweek %d", ErrInvalidInput, current)
	}

	playerIDs := input.PlayerIDs
	if len(playerIDs) == 0 {
		squad, err := storedSquad(ctx, s.repos.Squads, input.ManagerID, current)
		if err != nil {
			return LineupResult{}, err
		}
		playerIDs = squad.PlayerIDs
	}

	players, err := resolvePlayers(ctx, s.repos.Players, playerIDs)
	if err != nil {
		return LineupResult{}, err
	}
	points, err := predictedPoints(ctx, s.repos.Predictions, gameweeks)
	if err != nil {
		return LineupResult{}, err
	}

	solveCtx, cancel := withSolverTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	selection, err := s.engine.SelectStartingXI(solveCtx, toCandidates(players, points))
	if err != nil {
		return LineupResult{}, mapOptimizerError("select starting eleven", err)
	}

	result := LineupResult{
		ManagerID: input.ManagerID,
		Gameweeks: gameweeks,
		Selection: selection,
	}
	if input.Persist {
		recID, err := s.recs.save(ctx, input.ManagerID, gameweeks[0], recommendation.KindLineup, result, s.now())
		if err != nil {
			return LineupResult{}, err
		}
		result.RecommendationID = recID
	}

	s.logger.InfoContext(ctx, "lineup selected",
		"manager_id", input.ManagerID,
		"gameweek", gameweeks[0],
		"formation", selection.Formation,
		"captain_id", selection.Captain.PlayerID,
		"expected_points", selection.ExpectedPoints,
	)
	return result, nil
}

func storedSquad(ctx context.Context, repo fantasy.SquadRepository, managerID int64, gw int) (fantasy.Squad, error) {
	squad, ok, err := repo.GetByManager(ctx, managerID, gw)
	if err != nil {
		return fantasy.Squad{}, fmt.Errorf("get manager squad: %w", err)
	}
	if !ok {
		return fantasy.Squad{}, fmt.Errorf("%w: squad for manager %d in gameweek %d, import the manager first", ErrNotFound, managerID, gw)
	}
	return squad, nil
}

// resolvePlayers loads players in request order and fails on any unknown id.
func resolvePlayers(ctx context.Context, repo player.Repository, playerIDs []int64) ([]player.Player, error) {
	players, err := repo.GetByIDs(ctx, playerIDs)
	if err != nil {
		return nil, fmt.Errorf("get players: %w", err)
	}
	if len(players) == len(playerIDs) {
		return players, nil
	}

	found := make(map[int64]struct{}, len(players))
	for _, p := range players {
		found[p.ID] = struct{}{}
	}
	for _, id := range playerIDs {
		if _, ok := found[id]; !ok {
			return nil, fmt.Errorf("%w: player %d", ErrNotFound, id)
		}
	}
	return nil, fmt.Errorf("%w: duplicate player ids", ErrInvalidInput)
}

func withSolverTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// mapOptimizerError turns rule violations in the optimizer input into
// ErrInvalidInput and keeps every other failure as is.
func mapOptimizerError(op string, err error) error {
	for _, target := range []error{
		fantasy.ErrInvalidSquadSize,
		fantasy.ErrExceededTeamLimit,
		fantasy.ErrInvalidComposition,
		fantasy.ErrUnknownPlayerPosition,
		fantasy.ErrDuplicatePlayerInSquad,
		fantasy.ErrDuplicatePlayerInPool,
		fantasy.ErrInvalidTransferBound,
		fantasy.ErrInvalidBudget,
		fantasy.ErrPlayerLookupFailure,
	} {
		if errors.Is(err, target) {
			return fmt.Errorf("%w: %s: %w", ErrInvalidInput, op, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
