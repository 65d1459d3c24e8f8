package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/fantasy"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/recommendation"
	"github.com/riskibarqy/fpl-optimizer/internal/optimizer"
	idgen "github.com/riskibarqy/fpl-optimizer/internal/platform/id"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/logging"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/money"
	"github.com/sourcegraph/conc/pool"
)

const defaultBatchWorkers = 4

type TransferService struct {
	repos        OptimizerRepositories
	engine       *optimizer.Engine
	recs         recommendationWriter
	cfg          SolverConfig
	batchWorkers int
	logger       *logging.Logger
	now          func() time.Time
}

func NewTransferService(
	repos OptimizerRepositories,
	engine *optimizer.Engine,
	idGen idgen.Generator,
	cfg SolverConfig,
	batchWorkers int,
	logger *logging.Logger,
) *TransferService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = DefaultPredictionHorizon
	}
	if batchWorkers <= 0 {
		batchWorkers = defaultBatchWorkers
	}

	return &TransferService{
		repos:        repos,
		engine:       engine,
		recs:         recommendationWriter{repo: repos.Recommendations, idGen: idGen},
		cfg:          cfg,
		batchWorkers: batchWorkers,
		logger:       logger,
		now:          time.Now,
	}
}

type OptimizeTransfersInput struct {
	ManagerID    int64 `validate:"gt=0"`
	MaxTransfers int   `validate:"gte=1,lte=15"`
	// Budget is in currency units; nil uses the manager's bank.
	Budget  *float64 `validate:"omitempty,gte=0"`
	Horizon int      `validate:"gte=0,lte=38"`
	Persist bool
}

type TransferResult struct {
	ManagerID        int64                `json:"manager_id"`
	Gameweeks        []int                `json:"gameweeks"`
	Plan             fantasy.TransferPlan `json:"plan"`
	RecommendationID string               `json:"recommendation_id,omitempty"`
}

// transferPool is the player pool with predictions, shared by every manager
// optimized against the same horizon.
type transferPool struct {
	current    int
	gameweeks  []int
	candidates []optimizer.Candidate
}

// OptimizeTransfers finds the best transfer set for a stored manager squad.
func (s *TransferService) OptimizeTransfers(ctx context.Context, input OptimizeTransfersInput) (TransferResult, error) {
	ctx, span := startSpan(ctx, "TransferService.OptimizeTransfers", managerAttr(input.ManagerID))
	defer span.End()

	if err := validateInput(ctx, input); err != nil {
		return TransferResult{}, err
	}

	shared, err := s.loadPool(ctx, input.Horizon)
	if err != nil {
		return TransferResult{}, err
	}
	return s.optimizeForManager(ctx, shared, input)
}

type BatchInput struct {
	ManagerIDs   []int64 `validate:"min=1,dive,gt=0"`
	MaxTransfers int     `validate:"gte=1,lte=15"`
	Horizon      int     `validate:"gte=0,lte=38"`
	Workers      int     `validate:"gte=0,lte=64"`
	Persist      bool
}

// BatchItem is one manager's outcome. Exactly one of Result and Err is set.
type BatchItem struct {
	ManagerID int64
	Result    TransferResult
	Err       error
}

// OptimizeBatch optimizes transfers for many managers concurrently. The pool
// and predictions are loaded once. Items come back in input order and a
// failing manager does not stop the others.
func (s *TransferService) OptimizeBatch(ctx context.Context, input BatchInput) ([]BatchItem, error) {
	ctx, span := startSpan(ctx, "TransferService.OptimizeBatch")
	defer span.End()

	if err := validateInput(ctx, input); err != nil {
		return nil, err
	}

	shared, err := s.loadPool(ctx, input.Horizon)
	if err != nil {
		return nil, err
	}

	workers := input.Workers
	if workers <= 0 {
		workers = s.batchWorkers
	}

	items := make([]BatchItem, len(input.ManagerIDs))
	p := pool.New().WithContext(ctx).WithMaxGoroutines(workers)
	for i, managerID := range input.ManagerIDs {
		p.Go(func(ctx context.Context) error {
			result, err := s.optimizeForManager(ctx, shared, OptimizeTransfersInput{
				ManagerID:    managerID,
				MaxTransfers: input.MaxTransfers,
				Horizon:      input.Horizon,
				Persist:      input.Persist,
			})
			items[i] = BatchItem{ManagerID: managerID, Result: result, Err: err}
			if err != nil {
				s.logger.WarnContext(ctx, "batch transfer optimization failed", "manager_id", managerID, "error", err)
			}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return items, fmt.Errorf("optimize batch: %w", err)
	}

	failed := 0
	for _, item := range items {
		if item.Err != nil {
			failed++
		}
	}
	s.logger.InfoContext(ctx, "batch transfer optimization finished",
		"managers", len(items),
		"failed", failed,
		"workers", workers,
	)
	return items, nil
}

type SalePriceInput struct {
	ManagerID int64 `validate:"gt=0"`
	PlayerID  int64 `validate:"gt=0"`
}

type SalePriceResult struct {
	ManagerID    int64  `json:"manager_id"`
	PlayerID     int64  `json:"player_id"`
	Name         string `json:"name"`
	CurrentValue int64  `json:"current_value"`
	SalePrice    int64  `json:"sale_price"`
}

// SalePrice values one player against the manager's stored transfer history.
func (s *TransferService) SalePrice(ctx context.Context, input SalePriceInput) (SalePriceResult, error) {
	ctx, span := startSpan(ctx, "TransferService.SalePrice", managerAttr(input.ManagerID))
	defer span.End()

	if err := validateInput(ctx, input); err != nil {
		return SalePriceResult{}, err
	}

	players, err := resolvePlayers(ctx, s.repos.Players, []int64{input.PlayerID})
	if err != nil {
		return SalePriceResult{}, err
	}
	history, err := s.repos.Transfers.ListByManager(ctx, input.ManagerID)
	if err != nil {
		return SalePriceResult{}, fmt.Errorf("list manager transfers: %w", err)
	}

	p := players[0]
	return SalePriceResult{
		ManagerID:    input.ManagerID,
		PlayerID:     p.ID,
		Name:         p.DisplayName(),
		CurrentValue: p.Price,
		SalePrice:    fantasy.SalePrice(p.ID, history, p.Price),
	}, nil
}

func (s *TransferService) loadPool(ctx context.Context, horizon int) (transferPool, error) {
	current, err := currentGameweek(ctx, s.repos.Gameweeks)
	if err != nil {
		return transferPool{}, err
	}
	if horizon == 0 {
		horizon = s.cfg.Horizon
	}
	gameweeks := gameweek.Horizon(current, horizon)
	if len(gameweeks) == 0 {
		return transferPool{}, fmt.Errorf("%w: no gameweeks left after gameweek %d", ErrInvalidInput, current)
	}

	players, err := s.repos.Players.ListAll(ctx)
	if err != nil {
		return transferPool{}, fmt.Errorf("list players: %w", err)
	}
	points, err := predictedPoints(ctx, s.repos.Predictions, gameweeks)
	if err != nil {
		return transferPool{}, err
	}

	return transferPool{
		current:    current,
		gameweeks:  gameweeks,
		candidates: toCandidates(players, points),
	}, nil
}

func (s *TransferService) optimizeForManager(ctx context.Context, shared transferPool, input OptimizeTransfersInput) (TransferResult, error) {
	squad, err := storedSquad(ctx, s.repos.Squads, input.ManagerID, shared.current)
	if err != nil {
		return TransferResult{}, err
	}
	history, err := s.repos.Transfers.ListByManager(ctx, input.ManagerID)
	if err != nil {
		return TransferResult{}, fmt.Errorf("list manager transfers: %w", err)
	}

	budget := money.FromTenths(squad.Bank).InexactFloat64()
	if input.Budget != nil {
		budget = *input.Budget
	}

	solveCtx, cancel := withSolverTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	plan, err := s.engine.OptimizeTransfers(solveCtx, optimizer.TransferRequest{
		Pool:         shared.candidates,
		CurrentSquad: squad.PlayerIDs,
		Budget:       budget,
		MaxTransfers: input.MaxTransfers,
		History:      history,
	})
	if err != nil {
		return TransferResult{}, mapOptimizerError("optimize transfers", err)
	}

	result := TransferResult{
		ManagerID: input.ManagerID,
		Gameweeks: shared.gameweeks,
		Plan:      plan,
	}
	if input.Persist {
		recID, err := s.recs.save(ctx, input.ManagerID, shared.gameweeks[0], recommendation.KindTransfers, result, s.now())
		if err != nil {
			return TransferResult{}, err
		}
		result.RecommendationID = recID
	}

	s.logger.InfoContext(ctx, "transfers optimized",
		"manager_id", input.ManagerID,
		"gameweek", shared.gameweeks[0],
		"transfers", plan.TransferCount,
		"points_gain", plan.PointsGain,
		"net_cost", money.Format(plan.NetCost),
	)
	return result, nil
}
