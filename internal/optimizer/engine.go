// Package optimizer selects starting elevens and transfer sets by solving
// binary integer programs over predicted points.
package optimizer

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/fantasy"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/lineup"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/scoring"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/logging"
)

// Candidate is one row of the player pool handed to the optimizer.
type Candidate struct {
	Player         player.Player
	Points         float64
	CategoryPoints map[scoring.Category]float64
}

type Config struct {
	Rules fantasy.Rules
	// NodeLimit bounds the branch-and-bound search; zero uses the solver default.
	NodeLimit int
	Logger    *logging.Logger
}

// Engine holds immutable solver settings. It is safe for concurrent use; every
// call builds its own model.
type Engine struct {
	rules     fantasy.Rules
	nodeLimit int
	logger    *logging.Logger
}

func NewEngine(cfg Config) *Engine {
	rules := cfg.Rules
	if rules.SquadSize == 0 {
		rules = fantasy.DefaultRules()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Engine{
		rules:     rules,
		nodeLimit: cfg.NodeLimit,
		logger:    logger,
	}
}

func (e *Engine) Rules() fantasy.Rules {
	return e.rules
}

var defaultEngine = NewEngine(Config{Rules: fantasy.DefaultRules()})

// SelectStartingXI runs Engine.SelectStartingXI with the default rules.
func SelectStartingXI(ctx context.Context, squad []Candidate) (lineup.Selection, error) {
	return defaultEngine.SelectStartingXI(ctx, squad)
}

// OptimizeTransfers runs Engine.OptimizeTransfers with the default rules.
func OptimizeTransfers(ctx context.Context, req TransferRequest) (fantasy.TransferPlan, error) {
	return defaultEngine.OptimizeTransfers(ctx, req)
}

func validatePositions(items []Candidate) error {
	for _, item := range items {
		if _, ok := player.AllPositions[item.Player.Position]; !ok {
			return fmt.Errorf("%w: player_id=%d position=%s", fantasy.ErrUnknownPlayerPosition, item.Player.ID, item.Player.Position)
		}
	}
	return nil
}

func toPick(c Candidate, points float64) lineup.Pick {
	return lineup.Pick{
		PlayerID: c.Player.ID,
		Name:     c.Player.DisplayName(),
		TeamID:   c.Player.TeamID,
		Position: c.Player.Position,
		Points:   points,
	}
}

func positionRank(pos player.Position) int {
	return pos.Code()
}
