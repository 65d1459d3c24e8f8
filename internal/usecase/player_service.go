package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/prediction"
)

type PlayerService struct {
	playerRepo     player.Repository
	predictionRepo prediction.Repository
}

func NewPlayerService(playerRepo player.Repository, predictionRepo prediction.Repository) *PlayerService {
	return &PlayerService{
		playerRepo:     playerRepo,
		predictionRepo: predictionRepo,
	}
}

type TopPlayersInput struct {
	Gameweek int             `validate:"gt=0,lte=38"`
	Position player.Position `validate:"omitempty,oneof=GK DEF MID FWD"`
	Limit    int             `validate:"gt=0,lte=100"`
}

type RankedPlayer struct {
	Player player.Player `json:"player"`
	Points float64       `json:"points"`
}

// TopPlayers ranks players by predicted points for one gameweek, best first.
// Ties keep player id order.
func (s *PlayerService) TopPlayers(ctx context.Context, input TopPlayersInput) ([]RankedPlayer, error) {
	ctx, span := startSpan(ctx, "PlayerService.TopPlayers")
	defer span.End()

	if err := validateInput(ctx, input); err != nil {
		return nil, err
	}

	players, err := s.playerRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	items, err := s.predictionRepo.ListByGameweekRange(ctx, input.Gameweek, input.Gameweek)
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	points := prediction.AggregateByPlayer(items)

	ranked := make([]RankedPlayer, 0, len(players))
	for _, p := range players {
		if input.Position != "" && p.Position != input.Position {
			continue
		}
		ranked = append(ranked, RankedPlayer{Player: p, Points: points[p.ID].TotalPoints})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points > ranked[j].Points
		}
		return ranked[i].Player.ID < ranked[j].Player.ID
	})
	if len(ranked) > input.Limit {
		ranked = ranked[:input.Limit]
	}

	return ranked, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, playerID int64) (player.Player, error) {
	ctx, span := startSpan(ctx, "PlayerService.GetPlayer")
	defer span.End()

	if playerID <= 0 {
		return player.Player{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	items, err := s.playerRepo.GetByIDs(ctx, []int64{playerID})
	if err != nil {
		return player.Player{}, fmt.Errorf("get player by id: %w", err)
	}
	if len(items) == 0 {
		return player.Player{}, fmt.Errorf("%w: player=%d", ErrNotFound, playerID)
	}

	return items[0], nil
}
