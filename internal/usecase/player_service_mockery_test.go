package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/prediction"
	playermock "github.com/riskibarqy/fpl-optimizer/internal/mocks/domain/player"
	predictionmock "github.com/riskibarqy/fpl-optimizer/internal/mocks/domain/prediction"
	"github.com/stretchr/testify/mock"
)

func TestPlayerService_TopPlayers_UsingMockery(t *testing.T) {
	t.Parallel()

	playerRepo := playermock.NewRepository(t)
	predictionRepo := predictionmock.NewRepository(t)
	service := NewPlayerService(playerRepo, predictionRepo)

	playerRepo.
		On("ListAll", mock.Anything).
		Return([]player.Player{
			{ID: 1, TeamID: 1, WebName: "Raya", Position: player.PositionGoalkeeper, Price: 55},
			{ID: 2, TeamID: 1, WebName: "Saka", Position: player.PositionMidfielder, Price: 100},
			{ID: 3, TeamID: 2, WebName: "Rogers", Position: player.PositionMidfielder, Price: 70},
			{ID: 4, TeamID: 2, WebName: "Tielemans", Position: player.PositionMidfielder, Price: 60},
		}, nil).
		Once()
	predictionRepo.
		On("ListByGameweekRange", mock.Anything, 5, 5).
		Return([]prediction.Prediction{
			{PlayerID: 1, Gameweek: 5, TotalPoints: 6},
			{PlayerID: 2, Gameweek: 5, TotalPoints: 4.5},
			{PlayerID: 4, Gameweek: 5, TotalPoints: 4.5},
		}, nil).
		Once()

	got, err := service.TopPlayers(context.Background(), TopPlayersInput{Gameweek: 5, Position: player.PositionMidfielder, Limit: 2})
	if err != nil {
		t.Fatalf("top players: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected player count: %d", len(got))
	}
	if got[0].Player.ID != 2 || got[1].Player.ID != 4 {
		t.Fatalf("unexpected ranking: %d, %d", got[0].Player.ID, got[1].Player.ID)
	}
}

func TestPlayerService_TopPlayers_InvalidPosition(t *testing.T) {
	t.Parallel()

	service := NewPlayerService(playermock.NewRepository(t), predictionmock.NewRepository(t))

	_, err := service.TopPlayers(context.Background(), TopPlayersInput{Gameweek: 5, Position: "GOALIE", Limit: 5})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPlayerService_GetPlayer_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	playerRepo := playermock.NewRepository(t)
	service := NewPlayerService(playerRepo, predictionmock.NewRepository(t))

	playerRepo.
		On("GetByIDs", mock.Anything, []int64{404}).
		Return([]player.Player{}, nil).
		Once()

	_, err := service.GetPlayer(context.Background(), 404)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
