package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/fixture"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/team"
	fixturemock "github.com/riskibarqy/fpl-optimizer/internal/mocks/domain/fixture"
	gameweekmock "github.com/riskibarqy/fpl-optimizer/internal/mocks/domain/gameweek"
	teammock "github.com/riskibarqy/fpl-optimizer/internal/mocks/domain/team"
	"github.com/stretchr/testify/mock"
)

func TestFixtureService_ListUpcoming_SuccessUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.WithValue(context.Background(), "trace_id", "trace-123")
	teamRepo := teammock.NewRepository(t)
	fixtureRepo := fixturemock.NewRepository(t)
	gameweekRepo := gameweekmock.NewRepository(t)

	service := NewFixtureService(teamRepo, fixtureRepo, gameweekRepo)
	kickoff := time.Date(2026, 8, 29, 14, 0, 0, 0, time.UTC)
	expectedFixtures := []fixture.Fixture{
		{ID: 21, Gameweek: 3, HomeTeamID: 1, AwayTeamID: 2, KickoffAt: &kickoff},
		{ID: 22, Gameweek: 4, HomeTeamID: 2, AwayTeamID: 1},
	}

	gameweekRepo.
		On("ListAll", mock.MatchedBy(func(v context.Context) bool { return v == ctx })).
		Return([]gameweek.Gameweek{{ID: 1, Finished: true}, {ID: 2, IsCurrent: true}}, nil).
		Once()
	fixtureRepo.
		On("ListByGameweekRange", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), 3, 4).
		Return(expectedFixtures, nil).
		Once()
	teamRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), int64(1)).
		Return(team.Team{ID: 1, Name: "Arsenal", Short: "ARS"}, true, nil).
		Once()
	teamRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v == ctx }), int64(2)).
		Return(team.Team{ID: 2, Name: "Aston Villa", Short: "AVL"}, true, nil).
		Once()

	got, err := service.ListUpcoming(ctx, 2)
	if err != nil {
		t.Fatalf("list upcoming fixtures: %v", err)
	}
	if len(got) != len(expectedFixtures) {
		t.Fatalf("unexpected fixture count: got=%d want=%d", len(got), len(expectedFixtures))
	}
	if got[0].HomeTeam != "ARS" || got[0].AwayTeam != "AVL" {
		t.Fatalf("unexpected team names: %s vs %s", got[0].HomeTeam, got[0].AwayTeam)
	}
	if got[1].HomeTeam != "AVL" || got[1].ID != 22 {
		t.Fatalf("unexpected second fixture: %+v", got[1])
	}
}

func TestFixtureService_ListUpcoming_TeamNotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	teamRepo := teammock.NewRepository(t)
	fixtureRepo := fixturemock.NewRepository(t)
	gameweekRepo := gameweekmock.NewRepository(t)

	service := NewFixtureService(teamRepo, fixtureRepo, gameweekRepo)

	gameweekRepo.
		On("ListAll", mock.Anything).
		Return([]gameweek.Gameweek{{ID: 5, IsCurrent: true}}, nil).
		Once()
	fixtureRepo.
		On("ListByGameweekRange", mock.Anything, 6, 6).
		Return([]fixture.Fixture{{ID: 60, Gameweek: 6, HomeTeamID: 7, AwayTeamID: 8}}, nil).
		Once()
	teamRepo.
		On("GetByID", mock.Anything, int64(7)).
		Return(team.Team{}, false, nil).
		Once()

	_, err := service.ListUpcoming(ctx, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFixtureService_ListUpcoming_InvalidHorizon(t *testing.T) {
	t.Parallel()

	service := NewFixtureService(teammock.NewRepository(t), fixturemock.NewRepository(t), gameweekmock.NewRepository(t))

	_, err := service.ListUpcoming(context.Background(), 0)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
