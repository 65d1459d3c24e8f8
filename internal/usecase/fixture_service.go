package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/fixture"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/team"
)

type FixtureService struct {
	teamRepo     team.Repository
	fixtureRepo  fixture.Repository
	gameweekRepo gameweek.Repository
}

func NewFixtureService(teamRepo team.Repository, fixtureRepo fixture.Repository, gameweekRepo gameweek.Repository) *FixtureService {
	return &FixtureService{
		teamRepo:     teamRepo,
		fixtureRepo:  fixtureRepo,
		gameweekRepo: gameweekRepo,
	}
}

// UpcomingFixture is a fixture with both team names resolved.
type UpcomingFixture struct {
	fixture.Fixture
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
}

// ListUpcoming returns the fixtures of the next horizon gameweeks.
func (s *FixtureService) ListUpcoming(ctx context.Context, horizon int) ([]UpcomingFixture, error) {
	ctx, span := startSpan(ctx, "FixtureService.ListUpcoming")
	defer span.End()

	if horizon <= 0 || horizon > gameweek.LastGameweek {
		return nil, fmt.Errorf("%w: horizon must be between 1 and %d", ErrInvalidInput, gameweek.LastGameweek)
	}

	current, err := currentGameweek(ctx, s.gameweekRepo)
	if err != nil {
		return nil, err
	}
	gameweeks := gameweek.Horizon(current, horizon)
	if len(gameweeks) == 0 {
		return []UpcomingFixture{}, nil
	}

	fixtures, err := s.fixtureRepo.ListByGameweekRange(ctx, gameweeks[0], gameweeks[len(gameweeks)-1])
	if err != nil {
		return nil, fmt.Errorf("list fixtures by gameweek range: %w", err)
	}

	names := make(map[int64]string)
	teamName := func(teamID int64) (string, error) {
		if name, ok := names[teamID]; ok {
			return name, nil
		}
		item, exists, err := s.teamRepo.GetByID(ctx, teamID)
		if err != nil {
			return "", fmt.Errorf("get team: %w", err)
		}
		if !exists {
			return "", fmt.Errorf("%w: team=%d", ErrNotFound, teamID)
		}
		names[teamID] = item.Short
		return item.Short, nil
	}

	out := make([]UpcomingFixture, 0, len(fixtures))
	for _, item := range fixtures {
		home, err := teamName(item.HomeTeamID)
		if err != nil {
			return nil, err
		}
		away, err := teamName(item.AwayTeamID)
		if err != nil {
			return nil, err
		}
		out = append(out, UpcomingFixture{Fixture: item, HomeTeam: home, AwayTeam: away})
	}

	return out, nil
}
