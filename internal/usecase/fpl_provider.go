package usecase

import (
	"context"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/fantasy"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/fixture"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/playerstats"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/rawdata"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/team"
)

// FPLProvider is the public Fantasy Premier League API as seen by the use
// cases. Every call also returns the raw responses it decoded so ingestion
// can keep snapshots.
type FPLProvider interface {
	FetchBootstrap(ctx context.Context) (ExternalBootstrap, error)
	FetchFixtures(ctx context.Context) ([]fixture.Fixture, []rawdata.Payload, error)
	FetchPlayerHistory(ctx context.Context, playerID int64) ([]playerstats.StatLine, []rawdata.Payload, error)
	FetchManagerPicks(ctx context.Context, managerID int64, gameweek int) (ExternalManagerPicks, []rawdata.Payload, error)
	FetchManagerTransfers(ctx context.Context, managerID int64) ([]fantasy.Purchase, []rawdata.Payload, error)
}

type ExternalBootstrap struct {
	Teams       []team.Team
	Players     []player.Player
	Gameweeks   []gameweek.Gameweek
	RawPayloads []rawdata.Payload
}

// ExternalManagerPicks is a manager's squad for one gameweek. Bank is in tenths.
type ExternalManagerPicks struct {
	ManagerID int64
	Gameweek  int
	PlayerIDs []int64
	Bank      int64
}
