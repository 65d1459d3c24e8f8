package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/fantasy"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/fixture"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/playerstats"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/prediction"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/rawdata"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/team"
	"github.com/riskibarqy/fpl-optimizer/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fpl-optimizer/internal/optimizer"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/logging"
)

const testManagerID int64 = 100

// testSquadIDs is a legal squad drawn from teams 1..6: two keepers, five
// defenders, five midfielders, three forwards, at most three per team.
var testSquadIDs = []int64{11, 21, 12, 13, 22, 32, 33, 24, 34, 44, 45, 54, 46, 56, 66}

// testPlayers builds eight teams of one keeper, two defenders, two
// midfielders and one forward. Player ids are team*10 + slot and every player
// costs 5.0.
func testPlayers() []player.Player {
	slots := []player.Position{
		player.PositionGoalkeeper,
		player.PositionDefender,
		player.PositionDefender,
		player.PositionMidfielder,
		player.PositionMidfielder,
		player.PositionForward,
	}
	out := make([]player.Player, 0, 48)
	for teamID := int64(1); teamID <= 8; teamID++ {
		for i, pos := range slots {
			id := teamID*10 + int64(i+1)
			out = append(out, player.Player{
				ID:       id,
				TeamID:   teamID,
				Name:     fmt.Sprintf("Player %d", id),
				WebName:  fmt.Sprintf("P%d", id),
				Position: pos,
				Price:    50,
				Status:   "a",
			})
		}
	}
	return out
}

func testTeams() []team.Team {
	out := make([]team.Team, 0, 8)
	for teamID := int64(1); teamID <= 8; teamID++ {
		out = append(out, team.Team{
			ID:    teamID,
			Name:  fmt.Sprintf("Team %d", teamID),
			Short: fmt.Sprintf("T%d", teamID),
		})
	}
	return out
}

// testGameweeks marks gameweek 2 as current.
func testGameweeks() []gameweek.Gameweek {
	return []gameweek.Gameweek{
		{ID: 1, Name: "Gameweek 1", Finished: true},
		{ID: 2, Name: "Gameweek 2", IsCurrent: true},
		{ID: 3, Name: "Gameweek 3", IsNext: true},
		{ID: 4, Name: "Gameweek 4"},
	}
}

type testWorld struct {
	teams           *memory.TeamRepository
	players         *memory.PlayerRepository
	gameweeks       *memory.GameweekRepository
	fixtures        *memory.FixtureRepository
	stats           *memory.PlayerStatsRepository
	predictions     *memory.PredictionRepository
	squads          *memory.SquadRepository
	transfers       *memory.TransferRepository
	recommendations *memory.RecommendationRepository
	rawData         *memory.RawDataRepository
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()

	w := &testWorld{
		teams:           memory.NewTeamRepository(testTeams()),
		players:         memory.NewPlayerRepository(testPlayers()),
		gameweeks:       memory.NewGameweekRepository(),
		fixtures:        memory.NewFixtureRepository(nil),
		stats:           memory.NewPlayerStatsRepository(),
		predictions:     memory.NewPredictionRepository(),
		squads:          memory.NewSquadRepository(),
		transfers:       memory.NewTransferRepository(),
		recommendations: memory.NewRecommendationRepository(),
		rawData:         memory.NewRawDataRepository(),
	}
	if err := w.gameweeks.UpsertMany(context.Background(), testGameweeks()); err != nil {
		t.Fatalf("seed gameweeks: %v", err)
	}
	return w
}

func (w *testWorld) optimizerRepos() OptimizerRepositories {
	return OptimizerRepositories{
		Players:         w.players,
		Gameweeks:       w.gameweeks,
		Predictions:     w.predictions,
		Squads:          w.squads,
		Transfers:       w.transfers,
		Recommendations: w.recommendations,
	}
}

func (w *testWorld) ingestionRepos() IngestionRepositories {
	return IngestionRepositories{
		Teams:     w.teams,
		Players:   w.players,
		Gameweeks: w.gameweeks,
		Fixtures:  w.fixtures,
		Stats:     w.stats,
		Squads:    w.squads,
		Transfers: w.transfers,
		RawData:   w.rawData,
	}
}

func (w *testWorld) seedSquad(t *testing.T, bank int64) {
	t.Helper()

	err := w.squads.Upsert(context.Background(), fantasy.Squad{
		ManagerID: testManagerID,
		Gameweek:  2,
		PlayerIDs: append([]int64(nil), testSquadIDs...),
		Bank:      bank,
		UpdatedAt: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed squad: %v", err)
	}
}

// seedPoints stores one gameweek-3 prediction per entry.
func (w *testWorld) seedPoints(t *testing.T, points map[int64]float64) {
	t.Helper()

	items := make([]prediction.Prediction, 0, len(points))
	for id, p := range points {
		items = append(items, prediction.Prediction{PlayerID: id, Gameweek: 3, Fixtures: 1, TotalPoints: p})
	}
	if err := w.predictions.UpsertMany(context.Background(), items); err != nil {
		t.Fatalf("seed predictions: %v", err)
	}
}

// squadPoints gives every squad member five points except the overrides.
func squadPoints(overrides map[int64]float64) map[int64]float64 {
	out := make(map[int64]float64, len(testSquadIDs)+len(overrides))
	for _, id := range testSquadIDs {
		out[id] = 5
	}
	for id, p := range overrides {
		out[id] = p
	}
	return out
}

func testEngine() *optimizer.Engine {
	return optimizer.NewEngine(optimizer.Config{Rules: fantasy.DefaultRules(), Logger: logging.NewNop()})
}

type sequenceIDGenerator struct {
	mu   sync.Mutex
	next int
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", g.next), nil
}

type fakeProvider struct {
	bootstrap    ExternalBootstrap
	bootstrapErr error
	fixtures     []fixture.Fixture
	histories    map[int64][]playerstats.StatLine
	historyErrs  map[int64]error
	picks        ExternalManagerPicks
	transfers    []fantasy.Purchase

	mu           sync.Mutex
	historyCalls int
}

func (f *fakeProvider) FetchBootstrap(context.Context) (ExternalBootstrap, error) {
	if f.bootstrapErr != nil {
		return ExternalBootstrap{}, f.bootstrapErr
	}
	return f.bootstrap, nil
}

func (f *fakeProvider) FetchFixtures(context.Context) ([]fixture.Fixture, []rawdata.Payload, error) {
	return f.fixtures, []rawdata.Payload{testPayload("fixtures", "all")}, nil
}

func (f *fakeProvider) FetchPlayerHistory(_ context.Context, playerID int64) ([]playerstats.StatLine, []rawdata.Payload, error) {
	f.mu.Lock()
	f.historyCalls++
	f.mu.Unlock()

	if err := f.historyErrs[playerID]; err != nil {
		return nil, nil, err
	}
	return f.histories[playerID], []rawdata.Payload{testPayload("element_summary", fmt.Sprint(playerID))}, nil
}

func (f *fakeProvider) FetchManagerPicks(_ context.Context, managerID int64, gw int) (ExternalManagerPicks, []rawdata.Payload, error) {
	if managerID != f.picks.ManagerID || gw != f.picks.Gameweek {
		return ExternalManagerPicks{}, nil, fmt.Errorf("%w: picks manager=%d gameweek=%d", ErrNotFound, managerID, gw)
	}
	return f.picks, []rawdata.Payload{testPayload("entry_picks", fmt.Sprintf("%d:%d", managerID, gw))}, nil
}

func (f *fakeProvider) FetchManagerTransfers(_ context.Context, managerID int64) ([]fantasy.Purchase, []rawdata.Payload, error) {
	return f.transfers, []rawdata.Payload{testPayload("entry_transfers", fmt.Sprint(managerID))}, nil
}

func testPayload(entityType, key string) rawdata.Payload {
	body := fmt.Sprintf(`{"type":%q,"key":%q}`, entityType, key)
	return rawdata.Payload{
		Source:      rawdata.SourceFPL,
		EntityType:  entityType,
		EntityKey:   key,
		PayloadJSON: body,
		PayloadHash: rawdata.HashPayload([]byte(body)),
		FetchedAt:   time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
	}
}
