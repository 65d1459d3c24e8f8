package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/fixture"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/gameweek"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/playerstats"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/prediction"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/scoring"
	"github.com/riskibarqy/fpl-optimizer/internal/platform/logging"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultPredictionWindow  = 6
	DefaultPredictionHorizon = 1
)

type PredictionConfig struct {
	// Window is how many past gameweeks feed the per-fixture averages.
	Window int
	// Horizon is how many upcoming gameweeks get a prediction.
	Horizon int
}

// PredictionService produces the baseline per-category predictions the
// optimizer consumes: a recency-weighted mean of each statistic per fixture
// played, scaled by the number of fixtures the player's team has in each
// upcoming gameweek.
type PredictionService struct {
	players     player.Repository
	fixtures    fixture.Repository
	gameweeks   gameweek.Repository
	stats       playerstats.Repository
	predictions prediction.Repository
	table       scoring.Table
	cfg         PredictionConfig
	logger      *logging.Logger
	now         func() time.Time
}

func NewPredictionService(
	players player.Repository,
	fixtures fixture.Repository,
	gameweeks gameweek.Repository,
	stats playerstats.Repository,
	predictions prediction.Repository,
	table scoring.Table,
	cfg PredictionConfig,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultPredictionWindow
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = DefaultPredictionHorizon
	}

	return &PredictionService{
		players:     players,
		fixtures:    fixtures,
		gameweeks:   gameweeks,
		stats:       stats,
		predictions: predictions,
		table:       table,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

type PredictInput struct {
	// Gameweek is the last played gameweek; zero means the current one.
	Gameweek int `validate:"gte=0,lte=38"`
	Horizon  int `validate:"gte=0,lte=38"`
	Window   int `validate:"gte=0,lte=38"`
}

type PredictResult struct {
	CurrentGameweek int   `json:"current_gameweek"`
	Gameweeks       []int `json:"gameweeks"`
	Players         int   `json:"players"`
	Predictions     int   `json:"predictions"`
}

// Predict computes and stores predictions for every player over the horizon.
func (s *PredictionService) Predict(ctx context.Context, input PredictInput) (PredictResult, error) {
	ctx, span := startSpan(ctx, "PredictionService.Predict")
	defer span.End()

	if err := validateInput(ctx, input); err != nil {
		return PredictResult{}, err
	}

	current := input.Gameweek
	if current == 0 {
		gw, err := currentGameweek(ctx, s.gameweeks)
		if err != nil {
			return PredictResult{}, err
		}
		current = gw
	}
	horizon := input.Horizon
	if horizon == 0 {
		horizon = s.cfg.Horizon
	}
	window := input.Window
	if window == 0 {
		window = s.cfg.Window
	}

	gameweeks := gameweek.Horizon(current, horizon)
	if len(gameweeks) == 0 {
		return PredictResult{}, fmt.Errorf("%w: no gameweeks left after gameweek %d", ErrInvalidInput, current)
	}

	players, err := s.players.ListAll(ctx)
	if err != nil {
		return PredictResult{}, fmt.Errorf("list players: %w", err)
	}
	playerIDs := make([]int64, 0, len(players))
	for _, p := range players {
		playerIDs = append(playerIDs, p.ID)
	}

	lines, err := s.stats.ListByPlayers(ctx, playerIDs)
	if err != nil {
		return PredictResult{}, fmt.Errorf("list player stats: %w", err)
	}
	linesByPlayer := make(map[int64][]playerstats.StatLine, len(players))
	for _, line := range lines {
		linesByPlayer[line.PlayerID] = append(linesByPlayer[line.PlayerID], line)
	}

	upcoming, err := s.fixtures.ListByGameweekRange(ctx, gameweeks[0], gameweeks[len(gameweeks)-1])
	if err != nil {
		return PredictResult{}, fmt.Errorf("list upcoming fixtures: %w", err)
	}
	fixtureCounts := fixture.CountByTeamAndGameweek(upcoming)

	generatedAt := s.now().UTC()
	items := make([]prediction.Prediction, 0, len(players)*len(gameweeks))
	for _, p := range players {
		perFixture := PerFixtureExpectation(linesByPlayer[p.ID], current, window)
		perFixturePoints, perFixtureTotal := s.table.Breakdown(p.Position, perFixture)

		for _, gw := range gameweeks {
			n := float64(fixtureCounts[p.TeamID][gw])
			item := prediction.Prediction{
				PlayerID:    p.ID,
				Gameweek:    gw,
				Fixtures:    fixtureCounts[p.TeamID][gw],
				Expected:    scaleCategories(perFixture, n),
				Points:      scaleCategories(perFixturePoints, n),
				TotalPoints: perFixtureTotal * n,
				GeneratedAt: generatedAt,
			}
			items = append(items, item)
		}
	}

	if err := s.predictions.UpsertMany(ctx, items); err != nil {
		return PredictResult{}, fmt.Errorf("upsert predictions: %w", err)
	}

	s.logger.InfoContext(ctx, "predictions generated",
		"current_gameweek", current,
		"from_gameweek", gameweeks[0],
		"to_gameweek", gameweeks[len(gameweeks)-1],
		"players", len(players),
		"window", window,
	)
	return PredictResult{
		CurrentGameweek: current,
		Gameweeks:       gameweeks,
		Players:         len(players),
		Predictions:     len(items),
	}, nil
}

// PerFixtureExpectation averages each scoring statistic over the fixtures a
// player took part in during the last window gameweeks up to current. The
// most recent gameweek weighs window, the oldest weighs 1. Lines with zero
// minutes count as appearances the player missed and are averaged in, so an
// injured player's expectation decays. No lines means every category is 0.
func PerFixtureExpectation(lines []playerstats.StatLine, current, window int) map[scoring.Category]float64 {
	out := make(map[scoring.Category]float64, len(scoring.Categories))
	for _, c := range scoring.Categories {
		out[c] = 0
	}
	if window <= 0 {
		return out
	}

	oldest := current - window + 1
	recent := make([]playerstats.StatLine, 0, len(lines))
	weights := make([]float64, 0, len(lines))
	for _, line := range lines {
		if line.Gameweek < oldest || line.Gameweek > current {
			continue
		}
		recent = append(recent, line)
		weights = append(weights, float64(line.Gameweek-oldest+1))
	}
	if len(recent) == 0 {
		return out
	}

	values := make([]float64, len(recent))
	for _, c := range scoring.Categories {
		for i, line := range recent {
			values[i] = line.Value(c)
		}
		out[c] = stat.Mean(values, weights)
	}
	return out
}

func scaleCategories(values map[scoring.Category]float64, factor float64) map[scoring.Category]float64 {
	out := make(map[scoring.Category]float64, len(values))
	for c, v := range values {
		out[c] = v * factor
	}
	return out
}
