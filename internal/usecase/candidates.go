package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/prediction"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/scoring"
	"github.com/riskibarqy/fpl-optimizer/internal/optimizer"
)

// predictedPoints sums stored predictions per player over the given gameweeks.
func predictedPoints(ctx context.Context, repo prediction.Repository, gameweeks []int) (map[int64]prediction.Aggregate, error) {
	if len(gameweeks) == 0 {
		return map[int64]prediction.Aggregate{}, nil
	}
	items, err := repo.ListByGameweekRange(ctx, gameweeks[0], gameweeks[len(gameweeks)-1])
	if err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	return prediction.AggregateByPlayer(items), nil
}

// toCandidates joins players with their aggregated predictions. Players with
// no prediction score zero.
func toCandidates(players []player.Player, points map[int64]prediction.Aggregate) []optimizer.Candidate {
	out := make([]optimizer.Candidate, 0, len(players))
	for _, p := range players {
		agg, ok := points[p.ID]
		c := optimizer.Candidate{Player: p}
		if ok {
			c.Points = agg.TotalPoints
			c.CategoryPoints = copyCategoryPoints(agg.Points)
		}
		out = append(out, c)
	}
	return out
}

func copyCategoryPoints(in map[scoring.Category]float64) map[scoring.Category]float64 {
	out := make(map[scoring.Category]float64, len(in))
	for c, v := range in {
		out[c] = v
	}
	return out
}
