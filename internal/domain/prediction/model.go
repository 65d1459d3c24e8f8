package prediction

import (
	"time"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/scoring"
)

// Prediction is the expected output of one player in one gameweek.
// Expected holds predicted statistic values; Points holds the same values
// converted through the scoring table. TotalPoints is the sum of Points.
type Prediction struct {
	PlayerID    int64
	Gameweek    int
	Fixtures    int
	Expected    map[scoring.Category]float64
	Points      map[scoring.Category]float64
	TotalPoints float64
	GeneratedAt time.Time
}

// Aggregate sums predictions per player over any number of gameweeks.
type Aggregate struct {
	PlayerID    int64
	Gameweeks   []int
	Points      map[scoring.Category]float64
	TotalPoints float64
}

// AggregateByPlayer folds per-gameweek predictions into one row per player.
func AggregateByPlayer(items []Prediction) map[int64]Aggregate {
	out := make(map[int64]Aggregate)
	for _, item := range items {
		agg, ok := out[item.PlayerID]
		if !ok {
			agg = Aggregate{PlayerID: item.PlayerID, Points: make(map[scoring.Category]float64)}
		}
		agg.Gameweeks = append(agg.Gameweeks, item.Gameweek)
		for c, p := range item.Points {
			agg.Points[c] += p
		}
		agg.TotalPoints += item.TotalPoints
		out[item.PlayerID] = agg
	}
	return out
}
