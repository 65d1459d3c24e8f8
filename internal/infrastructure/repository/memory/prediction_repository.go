package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/prediction"
)

type predictionKey struct {
	playerID int64
	gameweek int
}

type PredictionRepository struct {
	mu    sync.RWMutex
	items map[predictionKey]prediction.Prediction
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{items: make(map[predictionKey]prediction.Prediction)}
}

func (r *PredictionRepository) UpsertMany(_ context.Context, items []prediction.Prediction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.items[predictionKey{playerID: item.PlayerID, gameweek: item.Gameweek}] = item
	}
	return nil
}

func (r *PredictionRepository) ListByGameweekRange(_ context.Context, fromGameweek, toGameweek int) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]prediction.Prediction, 0, len(r.items))
	for key, item := range r.items {
		if key.gameweek < fromGameweek || key.gameweek > toGameweek {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlayerID != out[j].PlayerID {
			return out[i].PlayerID < out[j].PlayerID
		}
		return out[i].Gameweek < out[j].Gameweek
	})
	return out, nil
}
