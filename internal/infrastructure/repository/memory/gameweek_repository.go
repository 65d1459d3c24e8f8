package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/gameweek"
)

type GameweekRepository struct {
	mu    sync.RWMutex
	index map[int]gameweek.Gameweek
}

func NewGameweekRepository() *GameweekRepository {
	return &GameweekRepository{index: make(map[int]gameweek.Gameweek)}
}

func (r *GameweekRepository) ListAll(_ context.Context) ([]gameweek.Gameweek, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gameweek.Gameweek, 0, len(r.index))
	for _, item := range r.index {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *GameweekRepository) UpsertMany(_ context.Context, items []gameweek.Gameweek) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.index[item.ID] = item
	}
	return nil
}
