package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
)

type PlayerRepository struct {
	mu    sync.RWMutex
	index map[int64]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	index := make(map[int64]player.Player, len(players))
	for _, p := range players {
		index[p.ID] = p
	}
	return &PlayerRepository{index: index}
}

func (r *PlayerRepository) ListAll(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.index))
	for _, p := range r.index {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *PlayerRepository) GetByIDs(_ context.Context, playerIDs []int64) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		p, ok := r.index[id]
		if !ok {
			continue
		}
		out = append(out, p)
	}

	return out, nil
}

func (r *PlayerRepository) UpsertMany(_ context.Context, players []player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range players {
		r.index[p.ID] = p
	}
	return nil
}
