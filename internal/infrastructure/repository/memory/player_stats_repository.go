package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/playerstats"
)

type PlayerStatsRepository struct {
	mu       sync.RWMutex
	byPlayer map[int64][]playerstats.StatLine
}

func NewPlayerStatsRepository() *PlayerStatsRepository {
	return &PlayerStatsRepository{byPlayer: make(map[int64][]playerstats.StatLine)}
}

func (r *PlayerStatsRepository) ListByPlayers(_ context.Context, playerIDs []int64) ([]playerstats.StatLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playerstats.StatLine, 0, len(playerIDs)*8)
	for _, id := range playerIDs {
		out = append(out, r.byPlayer[id]...)
	}
	return out, nil
}

func (r *PlayerStatsRepository) ReplaceForPlayer(_ context.Context, playerID int64, lines []playerstats.StatLine) error {
	copied := append([]playerstats.StatLine(nil), lines...)
	sort.SliceStable(copied, func(i, j int) bool {
		if copied[i].Gameweek != copied[j].Gameweek {
			return copied[i].Gameweek < copied[j].Gameweek
		}
		return copied[i].FixtureID < copied[j].FixtureID
	})

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byPlayer[playerID] = copied
	return nil
}
