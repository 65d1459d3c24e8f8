package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/fantasy"
)

type squadKey struct {
	managerID int64
	gameweek  int
}

type SquadRepository struct {
	mu    sync.RWMutex
	items map[squadKey]fantasy.Squad
}

func NewSquadRepository() *SquadRepository {
	return &SquadRepository{items: make(map[squadKey]fantasy.Squad)}
}

func (r *SquadRepository) GetByManager(_ context.Context, managerID int64, gameweek int) (fantasy.Squad, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	squad, ok := r.items[squadKey{managerID: managerID, gameweek: gameweek}]
	if !ok {
		return fantasy.Squad{}, false, nil
	}

	return cloneSquad(squad), true, nil
}

func (r *SquadRepository) Upsert(_ context.Context, squad fantasy.Squad) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[squadKey{managerID: squad.ManagerID, gameweek: squad.Gameweek}] = cloneSquad(squad)
	return nil
}

func cloneSquad(s fantasy.Squad) fantasy.Squad {
	copied := s
	copied.PlayerIDs = append([]int64(nil), s.PlayerIDs...)
	return copied
}

type TransferRepository struct {
	mu        sync.RWMutex
	byManager map[int64][]fantasy.Purchase
}

func NewTransferRepository() *TransferRepository {
	return &TransferRepository{byManager: make(map[int64][]fantasy.Purchase)}
}

func (r *TransferRepository) ListByManager(_ context.Context, managerID int64) ([]fantasy.Purchase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]fantasy.Purchase(nil), r.byManager[managerID]...), nil
}

func (r *TransferRepository) ReplaceForManager(_ context.Context, managerID int64, items []fantasy.Purchase) error {
	copied := append([]fantasy.Purchase(nil), items...)
	sort.SliceStable(copied, func(i, j int) bool { return copied[i].Time.After(copied[j].Time) })

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byManager[managerID] = copied
	return nil
}
