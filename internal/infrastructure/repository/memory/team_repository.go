package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/team"
)

type TeamRepository struct {
	mu    sync.RWMutex
	index map[int64]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	index := make(map[int64]team.Team, len(teams))
	for _, t := range teams {
		index[t.ID] = t
	}
	return &TeamRepository{index: index}
}

func (r *TeamRepository) ListAll(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.index))
	for _, t := range r.index {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, teamID int64) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.index[teamID]
	return t, ok, nil
}

func (r *TeamRepository) UpsertMany(_ context.Context, teams []team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range teams {
		r.index[t.ID] = t
	}
	return nil
}
