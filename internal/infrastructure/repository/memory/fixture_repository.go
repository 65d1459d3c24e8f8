package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/fixture"
)

type FixtureRepository struct {
	mu    sync.RWMutex
	index map[int64]fixture.Fixture
}

func NewFixtureRepository(items []fixture.Fixture) *FixtureRepository {
	index := make(map[int64]fixture.Fixture, len(items))
	for _, item := range items {
		index[item.ID] = item
	}
	return &FixtureRepository{index: index}
}

func (r *FixtureRepository) ListAll(_ context.Context) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sorted(func(fixture.Fixture) bool { return true }), nil
}

func (r *FixtureRepository) ListByGameweekRange(_ context.Context, fromGameweek, toGameweek int) ([]fixture.Fixture, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sorted(func(f fixture.Fixture) bool {
		return f.Gameweek >= fromGameweek && f.Gameweek <= toGameweek
	}), nil
}

func (r *FixtureRepository) UpsertMany(_ context.Context, items []fixture.Fixture) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.index[item.ID] = item
	}
	return nil
}

func (r *FixtureRepository) sorted(keep func(fixture.Fixture) bool) []fixture.Fixture {
	out := make([]fixture.Fixture, 0, len(r.index))
	for _, item := range r.index {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Gameweek != out[j].Gameweek {
			return out[i].Gameweek < out[j].Gameweek
		}
		return out[i].ID < out[j].ID
	})
	return out
}
