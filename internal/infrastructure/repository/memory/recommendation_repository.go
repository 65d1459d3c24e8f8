package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/recommendation"
)

type RecommendationRepository struct {
	mu    sync.RWMutex
	items []recommendation.Recommendation
}

func NewRecommendationRepository() *RecommendationRepository {
	return &RecommendationRepository{}
}

func (r *RecommendationRepository) Create(_ context.Context, item recommendation.Recommendation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.ID == item.ID {
			return fmt.Errorf("recommendation %s already exists", item.ID)
		}
	}
	item.Payload = append([]byte(nil), item.Payload...)
	r.items = append(r.items, item)
	return nil
}

func (r *RecommendationRepository) ListByManager(_ context.Context, managerID int64, limit int) ([]recommendation.Recommendation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]recommendation.Recommendation, 0)
	for _, item := range r.items {
		if item.ManagerID == managerID {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
