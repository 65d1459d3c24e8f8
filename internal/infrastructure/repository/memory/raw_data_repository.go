package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fpl-optimizer/internal/domain/rawdata"
)

type rawKey struct {
	source     string
	entityType string
	entityKey  string
}

// RawDataRepository keeps the latest snapshot per entity.
type RawDataRepository struct {
	mu    sync.RWMutex
	items map[rawKey]rawdata.Payload
}

func NewRawDataRepository() *RawDataRepository {
	return &RawDataRepository{items: make(map[rawKey]rawdata.Payload)}
}

func (r *RawDataRepository) UpsertMany(_ context.Context, items []rawdata.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.items[rawKey{source: item.Source, entityType: item.EntityType, entityKey: item.EntityKey}] = item
	}
	return nil
}

func (r *RawDataRepository) GetLatest(_ context.Context, source, entityType, entityKey string) (rawdata.Payload, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[rawKey{source: source, entityType: entityType, entityKey: entityKey}]
	return item, ok, nil
}
