package rawdata

import "context"

type Repository interface {
	UpsertMany(ctx context.Context, items []Payload) error
	GetLatest(ctx context.Context, source, entityType, entityKey string) (Payload, bool, error)
}
