package fixture

import "context"

// Repository exposes fixture read and sync operations.
type Repository interface {
	ListAll(ctx context.Context) ([]Fixture, error)
	ListByGameweekRange(ctx context.Context, fromGameweek, toGameweek int) ([]Fixture, error)
	UpsertMany(ctx context.Context, fixtures []Fixture) error
}
