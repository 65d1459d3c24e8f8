package prediction

import "context"

// Repository stores predicted points per player and gameweek.
type Repository interface {
	UpsertMany(ctx context.Context, items []Prediction) error
	ListByGameweekRange(ctx context.Context, fromGameweek, toGameweek int) ([]Prediction, error)
}
