package gameweek

import "context"

type Repository interface {
	ListAll(ctx context.Context) ([]Gameweek, error)
	UpsertMany(ctx context.Context, items []Gameweek) error
}
