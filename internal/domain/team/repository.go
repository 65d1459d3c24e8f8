package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	ListAll(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, teamID int64) (Team, bool, error)
	UpsertMany(ctx context.Context, teams []Team) error
}
