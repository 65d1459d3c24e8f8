package fantasy

import "context"

// SquadRepository stores a manager's picks per gameweek.
type SquadRepository interface {
	GetByManager(ctx context.Context, managerID int64, gameweek int) (Squad, bool, error)
	Upsert(ctx context.Context, squad Squad) error
}

// TransferRepository stores a manager's transfer history.
type TransferRepository interface {
	ListByManager(ctx context.Context, managerID int64) ([]Purchase, error)
	ReplaceForManager(ctx context.Context, managerID int64, items []Purchase) error
}
