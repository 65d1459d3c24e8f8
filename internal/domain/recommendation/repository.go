package recommendation

import "context"

type Repository interface {
	Create(ctx context.Context, item Recommendation) error
	ListByManager(ctx context.Context, managerID int64, limit int) ([]Recommendation, error)
}
