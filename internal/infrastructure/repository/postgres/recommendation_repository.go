package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/recommendation"
	qb "github.com/riskibarqy/fpl-optimizer/internal/platform/querybuilder"
)

type RecommendationRepository struct {
	db *sqlx.DB
}

func NewRecommendationRepository(db *sqlx.DB) *RecommendationRepository {
	return &RecommendationRepository{db: db}
}

func (r *RecommendationRepository) Create(ctx context.Context, item recommendation.Recommendation) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validate recommendation: %w", err)
	}

	query, args, err := qb.InsertModels(qb.Dollar, "recommendations", []recommendationTableModel{{
		ID:        item.ID,
		ManagerID: item.ManagerID,
		Gameweek:  item.Gameweek,
		Kind:      string(item.Kind),
		Payload:   string(item.Payload),
		CreatedAt: item.CreatedAt,
	}}, "")
	if err != nil {
		return fmt.Errorf("build insert recommendation query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("recommendation %s already exists: %w", item.ID, err)
		}
		return fmt.Errorf("insert recommendation: %w", err)
	}
	return nil
}

func (r *RecommendationRepository) ListByManager(ctx context.Context, managerID int64, limit int) ([]recommendation.Recommendation, error) {
	builder := qb.Select(
		"id::text AS id",
		"manager_id",
		"gameweek",
		"kind",
		"payload::text AS payload",
		"created_at",
	).From("recommendations").
		Where(qb.Eq("manager_id", managerID)).
		OrderBy("created_at DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select recommendations query: %w", err)
	}

	var rows []recommendationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select recommendations manager=%d: %w", managerID, err)
	}

	out := make([]recommendation.Recommendation, 0, len(rows))
	for _, row := range rows {
		out = append(out, recommendation.Recommendation{
			ID:        row.ID,
			ManagerID: row.ManagerID,
			Gameweek:  row.Gameweek,
			Kind:      recommendation.Kind(row.Kind),
			Payload:   []byte(row.Payload),
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}
