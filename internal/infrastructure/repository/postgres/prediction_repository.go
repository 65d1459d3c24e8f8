package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/prediction"
	qb "github.com/riskibarqy/fpl-optimizer/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) UpsertMany(ctx context.Context, items []prediction.Prediction) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]predictionTableModel, 0, len(items))
	for _, item := range items {
		expected, err := encodeCategoryMap(item.Expected)
		if err != nil {
			return fmt.Errorf("encode expected stats player=%d gw=%d: %w", item.PlayerID, item.Gameweek, err)
		}
		points, err := encodeCategoryMap(item.Points)
		if err != nil {
			return fmt.Errorf("encode category points player=%d gw=%d: %w", item.PlayerID, item.Gameweek, err)
		}
		models = append(models, predictionTableModel{
			PlayerID:    item.PlayerID,
			Gameweek:    item.Gameweek,
			Fixtures:    item.Fixtures,
			Expected:    expected,
			Points:      points,
			TotalPoints: item.TotalPoints,
			GeneratedAt: item.GeneratedAt,
		})
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert predictions: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, batch := range chunk(models, maxRowsPerInsert) {
		query, args, err := qb.InsertModels(qb.Dollar, "predictions", batch, `ON CONFLICT (player_id, gameweek) DO UPDATE SET
    fixtures = EXCLUDED.fixtures,
    expected = EXCLUDED.expected,
    points = EXCLUDED.points,
    total_points = EXCLUDED.total_points,
    generated_at = EXCLUDED.generated_at`)
		if err != nil {
			return fmt.Errorf("build upsert predictions query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert predictions: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert predictions tx: %w", err)
	}
	return nil
}

func (r *PredictionRepository) ListByGameweekRange(ctx context.Context, fromGameweek, toGameweek int) ([]prediction.Prediction, error) {
	query, args, err := qb.Select(
		"player_id",
		"gameweek",
		"fixtures",
		"expected::text AS expected",
		"points::text AS points",
		"total_points",
		"generated_at",
	).From("predictions").
		Where(qb.Between("gameweek", fromGameweek, toGameweek)).
		OrderBy("player_id", "gameweek").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select predictions query: %w", err)
	}

	var rows []predictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select predictions: %w", err)
	}

	out := make([]prediction.Prediction, 0, len(rows))
	for _, row := range rows {
		out = append(out, prediction.Prediction{
			PlayerID:    row.PlayerID,
			Gameweek:    row.Gameweek,
			Fixtures:    row.Fixtures,
			Expected:    decodeCategoryMap(row.Expected),
			Points:      decodeCategoryMap(row.Points),
			TotalPoints: row.TotalPoints,
			GeneratedAt: row.GeneratedAt,
		})
	}
	return out, nil
}
