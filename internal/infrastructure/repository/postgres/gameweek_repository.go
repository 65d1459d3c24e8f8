package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/gameweek"
	qb "github.com/riskibarqy/fpl-optimizer/internal/platform/querybuilder"
)

type GameweekRepository struct {
	db *sqlx.DB
}

func NewGameweekRepository(db *sqlx.DB) *GameweekRepository {
	return &GameweekRepository{db: db}
}

func (r *GameweekRepository) ListAll(ctx context.Context) ([]gameweek.Gameweek, error) {
	query, args, err := qb.Select(qb.Columns(gameweekTableModel{})...).From("gameweeks").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select gameweeks query: %w", err)
	}

	var rows []gameweekTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select gameweeks: %w", err)
	}

	out := make([]gameweek.Gameweek, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameweek.Gameweek{
			ID:         row.ID,
			Name:       row.Name,
			DeadlineAt: row.DeadlineAt,
			Finished:   row.Finished,
			IsCurrent:  row.IsCurrent,
			IsNext:     row.IsNext,
		})
	}
	return out, nil
}

func (r *GameweekRepository) UpsertMany(ctx context.Context, items []gameweek.Gameweek) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]gameweekTableModel, 0, len(items))
	for _, item := range items {
		models = append(models, gameweekTableModel{
			ID:         item.ID,
			Name:       item.Name,
			DeadlineAt: item.DeadlineAt,
			Finished:   item.Finished,
			IsCurrent:  item.IsCurrent,
			IsNext:     item.IsNext,
		})
	}

	query, args, err := qb.InsertModels(qb.Dollar, "gameweeks", models, `ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    deadline_at = EXCLUDED.deadline_at,
    finished = EXCLUDED.finished,
    is_current = EXCLUDED.is_current,
    is_next = EXCLUDED.is_next`)
	if err != nil {
		return fmt.Errorf("build upsert gameweeks query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert gameweeks: %w", err)
	}
	return nil
}
