package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/team"
	qb "github.com/riskibarqy/fpl-optimizer/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

var teamSelectColumns = []string{
	"id",
	"name",
	"short_name",
	"strength",
	"updated_at",
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) ListAll(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("teams").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID int64) (team.Team, bool, error) {
	query, args, err := qb.Select(teamSelectColumns...).From("teams").
		Where(qb.Eq("id", teamID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team id=%d: %w", teamID, err)
	}

	return teamFromRow(row), true, nil
}

func (r *TeamRepository) UpsertMany(ctx context.Context, teams []team.Team) error {
	if len(teams) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := make([]teamTableModel, 0, len(teams))
	for _, t := range teams {
		models = append(models, teamTableModel{
			ID:        t.ID,
			Name:      t.Name,
			ShortName: t.Short,
			Strength:  t.Strength,
			UpdatedAt: now,
		})
	}

	query, args, err := qb.InsertModels(qb.Dollar, "teams", models, `ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    short_name = EXCLUDED.short_name,
    strength = EXCLUDED.strength,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert teams query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert teams: %w", err)
	}

	return nil
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:       row.ID,
		Name:     row.Name,
		Short:    row.ShortName,
		Strength: row.Strength,
	}
}
