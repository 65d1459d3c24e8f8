package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/fixture"
	qb "github.com/riskibarqy/fpl-optimizer/internal/platform/querybuilder"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) ListAll(ctx context.Context) ([]fixture.Fixture, error) {
	query, args, err := qb.Select(qb.Columns(fixtureTableModel{})...).From("fixtures").
		OrderBy("gameweek", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixtures query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *FixtureRepository) ListByGameweekRange(ctx context.Context, fromGameweek, toGameweek int) ([]fixture.Fixture, error) {
	query, args, err := qb.Select(qb.Columns(fixtureTableModel{})...).From("fixtures").
		Where(qb.Between("gameweek", fromGameweek, toGameweek)).
		OrderBy("gameweek", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select fixtures by gameweek range query: %w", err)
	}
	return r.list(ctx, query, args)
}

func (r *FixtureRepository) list(ctx context.Context, query string, args []any) ([]fixture.Fixture, error) {
	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select fixtures: %w", err)
	}

	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixture.Fixture{
			ID:             row.ID,
			Gameweek:       row.Gameweek,
			HomeTeamID:     row.HomeTeamID,
			AwayTeamID:     row.AwayTeamID,
			KickoffAt:      row.KickoffAt,
			HomeDifficulty: row.HomeDifficulty,
			AwayDifficulty: row.AwayDifficulty,
			HomeScore:      nullInt64ToPtr(row.HomeScore),
			AwayScore:      nullInt64ToPtr(row.AwayScore),
			Finished:       row.Finished,
		})
	}
	return out, nil
}

func (r *FixtureRepository) UpsertMany(ctx context.Context, items []fixture.Fixture) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]fixtureTableModel, 0, len(items))
	for _, item := range items {
		models = append(models, fixtureTableModel{
			ID:             item.ID,
			Gameweek:       item.Gameweek,
			HomeTeamID:     item.HomeTeamID,
			AwayTeamID:     item.AwayTeamID,
			KickoffAt:      item.KickoffAt,
			HomeDifficulty: item.HomeDifficulty,
			AwayDifficulty: item.AwayDifficulty,
			HomeScore:      ptrToNullInt64(item.HomeScore),
			AwayScore:      ptrToNullInt64(item.AwayScore),
			Finished:       item.Finished,
		})
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert fixtures: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, batch := range chunk(models, maxRowsPerInsert) {
		query, args, err := qb.InsertModels(qb.Dollar, "fixtures", batch, `ON CONFLICT (id) DO UPDATE SET
    gameweek = EXCLUDED.gameweek,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    kickoff_at = EXCLUDED.kickoff_at,
    home_difficulty = EXCLUDED.home_difficulty,
    away_difficulty = EXCLUDED.away_difficulty,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    finished = EXCLUDED.finished`)
		if err != nil {
			return fmt.Errorf("build upsert fixtures query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert fixtures: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert fixtures tx: %w", err)
	}
	return nil
}
