package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/playerstats"
	qb "github.com/riskibarqy/fpl-optimizer/internal/platform/querybuilder"
)

type PlayerStatsRepository struct {
	db *sqlx.DB
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

func (r *PlayerStatsRepository) ListByPlayers(ctx context.Context, playerIDs []int64) ([]playerstats.StatLine, error) {
	if len(playerIDs) == 0 {
		return []playerstats.StatLine{}, nil
	}

	query, args, err := qb.Select(qb.Columns(playerFixtureStatTableModel{})...).From("player_fixture_stats").
		Where(qb.InInt64("player_id", playerIDs)).
		OrderBy("player_id", "gameweek", "fixture_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player fixture stats query: %w", err)
	}

	var rows []playerFixtureStatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player fixture stats: %w", err)
	}

	out := make([]playerstats.StatLine, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerstats.StatLine{
			PlayerID:        row.PlayerID,
			FixtureID:       row.FixtureID,
			Gameweek:        row.Gameweek,
			OpponentTeamID:  row.OpponentTeamID,
			WasHome:         row.WasHome,
			Minutes:         row.Minutes,
			GoalsScored:     row.GoalsScored,
			Assists:         row.Assists,
			CleanSheets:     row.CleanSheets,
			GoalsConceded:   row.GoalsConceded,
			OwnGoals:        row.OwnGoals,
			PenaltiesSaved:  row.PenaltiesSaved,
			PenaltiesMissed: row.PenaltiesMissed,
			YellowCards:     row.YellowCards,
			RedCards:        row.RedCards,
			Saves:           row.Saves,
			Bonus:           row.Bonus,
			TotalPoints:     row.TotalPoints,
		})
	}
	return out, nil
}

// ReplaceForPlayer swaps a player's full history in one transaction.
func (r *PlayerStatsRepository) ReplaceForPlayer(ctx context.Context, playerID int64, lines []playerstats.StatLine) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace player stats: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("player_fixture_stats").
		Where(qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete player stats query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete player stats player=%d: %w", playerID, err)
	}

	if len(lines) > 0 {
		models := make([]playerFixtureStatTableModel, 0, len(lines))
		for _, line := range lines {
			models = append(models, playerFixtureStatTableModel{
				PlayerID:        playerID,
				FixtureID:       line.FixtureID,
				Gameweek:        line.Gameweek,
				OpponentTeamID:  line.OpponentTeamID,
				WasHome:         line.WasHome,
				Minutes:         line.Minutes,
				GoalsScored:     line.GoalsScored,
				Assists:         line.Assists,
				CleanSheets:     line.CleanSheets,
				GoalsConceded:   line.GoalsConceded,
				OwnGoals:        line.OwnGoals,
				PenaltiesSaved:  line.PenaltiesSaved,
				PenaltiesMissed: line.PenaltiesMissed,
				YellowCards:     line.YellowCards,
				RedCards:        line.RedCards,
				Saves:           line.Saves,
				Bonus:           line.Bonus,
				TotalPoints:     line.TotalPoints,
			})
		}

		query, args, err := qb.InsertModels(qb.Dollar, "player_fixture_stats", models, "")
		if err != nil {
			return fmt.Errorf("build insert player stats query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert player stats player=%d: %w", playerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace player stats tx: %w", err)
	}
	return nil
}
