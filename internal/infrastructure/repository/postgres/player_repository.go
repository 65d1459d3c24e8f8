package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/player"
	qb "github.com/riskibarqy/fpl-optimizer/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

var playerSelectColumns = []string{
	"id",
	"team_id",
	"name",
	"web_name",
	"position",
	"price",
	"status",
	"updated_at",
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) ListAll(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select(playerSelectColumns...).From("players").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	return playersFromRows(rows), nil
}

// GetByIDs returns the players in the order of playerIDs; unknown ids are skipped.
func (r *PlayerRepository) GetByIDs(ctx context.Context, playerIDs []int64) ([]player.Player, error) {
	if len(playerIDs) == 0 {
		return []player.Player{}, nil
	}

	query, args, err := qb.Select(playerSelectColumns...).From("players").
		Where(qb.InInt64("id", playerIDs)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by ids query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players by ids: %w", err)
	}

	byID := make(map[int64]player.Player, len(rows))
	for _, p := range playersFromRows(rows) {
		byID[p.ID] = p
	}
	out := make([]player.Player, 0, len(rows))
	for _, id := range playerIDs {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *PlayerRepository) UpsertMany(ctx context.Context, players []player.Player) error {
	if len(players) == 0 {
		return nil
	}

	now := time.Now().UTC()
	models := make([]playerTableModel, 0, len(players))
	for _, p := range players {
		models = append(models, playerTableModel{
			ID:        p.ID,
			TeamID:    p.TeamID,
			Name:      p.Name,
			WebName:   p.WebName,
			Position:  string(p.Position),
			Price:     p.Price,
			Status:    p.Status,
			UpdatedAt: now,
		})
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert players: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, batch := range chunk(models, maxRowsPerInsert) {
		query, args, err := qb.InsertModels(qb.Dollar, "players", batch, `ON CONFLICT (id) DO UPDATE SET
    team_id = EXCLUDED.team_id,
    name = EXCLUDED.name,
    web_name = EXCLUDED.web_name,
    position = EXCLUDED.position,
    price = EXCLUDED.price,
    status = EXCLUDED.status,
    updated_at = EXCLUDED.updated_at`)
		if err != nil {
			return fmt.Errorf("build upsert players query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert players: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert players tx: %w", err)
	}
	return nil
}

func playersFromRows(rows []playerTableModel) []player.Player {
	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, player.Player{
			ID:       row.ID,
			TeamID:   row.TeamID,
			Name:     row.Name,
			WebName:  row.WebName,
			Position: player.Position(row.Position),
			Price:    row.Price,
			Status:   row.Status,
		})
	}
	return out
}
