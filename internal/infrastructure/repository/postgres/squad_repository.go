package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/fantasy"
	qb "github.com/riskibarqy/fpl-optimizer/internal/platform/querybuilder"
)

type SquadRepository struct {
	db *sqlx.DB
}

func NewSquadRepository(db *sqlx.DB) *SquadRepository {
	return &SquadRepository{db: db}
}

func (r *SquadRepository) GetByManager(ctx context.Context, managerID int64, gameweek int) (fantasy.Squad, bool, error) {
	query, args, err := qb.Select(qb.Columns(managerSquadTableModel{})...).From("manager_squads").
		Where(
			qb.Eq("manager_id", managerID),
			qb.Eq("gameweek", gameweek),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return fantasy.Squad{}, false, fmt.Errorf("build get squad query: %w", err)
	}

	var row managerSquadTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return fantasy.Squad{}, false, nil
		}
		return fantasy.Squad{}, false, fmt.Errorf("get squad manager=%d gw=%d: %w", managerID, gameweek, err)
	}

	return fantasy.Squad{
		ManagerID: row.ManagerID,
		Gameweek:  row.Gameweek,
		PlayerIDs: []int64(row.PlayerIDs),
		Bank:      row.Bank,
		UpdatedAt: row.UpdatedAt,
	}, true, nil
}

func (r *SquadRepository) Upsert(ctx context.Context, squad fantasy.Squad) error {
	if err := squad.ValidateBasic(); err != nil {
		return fmt.Errorf("validate squad: %w", err)
	}

	updatedAt := squad.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	query, args, err := qb.InsertModels(qb.Dollar, "manager_squads", []managerSquadTableModel{{
		ManagerID: squad.ManagerID,
		Gameweek:  squad.Gameweek,
		PlayerIDs: pq.Int64Array(squad.PlayerIDs),
		Bank:      squad.Bank,
		UpdatedAt: updatedAt,
	}}, `ON CONFLICT (manager_id, gameweek) DO UPDATE SET
    player_ids = EXCLUDED.player_ids,
    bank = EXCLUDED.bank,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build upsert squad query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert squad manager=%d gw=%d: %w", squad.ManagerID, squad.Gameweek, err)
	}
	return nil
}

type TransferRepository struct {
	db *sqlx.DB
}

func NewTransferRepository(db *sqlx.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

// ListByManager returns the history newest first.
func (r *TransferRepository) ListByManager(ctx context.Context, managerID int64) ([]fantasy.Purchase, error) {
	query, args, err := qb.Select(qb.Columns(managerTransferTableModel{})...).From("manager_transfers").
		Where(qb.Eq("manager_id", managerID)).
		OrderBy("transferred_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select transfers query: %w", err)
	}

	var rows []managerTransferTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select transfers manager=%d: %w", managerID, err)
	}

	out := make([]fantasy.Purchase, 0, len(rows))
	for _, row := range rows {
		out = append(out, fantasy.Purchase{
			ManagerID:     row.ManagerID,
			Gameweek:      row.Gameweek,
			PlayerInID:    row.PlayerInID,
			PlayerInCost:  row.PlayerInCost,
			PlayerOutID:   row.PlayerOutID,
			PlayerOutCost: row.PlayerOutCost,
			Time:          row.TransferredAt,
		})
	}
	return out, nil
}

func (r *TransferRepository) ReplaceForManager(ctx context.Context, managerID int64, items []fantasy.Purchase) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace transfers: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("manager_transfers").
		Where(qb.Eq("manager_id", managerID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete transfers query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete transfers manager=%d: %w", managerID, err)
	}

	if len(items) > 0 {
		models := make([]managerTransferTableModel, 0, len(items))
		for _, item := range items {
			models = append(models, managerTransferTableModel{
				ManagerID:     managerID,
				Gameweek:      item.Gameweek,
				PlayerInID:    item.PlayerInID,
				PlayerInCost:  item.PlayerInCost,
				PlayerOutID:   item.PlayerOutID,
				PlayerOutCost: item.PlayerOutCost,
				TransferredAt: item.Time,
			})
		}
		for _, batch := range chunk(models, maxRowsPerInsert) {
			query, args, err := qb.InsertModels(qb.Dollar, "manager_transfers", batch, "")
			if err != nil {
				return fmt.Errorf("build insert transfers query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert transfers manager=%d: %w", managerID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace transfers tx: %w", err)
	}
	return nil
}
