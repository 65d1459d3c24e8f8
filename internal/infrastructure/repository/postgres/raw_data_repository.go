package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/rawdata"
	qb "github.com/riskibarqy/fpl-optimizer/internal/platform/querybuilder"
)

type RawDataRepository struct {
	db *sqlx.DB
}

func NewRawDataRepository(db *sqlx.DB) *RawDataRepository {
	return &RawDataRepository{db: db}
}

func (r *RawDataRepository) UpsertMany(ctx context.Context, items []rawdata.Payload) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert raw payloads: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		query, args, err := qb.InsertModels(qb.Dollar, "raw_data_payloads", []rawDataPayloadTableModel{{
			Source:      item.Source,
			EntityType:  item.EntityType,
			EntityKey:   item.EntityKey,
			Payload:     item.PayloadJSON,
			PayloadHash: item.PayloadHash,
			FetchedAt:   item.FetchedAt,
		}}, `ON CONFLICT (source, entity_type, entity_key)
DO UPDATE SET
    payload = EXCLUDED.payload,
    payload_hash = EXCLUDED.payload_hash,
    fetched_at = EXCLUDED.fetched_at
WHERE raw_data_payloads.payload_hash IS DISTINCT FROM EXCLUDED.payload_hash`)
		if err != nil {
			return fmt.Errorf("build upsert raw payload query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert raw payload entity=%s key=%s: %w", item.EntityType, item.EntityKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert raw payloads tx: %w", err)
	}
	return nil
}

func (r *RawDataRepository) GetLatest(ctx context.Context, source, entityType, entityKey string) (rawdata.Payload, bool, error) {
	query, args, err := qb.Select(
		"source",
		"entity_type",
		"entity_key",
		"payload::text AS payload",
		"payload_hash",
		"fetched_at",
	).From("raw_data_payloads").
		Where(
			qb.Eq("source", source),
			qb.Eq("entity_type", entityType),
			qb.Eq("entity_key", entityKey),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return rawdata.Payload{}, false, fmt.Errorf("build get raw payload query: %w", err)
	}

	var row rawDataPayloadTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return rawdata.Payload{}, false, nil
		}
		return rawdata.Payload{}, false, fmt.Errorf("get raw payload entity=%s key=%s: %w", entityType, entityKey, err)
	}

	return rawdata.Payload{
		Source:      row.Source,
		EntityType:  row.EntityType,
		EntityKey:   row.EntityKey,
		PayloadJSON: row.Payload,
		PayloadHash: row.PayloadHash,
		FetchedAt:   row.FetchedAt,
	}, true, nil
}
