package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fpl-optimizer/internal/domain/rawdata"
	qb "github.com/riskibarqy/fpl-optimizer/internal/platform/querybuilder"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS raw_data_payloads (
    source       TEXT NOT NULL,
    entity_type  TEXT NOT NULL,
    entity_key   TEXT NOT NULL,
    payload      TEXT NOT NULL,
    payload_hash TEXT NOT NULL,
    fetched_at   DATETIME NOT NULL,
    PRIMARY KEY (source, entity_type, entity_key)
);
`

// RawDataRepository is a local file store for raw FPL responses, used when
// no postgres database is configured.
type RawDataRepository struct {
	db *sqlx.DB
}

type rawDataPayloadTableModel struct {
	Source      string    `db:"source"`
	EntityType  string    `db:"entity_type"`
	EntityKey   string    `db:"entity_key"`
	Payload     string    `db:"payload"`
	PayloadHash string    `db:"payload_hash"`
	FetchedAt   time.Time `db:"fetched_at"`
}

// Open opens (or creates) the snapshot database at path and applies the schema.
func Open(ctx context.Context, path string) (*RawDataRepository, error) {
	sqlDB, err := otelsql.Open("sqlite", path,
		otelsql.WithDBSystem("sqlite"),
		otelsql.WithDBName("snapshots"),
	)
	if err != nil {
		return nil, fmt.Errorf("open snapshot db %q: %w", path, err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	db := sqlx.NewDb(sqlDB, "sqlite")
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply snapshot schema: %w", err)
	}

	return &RawDataRepository{db: db}, nil
}

func (r *RawDataRepository) Close() error {
	return r.db.Close()
}

func (r *RawDataRepository) UpsertMany(ctx context.Context, items []rawdata.Payload) error {
	if len(items) == 0 {
		return nil
	}

	models := make([]rawDataPayloadTableModel, 0, len(items))
	for _, item := range items {
		models = append(models, rawDataPayloadTableModel{
			Source:      item.Source,
			EntityType:  item.EntityType,
			EntityKey:   item.EntityKey,
			Payload:     item.PayloadJSON,
			PayloadHash: item.PayloadHash,
			FetchedAt:   item.FetchedAt.UTC(),
		})
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert snapshots: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, model := range models {
		query, args, err := qb.InsertModels(qb.Question, "raw_data_payloads", []rawDataPayloadTableModel{model}, `ON CONFLICT(source, entity_type, entity_key) DO UPDATE SET
    payload = excluded.payload,
    payload_hash = excluded.payload_hash,
    fetched_at = excluded.fetched_at
WHERE raw_data_payloads.payload_hash <> excluded.payload_hash`)
		if err != nil {
			return fmt.Errorf("build upsert snapshot query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert snapshot entity=%s key=%s: %w", model.EntityType, model.EntityKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert snapshots tx: %w", err)
	}
	return nil
}

func (r *RawDataRepository) GetLatest(ctx context.Context, source, entityType, entityKey string) (rawdata.Payload, bool, error) {
	query, args, err := qb.Select(qb.Columns(rawDataPayloadTableModel{})...).
		Dialect(qb.Question).
		From("raw_data_payloads").
		Where(
			qb.Eq("source", source),
			qb.Eq("entity_type", entityType),
			qb.Eq("entity_key", entityKey),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return rawdata.Payload{}, false, fmt.Errorf("build get snapshot query: %w", err)
	}

	var rows []rawDataPayloadTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return rawdata.Payload{}, false, fmt.Errorf("get snapshot entity=%s key=%s: %w", entityType, entityKey, err)
	}
	if len(rows) == 0 {
		return rawdata.Payload{}, false, nil
	}

	row := rows[0]
	return rawdata.Payload{
		Source:      row.Source,
		EntityType:  row.EntityType,
		EntityKey:   row.EntityKey,
		PayloadJSON: row.Payload,
		PayloadHash: row.PayloadHash,
		FetchedAt:   row.FetchedAt,
	}, true, nil
}
