package repository

import (
	"context"
	"time"

	"enrollment-sync/internal/infra"
	"enrollment-sync/internal/infra/db"
	"enrollment-sync/internal/pkg/pgconv"
	"enrollment-sync/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	insertOutboxSQL = `
INSERT INTO outbox_records (topic, routing_key, payload, created_at)
VALUES ($1, $2, $3, $4)`

	listUnpublishedSQL = `
SELECT id, topic, routing_key, payload, created_at, published_at
FROM outbox_records
WHERE published_at IS NULL
ORDER BY id`

	markPublishedSQL = `
UPDATE outbox_records
SET published_at = $2
WHERE id = $1 AND published_at IS NULL`

	countUnpublishedSQL = `
SELECT COUNT(*) FROM outbox_records WHERE published_at IS NULL`
)

// OutboxRepository appends records inside a unit of work.
type OutboxRepository struct {
	dbtx db.DBTX
}

func NewOutboxRepository(dbtx db.DBTX) *OutboxRepository {
	return &OutboxRepository{dbtx: dbtx}
}

func (r *OutboxRepository) Append(ctx context.Context, rec shared.OutboxRecord) error {
	_, err := r.dbtx.Exec(ctx, insertOutboxSQL, rec.Topic, rec.Key, rec.Payload, rec.CreatedAt)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to append outbox record", err)
	}
	return nil
}

// OutboxStore serves the publisher directly against the pool.
type OutboxStore struct {
	dbtx db.DBTX
}

func NewOutboxStore(dbtx db.DBTX) *OutboxStore {
	return &OutboxStore{dbtx: dbtx}
}

func (s *OutboxStore) ListUnpublished(ctx context.Context) ([]shared.OutboxRecord, error) {
	rows, err := s.dbtx.Query(ctx, listUnpublishedSQL)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list outbox records", err)
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (shared.OutboxRecord, error) {
		var (
			rec         shared.OutboxRecord
			publishedAt pgtype.Timestamptz
		)
		err := row.Scan(&rec.ID, &rec.Topic, &rec.Key, &rec.Payload, &rec.CreatedAt, &publishedAt)
		rec.PublishedAt = pgconv.TimePtr(publishedAt)
		return rec, err
	})
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan outbox records", err)
	}
	return records, nil
}

func (s *OutboxStore) MarkPublished(ctx context.Context, id int64, at time.Time) (bool, error) {
	tag, err := s.dbtx.Exec(ctx, markPublishedSQL, id, at)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to mark outbox record published", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *OutboxStore) CountUnpublished(ctx context.Context) (int64, error) {
	var n int64
	if err := s.dbtx.QueryRow(ctx, countUnpublishedSQL).Scan(&n); err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to count outbox records", err)
	}
	return n, nil
}
