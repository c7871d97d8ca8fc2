package repository

import (
	"context"
	"time"

	"enrollment-sync/internal/infra"
	"enrollment-sync/internal/infra/db"
)

const (
	markProcessedSQL = `
INSERT INTO processed_events (event_id, event_type, processed_at)
VALUES ($1, $2, $3)
ON CONFLICT (event_id) DO NOTHING`

	purgeProcessedSQL = `
DELETE FROM processed_events WHERE processed_at < $1`
)

type LedgerRepository struct {
	dbtx db.DBTX
}

func NewLedgerRepository(dbtx db.DBTX) *LedgerRepository {
	return &LedgerRepository{dbtx: dbtx}
}

func (r *LedgerRepository) MarkProcessed(ctx context.Context, eventID, eventType string, at time.Time) (bool, error) {
	tag, err := r.dbtx.Exec(ctx, markProcessedSQL, eventID, eventType, at)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to record processed event", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *LedgerRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.dbtx.Exec(ctx, purgeProcessedSQL, cutoff)
	if err != nil {
		return 0, infra.WrapRepoErr(infra.KindDBFailure, "failed to purge processed events", err)
	}
	return tag.RowsAffected(), nil
}
