package shared

import (
	"context"
	"time"
)

// OutboxRecord is an outbound message waiting for delivery. ID order is
// creation order.
type OutboxRecord struct {
	ID          int64
	Topic       string
	Key         string
	Payload     []byte
	CreatedAt   time.Time
	PublishedAt *time.Time
}

// OutboxStore is used by the publisher outside of any unit of work.
type OutboxStore interface {
	ListUnpublished(ctx context.Context) ([]OutboxRecord, error)
	// MarkPublished reports false when the record was already marked.
	MarkPublished(ctx context.Context, id int64, at time.Time) (bool, error)
	CountUnpublished(ctx context.Context) (int64, error)
}

type LedgerStore interface {
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
