// Package inbound turns broker deliveries into idempotent business effects.
package inbound

import (
	"context"
	"log/slog"

	"enrollment-sync/internal/event"
	"enrollment-sync/internal/pkg/clock"
	"enrollment-sync/internal/usecase/shared"
)

// Guard records an event id and applies its effect in one unit of work, so a
// redelivered event is either fully applied once or not at all.
type Guard struct {
	uow    shared.UnitOfWork
	clock  clock.Clock
	logger *slog.Logger
}

func NewGuard(uow shared.UnitOfWork, clk clock.Clock, logger *slog.Logger) *Guard {
	return &Guard{uow: uow, clock: clk, logger: logger}
}

// Consume reports whether apply ran. A duplicate returns (false, nil).
func (g *Guard) Consume(ctx context.Context, hdr event.Header, kind event.Type, apply func(ctx context.Context, tx shared.Tx) error) (bool, error) {
	applied := false
	err := g.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		applied = false
		fresh, err := tx.Ledger().MarkProcessed(ctx, hdr.EventID, string(kind), g.clock.Now())
		if err != nil {
			return err
		}
		if !fresh {
			return nil
		}
		if err := apply(ctx, tx); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if !applied {
		g.logger.DebugContext(ctx, "duplicate event skipped",
			"event_id", hdr.EventID, "event_type", kind, "external_id", hdr.ExternalID)
	}
	return applied, nil
}
