package commands

import (
	"context"
	"log/slog"

	"enrollment-sync/internal/domain/canonical"
	"enrollment-sync/internal/event"
	"enrollment-sync/internal/pkg/clock"
	"enrollment-sync/internal/usecase/shared"
)

// ResourceEvents applies the Enrollment Service's messages on the Authority
// Service side.
type ResourceEvents struct {
	clock  clock.Clock
	topics event.Topics
	logger *slog.Logger
}

func NewResourceEvents(clk clock.Clock, topics event.Topics, logger *slog.Logger) *ResourceEvents {
	return &ResourceEvents{clock: clk, topics: topics, logger: logger}
}

// ApplyApproved creates the canonical record once and announces it as
// withdrawable. Repeats are no-ops.
func (h *ResourceEvents) ApplyApproved(ctx context.Context, tx shared.Tx, msg *event.Approved) error {
	now := h.clock.Now()
	r := canonical.NewResource(msg.ExternalID, msg.PlanningPeriod, now)
	created, err := tx.Resources().InsertIfAbsent(ctx, r)
	if err != nil {
		return err
	}
	if !created {
		h.logger.DebugContext(ctx, "canonical resource already exists",
			"event_id", msg.EventID, "external_id", msg.ExternalID, "planning_period", msg.PlanningPeriod)
		return nil
	}
	return enqueue(ctx, tx, h.topics.Eligibility, eligibilityMessage(r, r.Eligibility(), now), now)
}

// ApplyWithdrawRequested adjudicates against current state, which may have
// changed since the requester's snapshot was taken.
func (h *ResourceEvents) ApplyWithdrawRequested(ctx context.Context, tx shared.Tx, msg *event.WithdrawRequested) error {
	now := h.clock.Now()
	r, err := tx.Resources().FindForUpdate(ctx, msg.PlanningPeriod, msg.ExternalID)
	if err != nil {
		return err
	}

	d := canonical.Adjudicate(r, now)
	switch d.Outcome {
	case canonical.OutcomeCompleted:
		if err := tx.Resources().Update(ctx, r); err != nil {
			return err
		}
		done := event.WithdrawCompleted{
			Header: event.NewHeader(event.TypeWithdrawCompleted, msg.PlanningPeriod, msg.ExternalID, now),
		}
		if err := enqueue(ctx, tx, h.topics.WithdrawCompleted, done, now); err != nil {
			return err
		}
	default:
		rejected := event.WithdrawRejected{
			Header: event.NewHeader(event.TypeWithdrawRejected, msg.PlanningPeriod, msg.ExternalID, now),
			Reason: d.Reason,
		}
		if err := enqueue(ctx, tx, h.topics.WithdrawRejected, rejected, now); err != nil {
			return err
		}
	}

	h.logger.InfoContext(ctx, "withdraw request adjudicated",
		"event_id", msg.EventID, "external_id", msg.ExternalID,
		"completed", d.Outcome == canonical.OutcomeCompleted, "reason", d.Reason)

	if d.Eligibility == nil {
		return nil
	}
	return enqueue(ctx, tx, h.topics.Eligibility, eligibilityMessage(r, *d.Eligibility, now), now)
}
