package commands

import (
	"context"
	"log/slog"

	"enrollment-sync/internal/domain/enrollment"
	"enrollment-sync/internal/event"
	"enrollment-sync/internal/pkg/clock"
	"enrollment-sync/internal/usecase/shared"
)

// EnrollmentEvents applies the Authority Service's messages on the
// Enrollment Service side. Each method runs inside the idempotency guard's
// unit of work.
type EnrollmentEvents struct {
	clock  clock.Clock
	logger *slog.Logger
}

func NewEnrollmentEvents(clk clock.Clock, logger *slog.Logger) *EnrollmentEvents {
	return &EnrollmentEvents{clock: clk, logger: logger}
}

// ApplyEligibility overwrites the cached snapshot; the last applied message
// wins.
func (h *EnrollmentEvents) ApplyEligibility(ctx context.Context, tx shared.Tx, msg *event.Eligibility) error {
	return tx.Eligibility().Upsert(ctx, snapshotFromMessage(msg, h.clock.Now()))
}

func (h *EnrollmentEvents) ApplyWithdrawCompleted(ctx context.Context, tx shared.Tx, msg *event.WithdrawCompleted) error {
	return h.applyOutcome(ctx, tx, msg.Header, func(e *enrollment.Enrollment) bool {
		return e.CompleteWithdraw(h.clock.Now())
	})
}

func (h *EnrollmentEvents) ApplyWithdrawRejected(ctx context.Context, tx shared.Tx, msg *event.WithdrawRejected) error {
	return h.applyOutcome(ctx, tx, msg.Header, func(e *enrollment.Enrollment) bool {
		return e.RejectWithdraw(msg.Reason, h.clock.Now())
	})
}

// applyOutcome ignores outcomes for unknown enrollments or enrollments that
// are no longer waiting; those are stale or duplicate deliveries.
func (h *EnrollmentEvents) applyOutcome(ctx context.Context, tx shared.Tx, hdr event.Header, apply func(*enrollment.Enrollment) bool) error {
	e, err := tx.Enrollments().FindForUpdate(ctx, hdr.ExternalID)
	if err != nil {
		return err
	}
	if e == nil || e.PlanningPeriod() != hdr.PlanningPeriod {
		h.logger.InfoContext(ctx, "ignoring withdraw outcome for unknown enrollment",
			"event_id", hdr.EventID, "event_type", hdr.EventType, "external_id", hdr.ExternalID)
		return nil
	}
	if !apply(e) {
		h.logger.InfoContext(ctx, "ignoring stale withdraw outcome",
			"event_id", hdr.EventID, "event_type", hdr.EventType,
			"external_id", hdr.ExternalID, "status", e.Status())
		return nil
	}
	return tx.Enrollments().Update(ctx, e)
}
