package commands

import (
	"context"
	"time"

	"enrollment-sync/internal/domain/canonical"
	"enrollment-sync/internal/domain/eligibility"
	"enrollment-sync/internal/domain/enrollment"
	"enrollment-sync/internal/event"
	"enrollment-sync/internal/pkg/errs"
	"enrollment-sync/internal/usecase/shared"
)

// enqueue writes msg into the outbox of the current unit of work. It is the
// only way commands emit events.
func enqueue(ctx context.Context, tx shared.Tx, topic string, msg event.Message, now time.Time) error {
	payload, err := event.Encode(msg)
	if err != nil {
		return err
	}
	return tx.Outbox().Append(ctx, shared.OutboxRecord{
		Topic:     topic,
		Key:       msg.Meta().RoutingKey(),
		Payload:   payload,
		CreatedAt: now,
	})
}

func eligibilityMessage(r *canonical.Resource, v canonical.Verdict, now time.Time) event.Eligibility {
	return event.Eligibility{
		Header:             event.NewHeader(event.TypeEligibility, r.PlanningPeriod(), r.ExternalID(), now),
		Allowed:            v.Allowed,
		Reason:             v.Reason,
		BlockingConditions: v.ConditionCodes(),
		UpdatedAt:          now,
	}
}

// classify marks domain errors with the category the transport layer maps
// to a status code.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errs.Is(err, enrollment.ErrInvalidState),
		errs.Is(err, enrollment.ErrEligibilityUnknown),
		errs.Is(err, enrollment.ErrEligibilityDenied):
		return errs.Mark(err, errs.ErrConflict)
	case errs.Is(err, enrollment.ErrInvalidField),
		errs.Is(err, canonical.ErrUnknownCondition):
		return errs.Mark(err, errs.ErrValidation)
	}
	return err
}

func notFound(format string, args ...any) error {
	return errs.Mark(errs.Newf(format, args...), errs.ErrNotFound)
}

func snapshotFromMessage(m *event.Eligibility, now time.Time) *eligibility.Snapshot {
	updatedAt := m.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = now
	}
	conds := m.BlockingConditions
	if conds == nil {
		conds = []string{}
	}
	return &eligibility.Snapshot{
		PlanningPeriod:     m.PlanningPeriod,
		ExternalID:         m.ExternalID,
		Allowed:            m.Allowed,
		Reason:             m.Reason,
		BlockingConditions: conds,
		UpdatedAt:          updatedAt,
	}
}
