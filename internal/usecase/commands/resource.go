package commands

import (
	"context"
	"time"

	"enrollment-sync/internal/domain/canonical"
	"enrollment-sync/internal/event"
	"enrollment-sync/internal/pkg/clock"
	"enrollment-sync/internal/usecase/shared"
)

// ResourceCommands are administrative changes to a canonical resource's
// blocking conditions. Every call republishes the recomputed eligibility.
type ResourceCommands interface {
	EnableCondition(ctx context.Context, planningPeriod, externalID, code string) error
	DisableCondition(ctx context.Context, planningPeriod, externalID, code string) error
}

type resourceCommandsImpl struct {
	uow    shared.UnitOfWork
	clock  clock.Clock
	topics event.Topics
}

func NewResourceCommands(uow shared.UnitOfWork, clk clock.Clock, topics event.Topics) ResourceCommands {
	return &resourceCommandsImpl{uow: uow, clock: clk, topics: topics}
}

func (uc *resourceCommandsImpl) EnableCondition(ctx context.Context, planningPeriod, externalID, code string) error {
	return uc.changeCondition(ctx, planningPeriod, externalID, code, (*canonical.Resource).EnableCondition)
}

func (uc *resourceCommandsImpl) DisableCondition(ctx context.Context, planningPeriod, externalID, code string) error {
	return uc.changeCondition(ctx, planningPeriod, externalID, code, (*canonical.Resource).DisableCondition)
}

func (uc *resourceCommandsImpl) changeCondition(
	ctx context.Context,
	planningPeriod, externalID, code string,
	change func(*canonical.Resource, canonical.Condition, time.Time) bool,
) error {
	cond, err := canonical.ParseCondition(code)
	if err != nil {
		return classify(err)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		r, err := tx.Resources().FindForUpdate(ctx, planningPeriod, externalID)
		if err != nil {
			return err
		}
		if r == nil {
			return notFound("resource %s not found", event.RoutingKey(planningPeriod, externalID))
		}
		now := uc.clock.Now()
		if change(r, cond, now) {
			if err := tx.Resources().Update(ctx, r); err != nil {
				return err
			}
		}
		return enqueue(ctx, tx, uc.topics.Eligibility, eligibilityMessage(r, r.Eligibility(), now), now)
	})
	return classify(err)
}
