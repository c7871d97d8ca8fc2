package commands

import (
	"context"

	"enrollment-sync/internal/domain/enrollment"
	"enrollment-sync/internal/event"
	"enrollment-sync/internal/infra"
	"enrollment-sync/internal/pkg/clock"
	"enrollment-sync/internal/pkg/errs"
	"enrollment-sync/internal/usecase/shared"
)

type CreateEnrollmentInput struct {
	ExternalID      string
	ParticipantName string
	ResourceName    string
	ResourceType    string
	PlanningPeriod  string
}

// EnrollmentCommands drive the user-facing lifecycle. Errors are marked
// with errs.ErrNotFound, errs.ErrConflict or errs.ErrValidation.
type EnrollmentCommands interface {
	Create(ctx context.Context, in CreateEnrollmentInput) error
	Submit(ctx context.Context, externalID string) error
	Approve(ctx context.Context, externalID string) error
	Withdraw(ctx context.Context, externalID string) error
	CorrectRejectedWithdrawal(ctx context.Context, externalID string) error
}

type enrollmentCommandsImpl struct {
	uow    shared.UnitOfWork
	clock  clock.Clock
	topics event.Topics
}

func NewEnrollmentCommands(uow shared.UnitOfWork, clk clock.Clock, topics event.Topics) EnrollmentCommands {
	return &enrollmentCommandsImpl{uow: uow, clock: clk, topics: topics}
}

func (uc *enrollmentCommandsImpl) Create(ctx context.Context, in CreateEnrollmentInput) error {
	e, err := enrollment.New(
		in.ExternalID, in.ParticipantName, in.ResourceName,
		enrollment.ResourceType(in.ResourceType), in.PlanningPeriod, uc.clock.Now(),
	)
	if err != nil {
		return classify(err)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Enrollments().Insert(ctx, e)
	})
	if infra.IsKind(err, infra.KindDuplicateKey) {
		return errs.Mark(errs.Newf("enrollment %s already exists", in.ExternalID), errs.ErrConflict)
	}
	return err
}

func (uc *enrollmentCommandsImpl) Submit(ctx context.Context, externalID string) error {
	return uc.mutate(ctx, externalID, func(_ context.Context, _ shared.Tx, e *enrollment.Enrollment) error {
		return e.Submit(uc.clock.Now())
	})
}

func (uc *enrollmentCommandsImpl) Approve(ctx context.Context, externalID string) error {
	return uc.mutate(ctx, externalID, func(ctx context.Context, tx shared.Tx, e *enrollment.Enrollment) error {
		now := uc.clock.Now()
		if err := e.Approve(now); err != nil {
			return err
		}
		msg := event.Approved{
			Header:          event.NewHeader(event.TypeApproved, e.PlanningPeriod(), e.ExternalID(), now),
			ParticipantName: e.ParticipantName(),
			ResourceName:    e.ResourceName(),
			ResourceType:    e.ResourceType().String(),
		}
		return enqueue(ctx, tx, uc.topics.Approved, msg, now)
	})
}

// Withdraw reads only the local eligibility snapshot; the authority decides
// later and may still reject.
func (uc *enrollmentCommandsImpl) Withdraw(ctx context.Context, externalID string) error {
	return uc.mutate(ctx, externalID, func(ctx context.Context, tx shared.Tx, e *enrollment.Enrollment) error {
		snap, err := tx.Eligibility().Find(ctx, e.PlanningPeriod(), e.ExternalID())
		if err != nil {
			return err
		}
		now := uc.clock.Now()
		if err := e.RequestWithdraw(snap, now); err != nil {
			return err
		}
		msg := event.WithdrawRequested{
			Header: event.NewHeader(event.TypeWithdrawRequested, e.PlanningPeriod(), e.ExternalID(), now),
		}
		return enqueue(ctx, tx, uc.topics.WithdrawRequested, msg, now)
	})
}

func (uc *enrollmentCommandsImpl) CorrectRejectedWithdrawal(ctx context.Context, externalID string) error {
	return uc.mutate(ctx, externalID, func(_ context.Context, _ shared.Tx, e *enrollment.Enrollment) error {
		return e.CorrectRejectedWithdrawal(uc.clock.Now())
	})
}

// mutate loads the enrollment under lock, applies fn and persists the result
// in the same unit of work. Nothing is written when fn fails.
func (uc *enrollmentCommandsImpl) mutate(ctx context.Context, externalID string, fn func(ctx context.Context, tx shared.Tx, e *enrollment.Enrollment) error) error {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		e, err := tx.Enrollments().FindForUpdate(ctx, externalID)
		if err != nil {
			return err
		}
		if e == nil {
			return notFound("enrollment %s not found", externalID)
		}
		if err := fn(ctx, tx, e); err != nil {
			return err
		}
		return tx.Enrollments().Update(ctx, e)
	})
	return classify(err)
}
