package memory

import (
	"context"
	"time"

	"enrollment-sync/internal/domain/canonical"
	"enrollment-sync/internal/domain/eligibility"
	"enrollment-sync/internal/domain/enrollment"
	"enrollment-sync/internal/infra"
	"enrollment-sync/internal/usecase/shared"
)

// memTx works on a private copy of the state; the store swaps it in on
// success.
type memTx struct {
	st *state
}

func (t *memTx) Enrollments() shared.EnrollmentRepository  { return enrollmentRepo{t.st} }
func (t *memTx) Eligibility() shared.EligibilityRepository { return eligibilityRepo{t.st} }
func (t *memTx) Resources() shared.ResourceRepository      { return resourceRepo{t.st} }
func (t *memTx) Outbox() shared.OutboxRepository           { return outboxRepo{t.st} }
func (t *memTx) Ledger() shared.LedgerRepository           { return ledgerRepo{t.st} }

type enrollmentRepo struct{ st *state }

func (r enrollmentRepo) Insert(_ context.Context, e *enrollment.Enrollment) error {
	if _, ok := r.st.enrollments[e.ExternalID()]; ok {
		return infra.NewRepoErr(infra.KindDuplicateKey, "enrollment already exists")
	}
	r.st.enrollments[e.ExternalID()] = enrollmentRowOf(e)
	return nil
}

func (r enrollmentRepo) FindForUpdate(_ context.Context, externalID string) (*enrollment.Enrollment, error) {
	row, ok := r.st.enrollments[externalID]
	if !ok {
		return nil, nil
	}
	return row.domain(), nil
}

func (r enrollmentRepo) Update(_ context.Context, e *enrollment.Enrollment) error {
	if _, ok := r.st.enrollments[e.ExternalID()]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "enrollment not found")
	}
	r.st.enrollments[e.ExternalID()] = enrollmentRowOf(e)
	return nil
}

type eligibilityRepo struct{ st *state }

func (r eligibilityRepo) Find(_ context.Context, planningPeriod, externalID string) (*eligibility.Snapshot, error) {
	return r.st.snapshots[resourceKey{planningPeriod, externalID}].Clone(), nil
}

func (r eligibilityRepo) Upsert(_ context.Context, s *eligibility.Snapshot) error {
	r.st.snapshots[resourceKey{s.PlanningPeriod, s.ExternalID}] = s.Clone()
	return nil
}

type resourceRepo struct{ st *state }

func (r resourceRepo) FindForUpdate(_ context.Context, planningPeriod, externalID string) (*canonical.Resource, error) {
	row, ok := r.st.resources[resourceKey{planningPeriod, externalID}]
	if !ok {
		return nil, nil
	}
	return row.domain(), nil
}

func (r resourceRepo) InsertIfAbsent(_ context.Context, res *canonical.Resource) (bool, error) {
	key := resourceKey{res.PlanningPeriod(), res.ExternalID()}
	if _, ok := r.st.resources[key]; ok {
		return false, nil
	}
	r.st.resources[key] = resourceRowOf(res)
	return true, nil
}

func (r resourceRepo) Update(_ context.Context, res *canonical.Resource) error {
	key := resourceKey{res.PlanningPeriod(), res.ExternalID()}
	if _, ok := r.st.resources[key]; !ok {
		return infra.NewRepoErr(infra.KindNotFound, "resource not found")
	}
	r.st.resources[key] = resourceRowOf(res)
	return nil
}

type outboxRepo struct{ st *state }

func (r outboxRepo) Append(_ context.Context, rec shared.OutboxRecord) error {
	rec.ID = r.st.nextOutboxID
	rec.PublishedAt = nil
	r.st.nextOutboxID++
	r.st.outbox = append(r.st.outbox, rec)
	return nil
}

type ledgerRepo struct{ st *state }

func (r ledgerRepo) MarkProcessed(_ context.Context, eventID, eventType string, at time.Time) (bool, error) {
	if _, ok := r.st.ledger[eventID]; ok {
		return false, nil
	}
	r.st.ledger[eventID] = ledgerRow{eventType: eventType, processedAt: at}
	return true, nil
}
