// Package memory is a process-local implementation of the persistence ports.
// Units of work are serialized and copy-on-write, so a failed unit of work
// leaves no trace.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"enrollment-sync/internal/domain/canonical"
	"enrollment-sync/internal/domain/eligibility"
	"enrollment-sync/internal/domain/enrollment"
	"enrollment-sync/internal/infra"
	"enrollment-sync/internal/usecase/queries"
	"enrollment-sync/internal/usecase/shared"
)

type resourceKey struct {
	period     string
	externalID string
}

type enrollmentRow struct {
	externalID      string
	participantName string
	resourceName    string
	resourceType    enrollment.ResourceType
	planningPeriod  string
	status          enrollment.Status
	rejectionReason *string
	rejectedAt      *time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

type resourceRow struct {
	externalID     string
	planningPeriod string
	status         canonical.Status
	capacity       canonical.Capacity
	conditions     []canonical.Condition
	createdAt      time.Time
	updatedAt      time.Time
}

type ledgerRow struct {
	eventType   string
	processedAt time.Time
}

type state struct {
	enrollments  map[string]enrollmentRow
	snapshots    map[resourceKey]*eligibility.Snapshot
	resources    map[resourceKey]resourceRow
	outbox       []shared.OutboxRecord
	nextOutboxID int64
	ledger       map[string]ledgerRow
}

func newState() *state {
	return &state{
		enrollments:  map[string]enrollmentRow{},
		snapshots:    map[resourceKey]*eligibility.Snapshot{},
		resources:    map[resourceKey]resourceRow{},
		ledger:       map[string]ledgerRow{},
		nextOutboxID: 1,
	}
}

func (s *state) clone() *state {
	c := &state{
		enrollments:  make(map[string]enrollmentRow, len(s.enrollments)),
		snapshots:    make(map[resourceKey]*eligibility.Snapshot, len(s.snapshots)),
		resources:    make(map[resourceKey]resourceRow, len(s.resources)),
		outbox:       make([]shared.OutboxRecord, len(s.outbox)),
		nextOutboxID: s.nextOutboxID,
		ledger:       make(map[string]ledgerRow, len(s.ledger)),
	}
	for k, v := range s.enrollments {
		c.enrollments[k] = v
	}
	for k, v := range s.snapshots {
		c.snapshots[k] = v.Clone()
	}
	for k, v := range s.resources {
		v.capacity = v.capacity.Clone()
		v.conditions = append([]canonical.Condition(nil), v.conditions...)
		c.resources[k] = v
	}
	copy(c.outbox, s.outbox)
	for k, v := range s.ledger {
		c.ledger[k] = v
	}
	return c
}

type Store struct {
	mu    sync.Mutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

var (
	_ shared.UnitOfWork            = (*Store)(nil)
	_ shared.OutboxStore           = (*Store)(nil)
	_ shared.LedgerStore           = (*Store)(nil)
	_ queries.EnrollmentReadStore  = (*Store)(nil)
	_ queries.EligibilityReadStore = eligibilityReader{}
	_ queries.ResourceReadStore    = resourceReader{}
)

func (s *Store) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.state.clone()
	if err := fn(ctx, &memTx{st: work}); err != nil {
		return err
	}
	s.state = work
	return nil
}

// ---- outbox / ledger stores ----

func (s *Store) ListUnpublished(_ context.Context) ([]shared.OutboxRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []shared.OutboxRecord
	for _, r := range s.state.outbox {
		if r.PublishedAt == nil {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *Store) MarkPublished(_ context.Context, id int64, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.outbox {
		r := &s.state.outbox[i]
		if r.ID != id {
			continue
		}
		if r.PublishedAt != nil {
			return false, nil
		}
		t := at
		r.PublishedAt = &t
		return true, nil
	}
	return false, infra.NewRepoErr(infra.KindNotFound, "outbox record not found")
}

func (s *Store) CountUnpublished(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, r := range s.state.outbox {
		if r.PublishedAt == nil {
			n++
		}
	}
	return n, nil
}

// Outbox returns every record, published or not, in creation order.
func (s *Store) Outbox() []shared.OutboxRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]shared.OutboxRecord(nil), s.state.outbox...)
}

func (s *Store) PurgeBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, row := range s.state.ledger {
		if row.processedAt.Before(cutoff) {
			delete(s.state.ledger, id)
			n++
		}
	}
	return n, nil
}

func (s *Store) LedgerSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.ledger)
}

// ---- read stores ----

func (s *Store) FindByExternalID(_ context.Context, externalID string) (*queries.EnrollmentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.state.enrollments[externalID]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "enrollment not found")
	}
	return row.view(), nil
}

func (s *Store) ListAll(_ context.Context) ([]*queries.EnrollmentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*queries.EnrollmentView, 0, len(s.state.enrollments))
	for _, row := range s.state.enrollments {
		out = append(out, row.view())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ExternalID < out[j].ExternalID
	})
	return out, nil
}

func (s *Store) ListWithdrawRejected(_ context.Context) ([]*queries.EnrollmentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*queries.EnrollmentView
	for _, row := range s.state.enrollments {
		if row.status == enrollment.StatusWithdrawRejected {
			out = append(out, row.view())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].RejectedAt, out[j].RejectedAt
		if a != nil && b != nil && !a.Equal(*b) {
			return a.After(*b)
		}
		return out[i].ExternalID < out[j].ExternalID
	})
	return out, nil
}

type eligibilityReader struct{ s *Store }

func (s *Store) EligibilityReader() queries.EligibilityReadStore { return eligibilityReader{s} }

func (r eligibilityReader) Find(_ context.Context, planningPeriod, externalID string) (*queries.EligibilityView, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.state.snapshots[resourceKey{planningPeriod, externalID}]
	if !ok {
		return nil, nil
	}
	updated := snap.UpdatedAt
	return &queries.EligibilityView{
		PlanningPeriod:     snap.PlanningPeriod,
		ExternalID:         snap.ExternalID,
		CanWithdraw:        snap.Allowed,
		Reason:             snap.Clone().Reason,
		BlockingConditions: append([]string{}, snap.BlockingConditions...),
		UpdatedAt:          &updated,
	}, nil
}

type resourceReader struct{ s *Store }

func (s *Store) ResourceReader() queries.ResourceReadStore { return resourceReader{s} }

func (r resourceReader) Find(_ context.Context, planningPeriod, externalID string) (*canonical.Resource, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.state.resources[resourceKey{planningPeriod, externalID}]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "resource not found")
	}
	return row.domain(), nil
}

func (r enrollmentRow) view() *queries.EnrollmentView {
	v := &queries.EnrollmentView{
		ExternalID:      r.externalID,
		ParticipantName: r.participantName,
		ResourceName:    r.resourceName,
		ResourceType:    string(r.resourceType),
		PlanningPeriod:  r.planningPeriod,
		Status:          string(r.status),
		CreatedAt:       r.createdAt,
		UpdatedAt:       r.updatedAt,
	}
	if r.rejectionReason != nil {
		reason := *r.rejectionReason
		v.RejectionReason = &reason
	}
	if r.rejectedAt != nil {
		at := *r.rejectedAt
		v.RejectedAt = &at
	}
	return v
}

func (r enrollmentRow) domain() *enrollment.Enrollment {
	v := r.view()
	return enrollment.Reconstruct(
		r.externalID, r.participantName, r.resourceName, r.resourceType, r.planningPeriod,
		r.status, v.RejectionReason, v.RejectedAt, r.createdAt, r.updatedAt,
	)
}

func enrollmentRowOf(e *enrollment.Enrollment) enrollmentRow {
	row := enrollmentRow{
		externalID:      e.ExternalID(),
		participantName: e.ParticipantName(),
		resourceName:    e.ResourceName(),
		resourceType:    e.ResourceType(),
		planningPeriod:  e.PlanningPeriod(),
		status:          e.Status(),
		createdAt:       e.CreatedAt(),
		updatedAt:       e.UpdatedAt(),
	}
	if r := e.RejectionReason(); r != nil {
		reason := *r
		row.rejectionReason = &reason
	}
	if at := e.RejectedAt(); at != nil {
		t := *at
		row.rejectedAt = &t
	}
	return row
}

func (r resourceRow) domain() *canonical.Resource {
	return canonical.Reconstruct(r.externalID, r.planningPeriod, r.status, r.capacity.Clone(), r.conditions, r.createdAt, r.updatedAt)
}

func resourceRowOf(r *canonical.Resource) resourceRow {
	return resourceRow{
		externalID:     r.ExternalID(),
		planningPeriod: r.PlanningPeriod(),
		status:         r.Status(),
		capacity:       r.Capacity(),
		conditions:     r.Conditions(),
		createdAt:      r.CreatedAt(),
		updatedAt:      r.UpdatedAt(),
	}
}
