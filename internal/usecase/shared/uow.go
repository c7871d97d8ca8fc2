package shared

import (
	"context"
	"time"

	"enrollment-sync/internal/domain/canonical"
	"enrollment-sync/internal/domain/eligibility"
	"enrollment-sync/internal/domain/enrollment"
)

type UnitOfWork interface {
	// Within: everything fn writes through tx commits together or not at all.
	// fn may run more than once on retryable database errors.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes repositories bound to a single unit of work. A service only
// touches the repositories for tables it owns.
type Tx interface {
	Enrollments() EnrollmentRepository
	Eligibility() EligibilityRepository
	Resources() ResourceRepository
	Outbox() OutboxRepository
	Ledger() LedgerRepository
}

// Find methods return (nil, nil) when the row is absent.

type EnrollmentRepository interface {
	// Insert fails with a DUPLICATE_KEY repository error when the external id
	// is taken.
	Insert(ctx context.Context, e *enrollment.Enrollment) error
	FindForUpdate(ctx context.Context, externalID string) (*enrollment.Enrollment, error)
	Update(ctx context.Context, e *enrollment.Enrollment) error
}

type EligibilityRepository interface {
	Find(ctx context.Context, planningPeriod, externalID string) (*eligibility.Snapshot, error)
	// Upsert replaces the stored snapshot wholesale.
	Upsert(ctx context.Context, s *eligibility.Snapshot) error
}

type ResourceRepository interface {
	FindForUpdate(ctx context.Context, planningPeriod, externalID string) (*canonical.Resource, error)
	// InsertIfAbsent reports false when a record for the key already exists.
	InsertIfAbsent(ctx context.Context, r *canonical.Resource) (bool, error)
	Update(ctx context.Context, r *canonical.Resource) error
}

type OutboxRepository interface {
	Append(ctx context.Context, rec OutboxRecord) error
}

type LedgerRepository interface {
	// MarkProcessed inserts the event id if absent and reports whether it
	// was newly recorded.
	MarkProcessed(ctx context.Context, eventID, eventType string, at time.Time) (bool, error)
}
