package queries

import (
	"context"
	"time"

	"enrollment-sync/internal/infra"
	"enrollment-sync/internal/pkg/errs"
)

const EligibilityPendingReason = "Eligibility not yet available"

type EnrollmentView struct {
	ExternalID      string     `json:"externalId"`
	ParticipantName string     `json:"participantName"`
	ResourceName    string     `json:"resourceName"`
	ResourceType    string     `json:"resourceType"`
	PlanningPeriod  string     `json:"planningPeriod"`
	Status          string     `json:"status"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`
	RejectedAt      *time.Time `json:"rejectedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type EligibilityView struct {
	PlanningPeriod     string     `json:"planningPeriod"`
	ExternalID         string     `json:"externalId"`
	CanWithdraw        bool       `json:"canWithdraw"`
	Reason             *string    `json:"reason,omitempty"`
	BlockingConditions []string   `json:"blockingConditions"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

// EnrollmentReadStore returns a NOT_FOUND repository error for unknown ids.
type EnrollmentReadStore interface {
	FindByExternalID(ctx context.Context, externalID string) (*EnrollmentView, error)
	// ListAll is ordered by last update, newest first.
	ListAll(ctx context.Context) ([]*EnrollmentView, error)
	// ListWithdrawRejected is ordered by rejection time, newest first.
	ListWithdrawRejected(ctx context.Context) ([]*EnrollmentView, error)
}

// EligibilityReadStore returns (nil, nil) when no snapshot has arrived.
type EligibilityReadStore interface {
	Find(ctx context.Context, planningPeriod, externalID string) (*EligibilityView, error)
}

type EnrollmentQueries interface {
	GetByExternalID(ctx context.Context, externalID string) (*EnrollmentView, error)
	GetEligibility(ctx context.Context, externalID string) (*EligibilityView, error)
	ListAll(ctx context.Context) ([]*EnrollmentView, error)
	ListWithdrawRejected(ctx context.Context) ([]*EnrollmentView, error)
}

type enrollmentQueriesImpl struct {
	enrollments EnrollmentReadStore
	eligibility EligibilityReadStore
}

func NewEnrollmentQueries(enrollments EnrollmentReadStore, eligibility EligibilityReadStore) EnrollmentQueries {
	return &enrollmentQueriesImpl{enrollments: enrollments, eligibility: eligibility}
}

func (q *enrollmentQueriesImpl) GetByExternalID(ctx context.Context, externalID string) (*EnrollmentView, error) {
	v, err := q.enrollments.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, translateNotFound(err, "enrollment "+externalID)
	}
	return v, nil
}

// GetEligibility falls back to a not-yet-available view until the first
// verdict arrives.
func (q *enrollmentQueriesImpl) GetEligibility(ctx context.Context, externalID string) (*EligibilityView, error) {
	e, err := q.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	v, err := q.eligibility.Find(ctx, e.PlanningPeriod, e.ExternalID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		reason := EligibilityPendingReason
		return &EligibilityView{
			PlanningPeriod:     e.PlanningPeriod,
			ExternalID:         e.ExternalID,
			CanWithdraw:        false,
			Reason:             &reason,
			BlockingConditions: []string{},
		}, nil
	}
	return v, nil
}

func (q *enrollmentQueriesImpl) ListAll(ctx context.Context) ([]*EnrollmentView, error) {
	return q.enrollments.ListAll(ctx)
}

func (q *enrollmentQueriesImpl) ListWithdrawRejected(ctx context.Context) ([]*EnrollmentView, error) {
	return q.enrollments.ListWithdrawRejected(ctx)
}

func translateNotFound(err error, what string) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(errs.Newf("%s not found", what), errs.ErrNotFound)
	}
	return err
}
