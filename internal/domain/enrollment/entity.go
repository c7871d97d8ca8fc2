package enrollment

import (
	"strings"
	"time"

	"enrollment-sync/internal/domain/eligibility"
	"enrollment-sync/internal/pkg/errs"
)

// Enrollment is identified by the external resource id, which never changes
// after creation.
type Enrollment struct {
	externalID      string
	participantName string
	resourceName    string
	resourceType    ResourceType
	planningPeriod  string
	status          Status
	rejectionReason *string
	rejectedAt      *time.Time
	createdAt       time.Time
	updatedAt       time.Time
}

func New(externalID, participantName, resourceName string, resourceType ResourceType, planningPeriod string, now time.Time) (*Enrollment, error) {
	fields := map[string]string{
		"externalId":      externalID,
		"participantName": participantName,
		"resourceName":    resourceName,
		"planningPeriod":  planningPeriod,
	}
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			return nil, errs.Mark(errs.Newf("%s is required", name), ErrInvalidField)
		}
	}
	if _, err := ParseResourceType(string(resourceType)); err != nil {
		return nil, err
	}

	return &Enrollment{
		externalID:      externalID,
		participantName: participantName,
		resourceName:    resourceName,
		resourceType:    resourceType,
		planningPeriod:  planningPeriod,
		status:          StatusDraft,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds an aggregate from storage without validation.
func Reconstruct(
	externalID, participantName, resourceName string,
	resourceType ResourceType,
	planningPeriod string,
	status Status,
	rejectionReason *string,
	rejectedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Enrollment {
	return &Enrollment{
		externalID:      externalID,
		participantName: participantName,
		resourceName:    resourceName,
		resourceType:    resourceType,
		planningPeriod:  planningPeriod,
		status:          status,
		rejectionReason: rejectionReason,
		rejectedAt:      rejectedAt,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (e *Enrollment) ExternalID() string          { return e.externalID }
func (e *Enrollment) ParticipantName() string     { return e.participantName }
func (e *Enrollment) ResourceName() string        { return e.resourceName }
func (e *Enrollment) ResourceType() ResourceType  { return e.resourceType }
func (e *Enrollment) PlanningPeriod() string      { return e.planningPeriod }
func (e *Enrollment) Status() Status              { return e.status }
func (e *Enrollment) RejectionReason() *string    { return e.rejectionReason }
func (e *Enrollment) RejectedAt() *time.Time      { return e.rejectedAt }
func (e *Enrollment) CreatedAt() time.Time        { return e.createdAt }
func (e *Enrollment) UpdatedAt() time.Time        { return e.updatedAt }

func (e *Enrollment) Submit(now time.Time) error {
	if e.status != StatusDraft {
		return e.invalid("submit")
	}
	e.transition(StatusSubmitted, now)
	return nil
}

func (e *Enrollment) Approve(now time.Time) error {
	if e.status != StatusSubmitted {
		return e.invalid("approve")
	}
	e.transition(StatusApproved, now)
	return nil
}

// RequestWithdraw is gated on the locally cached verdict only. A nil snapshot
// means no verdict has arrived yet.
func (e *Enrollment) RequestWithdraw(snap *eligibility.Snapshot, now time.Time) error {
	if e.status != StatusApproved {
		return e.invalid("withdraw")
	}
	if snap == nil {
		return ErrEligibilityUnknown
	}
	if !snap.Allowed {
		return errs.Mark(errs.New(snap.DenialReason()), ErrEligibilityDenied)
	}
	e.transition(StatusWithdrawRequested, now)
	return nil
}

// CompleteWithdraw reports false when the enrollment is not waiting for an
// outcome; the caller treats that as a stale message.
func (e *Enrollment) CompleteWithdraw(now time.Time) bool {
	if e.status != StatusWithdrawRequested {
		return false
	}
	e.transition(StatusWithdrawn, now)
	e.clearRejection()
	return true
}

func (e *Enrollment) RejectWithdraw(reason string, now time.Time) bool {
	if e.status != StatusWithdrawRequested {
		return false
	}
	e.transition(StatusWithdrawRejected, now)
	e.rejectionReason = &reason
	e.rejectedAt = &now
	return true
}

func (e *Enrollment) CorrectRejectedWithdrawal(now time.Time) error {
	if e.status != StatusWithdrawRejected {
		return e.invalid("correct rejected withdrawal of")
	}
	e.transition(StatusApproved, now)
	e.clearRejection()
	return nil
}

func (e *Enrollment) transition(to Status, now time.Time) {
	e.status = to
	e.updatedAt = now
}

func (e *Enrollment) clearRejection() {
	e.rejectionReason = nil
	e.rejectedAt = nil
}

func (e *Enrollment) invalid(action string) error {
	return errs.Mark(
		errs.Newf("cannot %s enrollment %s in state %s", action, e.externalID, e.status),
		ErrInvalidState,
	)
}
