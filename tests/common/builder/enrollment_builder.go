//go:build unit || e2e

package builder

import (
	"time"

	"enrollment-sync/internal/domain/eligibility"
	"enrollment-sync/internal/domain/enrollment"
	reqdto "enrollment-sync/internal/handler/dto/request"
	"enrollment-sync/internal/usecase/queries"
)

var FixedNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type EnrollmentBuilder struct {
	externalID      string
	participantName string
	resourceName    string
	resourceType    enrollment.ResourceType
	planningPeriod  string
	status          enrollment.Status
	rejectionReason *string
	rejectedAt      *time.Time
	now             time.Time
}

func NewEnrollmentBuilder() *EnrollmentBuilder {
	return &EnrollmentBuilder{
		externalID:      "R-1",
		participantName: "Northwind Energy",
		resourceName:    "Plant A",
		resourceType:    enrollment.ResourceTypeDR,
		planningPeriod:  "2025",
		status:          enrollment.StatusDraft,
		now:             FixedNow,
	}
}

func (b *EnrollmentBuilder) WithExternalID(id string) *EnrollmentBuilder {
	b.externalID = id
	return b
}

func (b *EnrollmentBuilder) WithParticipantName(name string) *EnrollmentBuilder {
	b.participantName = name
	return b
}

func (b *EnrollmentBuilder) WithResourceName(name string) *EnrollmentBuilder {
	b.resourceName = name
	return b
}

func (b *EnrollmentBuilder) WithResourceType(rt enrollment.ResourceType) *EnrollmentBuilder {
	b.resourceType = rt
	return b
}

func (b *EnrollmentBuilder) WithPlanningPeriod(p string) *EnrollmentBuilder {
	b.planningPeriod = p
	return b
}

func (b *EnrollmentBuilder) WithStatus(s enrollment.Status) *EnrollmentBuilder {
	b.status = s
	return b
}

func (b *EnrollmentBuilder) WithRejection(reason string, at time.Time) *EnrollmentBuilder {
	b.rejectionReason = &reason
	b.rejectedAt = &at
	return b
}

func (b *EnrollmentBuilder) BuildNew() (*enrollment.Enrollment, error) {
	return enrollment.New(b.externalID, b.participantName, b.resourceName, b.resourceType, b.planningPeriod, b.now)
}

func (b *EnrollmentBuilder) BuildDomain() *enrollment.Enrollment {
	return enrollment.Reconstruct(
		b.externalID, b.participantName, b.resourceName, b.resourceType, b.planningPeriod,
		b.status, b.rejectionReason, b.rejectedAt, b.now, b.now,
	)
}

func (b *EnrollmentBuilder) BuildCreateRequestDTO() reqdto.CreateEnrollmentRequest {
	return reqdto.CreateEnrollmentRequest{
		ExternalID:      b.externalID,
		ParticipantName: b.participantName,
		ResourceName:    b.resourceName,
		ResourceType:    string(b.resourceType),
		PlanningPeriod:  b.planningPeriod,
	}
}

func (b *EnrollmentBuilder) BuildView() *queries.EnrollmentView {
	return &queries.EnrollmentView{
		ExternalID:      b.externalID,
		ParticipantName: b.participantName,
		ResourceName:    b.resourceName,
		ResourceType:    string(b.resourceType),
		PlanningPeriod:  b.planningPeriod,
		Status:          string(b.status),
		RejectionReason: b.rejectionReason,
		RejectedAt:      b.rejectedAt,
		CreatedAt:       b.now,
		UpdatedAt:       b.now,
	}
}

func AllowedSnapshot(period, externalID string) *eligibility.Snapshot {
	return &eligibility.Snapshot{
		PlanningPeriod:     period,
		ExternalID:         externalID,
		Allowed:            true,
		BlockingConditions: []string{},
		UpdatedAt:          FixedNow,
	}
}

func DeniedSnapshot(period, externalID string, reason *string, conditions ...string) *eligibility.Snapshot {
	return &eligibility.Snapshot{
		PlanningPeriod:     period,
		ExternalID:         externalID,
		Allowed:            false,
		Reason:             reason,
		BlockingConditions: append([]string{}, conditions...),
		UpdatedAt:          FixedNow,
	}
}
