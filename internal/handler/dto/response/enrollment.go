package response

import (
	"time"

	"enrollment-sync/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type EnrollmentResponse struct {
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

type EligibilityResponse struct {
	ExternalID         string     `json:"externalId"`
	PlanningPeriod     string     `json:"planningPeriod"`
	CanWithdraw        bool       `json:"canWithdraw"`
	Reason             *string    `json:"reason,omitempty"`
	BlockingConditions []string   `json:"blockingConditions"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"`
}

func FromEnrollmentView(v *queries.EnrollmentView) *EnrollmentResponse {
	var res EnrollmentResponse
	_ = copier.Copy(&res, v)
	return &res
}

func FromEnrollmentList(items []*queries.EnrollmentView) []*EnrollmentResponse {
	res := make([]*EnrollmentResponse, len(items))
	for i, it := range items {
		res[i] = FromEnrollmentView(it)
	}
	return res
}

func FromEligibilityView(v *queries.EligibilityView) *EligibilityResponse {
	conds := v.BlockingConditions
	if conds == nil {
		conds = []string{}
	}
	return &EligibilityResponse{
		ExternalID:         v.ExternalID,
		PlanningPeriod:     v.PlanningPeriod,
		CanWithdraw:        v.CanWithdraw,
		Reason:             v.Reason,
		BlockingConditions: conds,
		UpdatedAt:          v.UpdatedAt,
	}
}
