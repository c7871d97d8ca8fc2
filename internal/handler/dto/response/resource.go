package response

import (
	"time"

	"enrollment-sync/internal/usecase/queries"
)

type ResourceResponse struct {
	ExternalID         string             `json:"externalId"`
	PlanningPeriod     string             `json:"planningPeriod"`
	Status             string             `json:"status"`
	Capacity           map[string]float64 `json:"capacity"`
	BlockingConditions []string           `json:"blockingConditions"`
	CanWithdraw        bool               `json:"canWithdraw"`
	Reason             *string            `json:"reason,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

func FromResourceView(v *queries.ResourceView) *ResourceResponse {
	return &ResourceResponse{
		ExternalID:         v.ExternalID,
		PlanningPeriod:     v.PlanningPeriod,
		Status:             v.Status,
		Capacity:           v.Capacity,
		BlockingConditions: v.BlockingConditions,
		CanWithdraw:        v.CanWithdraw,
		Reason:             v.Reason,
		CreatedAt:          v.CreatedAt,
		UpdatedAt:          v.UpdatedAt,
	}
}
