package queries

import (
	"context"
	"time"

	"enrollment-sync/internal/domain/canonical"
)

type ResourceView struct {
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

// ResourceReadStore returns a NOT_FOUND repository error for unknown keys.
type ResourceReadStore interface {
	Find(ctx context.Context, planningPeriod, externalID string) (*canonical.Resource, error)
}

type ResourceQueries interface {
	Get(ctx context.Context, planningPeriod, externalID string) (*ResourceView, error)
}

type resourceQueriesImpl struct {
	store ResourceReadStore
}

func NewResourceQueries(store ResourceReadStore) ResourceQueries {
	return &resourceQueriesImpl{store: store}
}

func (q *resourceQueriesImpl) Get(ctx context.Context, planningPeriod, externalID string) (*ResourceView, error) {
	r, err := q.store.Find(ctx, planningPeriod, externalID)
	if err != nil {
		return nil, translateNotFound(err, "resource "+planningPeriod+":"+externalID)
	}
	return NewResourceView(r), nil
}

func NewResourceView(r *canonical.Resource) *ResourceView {
	v := r.Eligibility()
	capacity := make(map[string]float64, len(canonical.Seasons))
	for season, value := range r.Capacity() {
		capacity[string(season)] = value
	}
	return &ResourceView{
		ExternalID:         r.ExternalID(),
		PlanningPeriod:     r.PlanningPeriod(),
		Status:             string(r.Status()),
		Capacity:           capacity,
		BlockingConditions: v.ConditionCodes(),
		CanWithdraw:        v.Allowed,
		Reason:             v.Reason,
		CreatedAt:          r.CreatedAt(),
		UpdatedAt:          r.UpdatedAt(),
	}
}
