package canonical

import (
	"time"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusWithdrawn Status = "WITHDRAWN"
)

const (
	MsgNotAvailable     = "This resource is not available for withdrawal."
	MsgAlreadyWithdrawn = "This resource has already been withdrawn."
	MsgWithdrawn        = "This resource has been withdrawn."
)

// Resource is the authoritative record, keyed by (external id, planning
// period). It is never deleted.
type Resource struct {
	externalID     string
	planningPeriod string
	status         Status
	capacity       Capacity
	conditions     map[Condition]struct{}
	createdAt      time.Time
	updatedAt      time.Time
}

func NewResource(externalID, planningPeriod string, now time.Time) *Resource {
	return &Resource{
		externalID:     externalID,
		planningPeriod: planningPeriod,
		status:         StatusActive,
		capacity:       DeriveCapacity(externalID),
		conditions:     map[Condition]struct{}{},
		createdAt:      now,
		updatedAt:      now,
	}
}

func Reconstruct(externalID, planningPeriod string, status Status, capacity Capacity, conditions []Condition, createdAt, updatedAt time.Time) *Resource {
	set := make(map[Condition]struct{}, len(conditions))
	for _, c := range conditions {
		set[c] = struct{}{}
	}
	if capacity == nil {
		capacity = Capacity{}
	}
	return &Resource{
		externalID:     externalID,
		planningPeriod: planningPeriod,
		status:         status,
		capacity:       capacity,
		conditions:     set,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

func (r *Resource) ExternalID() string     { return r.externalID }
func (r *Resource) PlanningPeriod() string { return r.planningPeriod }
func (r *Resource) Status() Status         { return r.status }
func (r *Resource) Capacity() Capacity     { return r.capacity.Clone() }
func (r *Resource) CreatedAt() time.Time   { return r.createdAt }
func (r *Resource) UpdatedAt() time.Time   { return r.updatedAt }

// Conditions returns the blocking set ordered by code.
func (r *Resource) Conditions() []Condition {
	out := make([]Condition, 0, len(r.conditions))
	for c := range r.conditions {
		out = append(out, c)
	}
	return SortConditions(out)
}

func (r *Resource) IsBlocked() bool { return len(r.conditions) > 0 }

// EnableCondition is idempotent; it reports whether the set changed.
func (r *Resource) EnableCondition(c Condition, now time.Time) bool {
	if _, ok := r.conditions[c]; ok {
		return false
	}
	r.conditions[c] = struct{}{}
	r.updatedAt = now
	return true
}

func (r *Resource) DisableCondition(c Condition, now time.Time) bool {
	if _, ok := r.conditions[c]; !ok {
		return false
	}
	delete(r.conditions, c)
	r.updatedAt = now
	return true
}

func (r *Resource) withdraw(now time.Time) {
	r.status = StatusWithdrawn
	r.capacity = Capacity{}
	r.updatedAt = now
}
