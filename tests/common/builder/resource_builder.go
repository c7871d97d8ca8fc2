//go:build unit || e2e

package builder

import (
	"time"

	"enrollment-sync/internal/domain/canonical"
	"enrollment-sync/internal/usecase/queries"
)

type ResourceBuilder struct {
	externalID     string
	planningPeriod string
	status         canonical.Status
	conditions     []canonical.Condition
	now            time.Time
}

func NewResourceBuilder() *ResourceBuilder {
	return &ResourceBuilder{
		externalID:     "R-1",
		planningPeriod: "2025",
		status:         canonical.StatusActive,
		now:            FixedNow,
	}
}

func (b *ResourceBuilder) WithExternalID(id string) *ResourceBuilder {
	b.externalID = id
	return b
}

func (b *ResourceBuilder) WithPlanningPeriod(p string) *ResourceBuilder {
	b.planningPeriod = p
	return b
}

func (b *ResourceBuilder) Withdrawn() *ResourceBuilder {
	b.status = canonical.StatusWithdrawn
	return b
}

func (b *ResourceBuilder) WithConditions(conds ...canonical.Condition) *ResourceBuilder {
	b.conditions = append(b.conditions, conds...)
	return b
}

func (b *ResourceBuilder) BuildDomain() *canonical.Resource {
	capacity := canonical.DeriveCapacity(b.externalID)
	if b.status == canonical.StatusWithdrawn {
		capacity = canonical.Capacity{}
	}
	return canonical.Reconstruct(b.externalID, b.planningPeriod, b.status, capacity, b.conditions, b.now, b.now)
}

func (b *ResourceBuilder) BuildView() *queries.ResourceView {
	return queries.NewResourceView(b.BuildDomain())
}
