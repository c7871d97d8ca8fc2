package repository

import (
	"context"
	"encoding/json"
	"time"

	"enrollment-sync/internal/domain/canonical"
	"enrollment-sync/internal/infra"
	"enrollment-sync/internal/infra/db"
	"enrollment-sync/internal/pkg/pgconv"
)

const (
	selectResourceSQL = `
SELECT planning_period, external_id, status, capacity, blocking_conditions, created_at, updated_at
FROM canonical_resources
WHERE planning_period = $1 AND external_id = $2`

	selectResourceForUpdateSQL = selectResourceSQL + `
FOR UPDATE`

	insertResourceSQL = `
INSERT INTO canonical_resources (planning_period, external_id, status, capacity, blocking_conditions, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (planning_period, external_id) DO NOTHING`

	updateResourceSQL = `
UPDATE canonical_resources
SET status = $3, capacity = $4, blocking_conditions = $5, updated_at = $6
WHERE planning_period = $1 AND external_id = $2`
)

type ResourceRepository struct {
	dbtx db.DBTX
}

func NewResourceRepository(dbtx db.DBTX) *ResourceRepository {
	return &ResourceRepository{dbtx: dbtx}
}

func (r *ResourceRepository) FindForUpdate(ctx context.Context, planningPeriod, externalID string) (*canonical.Resource, error) {
	return scanResource(ctx, r.dbtx, selectResourceForUpdateSQL, planningPeriod, externalID)
}

func (r *ResourceRepository) InsertIfAbsent(ctx context.Context, res *canonical.Resource) (bool, error) {
	capacity, conds, err := resourceColumns(res)
	if err != nil {
		return false, err
	}
	tag, err := r.dbtx.Exec(ctx, insertResourceSQL,
		res.PlanningPeriod(), res.ExternalID(), string(res.Status()), capacity, conds,
		res.CreatedAt(), res.UpdatedAt(),
	)
	if err != nil {
		return false, infra.WrapRepoErr(infra.KindDBFailure, "failed to insert resource", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *ResourceRepository) Update(ctx context.Context, res *canonical.Resource) error {
	capacity, conds, err := resourceColumns(res)
	if err != nil {
		return err
	}
	tag, err := r.dbtx.Exec(ctx, updateResourceSQL,
		res.PlanningPeriod(), res.ExternalID(), string(res.Status()), capacity, conds, res.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update resource", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "resource not found")
	}
	return nil
}

// FindResource reads a record without locking it. Returns (nil, nil) when absent.
func FindResource(ctx context.Context, dbtx db.DBTX, planningPeriod, externalID string) (*canonical.Resource, error) {
	return scanResource(ctx, dbtx, selectResourceSQL, planningPeriod, externalID)
}

func scanResource(ctx context.Context, dbtx db.DBTX, sql, planningPeriod, externalID string) (*canonical.Resource, error) {
	var (
		period, id, status   string
		rawCapacity          []byte
		conds                []string
		createdAt, updatedAt time.Time
	)
	err := dbtx.QueryRow(ctx, sql, planningPeriod, externalID).Scan(
		&period, &id, &status, &rawCapacity, &conds, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to load resource", err)
	}

	var capacity canonical.Capacity
	if len(rawCapacity) > 0 {
		if err := json.Unmarshal(rawCapacity, &capacity); err != nil {
			return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to decode resource capacity", err)
		}
	}
	conditions := make([]canonical.Condition, 0, len(conds))
	for _, c := range conds {
		conditions = append(conditions, canonical.Condition(c))
	}
	return canonical.Reconstruct(id, period, canonical.Status(status), capacity, conditions, createdAt, updatedAt), nil
}

func resourceColumns(res *canonical.Resource) ([]byte, []string, error) {
	capacity, err := json.Marshal(res.Capacity())
	if err != nil {
		return nil, nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to encode resource capacity", err)
	}
	conds := make([]string, 0)
	for _, c := range res.Conditions() {
		conds = append(conds, c.String())
	}
	return capacity, conds, nil
}
