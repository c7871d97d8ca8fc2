package repository

import (
	"context"

	"enrollment-sync/internal/domain/eligibility"
	"enrollment-sync/internal/infra"
	"enrollment-sync/internal/infra/db"
	"enrollment-sync/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

const (
	selectSnapshotSQL = `
SELECT planning_period, external_id, allowed, reason, blocking_conditions, updated_at
FROM eligibility_snapshots
WHERE planning_period = $1 AND external_id = $2`

	upsertSnapshotSQL = `
INSERT INTO eligibility_snapshots (planning_period, external_id, allowed, reason, blocking_conditions, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (planning_period, external_id) DO UPDATE
SET allowed = EXCLUDED.allowed,
    reason = EXCLUDED.reason,
    blocking_conditions = EXCLUDED.blocking_conditions,
    updated_at = EXCLUDED.updated_at`
)

type EligibilityRepository struct {
	dbtx db.DBTX
}

func NewEligibilityRepository(dbtx db.DBTX) *EligibilityRepository {
	return &EligibilityRepository{dbtx: dbtx}
}

func (r *EligibilityRepository) Find(ctx context.Context, planningPeriod, externalID string) (*eligibility.Snapshot, error) {
	var (
		s      eligibility.Snapshot
		reason pgtype.Text
	)
	err := r.dbtx.QueryRow(ctx, selectSnapshotSQL, planningPeriod, externalID).Scan(
		&s.PlanningPeriod, &s.ExternalID, &s.Allowed, &reason, &s.BlockingConditions, &s.UpdatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to load eligibility snapshot", err)
	}
	s.Reason = pgconv.StringPtr(reason)
	return &s, nil
}

func (r *EligibilityRepository) Upsert(ctx context.Context, s *eligibility.Snapshot) error {
	conds := s.BlockingConditions
	if conds == nil {
		conds = []string{}
	}
	_, err := r.dbtx.Exec(ctx, upsertSnapshotSQL,
		s.PlanningPeriod, s.ExternalID, s.Allowed, pgconv.Text(s.Reason), conds, s.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to upsert eligibility snapshot", err)
	}
	return nil
}
