package readstore

import (
	"context"
	"time"

	"enrollment-sync/internal/infra"
	"enrollment-sync/internal/infra/db"
	"enrollment-sync/internal/pkg/pgconv"
	"enrollment-sync/internal/usecase/queries"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	enrollmentColumns = `
SELECT external_id, participant_name, resource_name, resource_type, planning_period,
       status, rejection_reason, rejected_at, created_at, updated_at
FROM enrollments`

	findEnrollmentSQL = enrollmentColumns + `
WHERE external_id = $1`

	listEnrollmentsSQL = enrollmentColumns + `
ORDER BY updated_at DESC, external_id`

	listWithdrawRejectedSQL = enrollmentColumns + `
WHERE status = 'WITHDRAW_REJECTED'
ORDER BY rejected_at DESC NULLS LAST, external_id`
)

type EnrollmentReadStore struct {
	dbtx db.DBTX
}

func NewEnrollmentReadStore(dbtx db.DBTX) *EnrollmentReadStore {
	return &EnrollmentReadStore{dbtx: dbtx}
}

func (s *EnrollmentReadStore) FindByExternalID(ctx context.Context, externalID string) (*queries.EnrollmentView, error) {
	rows, err := s.dbtx.Query(ctx, findEnrollmentSQL, externalID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find enrollment", err)
	}
	v, err := pgx.CollectExactlyOneRow(rows, scanEnrollmentView)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr(infra.KindNotFound, "enrollment not found", err)
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to find enrollment", err)
	}
	return v, nil
}

func (s *EnrollmentReadStore) ListAll(ctx context.Context) ([]*queries.EnrollmentView, error) {
	return s.list(ctx, listEnrollmentsSQL)
}

func (s *EnrollmentReadStore) ListWithdrawRejected(ctx context.Context) ([]*queries.EnrollmentView, error) {
	return s.list(ctx, listWithdrawRejectedSQL)
}

func (s *EnrollmentReadStore) list(ctx context.Context, sql string) ([]*queries.EnrollmentView, error) {
	rows, err := s.dbtx.Query(ctx, sql)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to list enrollments", err)
	}
	views, err := pgx.CollectRows(rows, scanEnrollmentView)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to scan enrollments", err)
	}
	return views, nil
}

func scanEnrollmentView(row pgx.CollectableRow) (*queries.EnrollmentView, error) {
	var (
		v          queries.EnrollmentView
		reason     pgtype.Text
		rejectedAt pgtype.Timestamptz
		created    time.Time
		updated    time.Time
	)
	err := row.Scan(
		&v.ExternalID, &v.ParticipantName, &v.ResourceName, &v.ResourceType, &v.PlanningPeriod,
		&v.Status, &reason, &rejectedAt, &created, &updated,
	)
	if err != nil {
		return nil, err
	}
	v.RejectionReason = pgconv.StringPtr(reason)
	v.RejectedAt = pgconv.TimePtr(rejectedAt)
	v.CreatedAt = created
	v.UpdatedAt = updated
	return &v, nil
}
