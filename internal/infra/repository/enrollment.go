package repository

import (
	"context"
	"time"

	"enrollment-sync/internal/domain/enrollment"
	"enrollment-sync/internal/infra"
	"enrollment-sync/internal/infra/db"
	"enrollment-sync/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

const (
	insertEnrollmentSQL = `
INSERT INTO enrollments (
    external_id, participant_name, resource_name, resource_type, planning_period,
    status, rejection_reason, rejected_at, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	selectEnrollmentForUpdateSQL = `
SELECT external_id, participant_name, resource_name, resource_type, planning_period,
       status, rejection_reason, rejected_at, created_at, updated_at
FROM enrollments
WHERE external_id = $1
FOR UPDATE`

	updateEnrollmentSQL = `
UPDATE enrollments
SET status = $2, rejection_reason = $3, rejected_at = $4, updated_at = $5
WHERE external_id = $1`
)

type EnrollmentRepository struct {
	dbtx db.DBTX
}

func NewEnrollmentRepository(dbtx db.DBTX) *EnrollmentRepository {
	return &EnrollmentRepository{dbtx: dbtx}
}

func (r *EnrollmentRepository) Insert(ctx context.Context, e *enrollment.Enrollment) error {
	_, err := r.dbtx.Exec(ctx, insertEnrollmentSQL,
		e.ExternalID(), e.ParticipantName(), e.ResourceName(), string(e.ResourceType()), e.PlanningPeriod(),
		string(e.Status()), pgconv.Text(e.RejectionReason()), pgconv.Timestamptz(e.RejectedAt()),
		e.CreatedAt(), e.UpdatedAt(),
	)
	if err != nil {
		if pgconv.IsUniqueViolation(err) {
			return infra.WrapRepoErr(infra.KindDuplicateKey, "enrollment already exists", err)
		}
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to insert enrollment", err)
	}
	return nil
}

func (r *EnrollmentRepository) FindForUpdate(ctx context.Context, externalID string) (*enrollment.Enrollment, error) {
	var (
		id, participant, name, rtype, period, status string
		reason                                       pgtype.Text
		rejectedAt                                   pgtype.Timestamptz
		createdAt, updatedAt                         time.Time
	)
	err := r.dbtx.QueryRow(ctx, selectEnrollmentForUpdateSQL, externalID).Scan(
		&id, &participant, &name, &rtype, &period,
		&status, &reason, &rejectedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr(infra.KindDBFailure, "failed to load enrollment", err)
	}
	return enrollment.Reconstruct(
		id, participant, name, enrollment.ResourceType(rtype), period,
		enrollment.Status(status), pgconv.StringPtr(reason), pgconv.TimePtr(rejectedAt),
		createdAt, updatedAt,
	), nil
}

func (r *EnrollmentRepository) Update(ctx context.Context, e *enrollment.Enrollment) error {
	tag, err := r.dbtx.Exec(ctx, updateEnrollmentSQL,
		e.ExternalID(), string(e.Status()),
		pgconv.Text(e.RejectionReason()), pgconv.Timestamptz(e.RejectedAt()),
		e.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr(infra.KindDBFailure, "failed to update enrollment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "enrollment not found")
	}
	return nil
}
