// Package pgconv bridges nullable pgtype values and the pointer fields the
// domain uses, and recognises the driver errors repositories branch on.
package pgconv

import (
	"time"

	"enrollment-sync/internal/pkg/errs"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// SQLSTATE unique_violation
const uniqueViolation = "23505"

func Text(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func StringPtr(t pgtype.Text) *string {
	return ptrIf(t.Valid, t.String)
}

func Timestamptz(t *time.Time) pgtype.Timestamptz {
	if t == nil {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: *t, Valid: true}
}

func TimePtr(t pgtype.Timestamptz) *time.Time {
	return ptrIf(t.Valid, t.Time)
}

func ptrIf[T any](valid bool, v T) *T {
	if !valid {
		return nil
	}
	return &v
}

func IsNoRows(err error) bool {
	return errs.Is(err, pgx.ErrNoRows)
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errs.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
