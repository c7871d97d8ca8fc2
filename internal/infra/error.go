package infra

import (
	"context"
	"log/slog"

	"enrollment-sync/internal/pkg/errs"
)

type RepositoryErrorKind string

const (
	KindNotFound     RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure    RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey RepositoryErrorKind = "DUPLICATE_KEY"
)

// RepositoryError is what every repository and read store returns. The
// usecase layer branches on Kind and never sees driver errors directly.
type RepositoryError struct {
	Kind  RepositoryErrorKind
	msg   string
	cause error
}

func (e *RepositoryError) Error() string {
	s := string(e.Kind) + ": " + e.msg
	if e.cause != nil {
		s += ": " + e.cause.Error()
	}
	return s
}

func (e *RepositoryError) Unwrap() error { return e.cause }

// WrapRepoErr attaches kind to a driver error. Only DB_FAILURE is worth an
// error-level line; the other kinds are ordinary outcomes.
func WrapRepoErr(kind RepositoryErrorKind, msg string, cause error) error {
	if kind == KindDBFailure {
		slog.ErrorContext(context.Background(), "repository failure",
			"kind", string(kind), "op", msg, "error", cause)
	}
	if cause != nil {
		cause = errs.Wrap(cause, msg)
	}
	return &RepositoryError{Kind: kind, msg: msg, cause: cause}
}

func NewRepoErr(kind RepositoryErrorKind, msg string) error {
	return &RepositoryError{Kind: kind, msg: msg}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var re *RepositoryError
	return errs.As(err, &re) && re.Kind == kind
}
