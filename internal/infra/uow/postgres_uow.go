package uow

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"enrollment-sync/internal/infra/db"
	"enrollment-sync/internal/infra/repository"
	"enrollment-sync/internal/pkg/errs"
	"enrollment-sync/internal/usecase/shared"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

// retryPolicy re-runs a unit of work that lost a serialization or deadlock
// race. The callback must be safe to run again from scratch.
type retryPolicy struct {
	retries int
	base    time.Duration
}

var defaultRetry = retryPolicy{retries: 3, base: 100 * time.Millisecond}

// backoff doubles per attempt with up to 20% jitter.
func (p retryPolicy) backoff(attempt int) time.Duration {
	d := p.base << attempt
	if j := int64(d / 5); j > 0 {
		d += time.Duration(rand.Int64N(j))
	}
	return d
}

func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errs.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01": // serialization_failure, deadlock_detected
		return true
	}
	return false
}

type PostgresUoW struct {
	pool  *pgxpool.Pool
	retry retryPolicy
}

func NewPostgresUoW(pool *pgxpool.Pool) shared.UnitOfWork {
	return &PostgresUoW{pool: pool, retry: defaultRetry}
}

// Within runs fn at ReadCommitted. Writers on one aggregate are serialised by
// the row locks FindForUpdate takes, and the outbox append and ledger insert
// commit with the state they belong to.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	opts := pgx.TxOptions{IsoLevel: pgx.ReadCommitted}

	for attempt := 0; ; attempt++ {
		err := u.attempt(ctx, opts, fn)
		if err == nil || !retryable(err) {
			return err
		}
		if attempt == u.retry.retries {
			slog.ErrorContext(ctx, "transaction failed after max retries", "attempts", attempt+1, "error", err.Error())
			return errs.Mark(err, errMaxRetriesExceeded)
		}

		wait := u.retry.backoff(attempt)
		slog.WarnContext(ctx, "retrying transaction",
			"attempt", attempt+1, "wait_ms", wait.Milliseconds(), "error", err.Error())

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// attempt is one begin/fn/commit round. The deferred rollback is a no-op
// after a successful commit.
func (u *PostgresUoW) attempt(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	tx, err := u.pool.BeginTx(ctx, opts)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errs.Is(rbErr, pgx.ErrTxClosed) {
			slog.WarnContext(ctx, "rollback failed", "error", rbErr.Error())
		}
	}()

	if err := fn(ctx, &pgTx{dbtx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return errs.Mark(err, errTransactionCommit)
	}
	return nil
}

// pgTx binds repositories to one transaction on first use.
type pgTx struct {
	dbtx db.DBTX

	enrollments shared.EnrollmentRepository
	eligibility shared.EligibilityRepository
	resources   shared.ResourceRepository
	outbox      shared.OutboxRepository
	ledger      shared.LedgerRepository
}

func (t *pgTx) Enrollments() shared.EnrollmentRepository {
	if t.enrollments == nil {
		t.enrollments = repository.NewEnrollmentRepository(t.dbtx)
	}
	return t.enrollments
}

func (t *pgTx) Eligibility() shared.EligibilityRepository {
	if t.eligibility == nil {
		t.eligibility = repository.NewEligibilityRepository(t.dbtx)
	}
	return t.eligibility
}

func (t *pgTx) Resources() shared.ResourceRepository {
	if t.resources == nil {
		t.resources = repository.NewResourceRepository(t.dbtx)
	}
	return t.resources
}

func (t *pgTx) Outbox() shared.OutboxRepository {
	if t.outbox == nil {
		t.outbox = repository.NewOutboxRepository(t.dbtx)
	}
	return t.outbox
}

func (t *pgTx) Ledger() shared.LedgerRepository {
	if t.ledger == nil {
		t.ledger = repository.NewLedgerRepository(t.dbtx)
	}
	return t.ledger
}
