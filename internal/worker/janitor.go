package worker

import (
	"context"
	"log/slog"
	"time"

	"enrollment-sync/internal/pkg/clock"
	"enrollment-sync/internal/usecase/shared"
)

// Janitor purges processed-event entries older than the retention window.
// The window must exceed the longest redelivery delay the broker can
// produce, or a late duplicate would be applied again.
type Janitor struct {
	store     shared.LedgerStore
	clock     clock.Clock
	retention time.Duration
	interval  time.Duration
	logger    *slog.Logger
	loop      loop
}

func NewJanitor(store shared.LedgerStore, clk clock.Clock, retention, interval time.Duration, logger *slog.Logger) *Janitor {
	return &Janitor{
		store:     store,
		clock:     clk,
		retention: retention,
		interval:  interval,
		logger:    logger.With("module", "ledger"),
	}
}

func (j *Janitor) Enabled() bool {
	return j.retention > 0 && j.interval > 0
}

func (j *Janitor) PurgeOnce(ctx context.Context) (int64, error) {
	if j.retention <= 0 {
		return 0, nil
	}
	cutoff := j.clock.Now().Add(-j.retention)
	n, err := j.store.PurgeBefore(ctx, cutoff)
	if err != nil {
		j.logger.ErrorContext(ctx, "ledger purge failed", "operation", "purge", "error", err.Error())
		return 0, err
	}
	LedgerPurgedTotal.Add(float64(n))
	if n > 0 {
		j.logger.InfoContext(ctx, "ledger purged", "operation", "purge", "removed", n, "cutoff", cutoff)
	}
	return n, nil
}

func (j *Janitor) Start(ctx context.Context) {
	if !j.Enabled() {
		j.logger.Info("ledger janitor disabled")
		return
	}
	j.loop.start(ctx, j.interval, func(ctx context.Context) {
		_, _ = j.PurgeOnce(ctx)
	})
}

func (j *Janitor) Stop(ctx context.Context) error {
	return j.loop.stop(ctx)
}
