//go:build unit

package worker_test

import (
	"context"
	"testing"
	"time"

	"enrollment-sync/internal/infra/memory"
	"enrollment-sync/internal/pkg/clock"
	"enrollment-sync/internal/usecase/shared"
	"enrollment-sync/internal/worker"
	"enrollment-sync/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func markProcessed(t *testing.T, st *memory.Store, id string, at time.Time) {
	t.Helper()
	require.NoError(t, st.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Ledger().MarkProcessed(ctx, id, "enrollment.approved", at)
		return err
	}))
}

func TestJanitorPurgeOnce(t *testing.T) {
	ctx := context.Background()
	now := builder.FixedNow

	t.Run("removes entries older than the retention window", func(t *testing.T) {
		st := memory.NewStore()
		markProcessed(t, st, "old", now.Add(-48*time.Hour))
		markProcessed(t, st, "edge", now.Add(-24*time.Hour))
		markProcessed(t, st, "fresh", now.Add(-time.Hour))

		j := worker.NewJanitor(st, clock.NewMockClock(now), 24*time.Hour, time.Hour, discardLogger())
		n, err := j.PurgeOnce(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
		assert.Equal(t, 2, st.LedgerSize())
	})

	t.Run("zero retention disables purging", func(t *testing.T) {
		st := memory.NewStore()
		markProcessed(t, st, "old", now.Add(-48*time.Hour))

		j := worker.NewJanitor(st, clock.NewMockClock(now), 0, time.Hour, discardLogger())
		assert.False(t, j.Enabled())
		n, err := j.PurgeOnce(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, 1, st.LedgerSize())

		j.Start(ctx)
		assert.NoError(t, j.Stop(ctx))
	})
}

func TestJanitorLoop(t *testing.T) {
	st := memory.NewStore()
	now := builder.FixedNow
	markProcessed(t, st, "old", now.Add(-48*time.Hour))

	j := worker.NewJanitor(st, clock.NewMockClock(now), time.Hour, 5*time.Millisecond, discardLogger())
	j.Start(context.Background())

	assert.Eventually(t, func() bool { return st.LedgerSize() == 0 }, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, j.Stop(ctx))
}
