//go:build unit

package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"enrollment-sync/internal/domain/canonical"
	"enrollment-sync/internal/domain/eligibility"
	"enrollment-sync/internal/domain/enrollment"
	"enrollment-sync/internal/event"
	"enrollment-sync/internal/infra/memory"
	"enrollment-sync/internal/pkg/config"
	"enrollment-sync/internal/usecase/shared"

	"github.com/stretchr/testify/require"
)

var topics = event.TopicsFromConfig(config.NewTestConfig().Topics)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr(s string) *string { return &s }

func seedEnrollment(t *testing.T, st *memory.Store, e *enrollment.Enrollment) {
	t.Helper()
	require.NoError(t, st.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Enrollments().Insert(ctx, e)
	}))
}

func seedSnapshot(t *testing.T, st *memory.Store, s *eligibility.Snapshot) {
	t.Helper()
	require.NoError(t, st.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		return tx.Eligibility().Upsert(ctx, s)
	}))
}

func seedResource(t *testing.T, st *memory.Store, r *canonical.Resource) {
	t.Helper()
	require.NoError(t, st.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Resources().InsertIfAbsent(ctx, r)
		return err
	}))
}

// inTx runs fn in its own unit of work, the way the inbound guard does.
func inTx(t *testing.T, st *memory.Store, fn func(ctx context.Context, tx shared.Tx) error) error {
	t.Helper()
	return st.Within(context.Background(), fn)
}

// outboxOn returns the records appended to topic, in order.
func outboxOn(st *memory.Store, topic string) []shared.OutboxRecord {
	var out []shared.OutboxRecord
	for _, r := range st.Outbox() {
		if r.Topic == topic {
			out = append(out, r)
		}
	}
	return out
}

func decode[M any, PM interface {
	*M
	event.Message
}](t *testing.T, rec shared.OutboxRecord) *M {
	t.Helper()
	msg := PM(new(M))
	require.NoError(t, event.Decode(rec.Payload, msg))
	return (*M)(msg)
}
