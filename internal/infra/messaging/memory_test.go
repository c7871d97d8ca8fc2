//go:build unit

package messaging_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"enrollment-sync/internal/infra/messaging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fetch(t *testing.T, sub messaging.Subscription) messaging.Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	msg, err := sub.Fetch(ctx)
	require.NoError(t, err)
	return msg
}

func TestMemoryBrokerDeliversOncePerGroup(t *testing.T) {
	ctx := context.Background()
	b := messaging.NewMemoryBroker()
	defer b.Close()

	first, err := b.Subscribe("g1", []string{"t"})
	require.NoError(t, err)
	second, err := b.Subscribe("g1", []string{"t"})
	require.NoError(t, err)
	other, err := b.Subscribe("g2", []string{"t"})
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, messaging.Message{Topic: "t", Key: []byte("k"), Value: []byte("a")}))
	require.NoError(t, b.Publish(ctx, messaging.Message{Topic: "t", Key: []byte("k"), Value: []byte("b")}))

	a := fetch(t, first)
	assert.Equal(t, "a", string(a.Value))
	require.NoError(t, first.Commit(ctx, a))
	assert.Equal(t, "b", string(fetch(t, second).Value))

	m := fetch(t, other)
	assert.Equal(t, "a", string(m.Value), "a new group starts from the beginning")
	assert.Zero(t, m.Offset)
	assert.False(t, m.Time.IsZero())
}

func TestMemoryBrokerHoldsKeyUntilCommit(t *testing.T) {
	ctx := context.Background()
	b := messaging.NewMemoryBroker()
	defer b.Close()

	first, err := b.Subscribe("g", []string{"t"})
	require.NoError(t, err)
	second, err := b.Subscribe("g", []string{"t"})
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, messaging.Message{Topic: "t", Key: []byte("2025:R-1"), Value: []byte("old")}))
	require.NoError(t, b.Publish(ctx, messaging.Message{Topic: "t", Key: []byte("2025:R-1"), Value: []byte("new")}))

	old := fetch(t, first)
	assert.Equal(t, "old", string(old.Value))

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	_, err = second.Fetch(short)
	assert.ErrorIs(t, err, context.DeadlineExceeded, "same key stays with the member applying it")

	got := make(chan messaging.Message, 1)
	go func() {
		if msg, err := second.Fetch(ctx); err == nil {
			got <- msg
		}
	}()
	require.NoError(t, first.Commit(ctx, old))

	select {
	case msg := <-got:
		assert.Equal(t, "new", string(msg.Value))
	case <-time.After(time.Second):
		t.Fatal("commit did not release the key")
	}
}

func TestMemoryBrokerRedeliversUncommittedOnClose(t *testing.T) {
	ctx := context.Background()
	b := messaging.NewMemoryBroker()
	defer b.Close()

	leaving, err := b.Subscribe("g", []string{"t"})
	require.NoError(t, err)
	staying, err := b.Subscribe("g", []string{"t"})
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, messaging.Message{Topic: "t", Key: []byte("k"), Value: []byte("a")}))
	assert.Equal(t, "a", string(fetch(t, leaving).Value))
	require.NoError(t, leaving.Close())

	assert.Equal(t, "a", string(fetch(t, staying).Value))
	_, err = leaving.Fetch(ctx)
	assert.ErrorIs(t, err, messaging.ErrSubscriptionClosed)
}

func TestMemoryBrokerCommitRequiresHeldMessage(t *testing.T) {
	ctx := context.Background()
	b := messaging.NewMemoryBroker()
	defer b.Close()
	sub, err := b.Subscribe("g", []string{"t"})
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, messaging.Message{Topic: "t", Key: []byte("k"), Value: []byte("a")}))
	msg := fetch(t, sub)
	require.NoError(t, sub.Commit(ctx, msg))
	assert.Error(t, sub.Commit(ctx, msg))
}

func TestMemoryBrokerFetchWaitsForPublish(t *testing.T) {
	b := messaging.NewMemoryBroker()
	defer b.Close()
	sub, err := b.Subscribe("g", []string{"t"})
	require.NoError(t, err)

	got := make(chan messaging.Message, 1)
	go func() {
		msg, err := sub.Fetch(context.Background())
		if err == nil {
			got <- msg
		}
	}()

	require.NoError(t, b.Publish(context.Background(), messaging.Message{Topic: "t", Value: []byte("late")}))

	select {
	case msg := <-got:
		assert.Equal(t, "late", string(msg.Value))
	case <-time.After(time.Second):
		t.Fatal("fetch did not wake up")
	}
}

func TestMemoryBrokerFetchHonoursContext(t *testing.T) {
	b := messaging.NewMemoryBroker()
	defer b.Close()
	sub, err := b.Subscribe("g", []string{"t"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = sub.Fetch(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryBrokerFailPublish(t *testing.T) {
	b := messaging.NewMemoryBroker()
	defer b.Close()
	boom := errors.New("boom")
	b.FailPublish = func(m messaging.Message) error {
		if string(m.Key) == "bad" {
			return boom
		}
		return nil
	}

	err := b.Publish(context.Background(), messaging.Message{Topic: "t", Key: []byte("bad")})
	assert.ErrorIs(t, err, boom)
	require.NoError(t, b.Publish(context.Background(), messaging.Message{Topic: "t", Key: []byte("good")}))

	msgs := b.Messages("t")
	require.Len(t, msgs, 1)
	assert.Equal(t, "good", string(msgs[0].Key))
}

func TestMemoryBrokerClose(t *testing.T) {
	b := messaging.NewMemoryBroker()
	sub, err := b.Subscribe("g", []string{"t"})
	require.NoError(t, err)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	_, err = sub.Fetch(context.Background())
	assert.ErrorIs(t, err, messaging.ErrBrokerClosed)
	assert.ErrorIs(t, b.Publish(context.Background(), messaging.Message{Topic: "t"}), messaging.ErrBrokerClosed)
	_, err = b.Subscribe("g", []string{"t"})
	assert.ErrorIs(t, err, messaging.ErrBrokerClosed)
}
