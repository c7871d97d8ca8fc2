// Package messaging adapts the outbox publisher and inbound consumers to a
// broker. Kafka is used in deployments; MemoryBroker serves tests and
// single-process runs.
package messaging

import (
	"context"
	"time"
)

type Message struct {
	Topic     string
	Key       []byte
	Value     []byte
	Time      time.Time
	Partition int
	Offset    int64
}

type Producer interface {
	// Publish returns after the broker acknowledged the message.
	Publish(ctx context.Context, msg Message) error
}

// Subscription is one consumer-group member. A message fetched but never
// committed is delivered again after a restart or rebalance.
type Subscription interface {
	Fetch(ctx context.Context) (Message, error)
	Commit(ctx context.Context, msg Message) error
	Close() error
}

type Broker interface {
	Producer
	Subscribe(groupID string, topics []string) (Subscription, error)
	Close() error
}
