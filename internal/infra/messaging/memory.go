package messaging

import (
	"context"
	"sort"
	"sync"
	"time"

	"enrollment-sync/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
)

var ErrBrokerClosed = errs.New("broker closed")

// ErrSubscriptionClosed is returned by Fetch after the member left its group.
var ErrSubscriptionClosed = errs.New("subscription closed")

// MemoryPartitions is the partition count of every in-process topic.
const MemoryPartitions = 4

type partitionID struct {
	topic     string
	partition int
}

// groupState tracks one consumer group. A partition with a fetched but
// uncommitted message is held by that member, so messages sharing a key
// (and therefore a partition) are applied one after another, as with Kafka.
type groupState struct {
	next     map[partitionID]int64
	inflight map[partitionID]*memorySubscription
}

// MemoryBroker keeps an append-only log per topic partition. Keys are
// assigned to partitions with the same hash balancer the Kafka writer uses.
type MemoryBroker struct {
	mu       sync.Mutex
	all      map[string][]Message
	parts    map[partitionID][]Message
	groups   map[string]*groupState
	balancer *kafka.Hash
	wake     chan struct{}
	closed   bool

	// FailPublish, when set, is consulted before every publish.
	FailPublish func(Message) error
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		all:      map[string][]Message{},
		parts:    map[partitionID][]Message{},
		groups:   map[string]*groupState{},
		balancer: &kafka.Hash{},
		wake:     make(chan struct{}),
	}
}

var memoryPartitionList = func() []int {
	out := make([]int, MemoryPartitions)
	for i := range out {
		out[i] = i
	}
	return out
}()

func (b *MemoryBroker) Publish(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrBrokerClosed
	}
	if b.FailPublish != nil {
		if err := b.FailPublish(msg); err != nil {
			return err
		}
	}
	if msg.Time.IsZero() {
		msg.Time = time.Now().UTC()
	}
	msg.Partition = b.balancer.Balance(kafka.Message{Key: msg.Key}, memoryPartitionList...)
	pid := partitionID{topic: msg.Topic, partition: msg.Partition}
	msg.Offset = int64(len(b.parts[pid]))
	b.parts[pid] = append(b.parts[pid], msg)
	b.all[msg.Topic] = append(b.all[msg.Topic], msg)
	b.notify()
	return nil
}

// notify wakes every blocked Fetch. Callers hold mu.
func (b *MemoryBroker) notify() {
	close(b.wake)
	b.wake = make(chan struct{})
}

// Messages returns a copy of everything published to topic, in publish order.
func (b *MemoryBroker) Messages(topic string) []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Message(nil), b.all[topic]...)
}

func (b *MemoryBroker) Subscribe(groupID string, topics []string) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBrokerClosed
	}
	if _, ok := b.groups[groupID]; !ok {
		b.groups[groupID] = &groupState{
			next:     map[partitionID]int64{},
			inflight: map[partitionID]*memorySubscription{},
		}
	}
	sorted := append([]string(nil), topics...)
	sort.Strings(sorted)
	return &memorySubscription{
		broker: b,
		group:  b.groups[groupID],
		topics: sorted,
		held:   map[partitionID]int64{},
	}, nil
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.wake)
	}
	return nil
}

type memorySubscription struct {
	broker *MemoryBroker
	group  *groupState
	topics []string
	// offsets this member fetched and has not committed yet
	held   map[partitionID]int64
	closed bool
}

// Fetch hands out the next message of the first partition that has one and
// is not held by another member of the group.
func (s *memorySubscription) Fetch(ctx context.Context) (Message, error) {
	b := s.broker
	for {
		b.mu.Lock()
		switch {
		case b.closed:
			b.mu.Unlock()
			return Message{}, ErrBrokerClosed
		case s.closed:
			b.mu.Unlock()
			return Message{}, ErrSubscriptionClosed
		}
		if msg, ok := s.claim(); ok {
			b.mu.Unlock()
			return msg, nil
		}
		wake := b.wake
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return Message{}, ctx.Err()
		case <-wake:
		}
	}
}

// claim runs with the broker lock held.
func (s *memorySubscription) claim() (Message, bool) {
	g := s.group
	for _, topic := range s.topics {
		for p := 0; p < MemoryPartitions; p++ {
			pid := partitionID{topic: topic, partition: p}
			if _, busy := g.inflight[pid]; busy {
				continue
			}
			next := g.next[pid]
			if next >= int64(len(s.broker.parts[pid])) {
				continue
			}
			g.next[pid] = next + 1
			g.inflight[pid] = s
			s.held[pid] = next
			return s.broker.parts[pid][next], true
		}
	}
	return Message{}, false
}

// Commit releases the partition of msg to the rest of the group.
func (s *memorySubscription) Commit(_ context.Context, msg Message) error {
	b := s.broker
	b.mu.Lock()
	defer b.mu.Unlock()
	pid := partitionID{topic: msg.Topic, partition: msg.Partition}
	if off, ok := s.held[pid]; !ok || off != msg.Offset {
		return errs.Newf("commit of %s/%d@%d not held by this member", msg.Topic, msg.Partition, msg.Offset)
	}
	delete(s.held, pid)
	delete(s.group.inflight, pid)
	if !b.closed {
		b.notify()
	}
	return nil
}

// Close leaves the group. Uncommitted messages are handed out again.
func (s *memorySubscription) Close() error {
	b := s.broker
	b.mu.Lock()
	defer b.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	for pid, off := range s.held {
		s.group.next[pid] = off
		delete(s.group.inflight, pid)
	}
	clear(s.held)
	if !b.closed {
		b.notify()
	}
	return nil
}
