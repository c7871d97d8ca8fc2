package messaging

import (
	"context"
	"time"

	"enrollment-sync/internal/pkg/config"
	"enrollment-sync/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
)

type KafkaBroker struct {
	brokers []string
	writer  *kafka.Writer
}

func NewKafkaBroker(cfg config.KafkaConfig) (*KafkaBroker, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errs.New("kafka broker requires at least one address")
	}
	return &KafkaBroker{
		brokers: cfg.Brokers,
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			RequiredAcks: kafka.RequireAll,
			// Same routing key, same partition: per-resource ordering.
			Balancer:     &kafka.Hash{},
			WriteTimeout: cfg.WriteTimeout,
		},
	}, nil
}

func (b *KafkaBroker) Publish(ctx context.Context, msg Message) error {
	at := msg.Time
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return b.writer.WriteMessages(ctx, kafka.Message{
		Topic: msg.Topic,
		Key:   msg.Key,
		Value: msg.Value,
		Time:  at,
	})
}

func (b *KafkaBroker) Subscribe(groupID string, topics []string) (Subscription, error) {
	if groupID == "" {
		return nil, errs.New("kafka consumer requires group id")
	}
	if len(topics) == 0 {
		return nil, errs.New("kafka consumer requires at least one topic")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     b.brokers,
		GroupID:     groupID,
		GroupTopics: topics,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     500 * time.Millisecond,
		StartOffset: kafka.FirstOffset,
	})
	return &kafkaSubscription{reader: reader}, nil
}

func (b *KafkaBroker) Close() error {
	return b.writer.Close()
}

type kafkaSubscription struct {
	reader *kafka.Reader
}

func (s *kafkaSubscription) Fetch(ctx context.Context) (Message, error) {
	m, err := s.reader.FetchMessage(ctx)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Topic:     m.Topic,
		Key:       m.Key,
		Value:     m.Value,
		Time:      m.Time,
		Partition: m.Partition,
		Offset:    m.Offset,
	}, nil
}

func (s *kafkaSubscription) Commit(ctx context.Context, msg Message) error {
	return s.reader.CommitMessages(ctx, kafka.Message{
		Topic:     msg.Topic,
		Partition: msg.Partition,
		Offset:    msg.Offset,
	})
}

func (s *kafkaSubscription) Close() error {
	return s.reader.Close()
}
