// Package worker runs the background loops of a service: the outbox
// publisher, the inbound consumers and the ledger janitor.
package worker

import (
	"context"
	"log/slog"
	"time"

	"enrollment-sync/internal/infra/messaging"
	"enrollment-sync/internal/pkg/clock"
	"enrollment-sync/internal/pkg/errs"
	"enrollment-sync/internal/usecase/shared"
)

// Publisher drains the outbox to the broker. Only one instance per service
// database may run.
type Publisher struct {
	store    shared.OutboxStore
	producer messaging.Producer
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger
	loop     loop
}

func NewPublisher(store shared.OutboxStore, producer messaging.Producer, clk clock.Clock, interval time.Duration, logger *slog.Logger) *Publisher {
	return &Publisher{
		store:    store,
		producer: producer,
		clock:    clk,
		interval: interval,
		logger:   logger.With("module", "outbox"),
	}
}

// DrainResult counts what one drain did.
type DrainResult struct {
	Published int
	Failed    int
	Deferred  int
}

// DrainOnce sends every unpublished record in creation order and marks each
// one published right after the broker acknowledges it. A failed record stays
// pending, and later records with the same routing key wait for the next run.
func (p *Publisher) DrainOnce(ctx context.Context) (DrainResult, error) {
	var res DrainResult
	start := time.Now()
	defer func() { OutboxDrainDuration.Observe(time.Since(start).Seconds()) }()

	records, err := p.store.ListUnpublished(ctx)
	if err != nil {
		p.logger.ErrorContext(ctx, "outbox list failed", "operation", "drain", "error", err.Error())
		return res, err
	}

	blocked := map[string]struct{}{}
	for _, rec := range records {
		if _, ok := blocked[rec.Key]; ok {
			res.Deferred++
			continue
		}

		if err := p.send(ctx, rec); err != nil {
			res.Failed++
			blocked[rec.Key] = struct{}{}
			OutboxPublishFailuresTotal.WithLabelValues(rec.Topic).Inc()
			p.logger.WarnContext(ctx, "outbox publish failed",
				"operation", "drain",
				"outcome", "retry",
				"outbox_id", rec.ID,
				"topic", rec.Topic,
				"key", rec.Key,
				"error", err.Error())
			continue
		}

		marked, err := p.store.MarkPublished(ctx, rec.ID, p.clock.Now())
		if err != nil {
			// Sent but not marked: the record goes out again next run.
			p.logger.ErrorContext(ctx, "outbox mark published failed",
				"operation", "drain", "outbox_id", rec.ID, "error", err.Error())
			return res, err
		}
		if marked {
			res.Published++
			OutboxPublishedTotal.WithLabelValues(rec.Topic).Inc()
		}
		p.logger.DebugContext(ctx, "outbox record published",
			"operation", "drain", "outcome", "published", "outbox_id", rec.ID, "topic", rec.Topic, "key", rec.Key)
	}

	if pending, err := p.store.CountUnpublished(ctx); err == nil {
		OutboxPending.Set(float64(pending))
	}
	if res.Published > 0 || res.Failed > 0 {
		p.logger.InfoContext(ctx, "outbox drain completed",
			"operation", "drain",
			"published", res.Published,
			"failed", res.Failed,
			"deferred", res.Deferred)
	}
	return res, nil
}

func (p *Publisher) send(ctx context.Context, rec shared.OutboxRecord) error {
	err := p.producer.Publish(ctx, messaging.Message{
		Topic: rec.Topic,
		Key:   []byte(rec.Key),
		Value: rec.Payload,
		Time:  rec.CreatedAt,
	})
	if err != nil {
		return errs.Mark(errs.Wrapf(err, "publish outbox record %d", rec.ID), errs.ErrTransientPublish)
	}
	return nil
}

// Start runs DrainOnce on every tick until Stop is called.
func (p *Publisher) Start(ctx context.Context) {
	p.loop.start(ctx, p.interval, func(ctx context.Context) {
		_, _ = p.DrainOnce(ctx)
	})
	p.logger.Info("outbox publisher started", "interval", p.interval.String())
}

// Stop halts ticking and waits for an in-flight drain or ctx expiry.
func (p *Publisher) Stop(ctx context.Context) error {
	if err := p.loop.stop(ctx); err != nil {
		return err
	}
	p.logger.Info("outbox publisher stopped")
	return nil
}
