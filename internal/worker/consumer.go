package worker

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"enrollment-sync/internal/infra/messaging"
	"enrollment-sync/internal/pkg/errs"

	"golang.org/x/sync/errgroup"
)

type Dispatcher interface {
	Dispatch(ctx context.Context, topic string, payload []byte) error
	Topics() []string
}

// Consumer runs a fixed number of group members. Each member handles one
// message at a time and commits it only after it was applied.
type Consumer struct {
	broker  messaging.Broker
	router  Dispatcher
	groupID string
	workers int
	backoff time.Duration
	logger  *slog.Logger

	cancel context.CancelFunc
	done   chan error
}

func NewConsumer(broker messaging.Broker, router Dispatcher, groupID string, workers int, backoff time.Duration, logger *slog.Logger) *Consumer {
	if workers < 1 {
		workers = 1
	}
	return &Consumer{
		broker:  broker,
		router:  router,
		groupID: groupID,
		workers: workers,
		backoff: backoff,
		logger:  logger.With("module", "consumer", "group", groupID),
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	if c.cancel != nil {
		return nil
	}
	topics := c.router.Topics()
	subs := make([]messaging.Subscription, 0, c.workers)
	for i := 0; i < c.workers; i++ {
		sub, err := c.broker.Subscribe(c.groupID, topics)
		if err != nil {
			for _, s := range subs {
				_ = s.Close()
			}
			return errs.Wrap(err, "subscribe consumer")
		}
		subs = append(subs, sub)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.cancel = cancel
	c.done = make(chan error, 1)

	g, gctx := errgroup.WithContext(runCtx)
	for i, sub := range subs {
		g.Go(func() error {
			defer sub.Close()
			return c.run(gctx, i, sub)
		})
	}
	go func() { c.done <- g.Wait() }()

	c.logger.Info("consumer started", "workers", c.workers, "topics", topics)
	return nil
}

func (c *Consumer) Stop(ctx context.Context) error {
	if c.cancel == nil {
		return nil
	}
	c.cancel()
	c.cancel = nil
	select {
	case err := <-c.done:
		c.logger.Info("consumer stopped")
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Consumer) run(ctx context.Context, worker int, sub messaging.Subscription) error {
	for {
		msg, err := sub.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, messaging.ErrBrokerClosed) {
				return nil
			}
			c.logger.WarnContext(ctx, "fetch failed", "worker", worker, "error", err.Error())
			if !c.sleep(ctx) {
				return nil
			}
			continue
		}

		if !c.handle(ctx, msg) {
			// Shutting down: leave the message uncommitted for redelivery.
			return nil
		}
		if err := sub.Commit(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.WarnContext(ctx, "commit failed",
				"worker", worker, "topic", msg.Topic, "offset", msg.Offset, "error", err.Error())
		}
	}
}

// handle retries until the message is applied or ctx ends. Malformed
// messages are retried too; there is no dead-letter topic.
func (c *Consumer) handle(ctx context.Context, msg messaging.Message) bool {
	for attempt := 1; ; attempt++ {
		err := c.router.Dispatch(ctx, msg.Topic, msg.Value)
		if err == nil {
			MessagesConsumedTotal.WithLabelValues(msg.Topic, "applied").Inc()
			return true
		}
		if ctx.Err() != nil {
			return false
		}

		outcome := "retry"
		if errs.Is(err, errs.ErrMalformedMessage) {
			outcome = "malformed"
		}
		MessagesConsumedTotal.WithLabelValues(msg.Topic, outcome).Inc()
		c.logger.ErrorContext(ctx, "message handling failed",
			"operation", "consume",
			"outcome", outcome,
			"topic", msg.Topic,
			"key", string(msg.Key),
			"offset", msg.Offset,
			"attempt", attempt,
			"error", err.Error())

		if !c.sleep(ctx) {
			return false
		}
	}
}

func (c *Consumer) sleep(ctx context.Context) bool {
	t := time.NewTimer(c.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
