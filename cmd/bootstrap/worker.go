package bootstrap

import (
	"context"
	"log/slog"

	"enrollment-sync/internal/infra/messaging"
	"enrollment-sync/internal/pkg/clock"
	"enrollment-sync/internal/pkg/config"
	"enrollment-sync/internal/usecase/shared"
	"enrollment-sync/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewPublisher,
		NewJanitor,
		NewConsumer,
	),
	fx.Invoke(registerWorkers),
)

func NewPublisher(store shared.OutboxStore, producer messaging.Producer, clk clock.Clock, cfg config.Config, logger *slog.Logger) *worker.Publisher {
	return worker.NewPublisher(store, producer, clk, cfg.Outbox.PollInterval, logger)
}

func NewJanitor(store shared.LedgerStore, clk clock.Clock, cfg config.Config, logger *slog.Logger) *worker.Janitor {
	return worker.NewJanitor(store, clk, cfg.Ledger.Retention, cfg.Ledger.PurgeInterval, logger)
}

func NewConsumer(broker messaging.Broker, dispatcher worker.Dispatcher, cfg config.Config, svc Service, logger *slog.Logger) *worker.Consumer {
	groupID := cfg.Kafka.GroupID
	if groupID == "" {
		groupID = svc.GroupID
	}
	return worker.NewConsumer(broker, dispatcher, groupID, cfg.Consumer.Workers, cfg.Consumer.RetryBackoff, logger)
}

// Hooks stop in reverse, so the publisher drains its last tick before the
// consumer leaves its group.
func registerWorkers(lc fx.Lifecycle, publisher *worker.Publisher, janitor *worker.Janitor, consumer *worker.Consumer) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return consumer.Start(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return consumer.Stop(ctx)
		},
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			publisher.Start(ctx)
			janitor.Start(ctx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := janitor.Stop(ctx); err != nil {
				return err
			}
			return publisher.Stop(ctx)
		},
	})
}
