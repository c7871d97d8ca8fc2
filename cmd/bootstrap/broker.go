package bootstrap

import (
	"context"
	"log/slog"

	"enrollment-sync/internal/infra/messaging"
	"enrollment-sync/internal/pkg/config"
	"enrollment-sync/internal/pkg/errs"

	"go.uber.org/fx"
)

var BrokerModule = fx.Module("broker",
	fx.Provide(
		NewBroker,
		func(b messaging.Broker) messaging.Producer { return b },
	),
)

// NewBroker connects to Kafka. The in-process broker is only used with the
// memory store, where both services run inside one process or not at all.
func NewBroker(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (messaging.Broker, error) {
	if !cfg.Kafka.Enabled() && cfg.Store.Driver != config.StoreDriverMemory {
		return nil, errs.Newf("KAFKA_BROKERS is required when STORE_DRIVER=%s", cfg.Store.Driver)
	}

	var broker messaging.Broker
	if cfg.Kafka.Enabled() {
		kb, err := messaging.NewKafkaBroker(cfg.Kafka)
		if err != nil {
			return nil, err
		}
		broker = kb
		logger.Info("using kafka broker", "brokers", cfg.Kafka.Brokers)
	} else {
		broker = messaging.NewMemoryBroker()
		logger.Warn("KAFKA_BROKERS not set, using in-process broker with the memory store")
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return broker.Close()
		},
	})
	return broker, nil
}
