package bootstrap

import (
	"enrollment-sync/internal/infra/db"
	"enrollment-sync/internal/pkg/config"

	"go.uber.org/fx"
)

// Service identifies which half of the system a binary runs.
type Service struct {
	Name       string
	Migrations db.MigrationSet
	// Consumer group used when KAFKA_GROUP_ID is unset.
	GroupID string
}

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
)
