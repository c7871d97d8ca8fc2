package components

import (
	"enrollment-sync/internal/event"
	"enrollment-sync/internal/pkg/clock"
	"enrollment-sync/internal/pkg/config"
	"enrollment-sync/internal/usecase"
	"enrollment-sync/internal/usecase/commands"
	"enrollment-sync/internal/usecase/inbound"
	"enrollment-sync/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
	usecaseInboundModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) event.Topics {
		return event.TopicsFromConfig(cfg.Topics)
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewEnrollmentCommands,
		commands.NewResourceCommands,
		commands.NewEnrollmentEvents,
		commands.NewResourceEvents,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewEnrollmentQueries,
		queries.NewResourceQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

var usecaseInboundModule = fx.Module("usecase/inbound",
	fx.Provide(
		inbound.NewGuard,
	),
)
