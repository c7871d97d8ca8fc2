package bootstrap

import (
	"enrollment-sync/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var baseModule = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	BrokerModule,
	JWTModule,
	components.PersistenceModule,
	components.UseCaseModule,
	WorkerModule,
)

// EnrollmentModule assembles the participant-facing service.
var EnrollmentModule = fx.Options(
	baseModule,
	components.EnrollmentHandlerModule,
	ServerModule,
)

// AuthorityModule assembles the resource authority service.
var AuthorityModule = fx.Options(
	baseModule,
	components.AuthorityHandlerModule,
	ServerModule,
)
