package components

import (
	"enrollment-sync/internal/handler"
	"enrollment-sync/internal/handler/api"
	"enrollment-sync/internal/handler/middleware"
	"enrollment-sync/internal/usecase/inbound"
	"enrollment-sync/internal/worker"

	"go.uber.org/fx"
)

// EnrollmentHandlerModule exposes the participant API and consumes the
// authority's events.
var EnrollmentHandlerModule = fx.Module("handler/enrollment",
	fx.Provide(
		api.NewEnrollmentHandler,
		api.NewAdminHandler,
		middleware.NewAuthMiddleware,
		fx.Annotate(
			inbound.NewEnrollmentRoutes,
			fx.As(new(worker.Dispatcher)),
		),
	),
	fx.Invoke(handler.NewEnrollmentRouter),
)

// AuthorityHandlerModule exposes the resource API and consumes enrollment
// events.
var AuthorityHandlerModule = fx.Module("handler/authority",
	fx.Provide(
		api.NewResourceHandler,
		middleware.NewAuthMiddleware,
		fx.Annotate(
			inbound.NewAuthorityRoutes,
			fx.As(new(worker.Dispatcher)),
		),
	),
	fx.Invoke(handler.NewAuthorityRouter),
)
