package bootstrap

import (
	"enrollment-sync/internal/pkg/config"
	"enrollment-sync/internal/pkg/jwt"

	"go.uber.org/fx"
)

// JWTModule provides the token service admin endpoints validate against.
// Participants are not authenticated, so nothing here issues tokens at
// runtime; cmd/token does that offline.
var JWTModule = fx.Module("jwt",
	fx.Provide(
		func(cfg config.Config) *jwt.Service {
			return jwt.NewService(cfg.JWT.Secret, cfg.JWT.TTL)
		},
	),
)
