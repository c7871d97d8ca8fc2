package middleware

import (
	"log/slog"
	"slices"

	"enrollment-sync/internal/pkg/config"
	"enrollment-sync/internal/pkg/errs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var ErrNoAllowedOrigins = errs.New("CORS_ALLOW_ORIGINS must list at least one origin")

// NewCORSMiddleware applies cfg and always lets browsers send the admin
// bearer token and read the Location and request id headers.
func NewCORSMiddleware(cfg config.CORSConfig, logger *slog.Logger) (gin.HandlerFunc, error) {
	if len(cfg.AllowOrigins) == 0 {
		return nil, ErrNoAllowedOrigins
	}
	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     withHeaders(cfg.AllowHeaders, "Authorization", "Content-Type", RequestIDHeader),
		ExposeHeaders:    withHeaders(cfg.ExposeHeaders, "Location", RequestIDHeader),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	if err := corsCfg.Validate(); err != nil {
		return nil, errs.Wrap(err, "invalid CORS settings")
	}

	logger.Info("cors configured", "allow_origins", cfg.AllowOrigins, "allow_credentials", cfg.AllowCredentials)
	return cors.New(corsCfg), nil
}

func withHeaders(base []string, required ...string) []string {
	out := slices.Clone(base)
	for _, h := range required {
		if !slices.Contains(out, h) {
			out = append(out, h)
		}
	}
	return out
}
