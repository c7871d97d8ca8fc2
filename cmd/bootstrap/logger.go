package bootstrap

import (
	"log/slog"
	"os"

	"enrollment-sync/internal/handler/middleware"
	"enrollment-sync/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		NewLogger,
	),
)

// NewLogger tags every record with the service name and installs the
// logger as the slog default for code without an injected logger.
func NewLogger(cfg config.Config, svc Service) *slog.Logger {
	logger := middleware.NewSlogLogger(cfg.Log, os.Stdout).With("service", svc.Name)
	slog.SetDefault(logger)
	return logger
}
