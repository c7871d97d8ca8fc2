package bootstrap

import (
	"context"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	// Release unless GIN_MODE says otherwise, so a missing setting never exposes debug routes.
	gin.SetMode(gin.ReleaseMode)

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}
}

// Run starts an fx application for svc and blocks until it receives a
// shutdown signal.
func Run(svc Service, module fx.Option) {
	app := fx.New(
		fx.Supply(svc),
		module,
	)

	if err := app.Start(context.Background()); err != nil {
		slog.Error("failed to start application", "service", svc.Name, "error", err)
		os.Exit(1)
	}

	sig := <-app.Wait()

	if err := app.Stop(context.Background()); err != nil {
		slog.Error("failed to stop application cleanly", "service", svc.Name, "error", err)
	}

	slog.Info("application stopped", "service", svc.Name)
	os.Exit(sig.ExitCode)
}
