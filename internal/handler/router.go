package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"enrollment-sync/internal/handler/api"
	"enrollment-sync/internal/handler/middleware"
	"enrollment-sync/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

// NewEnrollmentRouter wires the participant-facing service.
func NewEnrollmentRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, enrollmentHandler *api.EnrollmentHandler, adminHandler *api.AdminHandler, authMiddleware *middleware.AuthMiddleware) error {
	if err := setupMiddleware(engine, cfg, logger); err != nil {
		return err
	}
	setupCommonRoutes(engine)

	apiGroup := engine.Group("/api")
	{
		enrollments := apiGroup.Group("/enrollments")
		addRoutes(enrollments, []route{
			{Method: http.MethodPost, Path: "", Handler: enrollmentHandler.Create},
			{Method: http.MethodGet, Path: "", Handler: enrollmentHandler.List},
			{Method: http.MethodGet, Path: "/:id", Handler: enrollmentHandler.Get},
			{Method: http.MethodPost, Path: "/:id/submit", Handler: enrollmentHandler.Submit},
			{Method: http.MethodPost, Path: "/:id/approve", Handler: enrollmentHandler.Approve},
			{Method: http.MethodPost, Path: "/:id/withdraw", Handler: enrollmentHandler.Withdraw},
			{Method: http.MethodGet, Path: "/:id/withdraw-eligibility", Handler: enrollmentHandler.GetEligibility},
		})

		admin := apiGroup.Group("/admin")
		admin.Use(authMiddleware.RequireAdmin()...)
		addRoutes(admin, []route{
			{Method: http.MethodGet, Path: "/withdraw-rejections", Handler: adminHandler.ListWithdrawRejections},
			{Method: http.MethodPost, Path: "/enrollments/:id/correct-withdrawal", Handler: adminHandler.CorrectWithdrawal},
		})
	}
	return nil
}

// NewAuthorityRouter wires the resource authority service.
func NewAuthorityRouter(engine *gin.Engine, cfg config.Config, logger *slog.Logger, resourceHandler *api.ResourceHandler, authMiddleware *middleware.AuthMiddleware) error {
	if err := setupMiddleware(engine, cfg, logger); err != nil {
		return err
	}
	setupCommonRoutes(engine)

	resources := engine.Group("/api/resources")
	{
		addRoutes(resources, []route{
			{Method: http.MethodGet, Path: "/:period/:id", Handler: resourceHandler.Get},
			{Method: http.MethodPost, Path: "/:period/:id/conditions/:code/enable", Handler: resourceHandler.EnableCondition, Mw: authMiddleware.RequireAdmin()},
			{Method: http.MethodPost, Path: "/:period/:id/conditions/:code/disable", Handler: resourceHandler.DisableCondition, Mw: authMiddleware.RequireAdmin()},
		})
	}
	return nil
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) error {
	corsMiddleware, err := middleware.NewCORSMiddleware(cfg.CORS, logger)
	if err != nil {
		return err
	}
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.Recovery(logger))
	engine.Use(corsMiddleware)
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.ErrorHandler(logger))
	return nil
}

func setupCommonRoutes(engine *gin.Engine) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
