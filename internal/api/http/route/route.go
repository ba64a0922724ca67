package route

import (
	"crypto/ecdsa"
	"io"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"revjobs-messaging/internal/api/http/handler"
	"revjobs-messaging/internal/api/http/middleware"
	"revjobs-messaging/internal/config"
)

func SetupRouter(
	log *zap.Logger,
	cfg *config.Config,
	publicKey *ecdsa.PublicKey,
	healthHdl HealthHandler,
	messageHdl MessageHandler,
	wsHdl WSHandler,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = io.Discard

	router := gin.Default()

	// middleware
	router.Use(middleware.Logger(log))
	router.Use(middleware.RequestTimeout(cfg.HTTPServer.Timeout.Request))
	router.Use(middleware.CORS(cfg.HTTPServer.CORS))

	jwtAuthMiddleware := middleware.JWTAuth(publicKey)

	router.HandleMethodNotAllowed = true
	router.NoMethod(handler.NoMethod)
	router.NoRoute(handler.NoRoute)

	basePath := router.Group(cfg.HTTPServer.BasePath)

	docsPath := basePath.Group("/docs")
	RegisterDock(docsPath)

	healthPath := basePath.Group("/health")
	RegisterHealth(healthPath, healthHdl)

	messagePath := basePath.Group("/messages")
	RegisterMessageRoutes(messagePath, messageHdl)
	RegisterWS(messagePath, wsHdl, jwtAuthMiddleware)

	return router
}
