package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	ginhandler "user-roster/internal/adapter/gin/handler"
	ginrouter "user-roster/internal/adapter/gin/router"
	"user-roster/internal/adapter/ratelimit"
)

// SetupGinServer creates and configures the Gin REST API server
func SetupGinServer(
	userHandler *ginhandler.UserHandler,
	kvHandler *ginhandler.KVHandler,
	limiter *ratelimit.Limiter,
	l *zap.Logger,
) *http.Server {
	router := ginrouter.SetupRouter(userHandler, kvHandler, limiter, l)

	return &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
