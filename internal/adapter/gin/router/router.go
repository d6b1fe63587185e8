package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-roster/internal/adapter/gin/handler"
	"user-roster/internal/adapter/gin/middleware"
	"user-roster/internal/adapter/ratelimit"
)

// ServiceName is reported by GET /health.
const ServiceName = "user-roster"

// SetupRouter configures and returns a Gin router with all routes and middleware.
// A nil limiter disables rate limiting.
func SetupRouter(
	userHandler *handler.UserHandler,
	kvHandler *handler.KVHandler,
	limiter *ratelimit.Limiter,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))
	router.Use(middleware.RateLimiter(limiter))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": ServiceName,
		})
	})

	v1 := router.Group("/v1")
	{
		users := v1.Group("/users")
		{
			users.POST("", userHandler.CreateUser)
			users.GET("", userHandler.ListUsers)
			users.GET("/names", userHandler.ListNames)
			users.GET("/by-name/:name", userHandler.GetUserByName)
		}

		store := v1.Group("/kv")
		{
			store.PUT("/:key", kvHandler.Put)
			store.GET("/:key", kvHandler.Get)
		}
	}

	return router
}
