// router/router.go

package router

import (
	"time"

	"github.com/dev-rajatverma/doorward/config"
	"github.com/dev-rajatverma/doorward/controller"
	"github.com/dev-rajatverma/doorward/middleware"
	"github.com/gin-gonic/gin"
)

func SetupRouter(
	controllers *controller.Controllers,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))
	router.Use(middleware.TokenAuth(config.GetString("server.apiToken")))

	api := router.Group("/api/v1")

	controllers.Access.RegisterRoutes(api)

	return router
}
