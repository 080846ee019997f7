package routes

import (
	"Kkutmal/controllers"
	"Kkutmal/services/game"
	"Kkutmal/services/redis"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, redisClient *redis.RedisClient, engine *game.Engine) {
	api := router.Group("/")

	api.GET("/ping", controllers.Ping)

	api.GET("/games", controllers.ListGames(redisClient))

	api.GET("/games/:room_id", controllers.GetGameInfo(redisClient))

	api.GET("/metrics", controllers.EngineMetrics(engine))
}
