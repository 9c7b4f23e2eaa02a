package server

import (
	"request-logger/internal/requestlog"
	handler "request-logger/services/users/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(userService handler.UserServiceInterface, rl *requestlog.RequestLogger) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())      // recover from panics
	router.Use(requestlog.Gin(rl)) // one record per request

	usersHandler := handler.NewUsersHandler(userService)

	users := router.Group("/users")
	{
		users.POST("", usersHandler.RegisterUserHandler)
		users.GET("", usersHandler.ListUsersHandler)
		users.GET("/:user_id", usersHandler.GetUserHandler)
		users.DELETE("/:user_id", usersHandler.DeleteUserHandler)
	}

	sessions := router.Group("/sessions")
	{
		sessions.POST("", usersHandler.LoginHandler)
	}

	return router
}
