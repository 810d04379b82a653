package user

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authn, rateLimit gin.HandlerFunc) {
	users := r.Group("/users")
	users.Use(authn, rateLimit)
	{
		users.GET("/stats", handler.MyStats)
		users.GET("/admin-stats", handler.AdminStats)
		users.GET("/employees", handler.ListEmployees)
	}
}
