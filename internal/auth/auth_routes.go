package auth

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the auth endpoints. authn is the shared bearer-token
// middleware; only logout and me require an authenticated caller, and those
// two also pick up the per-user rate limit.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authn, rateLimit gin.HandlerFunc) {
	group := r.Group("/auth")
	{
		group.POST("/register", handler.Register)
		group.POST("/login", handler.Login)
		group.POST("/logout", authn, rateLimit, handler.Logout)
		group.GET("/me", authn, rateLimit, handler.Me)
	}
}
