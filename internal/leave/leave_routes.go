package leave

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the leave endpoints. All routes require
// authentication followed by the per-user rate limit; submission additionally
// goes through the idempotency middleware so a retried POST does not file the
// request twice.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, authn, rateLimit, idempotency gin.HandlerFunc) {
	leaves := r.Group("/leaves")
	leaves.Use(authn, rateLimit)
	{
		leaves.POST("", idempotency, handler.Create)
		leaves.GET("/my-leaves", handler.ListMine)
		leaves.GET("/all", handler.ListAll)
		leaves.GET("/today", handler.ListToday)
		leaves.GET("/active", handler.ListActive)
		leaves.GET("/:id", handler.GetByID)
		leaves.PUT("/:id", handler.Update)
		leaves.PUT("/:id/approve", handler.Approve)
		leaves.PUT("/:id/reject", handler.Reject)
		leaves.DELETE("/:id", handler.Cancel)
	}
}
