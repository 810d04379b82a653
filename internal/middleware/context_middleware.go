package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lms/internal/shared/contextutil"
)

// ContextLogger builds a request-scoped logger carrying the request id and
// stores it on the request context so services can pull it via contextutil
// without knowing about gin. The user id is added later by Authentication,
// which is the first point the identity is known.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetString("request_id")

		reqLogger := logger.With(zap.String("request_id", rid))

		ctx := contextutil.WithLogger(c.Request.Context(), reqLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
