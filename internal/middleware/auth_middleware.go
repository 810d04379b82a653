package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"lms/internal/auth"
	autherrors "lms/internal/auth/errors"
	"lms/internal/shared/contextutil"
	"lms/internal/shared/response"
)

// Authentication resolves the bearer token (header first, cookie fallback)
// into a full user record and attaches it to the gin context as
// "current_user". Tokens on the logout denylist are rejected even while their
// signature is still valid. rdb may be nil, in which case the denylist check
// is skipped.
func Authentication(repo auth.Repository, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Access token required", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})
		if err != nil || !token.Valid {
			errObj := autherrors.ErrInvalidToken
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		if rdb != nil {
			revoked, err := rdb.Exists(c.Request.Context(), auth.DenylistKey(tokenString)).Result()
			if err == nil && revoked > 0 {
				errObj := autherrors.ErrTokenRevoked
				response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
				c.Abort()
				return
			}
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token claims", nil)
			c.Abort()
			return
		}

		rawUserID, ok := claims["user_id"].(string)
		if !ok || rawUserID == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "User ID not found in token", nil)
			c.Abort()
			return
		}

		userID, err := uuid.Parse(rawUserID)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid user ID in token", nil)
			c.Abort()
			return
		}

		// A deleted account invalidates its outstanding tokens.
		user, err := repo.GetByID(c.Request.Context(), userID)
		if err != nil {
			errObj := autherrors.ErrUserNotFound
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
				c.Abort()
				return
			}
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		c.Set("current_user", user)
		c.Set("user_id_validated", user.ID.String())

		// Identity is only resolved here, so the request-scoped logger
		// built by ContextLogger gets its user_id field now.
		ctx := contextutil.WithUserID(c.Request.Context(), user.ID.String())
		reqLogger := contextutil.GetLogger(ctx, nil).With(zap.String("user_id", user.ID.String()))
		c.Request = c.Request.WithContext(contextutil.WithLogger(ctx, reqLogger))

		c.Next()
	}
}
