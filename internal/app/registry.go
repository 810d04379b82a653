package app

import (
	"database/sql"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"lms/internal/access"
	"lms/internal/auth"
	"lms/internal/leave"
	"lms/internal/middleware"
	"lms/internal/user"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)

	// --- Authorization Core ---
	authorizer, err := access.NewAuthorizer()
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo, rdb)
	leaveService := leave.NewService(db, leaveRepo, authorizer)
	userService := user.NewService(userRepo, leaveRepo, authorizer)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	leaveHandler := leave.NewHandler(leaveService)
	userHandler := user.NewHandler(userService)

	// --- Global Middleware ---
	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))
	router.Use(cors.New(corsConfig()))

	authn := middleware.Authentication(authRepo, rdb)
	// The user limiter keys on the identity authn resolves, so it must run
	// after authn on every authenticated route.
	userLimit := middleware.RateLimitByUser(rate.Limit(10), 20)
	idempotency := middleware.Idempotency(rdb)

	// --- Routes Registration ---
	api := router.Group("/api")
	{
		auth.RegisterRoutes(api, authHandler, authn, userLimit)
		leave.RegisterRoutes(api, leaveHandler, authn, userLimit, idempotency)
		user.RegisterRoutes(api, userHandler, authn, userLimit)
	}

	return nil
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", "Idempotency-Key", "X-Request-ID")
	cfg.AllowCredentials = true
	cfg.MaxAge = 12 * time.Hour

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.AllowOrigins = strings.Split(origins, ",")
	} else {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	return cfg
}
