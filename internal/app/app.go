package app

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"lms/internal/auth"
	"lms/internal/leave"
	"lms/internal/shared/connection"
)

// BuildApp connects infrastructure, runs migrations and wires every module
// onto the router. Redis is optional: when REDIS_ADDR is unset the app runs
// without the logout denylist and idempotency cache.
func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(connection.PostgresConfig{
		Host:     os.Getenv("DB_HOST"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		DBName:   os.Getenv("DB_NAME"),
		Port:     os.Getenv("DB_PORT"),
		SSLMode:  os.Getenv("DB_SSLMODE"),
	}, 5)
	if err != nil {
		return err
	}

	if err := gormDB.AutoMigrate(&auth.User{}, &leave.Leave{}); err != nil {
		return err
	}

	db, err := gormDB.DB()
	if err != nil {
		return err
	}

	var rdb *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client, err := connection.ConnectRedisWithRetry(addr, 5)
		if err != nil {
			return err
		}
		rdb = client
	} else {
		zap.L().Warn("REDIS_ADDR not set, token revocation and idempotency disabled")
	}

	return registerModules(router, db, gormDB, rdb)
}
