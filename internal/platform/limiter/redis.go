package limiter

import (
	"context"
	"taskboard/internal/platform/config"
	"taskboard/internal/platform/logger"

	"github.com/redis/go-redis/v9"
)

var RDB *redis.Client

func ConnectRedis() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisDB,
	})

	ctx := context.Background()
	if _, err := RDB.Ping(ctx).Result(); err != nil {
		logger.L.Fatal().Err(err).Msg("Could not connect to Redis")
	}
	logger.L.Info().Str("addr", config.AppConfig.RedisAddr).Msg("Connected to Redis")
}

func CloseRedis() {
	if RDB != nil {
		RDB.Close()
		logger.L.Info().Msg("Redis connection closed")
	}
}
