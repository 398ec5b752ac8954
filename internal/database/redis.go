package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/qbank-manager/internal/config"
)

// NewRedisClient connects to redis and reports how many entries the bank
// list of the configured namespace already holds.
func NewRedisClient(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	key := config.StoreKey.BankEntriesKey(cfg.RedisNamespace)
	n, err := rdb.LLen(ctx, key).Result()
	if err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	log.Info().
		Str("addr", opt.Addr).
		Int("db", opt.DB).
		Str("key", key).
		Int64("entries", n).
		Msg("Redis connected")

	return rdb, nil
}
