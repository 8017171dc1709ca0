package db

import (
	"context"
	"time"

	"github.com/jmehdipour/econnect-gateway/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects the rate limiter store. An empty address returns
// (nil, nil): the limiter then lets everything through.
func NewRedisClient(c config.RedisConfig) (*redis.Client, error) {
	if c.Addr == "" {
		return nil, nil
	}
	dial := c.DialTimeout
	if dial <= 0 {
		dial = 5 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        c.Addr,
		Password:    c.Password,
		DB:          c.DB,
		DialTimeout: dial,
	})
	ctx, cancel := context.WithTimeout(context.Background(), dial)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return rdb, nil
}
