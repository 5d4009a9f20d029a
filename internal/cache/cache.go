package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/selin/goaltrack-api/internal/logger"
	"go.uber.org/zap"
)

const leaderboardTTL = 30 * time.Second

var client *redis.Client

// Init connects to Redis. With an empty addr the cache stays disabled
// and every operation is a no-op.
func Init(addr string) {
	if addr == "" {
		logger.Log.Info("cache: no REDIS_ADDR configured, leaderboard cache disabled")
		return
	}

	c := redis.NewClient(&redis.Options{Addr: addr})
	if err := c.Ping(context.Background()).Err(); err != nil {
		logger.Log.Warn("cache: redis unreachable, leaderboard cache disabled", zap.Error(err))
		return
	}

	client = c
	logger.Log.Info("cache: leaderboard cache enabled", zap.String("addr", addr))
}

func leaderboardKey(page, size int) string {
	return fmt.Sprintf("leaderboard:%d:%d", page, size)
}

// GetLeaderboard returns the cached JSON body for a leaderboard page.
func GetLeaderboard(ctx context.Context, page, size int) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	body, err := client.Get(ctx, leaderboardKey(page, size)).Bytes()
	if err != nil {
		return nil, false
	}
	return body, true
}

func SetLeaderboard(ctx context.Context, page, size int, body []byte) {
	if client == nil {
		return
	}
	if err := client.Set(ctx, leaderboardKey(page, size), body, leaderboardTTL).Err(); err != nil {
		logger.Log.Warn("cache: failed to store leaderboard page", zap.Error(err))
	}
}

// InvalidateLeaderboard drops every cached leaderboard page. Called
// after any completion toggle since points may have moved.
func InvalidateLeaderboard(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "leaderboard:*", 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Log.Warn("cache: leaderboard invalidation failed", zap.Error(err))
	}
}
