// Package nowplaying publishes the current song to Redis so other surfaces,
// such as the website widget, can show it.
package nowplaying

import (
	"context"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

// Connection retry policy.
const (
	connectAttempts = 5
	connectBackoff  = 200 * time.Millisecond
	pingTimeout     = 3 * time.Second
)

var ErrNotConfigured = errors.New("now-playing redis address not set")

// Config describes the Redis connection and where snapshots go.
type Config struct {
	Addr     string
	Password string
	DB       int
	Key      string        // key holding the latest payload
	Channel  string        // channel each payload is published on
	TTL      time.Duration // expiry of Key; 0 keeps it forever
}

// client is the subset of the Redis client the publisher uses.
type client interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redislib.StatusCmd
	Publish(ctx context.Context, channel string, message any) *redislib.IntCmd
	Close() error
}

// Dial opens a Redis client and pings it, retrying with exponential backoff.
func Dial(ctx context.Context, cfg Config) (*redislib.Client, error) {
	if cfg.Addr == "" {
		return nil, ErrNotConfigured
	}

	c := redislib.NewClient(&redislib.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	backoff := connectBackoff
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err = c.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return c, nil
		}

		if attempt < connectAttempts {
			select {
			case <-ctx.Done():
				_ = c.Close()
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}
	}

	_ = c.Close()
	return nil, fmt.Errorf("redis %s: %w", cfg.Addr, err)
}
