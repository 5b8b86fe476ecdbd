package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrLockTimeout is returned when a lock is still held by someone else after
// the wait budget is spent.
var ErrLockTimeout = errors.New("lock not acquired in time")

const (
	lockPrefix       = "lock:"
	lockPollInterval = 50 * time.Millisecond

	// defaultLockTTL bounds a lock asked for without a positive ttl so that a
	// crashed holder cannot keep the key forever.
	defaultLockTTL = 30 * time.Second
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock picked up by another holder is never removed.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Acquire takes the named lock for at most ttl. It polls until the lock is
// free, the ttl has passed or ctx is done. The returned func releases it.
func (c *Client) Acquire(ctx context.Context, name string, ttl time.Duration) (func(), error) {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	key := lockPrefix + name
	token := uuid.NewString()
	deadline := time.Now().Add(ttl)

	for {
		ok, err := c.rdb.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", name, err)
		}
		if ok {
			return func() {
				// The caller's ctx may already be cancelled by now.
				releaseScript.Run(context.Background(), c.rdb, []string{key}, token)
			}, nil
		}

		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}
	}
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
