package cache

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	userIDPrefix = "classgate:uid:"
	unreadPrefix = "classgate:unread:"
	activeKey    = "classgate:active"

	userIDTTL = 24 * time.Hour
)

// Cache is the redis-backed identity and badge cache.
//
// Resolved backend user ids are keyed by the session email, so a later
// sign-in under a different email can never observe another user's id.
type Cache struct {
	Client       *redis.Client
	ActiveWindow time.Duration
}

// New connects to redis with short timeouts.
func New(addr string, activeWindow time.Duration) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	if activeWindow <= 0 {
		activeWindow = 30 * time.Minute
	}
	return &Cache{Client: client, ActiveWindow: activeWindow}
}

// Healthy verifies redis connectivity.
func (c *Cache) Healthy(ctx context.Context) bool {
	if c == nil || c.Client == nil {
		return false
	}
	return c.Client.Ping(ctx).Err() == nil
}

// SetUserID stores the backend user id resolved for an email.
func (c *Cache) SetUserID(ctx context.Context, email string, id int) error {
	return c.Client.Set(ctx, userIDPrefix+norm(email), id, userIDTTL).Err()
}

// UserID returns the cached backend user id for an email, if resolved.
func (c *Cache) UserID(ctx context.Context, email string) (int, bool) {
	val, err := c.Client.Get(ctx, userIDPrefix+norm(email)).Result()
	if err != nil {
		return 0, false
	}
	id, err := strconv.Atoi(val)
	if err != nil {
		return 0, false
	}
	return id, true
}

// SetUnread stores the last-known unread notification count for an email.
func (c *Cache) SetUnread(ctx context.Context, email string, count int) error {
	return c.Client.Set(ctx, unreadPrefix+norm(email), count, 0).Err()
}

// Unread returns the last-known unread count for an email, zero when unknown.
func (c *Cache) Unread(ctx context.Context, email string) int {
	val, err := c.Client.Get(ctx, unreadPrefix+norm(email)).Result()
	if err != nil {
		return 0
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return n
}

// MarkActive records that a session for this email was seen just now.
func (c *Cache) MarkActive(ctx context.Context, email string) error {
	return c.Client.ZAdd(ctx, activeKey, redis.Z{
		Score:  float64(time.Now().Unix()),
		Member: norm(email),
	}).Err()
}

// ActiveEmails lists emails seen within the active window and prunes the rest.
func (c *Cache) ActiveEmails(ctx context.Context) ([]string, error) {
	cutoff := time.Now().Add(-c.ActiveWindow).Unix()
	_ = c.Client.ZRemRangeByScore(ctx, activeKey, "-inf", strconv.FormatInt(cutoff-1, 10)).Err()
	return c.Client.ZRangeByScore(ctx, activeKey, &redis.ZRangeBy{
		Min: strconv.FormatInt(cutoff, 10),
		Max: "+inf",
	}).Result()
}

func norm(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
