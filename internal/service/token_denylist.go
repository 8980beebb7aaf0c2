package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenylist guarda jti de access tokens revocados hasta que expiran.
type TokenDenylist interface {
	Revoke(jti string, ttl time.Duration) error
	IsRevoked(jti string) (bool, error)
}

type memoryTokenDenylist struct {
	mu    sync.Mutex
	items map[string]time.Time
}

func NewMemoryTokenDenylist() TokenDenylist {
	return &memoryTokenDenylist{
		items: make(map[string]time.Time),
	}
}

func (d *memoryTokenDenylist) Revoke(jti string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if strings.TrimSpace(jti) == "" {
		return nil
	}
	d.items[jti] = time.Now().UTC().Add(ttl)
	return nil
}

func (d *memoryTokenDenylist) IsRevoked(jti string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	exp, ok := d.items[jti]
	if !ok {
		return false, nil
	}
	if time.Now().UTC().After(exp) {
		delete(d.items, jti)
		return false, nil
	}
	return true, nil
}

type redisKVClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisTokenDenylist struct {
	client redisKVClient
	prefix string
}

func NewRedisTokenDenylist(client *redis.Client) TokenDenylist {
	if client == nil {
		return nil
	}
	return &redisTokenDenylist{
		client: client,
		prefix: "auth:revoked:",
	}
}

func (d *redisTokenDenylist) Revoke(jti string, ttl time.Duration) error {
	if strings.TrimSpace(jti) == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	return d.client.Set(ctx, d.prefix+jti, "1", ttl).Err()
}

func (d *redisTokenDenylist) IsRevoked(jti string) (bool, error) {
	if strings.TrimSpace(jti) == "" {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	n, err := d.client.Exists(ctx, d.prefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
