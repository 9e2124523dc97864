package credstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kypgh/fitbook-client/internal/domain"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "fitbook:credentials:"

// Redis stores the credential pair in Redis, for headless deployments of
// the SDK (booking agents, server-side integrations) where device storage
// does not exist. Entries expire with the refresh token.
type Redis struct {
	client *redis.Client
	key    string
}

// NewRedis creates a Redis-backed store for the given client identifier
func NewRedis(addr, password string, db int, clientID string) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Redis{
		client: client,
		key:    redisKeyPrefix + clientID,
	}, nil
}

// Load returns the stored pair, or ErrNotFound when absent
func (r *Redis) Load(ctx context.Context) (*domain.TokenPair, error) {
	raw, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	var pair domain.TokenPair
	if err := json.Unmarshal(raw, &pair); err != nil {
		return nil, ErrNotFound
	}
	return &pair, nil
}

// Save persists the pair. When the refresh expiry is known the entry
// expires with it; otherwise it is kept until overwritten or deleted.
func (r *Redis) Save(ctx context.Context, pair *domain.TokenPair) error {
	raw, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("failed to serialize credentials: %w", err)
	}

	var ttl time.Duration
	if !pair.RefreshExpiresAt.IsZero() {
		ttl = time.Until(pair.RefreshExpiresAt)
		if ttl <= 0 {
			ttl = time.Minute
		}
	}

	if err := r.client.Set(ctx, r.key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

// Delete removes the stored pair
func (r *Redis) Delete(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("failed to delete credentials: %w", err)
	}
	return nil
}

// Close closes the underlying Redis connection
func (r *Redis) Close() error {
	return r.client.Close()
}
