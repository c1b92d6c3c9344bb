package corpus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ppiankov/claimtrackr/internal/model"
)

// RedisStore keeps claims as JSON entries of a Redis list
type RedisStore struct {
	client *redis.Client
	key    string
}

// OpenRedis connects to addr and returns a store on key
func OpenRedis(ctx context.Context, addr string, db int, key string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStore(client, key), nil
}

// NewRedisStore wraps an existing client
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = "claimtrackr:claims"
	}
	return &RedisStore{client: client, key: key}
}

// Append pushes the claim onto the tail of the list
func (s *RedisStore) Append(ctx context.Context, claim model.Claim) error {
	data, err := json.Marshal(claim)
	if err != nil {
		return fmt.Errorf("marshal claim: %w", err)
	}

	if err := s.client.RPush(ctx, s.key, data).Err(); err != nil {
		return fmt.Errorf("push claim: %w", err)
	}
	return nil
}

// List reads the whole list head to tail
func (s *RedisStore) List(ctx context.Context) ([]model.Claim, error) {
	entries, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read claims: %w", err)
	}
	return decodeClaims(entries)
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func decodeClaims(entries []string) ([]model.Claim, error) {
	claims := make([]model.Claim, 0, len(entries))
	for i, entry := range entries {
		var c model.Claim
		if err := json.Unmarshal([]byte(entry), &c); err != nil {
			return nil, fmt.Errorf("decode claim %d: %w", i, err)
		}
		claims = append(claims, c)
	}
	return claims, nil
}
