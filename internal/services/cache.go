package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheService is a thin JSON cache over Redis. It caches API responses
// only — computed ratings live for exactly one process lifetime and are
// never persisted.
type CacheService struct {
	client *redis.Client
}

func NewCacheService(client *redis.Client) *CacheService {
	return &CacheService{
		client: client,
	}
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := s.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("key not found")
		}
		return fmt.Errorf("failed to get cache: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

// Cache key generators
func PredictCacheKey(season int, algorithm, teamA, teamB string) string {
	return fmt.Sprintf("predict:%d:%s:%s:%s", season, algorithm, teamA, teamB)
}

func RankingsCacheKey(season int, algorithm string) string {
	return fmt.Sprintf("rankings:%d:%s", season, algorithm)
}

func BracketCacheKey(season int, algorithm string, payload []byte) string {
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("bracket:%d:%s:%s", season, algorithm, hex.EncodeToString(sum[:8]))
}
