package guru

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache guarda os snapshots no Redis, um por aluno, com expiração nativa.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func snapshotKey(learnerID int64) string {
	return fmt.Sprintf("guru:snapshot:%d", learnerID)
}

func (c *RedisCache) Get(ctx context.Context, learnerID int64) (*Snapshot, error) {
	data, err := c.client.Get(ctx, snapshotKey(learnerID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao ler snapshot do aluno %d no Redis: %w", learnerID, err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("snapshot do aluno %d corrompido no Redis: %w", learnerID, err)
	}
	return &snapshot, nil
}

func (c *RedisCache) Put(ctx context.Context, learnerID int64, snapshot *Snapshot, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("erro ao serializar snapshot do aluno %d: %w", learnerID, err)
	}

	if err := c.client.Set(ctx, snapshotKey(learnerID), data, ttl).Err(); err != nil {
		return fmt.Errorf("erro ao gravar snapshot do aluno %d no Redis: %w", learnerID, err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, learnerID int64) error {
	if err := c.client.Del(ctx, snapshotKey(learnerID)).Err(); err != nil {
		return fmt.Errorf("erro ao invalidar snapshot do aluno %d no Redis: %w", learnerID, err)
	}
	return nil
}
