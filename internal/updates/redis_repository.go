package updates

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisRepository stores the log as a JSON list under one key, trimmed to max entries.
type RedisRepository struct {
	client *redis.Client
	key    string
	max    int
}

// NewRedisRepository creates a Redis-based update log. Key may be empty.
func NewRedisRepository(client *redis.Client, key string, max int) *RedisRepository {
	if key == "" {
		key = "wordlink:document-updates"
	}
	return &RedisRepository{client: client, key: key, max: max}
}

func (r *RedisRepository) Append(ctx context.Context, u *Update) error {
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, r.key, b)
	if r.max > 0 {
		pipe.LTrim(ctx, r.key, int64(-r.max), -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append update: %w", err)
	}
	return nil
}

func (r *RedisRepository) List(ctx context.Context, f Filter) ([]*Update, error) {
	start := int64(0)
	if f.DocumentName == "" && f.Limit > 0 {
		start = int64(-f.Limit)
	}
	raw, err := r.client.LRange(ctx, r.key, start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list updates: %w", err)
	}
	all := make([]*Update, 0, len(raw))
	for _, s := range raw {
		var u Update
		if err := json.Unmarshal([]byte(s), &u); err != nil {
			return nil, fmt.Errorf("decode update: %w", err)
		}
		all = append(all, &u)
	}
	return applyFilter(all, f), nil
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
