package staging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mind-engage/mindengage-quiz/internal/importer"
)

// Redis stores previews as JSON under SET key EX ttl, so every gateway
// replica sees the same previews.
type Redis struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedis(client redis.Cmdable, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

func (r *Redis) Stage(ctx context.Context, rows []importer.Row) (string, error) {
	b, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("encode preview: %w", err)
	}
	key := newKey()
	if err := r.client.Set(ctx, key, b, r.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis set %s: %w", key, err)
	}
	return key, nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]importer.Row, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	var rows []importer.Row
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, fmt.Errorf("decode preview %s: %w", key, err)
	}
	return rows, nil
}

// Take reads and deletes the key in one MULTI block together with its
// remaining TTL.
func (r *Redis) Take(ctx context.Context, key string) ([]importer.Row, time.Time, error) {
	var (
		ttl *redis.DurationCmd
		get *redis.StringCmd
	)
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		ttl = p.PTTL(ctx, key)
		get = p.GetDel(ctx, key)
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, time.Time{}, fmt.Errorf("redis getdel %s: %w", key, err)
	}
	b, err := get.Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, time.Time{}, ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("redis getdel %s: %w", key, err)
	}
	var rows []importer.Row
	if err := json.Unmarshal(b, &rows); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode preview %s: %w", key, err)
	}
	left := ttl.Val()
	if left <= 0 {
		left = r.ttl
	}
	return rows, time.Now().Add(left), nil
}

// Restore re-sets key with whatever is left until expires. SET NX keeps a
// concurrent writer's value if one appeared in between.
func (r *Redis) Restore(ctx context.Context, key string, rows []importer.Row, expires time.Time) error {
	left := time.Until(expires)
	if left <= 0 {
		return nil
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode preview: %w", err)
	}
	if err := r.client.SetNX(ctx, key, b, left).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}
