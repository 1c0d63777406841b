package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	redisFormKeyPrefix = "fieldbuilder:form:"
	redisIndexKey      = "fieldbuilder:forms"
)

// Redis stores each form as a JSON string and keeps a sorted set of ids
// scored by update time.
type Redis struct {
	client redis.UniversalClient
	now    func() time.Time
}

var _ Store = (*Redis)(nil)

// NewRedis wraps an existing client.
func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client, now: time.Now}
}

// OpenRedis parses url, connects and pings.
func OpenRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(url))
	if err != nil {
		return nil, fmt.Errorf("store: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("store: ping redis: %w", err)
	}
	return NewRedis(client), nil
}

func (r *Redis) Get(ctx context.Context, id string) (Form, error) {
	raw, err := r.client.Get(ctx, redisFormKeyPrefix+strings.TrimSpace(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Form{}, ErrNotFound
	}
	if err != nil {
		return Form{}, fmt.Errorf("store: redis get: %w", err)
	}
	var form Form
	if err := json.Unmarshal(raw, &form); err != nil {
		return Form{}, fmt.Errorf("store: decode form: %w", err)
	}
	return form, nil
}

func (r *Redis) Put(ctx context.Context, form Form) (Form, error) {
	prepared, err := prepare(form, r.now())
	if err != nil {
		return Form{}, err
	}
	raw, err := json.Marshal(prepared)
	if err != nil {
		return Form{}, fmt.Errorf("store: encode form: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisFormKeyPrefix+prepared.ID, raw, 0)
		pipe.ZAdd(ctx, redisIndexKey, redis.Z{
			Score:  float64(prepared.UpdatedAt.UnixNano()),
			Member: prepared.ID,
		})
		return nil
	})
	if err != nil {
		return Form{}, fmt.Errorf("store: redis put: %w", err)
	}
	return prepared, nil
}

func (r *Redis) List(ctx context.Context) ([]Form, error) {
	ids, err := r.client.ZRevRange(ctx, redisIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("store: redis list: %w", err)
	}
	if len(ids) == 0 {
		return []Form{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisFormKeyPrefix + id
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("store: redis list: %w", err)
	}
	out := make([]Form, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}
		var form Form
		if err := json.Unmarshal([]byte(raw), &form); err != nil {
			continue
		}
		out = append(out, form)
	}
	return out, nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	var removed *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.Del(ctx, redisFormKeyPrefix+id)
		pipe.ZRem(ctx, redisIndexKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store: redis delete: %w", err)
	}
	if removed.Val() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
