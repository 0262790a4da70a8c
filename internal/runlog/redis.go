package runlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

const (
	redisIndexKey  = "runlog:index"
	redisKeyPrefix = "runlog:run:"
)

// RedisStore keeps runs as JSON strings indexed by a sorted set on end time.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to redisURL and checks the connection.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	slog.InfoContext(ctx, "connected to redis run log", "addr", opt.Addr)
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Save(ctx context.Context, r *Record) error {
	if err := r.Validate(); err != nil {
		return fmt.Errorf("validating run %s: %w", r.Id, err)
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding run %s: %w", r.Id, err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, redisKeyPrefix+r.Id, data, 0)
		p.ZAdd(ctx, redisIndexKey, redis.Z{Score: float64(r.Ended.UnixNano()), Member: r.Id})
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving run %s: %w", r.Id, err)
	}

	slog.DebugContext(ctx, "saved run", "id", r.Id, "outcome", r.Outcome)
	return nil
}

func (s *RedisStore) Recent(ctx context.Context, limit int) ([]*Record, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit - 1)
	}

	ids, err := s.rdb.ZRevRange(ctx, redisIndexKey, 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("reading run index: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisKeyPrefix + id
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("reading runs: %w", err)
	}

	rs := make([]*Record, 0, len(vals))
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			slog.WarnContext(ctx, "run missing from redis", "id", ids[i])
			continue
		}
		var r Record
		if err := json.Unmarshal([]byte(str), &r); err != nil {
			return nil, fmt.Errorf("decoding run %s: %w", ids[i], err)
		}
		rs = append(rs, &r)
	}
	newestFirst(rs)

	return rs, nil
}

// Close releases the redis connection.
func (s *RedisStore) Close() error {
	if err := s.rdb.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return fmt.Errorf("closing redis: %w", err)
	}
	return nil
}
