package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/rs/zerolog"

	"github.com/lox/monopolyforbots/internal/game"
)

// RedisOptions configures a Redis store. URL is either redis://... or a
// bare host:port.
type RedisOptions struct {
	URL         string
	Prefix      string
	MaxIdle     int
	IdleTimeout time.Duration
}

// Redis stores snapshots as strings under <prefix>:game:<id> and tracks ids
// in the set <prefix>:games.
type Redis struct {
	pool   *redis.Pool
	prefix string
	logger zerolog.Logger
}

// NewRedis returns a store backed by a connection pool. No connection is
// made until the first operation.
func NewRedis(opts RedisOptions, logger zerolog.Logger) *Redis {
	if opts.Prefix == "" {
		opts.Prefix = "monopoly"
	}
	url := opts.URL
	return &Redis{
		pool: &redis.Pool{
			MaxIdle:     opts.MaxIdle,
			IdleTimeout: opts.IdleTimeout,
			Dial: func() (redis.Conn, error) {
				if strings.HasPrefix(url, "redis://") || strings.HasPrefix(url, "rediss://") {
					return redis.DialURL(url)
				}
				return redis.Dial("tcp", url)
			},
			TestOnBorrow: func(c redis.Conn, t time.Time) error {
				if time.Since(t) < time.Minute {
					return nil
				}
				_, err := c.Do("PING")
				return err
			},
		},
		prefix: opts.Prefix,
		logger: logger,
	}
}

func (r *Redis) key(id string) string { return r.prefix + ":game:" + id }
func (r *Redis) setKey() string       { return r.prefix + ":games" }

func (r *Redis) conn(ctx context.Context) (redis.Conn, error) {
	c, err := r.pool.GetContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get redis connection: %w", err)
	}
	return c, nil
}

func (r *Redis) Load(ctx context.Context, id string) (*game.Snapshot, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	c, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	data, err := redis.Bytes(c.Do("GET", r.key(id)))
	if errors.Is(err, redis.ErrNil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET: %w", err)
	}
	return decode(data)
}

func (r *Redis) Save(ctx context.Context, id string, snap *game.Snapshot) error {
	if err := validID(id); err != nil {
		return err
	}
	data, err := encode(snap)
	if err != nil {
		return err
	}
	c, err := r.conn(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Send("MULTI"); err != nil {
		return fmt.Errorf("redis MULTI: %w", err)
	}
	if err := c.Send("SET", r.key(id), data); err != nil {
		return fmt.Errorf("redis SET: %w", err)
	}
	if err := c.Send("SADD", r.setKey(), id); err != nil {
		return fmt.Errorf("redis SADD: %w", err)
	}
	if _, err := c.Do("EXEC"); err != nil {
		return fmt.Errorf("redis EXEC: %w", err)
	}
	r.logger.Debug().Str("game_id", id).Int("bytes", len(data)).Msg("snapshot saved")
	return nil
}

func (r *Redis) Delete(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	c, err := r.conn(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	n, err := redis.Int(c.Do("DEL", r.key(id)))
	if err != nil {
		return fmt.Errorf("redis DEL: %w", err)
	}
	if _, err := c.Do("SREM", r.setKey(), id); err != nil {
		return fmt.Errorf("redis SREM: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (r *Redis) List(ctx context.Context) ([]string, error) {
	c, err := r.conn(ctx)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	ids, err := redis.Strings(c.Do("SMEMBERS", r.setKey()))
	if err != nil {
		return nil, fmt.Errorf("redis SMEMBERS: %w", err)
	}
	slices.Sort(ids)
	return ids, nil
}

// Close releases pooled connections.
func (r *Redis) Close() error {
	return r.pool.Close()
}
