package kvstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures the redis driver.
type RedisConfig struct {
	ConnectionURL  string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"` // Format: redis://:password@localhost:6379/0
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`             // Connection attempts before giving up
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`            // Delay between attempts
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`          // Overall connect deadline
}

// ConnectRedis connects to redis, retrying RetryAttempts times with
// RetryInterval between attempts.
func ConnectRedis(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	attempts := max(cfg.RetryAttempts, 1)
	var lastErr error
	for range attempts {
		client := redis.NewClient(opts)
		if lastErr = client.Ping(ctx).Err(); lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}

	return nil, errors.Join(ErrRedisNotReady, lastErr)
}

// Redis stores a database as keys prefixed with "{name}:".
type Redis struct {
	db     redis.UniversalClient
	prefix string
}

// NewRedis returns the named database on client.
func NewRedis(client redis.UniversalClient, name string) (*Redis, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return &Redis{db: client, prefix: name + ":"}, nil
}

// RedisOpener returns an Opener sharing one client between databases.
func RedisOpener(client redis.UniversalClient) Opener {
	return func(_ context.Context, name string) (Store, error) {
		return NewRedis(client, name)
	}
}

func (s *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	val, err := s.db.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return val, err
}

func (s *Redis) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return s.db.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *Redis) PutIfAbsent(ctx context.Context, key string, value []byte) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}
	return s.db.SetNX(ctx, s.prefix+key, value, 0).Result()
}

func (s *Redis) Ping(ctx context.Context) error {
	return s.db.Ping(ctx).Err()
}
