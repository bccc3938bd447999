package kvstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/totpmfa/pkg/logger"
)

// Driver names accepted in KV_DRIVER.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverS3       = "s3"
)

// Config selects and configures the backend used to open databases.
type Config struct {
	Driver  string `env:"KV_DRIVER" envDefault:"file"`
	FileDir string `env:"KV_FILE_DIR" envDefault:"./data"`

	Redis    RedisConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	S3       S3Config
}

// Backend is an opened driver: the Opener plus lifecycle hooks for its
// underlying connection.
type Backend struct {
	Driver string
	Open   Opener
	// Ping checks the underlying connection; nil for local drivers.
	Ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Close releases the underlying connection.
func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}

// Connect opens the backend selected by cfg.Driver.
func Connect(ctx context.Context, cfg Config, log *slog.Logger) (*Backend, error) {
	if log == nil {
		log = logger.Discard()
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))

	switch driver {
	case DriverMemory:
		return &Backend{Driver: driver, Open: MemoryOpener()}, nil

	case DriverFile:
		return &Backend{Driver: driver, Open: FileOpener(cfg.FileDir)}, nil

	case DriverRedis:
		client, err := ConnectRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Driver: driver,
			Open:   RedisOpener(client),
			Ping:   func(ctx context.Context) error { return client.Ping(ctx).Err() },
			close:  func(context.Context) error { return client.Close() },
		}, nil

	case DriverPostgres:
		pool, err := ConnectPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		if err := MigratePostgres(ctx, pool, cfg.Postgres, log); err != nil {
			pool.Close()
			return nil, err
		}
		return &Backend{
			Driver: driver,
			Open:   PostgresOpener(pool),
			Ping:   pool.Ping,
			close: func(context.Context) error {
				pool.Close()
				return nil
			},
		}, nil

	case DriverMongo:
		client, err := ConnectMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Driver: driver,
			Open:   MongoOpener(client.Database(cfg.Mongo.Database)),
			Ping:   func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:  client.Disconnect,
		}, nil

	case DriverS3:
		client, err := NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		probe, err := NewS3(client, cfg.S3.Bucket, cfg.S3.Prefix, "probe")
		if err != nil {
			return nil, err
		}
		return &Backend{
			Driver: driver,
			Open:   S3Opener(client, cfg.S3.Bucket, cfg.S3.Prefix),
			Ping:   probe.Ping,
		}, nil
	}

	return nil, errors.Join(ErrUnknownDriver, fmt.Errorf("%q", cfg.Driver))
}
