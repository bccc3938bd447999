package kvstore

import "errors"

var (
	ErrNotFound          = errors.New("key not found")
	ErrEmptyKey          = errors.New("empty key")
	ErrEmptyDatabaseName = errors.New("empty database name")
	ErrUnknownDriver     = errors.New("unknown key-value driver")
	ErrInvalidConfig     = errors.New("invalid key-value store configuration")

	ErrFailedToReadFile  = errors.New("failed to read key-value file")
	ErrFailedToWriteFile = errors.New("failed to write key-value file")

	ErrFailedToParseRedisConnString = errors.New("failed to parse redis connection string")
	ErrRedisNotReady                = errors.New("redis did not become ready within the given time period")

	ErrFailedToParseDBConfig    = errors.New("failed to parse postgres connection config")
	ErrFailedToOpenDBConnection = errors.New("failed to open postgres connection")
	ErrFailedToApplyMigrations  = errors.New("failed to apply key-value migrations")

	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")

	ErrFailedToCreateS3Client = errors.New("failed to create s3 client")
)
