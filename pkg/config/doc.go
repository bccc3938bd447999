// Package config loads typed configuration from environment variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
//
//   - LoadEnv reads one or more .env files into the process environment.
//   - Load parses the environment into any struct annotated with `env` tags
//     and caches the result per type for the lifetime of the process.
//   - MustLoad panics on failure, for configuration the process cannot
//     start without.
//
// # Usage
//
//	var cfg mfa.Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatalf("parsing env: %v", err)
//	}
//
// # Error Handling
//
//   - ErrParsingConfig  – env.Parse failed (missing required variable, bad value).
//   - ErrLoadingEnvFile – a .env file passed to LoadEnv could not be read.
//   - ErrNilPointer     – nil pointer passed to Load.
//
// Tests that change the environment between loads should call ResetCache.
package config
