// Package logger builds *slog.Logger instances with a consistent shape across
// the MFA module and its reference host.
//
// New accepts functional options to select the format (JSON or text), the
// minimum level, static attributes and ContextExtractor callbacks. FromConfig
// maps the LOG_* environment variables onto those options. The resulting
// handler is wrapped in LogHandlerDecorator, which pulls request-scoped values
// (for example the request id) out of the context on every record.
//
// # Usage
//
//	var cfg logger.Config
//	config.MustLoad(&cfg)
//
//	log := logger.New(
//		logger.FromConfig(cfg),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "mfa module initialised", logger.Database("totp-mfa"))
//
// Attribute helpers (Error, Event, Path, Database, Reason, ...) keep key names
// consistent. Components that accept an optional logger fall back to Discard.
package logger
