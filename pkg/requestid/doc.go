// Package requestid assigns every HTTP request an id, exposes it through the
// context and the X-Request-ID response header, and feeds it to the logger:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r.Use(requestid.Middleware)
package requestid
