// Package httpserver runs an http.Server with graceful shutdown, configurable
// timeouts and liveness/readiness handlers.
//
// Run listens on the configured address, closes Ready, and blocks until the
// context is cancelled, SIGINT/SIGTERM is received or Shutdown is called.
// Listen failures are wrapped with ErrStart and shutdown failures with
// ErrShutdown.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//
//	r := chi.NewRouter()
//	r.Get("/health/live", httpserver.LivenessHandler())
//	r.Get("/health/ready", httpserver.ReadinessHandler(log,
//		httpserver.Check{Name: "kvstore", Fn: backend.Ping},
//	))
//
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
package httpserver
