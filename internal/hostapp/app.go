package hostapp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/totpmfa/host"
	"github.com/dmitrymomot/totpmfa/modules/mfa"
	"github.com/dmitrymomot/totpmfa/pkg/events"
	"github.com/dmitrymomot/totpmfa/pkg/httpserver"
	"github.com/dmitrymomot/totpmfa/pkg/kvstore"
	"github.com/dmitrymomot/totpmfa/pkg/logger"
	"github.com/dmitrymomot/totpmfa/pkg/requestid"
)

// App is the reference host: it owns the key-value backend and the event
// bus, loads the MFA module and serves the login endpoint.
type App struct {
	cfg     Config
	log     *slog.Logger
	bus     *events.Bus
	backend *kvstore.Backend
	module  *mfa.Module
	handler http.Handler

	closeOnce sync.Once
	closeErr  error
}

var _ host.Host = (*App)(nil)

// New connects the configured backend and loads the MFA module.
func New(ctx context.Context, cfg Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = logger.Discard()
	}
	if cfg.APIVersion == 0 {
		cfg.APIVersion = APIVersion
	}

	backend, err := kvstore.Connect(ctx, cfg.KV, log.With(logger.Component("kvstore")))
	if err != nil {
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		log:     log,
		bus:     events.NewBus(events.WithLogger(log.With(logger.Component("events")))),
		backend: backend,
	}

	a.module, err = mfa.Init(ctx, a, mfa.WithConfig(cfg.MFA))
	if err != nil {
		_ = backend.Close(ctx)
		return nil, err
	}

	if cfg.AdminPasswordHash == "" {
		log.WarnContext(ctx, "HOST_ADMIN_PASSWORD_HASH is not set, every login will be rejected")
	}

	a.handler = a.routes()
	return a, nil
}

func (a *App) APIVersion() float64 { return a.cfg.APIVersion }

func (a *App) OpenDatabase(ctx context.Context, name string) (kvstore.Store, error) {
	a.log.DebugContext(ctx, "opening database", logger.Database(name))
	return a.backend.Open(ctx, name)
}

func (a *App) Events() events.Subscriber { return a.bus }

func (a *App) Logger() *slog.Logger { return a.log }

// Handler returns the HTTP handler of the host.
func (a *App) Handler() http.Handler { return a.handler }

func (a *App) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(a.module.Middleware)

	checks := []httpserver.Check{}
	if a.backend.Ping != nil {
		checks = append(checks, httpserver.Check{Name: "kvstore:" + a.backend.Driver, Fn: a.backend.Ping})
	}
	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(a.log, checks...))

	r.Post("/login", a.handleLogin)
	return r
}

// Run serves the host until ctx is done, then releases its resources.
func (a *App) Run(ctx context.Context) error {
	srv := httpserver.NewFromConfig(a.cfg.HTTP, httpserver.WithLogger(a.log.With(logger.Component("http"))))
	runErr := srv.Run(ctx, a.handler)
	return errors.Join(runErr, a.Close(context.WithoutCancel(ctx)))
}

// Close unloads the module and closes the bus and the backend. It is
// idempotent.
func (a *App) Close(ctx context.Context) error {
	a.closeOnce.Do(func() {
		a.closeErr = errors.Join(
			a.module.Unload(),
			a.bus.Close(),
			a.backend.Close(ctx),
		)
	})
	return a.closeErr
}
