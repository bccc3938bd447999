package mfa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/dmitrymomot/totpmfa/host"
	"github.com/dmitrymomot/totpmfa/pkg/events"
	"github.com/dmitrymomot/totpmfa/pkg/kvstore"
	"github.com/dmitrymomot/totpmfa/pkg/logger"
	"github.com/dmitrymomot/totpmfa/pkg/qrcode"
	"github.com/dmitrymomot/totpmfa/pkg/totp"
	svcmfa "github.com/dmitrymomot/totpmfa/svc/mfa"
)

// Info describes a module to the host loader.
type Info struct {
	Description string
	Version     float64
	APIRequired float64 // Lowest host API level the module runs on
}

// Manifest is the module description.
var Manifest = Info{
	Description: "TOTP MFA Plugin",
	Version:     1.0,
	APIRequired: 10.3,
}

var ErrIncompatibleHost = errors.New("mfa: host API version too old")

// Module is a loaded TOTP module.
type Module struct {
	cfg    svcmfa.Config
	secret svcmfa.Secret
	gate   *svcmfa.Gate
	setup  *svcmfa.SetupHandler
	store  kvstore.Store
	log    *slog.Logger

	unsubscribe func()
	unloadOnce  sync.Once
	unloadErr   error
}

// Option configures Init.
type Option func(*options)

type options struct {
	cfg      svcmfa.Config
	engine   svcmfa.Engine
	renderer svcmfa.Renderer
	gateOpts []svcmfa.GateOption
}

// WithConfig replaces the default module settings.
func WithConfig(cfg svcmfa.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithEngine replaces the TOTP engine built from the config.
func WithEngine(e svcmfa.Engine) Option {
	return func(o *options) { o.engine = e }
}

// WithRenderer replaces the QR renderer.
func WithRenderer(r svcmfa.Renderer) Option {
	return func(o *options) { o.renderer = r }
}

// WithGateOptions passes extra options to the login gate.
func WithGateOptions(opts ...svcmfa.GateOption) Option {
	return func(o *options) { o.gateOpts = append(o.gateOpts, opts...) }
}

// Init loads or creates the installation secret and subscribes the login
// gate to the host. Storage failures abort initialisation.
func Init(ctx context.Context, h host.Host, opts ...Option) (*Module, error) {
	o := &options{cfg: svcmfa.DefaultConfig()}
	for _, opt := range opts {
		opt(o)
	}
	cfg := o.cfg.WithDefaults()

	if v := h.APIVersion(); v < Manifest.APIRequired {
		return nil, errors.Join(ErrIncompatibleHost, fmt.Errorf("host %.1f, required %.1f", v, Manifest.APIRequired))
	}

	log := h.Logger()
	if log == nil {
		log = logger.Discard()
	}
	log = log.With(logger.Component("mfa"))

	engine := o.engine
	if engine == nil {
		engine = totp.NewEngineFromConfig(cfg.TOTP)
	}
	renderer := o.renderer
	if renderer == nil {
		renderer = qrcode.NewRenderer(cfg.QRSize)
	}

	storeOpts := []svcmfa.StoreOption{svcmfa.WithSecretKey(cfg.SecretKey)}
	if cfg.TOTP.EncryptionKey != "" {
		key, err := totp.ParseEncryptionKey(cfg.TOTP.EncryptionKey)
		if err != nil {
			return nil, err
		}
		storeOpts = append(storeOpts, svcmfa.WithEncryptionKey(key))
	}

	db, err := h.OpenDatabase(ctx, cfg.DatabaseName)
	if err != nil {
		return nil, errors.Join(svcmfa.ErrStorage, err)
	}

	secret, err := svcmfa.LoadOrCreateSecret(ctx, svcmfa.NewSecretStore(db, storeOpts...), engine, cfg.TOTP.SecretSize)
	if err != nil {
		_ = closeStore(db)
		return nil, err
	}

	m := &Module{
		cfg:    cfg,
		secret: secret,
		store:  db,
		log:    log,
		gate: svcmfa.NewGate(engine, secret, append([]svcmfa.GateOption{
			svcmfa.WithTokenField(cfg.TokenField),
			svcmfa.WithGateLogger(log),
		}, o.gateOpts...)...),
		setup: svcmfa.NewSetupHandler(engine, renderer, secret,
			svcmfa.WithLabel(cfg.Label),
			svcmfa.WithIssuer(cfg.Issuer),
			svcmfa.WithSetupLogger(log),
		),
	}
	m.unsubscribe = h.Events().On(host.EventAttemptingLogin, m.onLoginAttempt)

	log.InfoContext(ctx, "mfa module loaded",
		logger.Database(cfg.DatabaseName),
		logger.Path(cfg.SetupPath),
	)
	return m, nil
}

// onLoginAttempt vetoes attempts whose code does not verify.
func (m *Module) onLoginAttempt(ctx context.Context, payload any) events.Result {
	attempt, ok := payload.(*host.LoginAttempt)
	if !ok || attempt == nil || attempt.Request == nil {
		m.log.ErrorContext(ctx, "unexpected login payload", logger.Event(host.EventAttemptingLogin))
		return events.PreventDefault
	}

	d := m.gate.Check(ctx, attempt.Request.Body)
	if d.Allowed() {
		return events.Continue
	}
	attempt.Request.Fail(http.StatusUnauthorized, d.Reason)
	return events.PreventDefault
}

// Middleware serves the enrollment page on the configured path.
func (m *Module) Middleware(next http.Handler) http.Handler {
	return svcmfa.SetupMiddleware(m.cfg.SetupPath, m.setup)(next)
}

// Secret returns the installation secret.
func (m *Module) Secret() svcmfa.Secret { return m.secret }

// Unload unsubscribes the gate and closes the database if it holds
// resources. Later calls return the first result.
func (m *Module) Unload() error {
	m.unloadOnce.Do(func() {
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		m.unloadErr = closeStore(m.store)
		m.log.Info("mfa module unloaded")
	})
	return m.unloadErr
}

func closeStore(db kvstore.Store) error {
	if c, ok := db.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
