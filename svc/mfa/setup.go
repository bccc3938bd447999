package mfa

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/totpmfa/pkg/logger"
)

// SetupHandler serves the enrollment page: the provisioning URI of the
// installation secret rendered as an inline QR image.
type SetupHandler struct {
	engine   Engine
	renderer Renderer
	secret   Secret
	label    string
	issuer   string
	log      *slog.Logger
}

// SetupOption configures a SetupHandler.
type SetupOption func(*SetupHandler)

// WithLabel sets the account label embedded in the URI.
func WithLabel(label string) SetupOption {
	return func(h *SetupHandler) {
		if label != "" {
			h.label = label
		}
	}
}

// WithIssuer sets the issuer embedded in the URI.
func WithIssuer(issuer string) SetupOption {
	return func(h *SetupHandler) {
		if issuer != "" {
			h.issuer = issuer
		}
	}
}

// WithSetupLogger sets the logger for render failures.
func WithSetupLogger(l *slog.Logger) SetupOption {
	return func(h *SetupHandler) {
		if l != nil {
			h.log = l
		}
	}
}

// NewSetupHandler returns the enrollment page handler.
func NewSetupHandler(engine Engine, renderer Renderer, secret Secret, opts ...SetupOption) *SetupHandler {
	h := &SetupHandler{
		engine:   engine,
		renderer: renderer,
		secret:   secret,
		label:    DefaultLabel,
		issuer:   DefaultIssuer,
		log:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Page renders the enrollment page component.
func (h *SetupHandler) Page() (templ.Component, error) {
	uri, err := h.engine.ProvisioningURI(h.secret.Base32(), h.label, h.issuer)
	if err != nil {
		return nil, errors.Join(ErrFailedToRender, err)
	}
	img, err := h.renderer.Render(uri)
	if err != nil {
		return nil, errors.Join(ErrFailedToRender, err)
	}
	return setupPage(img), nil
}

func (h *SetupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page, err := h.Page()
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to render setup page", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := page.Render(r.Context(), &buf); err != nil {
		h.log.ErrorContext(r.Context(), "failed to render setup page", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = buf.WriteTo(w)
	}
}

// setupPage is the enrollment page body: a single inline image.
func setupPage(src string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<img src="`+templ.EscapeString(src)+`">`)
		return err
	})
}

// SetupMiddleware serves setup on exactly path and passes every other
// request to the next handler. Methods other than GET and HEAD get 405.
func SetupMiddleware(path string, setup http.Handler) func(http.Handler) http.Handler {
	if path == "" {
		path = DefaultSetupPath
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != path {
				next.ServeHTTP(w, r)
				return
			}
			if r.Method != http.MethodGet && r.Method != http.MethodHead {
				w.Header().Set("Allow", "GET, HEAD")
				http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
				return
			}
			setup.ServeHTTP(w, r)
		})
	}
}
