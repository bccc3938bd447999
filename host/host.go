package host

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/totpmfa/pkg/events"
	"github.com/dmitrymomot/totpmfa/pkg/kvstore"
)

// EventAttemptingLogin is emitted before the host checks a login request.
// The payload is a *LoginAttempt.
const EventAttemptingLogin = "attemptingLogin"

// Host is the API a server exposes to the modules it loads.
type Host interface {
	// APIVersion reports the module API level the host implements.
	APIVersion() float64
	// OpenDatabase returns the named key-value database.
	OpenDatabase(ctx context.Context, name string) (kvstore.Store, error)
	// Events returns the bus modules subscribe to.
	Events() events.Subscriber
	// Logger returns the host logger; modules derive their own from it.
	Logger() *slog.Logger
}

// LoginAttempt is the payload of EventAttemptingLogin.
type LoginAttempt struct {
	Request  *RequestContext
	Username string
	Password string
}
