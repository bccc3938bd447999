package mfa

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/totpmfa/pkg/logger"
)

// ReasonMFAFailed is the response body of a denied login.
const ReasonMFAFailed = "MFA Failed"

// Outcome of a login check.
type Outcome int

const (
	Deny Outcome = iota
	Allow
)

func (o Outcome) String() string {
	if o == Allow {
		return "allow"
	}
	return "deny"
}

// Decision is the result of Gate.Check. Reason is set for Deny.
type Decision struct {
	Outcome Outcome
	Reason  string
}

// Allowed reports whether the login may proceed.
func (d Decision) Allowed() bool { return d.Outcome == Allow }

func denied() Decision { return Decision{Outcome: Deny, Reason: ReasonMFAFailed} }

// Gate verifies the code submitted with a login attempt.
// Anything other than a matching code denies.
type Gate struct {
	engine Engine
	secret Secret
	field  string
	now    func() time.Time
	log    *slog.Logger
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithTokenField sets the body field carrying the code.
func WithTokenField(name string) GateOption {
	return func(g *Gate) {
		if name != "" {
			g.field = name
		}
	}
}

// WithClock overrides the time source used for verification.
func WithClock(now func() time.Time) GateOption {
	return func(g *Gate) {
		if now != nil {
			g.now = now
		}
	}
}

// WithGateLogger sets the logger for denied attempts.
func WithGateLogger(l *slog.Logger) GateOption {
	return func(g *Gate) {
		if l != nil {
			g.log = l
		}
	}
}

// NewGate returns a gate checking codes against secret.
func NewGate(engine Engine, secret Secret, opts ...GateOption) *Gate {
	g := &Gate{
		engine: engine,
		secret: secret,
		field:  DefaultTokenField,
		now:    time.Now,
		log:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check reads the code from body and verifies it.
// A missing or non-string field denies.
func (g *Gate) Check(ctx context.Context, body map[string]any) Decision {
	token, ok := body[g.field].(string)
	if !ok {
		g.log.DebugContext(ctx, "login denied", logger.Reason("token missing"))
		return denied()
	}
	return g.Verify(ctx, token)
}

// Verify checks token against the current time step.
func (g *Gate) Verify(ctx context.Context, token string) Decision {
	if g.engine == nil || g.secret.IsZero() {
		g.log.ErrorContext(ctx, "login denied", logger.Reason("gate not initialised"))
		return denied()
	}

	ok, err := g.engine.Verify(g.secret.Base32(), token, g.now())
	if err != nil {
		g.log.DebugContext(ctx, "login denied", logger.Reason("verification error"), logger.Error(err))
		return denied()
	}
	if !ok {
		g.log.DebugContext(ctx, "login denied", logger.Reason("code mismatch"))
		return denied()
	}
	return Decision{Outcome: Allow}
}
