package mfa

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/totpmfa/pkg/totp"
)

// Secret is the installation-wide TOTP shared secret in base32 form.
// It is immutable and prints redacted.
type Secret struct {
	b32 string
}

// NewSecret validates and normalises a base32 secret.
func NewSecret(b32 string) (Secret, error) {
	b32 = strings.ToUpper(strings.TrimSpace(b32))
	if !totp.ValidateSecretKeyRegex.MatchString(b32) {
		return Secret{}, errors.Join(ErrInvalidSecret, totp.ErrInvalidSecret)
	}
	return Secret{b32: b32}, nil
}

// Base32 returns the unpadded base32 representation.
func (s Secret) Base32() string { return s.b32 }

// IsZero reports whether s holds no secret.
func (s Secret) IsZero() bool { return s.b32 == "" }

func (s Secret) String() string { return "[REDACTED]" }

func (s Secret) LogValue() slog.Value { return slog.StringValue("[REDACTED]") }
