package totp

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pquerna/otp"
	pqtotp "github.com/pquerna/otp/totp"
)

const (
	DefaultDigits     = 6      // Standard 6-digit TOTP codes
	DefaultPeriod     = 30     // 30-second validity window (RFC 6238 standard)
	DefaultAlgorithm  = "SHA1" // HMAC-SHA1 algorithm (RFC 6238 standard)
	DefaultSkew       = 1      // One adjacent step on each side
	DefaultSecretSize = 20     // 160-bit secret (RFC 4226 recommendation)
)

var (
	// ValidateSecretKeyRegex ensures Base32 format: uppercase A-Z, digits 2-7, optional padding
	ValidateSecretKeyRegex = regexp.MustCompile("^[A-Z2-7]+=*$")

	otpRegex = regexp.MustCompile(`^\d+$`)

	b32 = base32.StdEncoding.WithPadding(base32.NoPadding)
)

// TOTPParams contains the parameters for TOTP URI generation
type TOTPParams struct {
	Secret    string // Base32-encoded TOTP secret key (required)
	Label     string // Account label shown in authenticator apps (required)
	Issuer    string // Service name displayed in authenticator apps (required)
	Algorithm string // HMAC algorithm (optional, defaults to SHA1)
	Digits    int    // Number of digits in generated codes (optional, defaults to 6)
	Period    int    // Code validity period in seconds (optional, defaults to 30)
}

// Validate ensures all required TOTP parameters are present and valid
func (p TOTPParams) Validate() error {
	if p.Secret == "" {
		return ErrMissingSecret
	}
	if !ValidateSecretKeyRegex.MatchString(p.Secret) {
		return ErrInvalidSecret
	}
	if p.Label == "" {
		return ErrMissingLabel
	}
	if p.Issuer == "" {
		return ErrMissingIssuer
	}
	return nil
}

// GetDefaults returns a copy with RFC 6238 standard defaults applied to zero-valued fields
func (p TOTPParams) GetDefaults() TOTPParams {
	if p.Algorithm == "" {
		p.Algorithm = DefaultAlgorithm
	}
	if p.Digits == 0 {
		p.Digits = DefaultDigits
	}
	if p.Period == 0 {
		p.Period = DefaultPeriod
	}
	return p
}

// GenerateSecret returns entropyBytes of cryptographically random data encoded
// as unpadded Base32. Non-positive sizes fall back to DefaultSecretSize.
func GenerateSecret(entropyBytes int) (string, error) {
	if entropyBytes <= 0 {
		entropyBytes = DefaultSecretSize
	}
	secret := make([]byte, entropyBytes)
	if _, err := rand.Read(secret); err != nil {
		return "", errors.Join(ErrFailedToGenerateSecretKey, err)
	}
	return b32.EncodeToString(secret), nil
}

// GetTOTPURI creates a properly encoded TOTP URI for use with authenticator apps.
// The URI follows the Key Uri Format understood by authenticator apps:
// https://github.com/google/google-authenticator/wiki/Key-Uri-Format
//
// Algorithm, digits and period are only emitted when they differ from the
// RFC 6238 defaults, so the default output is
// otpauth://totp/{issuer}:{label}?secret={secret}&issuer={issuer}.
func GetTOTPURI(params TOTPParams) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	params = params.GetDefaults()

	var b strings.Builder
	b.WriteString("otpauth://totp/")
	b.WriteString(url.PathEscape(params.Issuer))
	b.WriteByte(':')
	b.WriteString(url.PathEscape(params.Label))
	b.WriteString("?secret=")
	b.WriteString(url.QueryEscape(params.Secret))
	b.WriteString("&issuer=")
	b.WriteString(url.QueryEscape(params.Issuer))

	if params.Algorithm != DefaultAlgorithm {
		b.WriteString("&algorithm=")
		b.WriteString(url.QueryEscape(params.Algorithm))
	}
	if params.Digits != DefaultDigits {
		b.WriteString("&digits=")
		b.WriteString(strconv.Itoa(params.Digits))
	}
	if params.Period != DefaultPeriod {
		b.WriteString("&period=")
		b.WriteString(strconv.Itoa(params.Period))
	}

	return b.String(), nil
}

// Engine computes and verifies RFC 6238 codes with SHA1, 6 digits and a
// 30-second step. It is stateless and safe for concurrent use.
type Engine struct {
	skew uint
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithSkew sets how many adjacent steps on each side of the current one are accepted.
func WithSkew(skew uint) EngineOption {
	return func(e *Engine) { e.skew = skew }
}

// NewEngine returns an Engine with RFC 6238 defaults.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		skew: DefaultSkew,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) validateOpts() pqtotp.ValidateOpts {
	return pqtotp.ValidateOpts{
		Period:    DefaultPeriod,
		Skew:      e.skew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}
}

// Generate creates a new Base32 secret with the given entropy.
func (e *Engine) Generate(entropyBytes int) (string, error) {
	return GenerateSecret(entropyBytes)
}

// ProvisioningURI builds the otpauth URI for the secret.
func (e *Engine) ProvisioningURI(secret, label, issuer string) (string, error) {
	return GetTOTPURI(TOTPParams{
		Secret: normalizeSecret(secret),
		Label:  label,
		Issuer: issuer,
	})
}

// Verify reports whether token is valid for secret at the given time.
// An empty token is not an error, it simply does not verify.
func (e *Engine) Verify(secret, token string, at time.Time) (bool, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return false, nil
	}
	if len(token) != DefaultDigits || !otpRegex.MatchString(token) {
		return false, ErrInvalidOTP
	}

	secret = normalizeSecret(secret)
	if !ValidateSecretKeyRegex.MatchString(secret) {
		return false, ErrInvalidSecret
	}

	ok, err := pqtotp.ValidateCustom(token, secret, at.UTC(), e.validateOpts())
	if err != nil {
		return false, errors.Join(ErrFailedToValidateTOTP, err)
	}
	return ok, nil
}

// GenerateCode returns the code for the step containing t.
func (e *Engine) GenerateCode(secret string, t time.Time) (string, error) {
	secret = normalizeSecret(secret)
	if !ValidateSecretKeyRegex.MatchString(secret) {
		return "", ErrInvalidSecret
	}
	code, err := pqtotp.GenerateCodeCustom(secret, t.UTC(), e.validateOpts())
	if err != nil {
		return "", errors.Join(ErrFailedToGenerateTOTP, err)
	}
	return code, nil
}

func normalizeSecret(secret string) string {
	return strings.ToUpper(strings.TrimSpace(secret))
}
