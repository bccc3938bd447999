package mfa

import "github.com/dmitrymomot/totpmfa/pkg/totp"

// Config holds the module settings.
type Config struct {
	Issuer       string `env:"MFA_ISSUER" envDefault:"HFS"`            // Issuer shown in authenticator apps
	Label        string `env:"MFA_LABEL" envDefault:"HFS"`             // Account label shown in authenticator apps
	SetupPath    string `env:"MFA_SETUP_PATH" envDefault:"/mfa-setup"` // Path serving the enrollment page
	DatabaseName string `env:"MFA_DB_NAME" envDefault:"totp-mfa"`      // Host database holding the secret
	SecretKey    string `env:"MFA_SECRET_KEY" envDefault:"secret"`     // Key of the secret inside the database
	TokenField   string `env:"MFA_TOKEN_FIELD" envDefault:"token"`     // Login body field carrying the code
	QRSize       int    `env:"MFA_QR_SIZE" envDefault:"256"`           // Rendered QR image size in pixels

	TOTP totp.Config
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Issuer:       DefaultIssuer,
		Label:        DefaultLabel,
		SetupPath:    DefaultSetupPath,
		DatabaseName: DefaultDatabaseName,
		SecretKey:    DefaultSecretKey,
		TokenField:   DefaultTokenField,
		QRSize:       256,
		TOTP: totp.Config{
			SecretSize: totp.DefaultSecretSize,
			Skew:       totp.DefaultSkew,
		},
	}
}

// WithDefaults returns c with empty fields filled from DefaultConfig.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Issuer == "" {
		c.Issuer = d.Issuer
	}
	if c.Label == "" {
		c.Label = d.Label
	}
	if c.SetupPath == "" {
		c.SetupPath = d.SetupPath
	}
	if c.DatabaseName == "" {
		c.DatabaseName = d.DatabaseName
	}
	if c.SecretKey == "" {
		c.SecretKey = d.SecretKey
	}
	if c.TokenField == "" {
		c.TokenField = d.TokenField
	}
	if c.QRSize <= 0 {
		c.QRSize = d.QRSize
	}
	if c.TOTP.SecretSize <= 0 {
		c.TOTP.SecretSize = d.TOTP.SecretSize
	}
	return c
}

const (
	DefaultIssuer       = "HFS"
	DefaultLabel        = "HFS"
	DefaultSetupPath    = "/mfa-setup"
	DefaultDatabaseName = "totp-mfa"
	DefaultSecretKey    = "secret"
	DefaultTokenField   = "token"
)
