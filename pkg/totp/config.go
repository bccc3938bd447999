package totp

// Config holds engine settings loaded from the environment.
type Config struct {
	SecretSize    int    `env:"TOTP_SECRET_SIZE" envDefault:"20"` // Secret entropy in bytes
	Skew          uint   `env:"TOTP_SKEW" envDefault:"1"`         // Accepted adjacent steps on each side of the current one
	EncryptionKey string `env:"TOTP_ENCRYPTION_KEY"`              // Optional base64 AES-256 key used to seal the stored secret
}

// NewEngineFromConfig creates an Engine from the provided Config.
// Zero values keep the RFC 6238 defaults.
func NewEngineFromConfig(cfg Config) *Engine {
	opts := make([]EngineOption, 0, 1)
	if cfg.Skew > 0 {
		opts = append(opts, WithSkew(cfg.Skew))
	}
	return NewEngine(opts...)
}
