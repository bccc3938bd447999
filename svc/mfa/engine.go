package mfa

import "time"

// Engine generates secrets, builds provisioning URIs and verifies codes.
// *totp.Engine satisfies it.
type Engine interface {
	Generate(entropyBytes int) (string, error)
	ProvisioningURI(secret, label, issuer string) (string, error)
	Verify(secret, token string, at time.Time) (bool, error)
}

// Renderer turns a provisioning URI into an image data URI.
// *qrcode.Renderer satisfies it.
type Renderer interface {
	Render(content string) (string, error)
}
