// Package totp generates, provisions and verifies RFC 6238 time-based one-time
// passwords for the installation-wide second factor.
//
// The package covers three concerns:
//
//   • secrets  – GenerateSecret produces cryptographically random bytes encoded
//     as unpadded Base32, the representation stored by the secret store and
//     embedded in provisioning URIs.
//
//   • codes    – Engine computes and verifies codes (SHA1, 6 digits, 30-second
//     step, one adjacent step of clock skew by default). Code calculation and
//     constant-time comparison are delegated to github.com/pquerna/otp.
//
//   • at-rest  – EncryptSecret/DecryptSecret seal the stored secret with
//     AES-256-GCM when TOTP_ENCRYPTION_KEY is configured.
//
// # Usage
//
//	engine := totp.NewEngine()
//
//	secret, _ := engine.Generate(20)
//	uri, _ := engine.ProvisioningURI(secret, "HFS", "HFS")
//	// otpauth://totp/HFS:HFS?secret=...&issuer=HFS
//
//	ok, err := engine.Verify(secret, "123456", time.Now())
//
// GetTOTPURI only emits algorithm, digits and period when they differ from the
// defaults, which keeps the output identical to the plain
// otpauth://totp/{issuer}:{label}?secret={secret}&issuer={issuer} form that
// authenticator apps expect.
//
// # Error Handling
//
// Verify treats an empty token as a plain mismatch. Malformed tokens and
// secrets are reported with ErrInvalidOTP and ErrInvalidSecret; callers on the
// login path must treat any error as a denial. All sentinels may be wrapped
// with errors.Join and should be compared with errors.Is.
//
// # See Also
//
//   • RFC 4226 – HMAC-Based One-Time Password (HOTP) Algorithm
//   • RFC 6238 – Time-Based One-Time Password (TOTP) Algorithm
package totp
