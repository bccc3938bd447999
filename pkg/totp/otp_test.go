package totp_test

import (
	"testing"
	"time"

	"github.com/pquerna/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/totpmfa/pkg/totp"
)

// base32 of the ASCII seed "12345678901234567890" from RFC 6238 appendix B.
const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

func TestGenerateSecret(t *testing.T) {
	t.Parallel()

	t.Run("default size", func(t *testing.T) {
		t.Parallel()
		secret, err := totp.GenerateSecret(0)
		require.NoError(t, err)
		assert.Regexp(t, totp.ValidateSecretKeyRegex, secret)
		// 20 bytes -> 32 base32 characters without padding
		assert.Len(t, secret, 32)
	})

	t.Run("custom size", func(t *testing.T) {
		t.Parallel()
		secret, err := totp.GenerateSecret(10)
		require.NoError(t, err)
		assert.Len(t, secret, 16)
	})

	t.Run("unique", func(t *testing.T) {
		t.Parallel()
		a, err := totp.GenerateSecret(20)
		require.NoError(t, err)
		b, err := totp.GenerateSecret(20)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})
}

func TestGetTOTPURI(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		params  totp.TOTPParams
		want    string
		wantErr error
	}{
		{
			name: "Basic URI",
			params: totp.TOTPParams{
				Secret: "ABCDEFGHIJKLMNOP",
				Label:  "test@example.com",
				Issuer: "TestApp",
			},
			want: "otpauth://totp/TestApp:test@example.com?secret=ABCDEFGHIJKLMNOP&issuer=TestApp",
		},
		{
			name: "Installation defaults",
			params: totp.TOTPParams{
				Secret: "JBSWY3DPEHPK3PXP",
				Label:  "HFS",
				Issuer: "HFS",
			},
			want: "otpauth://totp/HFS:HFS?secret=JBSWY3DPEHPK3PXP&issuer=HFS",
		},
		{
			name: "URI with special characters",
			params: totp.TOTPParams{
				Secret: "ABCDEFGHIJKLMNOP",
				Label:  "test+user@example.com",
				Issuer: "Test & App",
			},
			want: "otpauth://totp/Test%20&%20App:test+user@example.com?secret=ABCDEFGHIJKLMNOP&issuer=Test+%26+App",
		},
		{
			name: "Non-default parameters are emitted",
			params: totp.TOTPParams{
				Secret:    "ABCDEFGHIJKLMNOP",
				Label:     "ops",
				Issuer:    "HFS",
				Algorithm: "SHA256",
				Digits:    8,
				Period:    60,
			},
			want: "otpauth://totp/HFS:ops?secret=ABCDEFGHIJKLMNOP&issuer=HFS&algorithm=SHA256&digits=8&period=60",
		},
		{
			name:    "Missing secret",
			params:  totp.TOTPParams{Label: "HFS", Issuer: "HFS"},
			wantErr: totp.ErrMissingSecret,
		},
		{
			name:    "Invalid secret",
			params:  totp.TOTPParams{Secret: "not-base32", Label: "HFS", Issuer: "HFS"},
			wantErr: totp.ErrInvalidSecret,
		},
		{
			name:    "Missing label",
			params:  totp.TOTPParams{Secret: "ABCDEFGHIJKLMNOP", Issuer: "HFS"},
			wantErr: totp.ErrMissingLabel,
		},
		{
			name:    "Missing issuer",
			params:  totp.TOTPParams{Secret: "ABCDEFGHIJKLMNOP", Label: "HFS"},
			wantErr: totp.ErrMissingIssuer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := totp.GetTOTPURI(tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_ProvisioningURI_RoundTrip(t *testing.T) {
	t.Parallel()
	engine := totp.NewEngine()

	secret, err := engine.Generate(20)
	require.NoError(t, err)

	uri, err := engine.ProvisioningURI(secret, "test+user@example.com", "Test & App")
	require.NoError(t, err)

	key, err := otp.NewKeyFromURL(uri)
	require.NoError(t, err)
	assert.Equal(t, "totp", key.Type())
	assert.Equal(t, secret, key.Secret())
	assert.Equal(t, "test+user@example.com", key.AccountName())
	assert.Equal(t, "Test & App", key.Issuer())
	assert.Equal(t, uint64(30), key.Period())
	assert.Equal(t, otp.DigitsSix, key.Digits())
	assert.Equal(t, otp.AlgorithmSHA1, key.Algorithm())
}

func TestEngine_RFC6238Vectors(t *testing.T) {
	t.Parallel()
	engine := totp.NewEngine()

	// Six-digit truncations of the SHA1 vectors from RFC 6238 appendix B.
	vectors := []struct {
		unix int64
		code string
	}{
		{59, "287082"},
		{1111111109, "081804"},
		{1111111111, "050471"},
		{1234567890, "005924"},
		{2000000000, "279037"},
	}

	for _, v := range vectors {
		at := time.Unix(v.unix, 0)

		code, err := engine.GenerateCode(rfcSecret, at)
		require.NoError(t, err)
		assert.Equal(t, v.code, code, "code at %d", v.unix)

		ok, err := engine.Verify(rfcSecret, v.code, at)
		require.NoError(t, err)
		assert.True(t, ok, "verify at %d", v.unix)
	}
}

func TestEngine_Verify_Window(t *testing.T) {
	t.Parallel()
	engine := totp.NewEngine()

	// 081804 is the code for step 37037036 (t=1111111109).
	stepStart := time.Unix(37037036*30, 0)
	const code = "081804"

	tests := []struct {
		name  string
		steps int
		want  bool
	}{
		{"current step", 0, true},
		{"one step behind", -1, true},
		{"one step ahead", 1, true},
		{"two steps behind", -2, false},
		{"two steps ahead", 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			at := stepStart.Add(time.Duration(tt.steps) * 30 * time.Second)
			ok, err := engine.Verify(rfcSecret, code, at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestEngine_Verify_ZeroSkew(t *testing.T) {
	t.Parallel()
	engine := totp.NewEngine(totp.WithSkew(0))

	at := time.Unix(1111111109, 0)
	ok, err := engine.Verify(rfcSecret, "081804", at)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = engine.Verify(rfcSecret, "081804", at.Add(30*time.Second))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEngine_Verify_Scenario(t *testing.T) {
	t.Parallel()
	engine := totp.NewEngine()
	at := time.Date(1970, 1, 1, 0, 0, 30, 0, time.UTC)

	code, err := engine.GenerateCode("JBSWY3DPEHPK3PXP", at)
	require.NoError(t, err)
	assert.Equal(t, "996554", code)

	ok, err := engine.Verify("JBSWY3DPEHPK3PXP", code, at)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = engine.Verify("JBSWY3DPEHPK3PXP", "000000", at)
	require.NoError(t, err)
	assert.False(t, ok)

	// Lowercase secrets are accepted.
	ok, err = engine.Verify("jbswy3dpehpk3pxp", code, at)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEngine_Verify_Invalid(t *testing.T) {
	t.Parallel()
	engine := totp.NewEngine()
	at := time.Unix(59, 0)

	tests := []struct {
		name    string
		secret  string
		token   string
		wantErr error
	}{
		{name: "empty token", secret: rfcSecret, token: ""},
		{name: "whitespace token", secret: rfcSecret, token: "   "},
		{name: "short token", secret: rfcSecret, token: "12345", wantErr: totp.ErrInvalidOTP},
		{name: "non-digit token", secret: rfcSecret, token: "12345a", wantErr: totp.ErrInvalidOTP},
		{name: "long token", secret: rfcSecret, token: "1234567", wantErr: totp.ErrInvalidOTP},
		{name: "invalid secret", secret: "invalid-base32!@#$", token: "123456", wantErr: totp.ErrInvalidSecret},
		{name: "empty secret", secret: "", token: "123456", wantErr: totp.ErrInvalidSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ok, err := engine.Verify(tt.secret, tt.token, at)
			assert.False(t, ok)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewEngineFromConfig(t *testing.T) {
	t.Parallel()
	engine := totp.NewEngineFromConfig(totp.Config{Skew: 2})

	// With skew 2 the code from two steps back is still accepted.
	at := time.Unix(37037036*30, 0).Add(2 * 30 * time.Second)
	ok, err := engine.Verify(rfcSecret, "081804", at)
	require.NoError(t, err)
	assert.True(t, ok)
}
