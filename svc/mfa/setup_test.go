package mfa_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"

	"github.com/pquerna/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/totpmfa/pkg/qrcode"
	"github.com/dmitrymomot/totpmfa/pkg/totp"
	"github.com/dmitrymomot/totpmfa/svc/mfa"
)

// recordingRenderer keeps the last URI instead of drawing a QR code.
type recordingRenderer struct {
	uri string
	err error
}

func (r *recordingRenderer) Render(content string) (string, error) {
	r.uri = content
	if r.err != nil {
		return "", r.err
	}
	return "data:image/png;base64,AAAA", nil
}

var imgTag = regexp.MustCompile(`<img src="data:image/png;base64,[A-Za-z0-9+/=]+">`)

func testSecret(t *testing.T) mfa.Secret {
	t.Helper()
	s, err := mfa.NewSecret("JBSWY3DPEHPK3PXP")
	require.NoError(t, err)
	return s
}

func TestSetupHandler(t *testing.T) {
	t.Parallel()

	h := mfa.NewSetupHandler(totp.NewEngine(), qrcode.NewRenderer(128), testSecret(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mfa-setup", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Regexp(t, imgTag, rec.Body.String())
}

func TestSetupHandler_URI(t *testing.T) {
	t.Parallel()

	r := &recordingRenderer{}
	h := mfa.NewSetupHandler(totp.NewEngine(), r, testSecret(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mfa-setup", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `<img src="data:image/png;base64,AAAA">`, rec.Body.String())

	assert.Equal(t, "otpauth://totp/HFS:HFS?secret=JBSWY3DPEHPK3PXP&issuer=HFS", r.uri)

	key, err := otp.NewKeyFromURL(r.uri)
	require.NoError(t, err)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", key.Secret())
	assert.Equal(t, "HFS", key.Issuer())
	assert.Equal(t, "HFS", key.AccountName())
}

func TestSetupHandler_LabelAndIssuer(t *testing.T) {
	t.Parallel()

	r := &recordingRenderer{}
	h := mfa.NewSetupHandler(totp.NewEngine(), r, testSecret(t),
		mfa.WithLabel("admin@example.com"), mfa.WithIssuer("Acme Files"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mfa-setup", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	u, err := url.Parse(r.uri)
	require.NoError(t, err)
	assert.Equal(t, "Acme Files", u.Query().Get("issuer"))

	key, err := otp.NewKeyFromURL(r.uri)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", key.AccountName())
}

func TestSetupHandler_RenderFailure(t *testing.T) {
	t.Parallel()

	h := mfa.NewSetupHandler(totp.NewEngine(), &recordingRenderer{err: errors.New("encoder down")}, testSecret(t))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/mfa-setup", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<img")

	_, err := h.Page()
	assert.ErrorIs(t, err, mfa.ErrFailedToRender)
}

func TestSetupMiddleware(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Next", "1")
		_, _ = w.Write([]byte("next:" + r.URL.Path))
	})
	setup := mfa.NewSetupHandler(totp.NewEngine(), &recordingRenderer{}, testSecret(t))
	handler := mfa.SetupMiddleware("/mfa-setup", setup)(next)

	tests := []struct {
		name     string
		method   string
		path     string
		status   int
		body     string
		passThru bool
	}{
		{"setup page", http.MethodGet, "/mfa-setup", http.StatusOK, `<img src="data:image/png;base64,AAAA">`, false},
		{"root passes through", http.MethodGet, "/", http.StatusOK, "next:/", true},
		{"prefix is not the setup path", http.MethodGet, "/mfa-setup/extra", http.StatusOK, "next:/mfa-setup/extra", true},
		{"post on setup path", http.MethodPost, "/mfa-setup", http.StatusMethodNotAllowed, "", false},
		{"head on setup path", http.MethodHead, "/mfa-setup", http.StatusOK, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			if tt.passThru {
				assert.Equal(t, "1", rec.Header().Get("X-Next"))
			} else {
				assert.Empty(t, rec.Header().Get("X-Next"))
			}
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestSetupMiddleware_DefaultPath(t *testing.T) {
	t.Parallel()

	setup := mfa.NewSetupHandler(totp.NewEngine(), &recordingRenderer{}, testSecret(t))
	handler := mfa.SetupMiddleware("", setup)(http.NotFoundHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, mfa.DefaultSetupPath, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
