package hostapp

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/totpmfa/host"
	"github.com/dmitrymomot/totpmfa/pkg/logger"
)

const maxBodySize = 1 << 20

var errUnsupportedBody = errors.New("unsupported login body")

func (a *App) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := decodeBody(w, r)
	if err != nil {
		a.log.DebugContext(ctx, "malformed login request", logger.Error(err))
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	rc := host.NewRequestContext(r, body)
	username, _ := rc.BodyString("username")
	password, _ := rc.BodyString("password")

	if a.bus.Emit(ctx, host.EventAttemptingLogin, &host.LoginAttempt{
		Request:  rc,
		Username: username,
		Password: password,
	}) {
		status, message, ok := rc.Failure()
		if !ok {
			status, message = http.StatusForbidden, http.StatusText(http.StatusForbidden)
		}
		a.log.InfoContext(ctx, "login prevented", logger.Event(host.EventAttemptingLogin), logger.Reason(message))
		http.Error(w, message, status)
		return
	}

	if !a.checkCredentials(username, password) {
		a.log.InfoContext(ctx, "login rejected", logger.Reason("invalid credentials"))
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"username": username})
}

// checkCredentials is the primary factor. An unset hash rejects everyone.
func (a *App) checkCredentials(username, password string) bool {
	if a.cfg.AdminPasswordHash == "" || username == "" {
		return false
	}
	if subtle.ConstantTimeCompare([]byte(username), []byte(a.cfg.AdminUsername)) != 1 {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.cfg.AdminPasswordHash), []byte(password)) == nil
}

// decodeBody reads a JSON object or a urlencoded form into a map.
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		body := map[string]any{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, err
		}
		return body, nil

	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodySize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
		body := make(map[string]any, len(r.PostForm))
		for k, v := range r.PostForm {
			if len(v) > 0 {
				body[k] = v[0]
			}
		}
		return body, nil
	}

	return nil, errUnsupportedBody
}
