package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"planner-go/pkg/logger"
)

// TokenAuth guards the admin API with a single shared bearer token. An
// empty token disables the check.
type TokenAuth struct {
	token string
	log   logger.Logger
}

func NewTokenAuth(token string, log logger.Logger) *TokenAuth {
	return &TokenAuth{
		token: strings.TrimSpace(token),
		log:   log,
	}
}

func (a *TokenAuth) Enabled() bool {
	return a.token != ""
}

func (a *TokenAuth) Middleware(next http.Handler) http.Handler {
	if !a.Enabled() {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			a.log.BusinessError("auth: rejected request", errInvalidToken, "method", r.Method, "path", r.URL.Path)
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

var errInvalidToken = errors.New("invalid bearer token")

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="planner"`)
	writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
