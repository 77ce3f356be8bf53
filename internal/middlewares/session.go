package middlewares

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"

	"github.com/syrilster/attendance-grid/internal/model"
	"github.com/syrilster/attendance-grid/internal/util"
)

const bearerPrefix = "Bearer "

// RequireSession puts the caller's bearer token on the request context as a
// model.Session. Tokens are verified by the attendance API; a JWT whose exp
// has already passed is rejected here without a remote call.
func RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			util.WithError("missing bearer token", http.StatusUnauthorized, w)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if token == "" {
			util.WithError("missing bearer token", http.StatusUnauthorized, w)
			return
		}
		if expired(token, time.Now()) {
			log.WithContext(r.Context()).Info("Rejecting expired session token")
			util.WithError("session expired, please log in again", http.StatusUnauthorized, w)
			return
		}

		ctx := model.WithSession(r.Context(), model.Session{Token: token})
		next(w, r.WithContext(ctx))
	}
}

// expired reports whether token is a JWT with an exp claim before now.
// Opaque tokens are never considered expired.
func expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
