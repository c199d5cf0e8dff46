package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"codequiz/internal/common"
	"codequiz/internal/common/security"
	"codequiz/internal/platform/session"

	"github.com/go-chi/jwtauth/v5"
)

// SessionCookieName is the cookie the browser carries the session token in.
const SessionCookieName = "access_token"

type contextKey string

const (
	UsernameCtxKey    contextKey = "username"
	TokenIDCtxKey     contextKey = "tokenID"
	TokenExpiryCtxKey contextKey = "tokenExpiry"
)

// TokenFromSessionCookie is the find-token hook for jwtauth.Verify; the
// session lives in a cookie, not an Authorization header.
func TokenFromSessionCookie(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Authenticator gates protected routes. Forged, expired, and revoked tokens
// all produce the same 401 body; only the log line tells them apart.
func Authenticator(revoker session.TokenRevoker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil || token == nil {
				switch {
				case errors.Is(err, jwtauth.ErrExpired):
					logger.Info("rejected expired token", "path", r.URL.Path)
				case errors.Is(err, jwtauth.ErrNoTokenFound):
					logger.Info("rejected request without token", "path", r.URL.Path)
				default:
					logger.Warn("rejected invalid token", "path", r.URL.Path, "err", err)
				}
				common.RespondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			username, err := security.GetSubjectFromClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}
			jti, err := security.GetTokenIDFromClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}
			expiresAt, err := security.GetExpiryFromClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			revoked, err := revoker.IsRevoked(r.Context(), jti)
			if err != nil {
				logger.Error("revocation check failed", "err", err)
				common.RespondWithError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if revoked {
				logger.Info("rejected revoked token", "jti", jti, "path", r.URL.Path)
				common.RespondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			ctx := context.WithValue(r.Context(), UsernameCtxKey, username)
			ctx = context.WithValue(ctx, TokenIDCtxKey, jti)
			ctx = context.WithValue(ctx, TokenExpiryCtxKey, expiresAt)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Helpers to read the authenticated session out of the request context.

func GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameCtxKey).(string)
	return username, ok
}

func GetTokenIDFromContext(ctx context.Context) (string, bool) {
	jti, ok := ctx.Value(TokenIDCtxKey).(string)
	return jti, ok
}

func GetTokenExpiryFromContext(ctx context.Context) (time.Time, bool) {
	expiresAt, ok := ctx.Value(TokenExpiryCtxKey).(time.Time)
	return expiresAt, ok
}
