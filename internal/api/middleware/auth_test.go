package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codequiz/internal/common/security"
	"codequiz/internal/platform/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRevoker struct {
	revoked map[string]bool
}

func (m *memRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	m.revoked[jti] = true
	return nil
}

func (m *memRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return m.revoked[jti], nil
}

func protectedRouter(t *testing.T, revoker *memRevoker) http.Handler {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey:       []byte("test-secret"),
		JWTAlgorithm: "HS256",
		JWTExp:       30 * time.Minute,
	}
	security.InitJWT()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	r.Use(jwtauth.Verify(security.TokenAuth, TokenFromSessionCookie))
	r.Group(func(pr chi.Router) {
		pr.Use(Authenticator(revoker, logger))
		pr.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
			username, _ := GetUsernameFromContext(r.Context())
			w.Write([]byte(username))
		})
	})
	return r
}

func request(handler http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticatorAcceptsValidCookie(t *testing.T) {
	revoker := &memRevoker{revoked: map[string]bool{}}
	router := protectedRouter(t, revoker)

	token, _, _, err := security.GenerateToken("alice")
	require.NoError(t, err)

	rec := request(router, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", rec.Body.String())
}

func TestAuthenticatorRejectsMissingToken(t *testing.T) {
	router := protectedRouter(t, &memRevoker{revoked: map[string]bool{}})
	rec := request(router, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatorRejectsExpiredToken(t *testing.T) {
	router := protectedRouter(t, &memRevoker{revoked: map[string]bool{}})

	token, _, _, err := security.GenerateTokenWithTTL("alice", -time.Minute)
	require.NoError(t, err)

	rec := request(router, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatorRejectsForgedToken(t *testing.T) {
	router := protectedRouter(t, &memRevoker{revoked: map[string]bool{}})

	forger := jwtauth.New("HS256", []byte("other-secret"), nil)
	_, forged, err := forger.Encode(jwt.MapClaims{
		"sub": "alice",
		"jti": "forged",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)

	rec := request(router, forged)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatorRejectsRevokedToken(t *testing.T) {
	revoker := &memRevoker{revoked: map[string]bool{}}
	router := protectedRouter(t, revoker)

	token, jti, _, err := security.GenerateToken("alice")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, request(router, token).Code)

	revoker.revoked[jti] = true
	assert.Equal(t, http.StatusUnauthorized, request(router, token).Code)
}
