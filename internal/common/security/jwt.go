package security

import (
	"errors"
	"time"

	"codequiz/internal/platform/config"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var TokenAuth *jwtauth.JWTAuth

func InitJWT() {
	TokenAuth = jwtauth.New(config.AppConfig.JWTAlgorithm, config.AppConfig.JWTKey, nil)
}

// GenerateToken issues a signed session token for username, valid for the
// configured lifetime. The returned jti identifies the token on the
// revocation list.
func GenerateToken(username string) (tokenString, jti string, expiresAt time.Time, err error) {
	return GenerateTokenWithTTL(username, config.AppConfig.JWTExp)
}

func GenerateTokenWithTTL(username string, ttl time.Duration) (tokenString, jti string, expiresAt time.Time, err error) {
	jti = uuid.NewString()
	expiresAt = time.Now().Add(ttl)
	claims := jwt.MapClaims{
		"sub": username,
		"jti": jti,
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
	}
	_, tokenString, err = TokenAuth.Encode(claims)
	return tokenString, jti, expiresAt, err
}

// Helper functions to extract claims, can be used in middleware or services.
// jwtauth surfaces the exp claim as time.Time after verification.

func GetSubjectFromClaims(claims jwt.MapClaims) (string, error) {
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("sub claim is missing or not a string")
	}
	return sub, nil
}

func GetTokenIDFromClaims(claims jwt.MapClaims) (string, error) {
	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return "", errors.New("jti claim is missing or not a string")
	}
	return jti, nil
}

func GetExpiryFromClaims(claims jwt.MapClaims) (time.Time, error) {
	exp, ok := claims["exp"].(time.Time)
	if !ok {
		return time.Time{}, errors.New("exp claim is missing or not a timestamp")
	}
	return exp, nil
}
