package security

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a salted bcrypt hash of the plaintext password. The
// salt is embedded in the hash output; no plaintext leaves this package.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPasswordHash reports whether password matches the stored hash.
// bcrypt's comparison is constant-time with respect to the candidate.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
