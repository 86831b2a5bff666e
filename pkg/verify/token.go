// Package verify checks the human-verification token a submission must
// carry. Tokens are issued by the hosting platform as signed JWTs whose exp
// claim holds the epoch-seconds expiry.
package verify

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenMissing reports an absent or blank token.
	ErrTokenMissing = errors.New("verify: token is missing")
	// ErrTokenMalformed reports a token that is not structurally parseable.
	ErrTokenMalformed = errors.New("verify: token is malformed")
	// ErrTokenExpired reports an expiry in the past.
	ErrTokenExpired = errors.New("verify: token is expired")
)

// TokenVerifier validates a raw verification token at a given instant.
type TokenVerifier interface {
	Verify(token string, now time.Time) error
}

// VerifierFunc adapts a function into a TokenVerifier.
type VerifierFunc func(token string, now time.Time) error

// Verify delegates to the underlying function.
func (fn VerifierFunc) Verify(token string, now time.Time) error {
	return fn(token, now)
}

// JWTVerifier validates HMAC-signed verification tokens.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier constructs a verifier for tokens signed with the shared
// secret.
func NewJWTVerifier(secret []byte) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

// Verify checks presence, structure, signature, and expiry. The exp claim is
// compared against now in epoch seconds.
func (v *JWTVerifier) Verify(token string, now time.Time) error {
	if strings.TrimSpace(token) == "" {
		return ErrTokenMissing
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	claims := jwt.MapClaims{}
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
}

// IssueToken mints a token expiring at the given instant. The platform's
// verification service uses this when handing a token to the client; tests
// use it to build fixtures.
func (v *JWTVerifier) IssueToken(expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": expiresAt.Unix(),
	})
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("verify: sign token: %w", err)
	}
	return signed, nil
}
