// Package auth implements the signed, time-limited credential carried by
// every authenticated request: HS256 JWTs holding the user's id, email,
// and role.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/talentbridge/platform-api/internal/core/domain"
)

var ErrNoSigningSecret = errors.New("signing secret not configured")
var ErrTokenMalformed = errors.New("malformed token")
var ErrTokenExpired = errors.New("token expired")
var ErrTokenSignatureInvalid = errors.New("token signature invalid")

// Claims are the identity facts embedded in a credential.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies credentials with a shared secret.
// Verification is pure: the same token and clock always yield the same
// claims or the same error.
type TokenCodec struct {
	secret []byte
}

func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

// Issue mints a signed credential for the user, expiring after ttl.
// It fails only when the signing secret is missing, which is a deployment
// fault rather than a caller fault.
func (tc *TokenCodec) Issue(user *domain.User, ttl time.Duration) (string, error) {
	if len(tc.secret) == 0 {
		return "", ErrNoSigningSecret
	}

	now := time.Now().UTC()
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(tc.secret)
}

// Verify parses and validates a credential, returning its claims.
// The three failure classes (malformed, expired, bad signature) are
// distinguishable for logging; callers must treat all of them as a deny.
func (tc *TokenCodec) Verify(token string) (*Claims, error) {
	if len(tc.secret) == 0 {
		return nil, ErrNoSigningSecret
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return tc.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenSignatureInvalid
		default:
			return nil, ErrTokenMalformed
		}
	}
	if !parsed.Valid {
		return nil, ErrTokenSignatureInvalid
	}

	return claims, nil
}
