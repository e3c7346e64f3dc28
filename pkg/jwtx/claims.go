package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the default lifetime for access tokens. Short-lived
// because tokens are not revocable before expiry.
const DefaultAccessTokenTTL = 15 * time.Minute

// Claims are the access-token claims. The numeric user id rides under a
// reserved "uid" claim so it can never collide with a business "id" field in
// anything that embeds these claims.
type Claims struct {
	jwt.RegisteredClaims

	// UID is the store-assigned numeric id of the subject user.
	UID int64 `json:"uid,omitempty"`

	// Permissions is the snapshot of permission tags granted at issuance.
	// Later permission changes never affect an already-issued token.
	Permissions []string `json:"permissions,omitempty"`
}

// NewAccessClaims builds minimally-correct claims for a user.
func NewAccessClaims(
	uid int64,
	permissions []string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(uid, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		UID:         uid,
		Permissions: permissions,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks if the issuer matches the expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used
// before it is valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}

// ValidateShape rejects tokens missing the claims every access token must
// carry. A well-signed token with no subject is still unusable.
func (c *Claims) ValidateShape() error {
	if c.Subject == "" || c.UID == 0 {
		return ErrInvalidClaim
	}
	if c.ExpiresAt == nil || c.IssuedAt == nil {
		return ErrInvalidClaim
	}
	return nil
}
