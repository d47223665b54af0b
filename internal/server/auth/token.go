package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/facturio/facturio/internal/common"
	"github.com/facturio/facturio/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultAlgorithm is the signing algorithm used when none is configured.
const DefaultAlgorithm = "HS256"

// Claims is the JWT payload: the registered claims carry subject and expiry,
// plus a custom role claim.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// TokenData is the result of a successful validation: the identity name and
// role asserted by the token. It lives only for one authorization check.
type TokenData struct {
	Subject string
	Role    models.Role
}

// TokenCodec issues and validates signed, expiring session tokens. Tokens are
// stateless and self-verifying: validation is a pure function of the token,
// the secret and the clock, with no server-side session record. The trade-off
// is that tokens cannot be revoked before expiry.
type TokenCodec struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenCodec builds a codec from process configuration. An empty secret or
// an unsupported algorithm is a configuration error, fatal at startup.
func NewTokenCodec(secret, algorithm string, ttl time.Duration) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("token secret must not be empty")
	}

	if algorithm == "" {
		algorithm = DefaultAlgorithm
	}

	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm: %q", algorithm)
	}

	return &TokenCodec{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
	}, nil
}

// TTL returns the configured default token lifetime.
func (c *TokenCodec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token asserting subject and role with the default lifetime.
func (c *TokenCodec) Issue(subject string, role models.Role) (string, error) {
	return c.IssueWithTTL(subject, role, c.ttl)
}

// IssueWithTTL signs a token with an explicit lifetime.
func (c *TokenCodec) IssueWithTTL(subject string, role models.Role, ttl time.Duration) (string, error) {
	now := time.Now().UTC()

	token := jwt.NewWithClaims(c.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: string(role),
	})

	tokenString, err := token.SignedString(c.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Validate checks signature, algorithm and expiry, and decodes the claims.
// Expired tokens return common.ErrTokenExpired; every other failure (malformed
// structure, wrong signature, wrong algorithm, missing subject, unknown role)
// returns common.ErrInvalidToken. Callers collapse both into the same outward
// signal so the reason for rejection is never leaked.
func (c *TokenCodec) Validate(tokenString string) (*TokenData, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{c.method.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	role, ok := models.ParseRole(claims.Role)
	if !ok {
		return nil, common.ErrInvalidToken
	}

	return &TokenData{Subject: claims.Subject, Role: role}, nil
}
