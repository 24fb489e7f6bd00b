package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingSubject is returned for tokens without a sub claim
	ErrMissingSubject = errors.New("token has no subject")

	// ErrUnexpectedKey is returned when a token names a key that cannot be resolved
	ErrUnexpectedKey = errors.New("no verification key for token")
)

// Claims are the JWT claims SkillLog reads. Subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// KeyFetcher resolves the public key for an asymmetric token by key id.
type KeyFetcher interface {
	FetchPublicKey(ctx context.Context, kid string) (interface{}, error)
}

// Verifier validates bearer tokens. Tokens without a kid are checked as HS256
// against the shared secret; tokens with a kid must be RS256 or ES256 and are
// checked against keys. A kid never falls back to the shared secret.
type Verifier struct {
	keys   KeyFetcher
	issuer string
	secret []byte
	leeway time.Duration
}

// NewVerifier creates a verifier. keys may be nil to accept HS256 only; an
// empty issuer skips the iss check.
func NewVerifier(secret []byte, issuer string, keys KeyFetcher) *Verifier {
	return &Verifier{
		secret: secret,
		issuer: issuer,
		keys:   keys,
		leeway: 30 * time.Second,
	}
}

// Verify parses and validates tokenString and returns its claims.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	tokenString = strings.TrimSpace(strings.TrimPrefix(tokenString, "Bearer "))

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "RS256", "ES256"}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return v.keyFor(ctx, token)
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}

	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}

func (v *Verifier) keyFor(ctx context.Context, token *jwt.Token) (interface{}, error) {
	kid, _ := token.Header["kid"].(string)

	if kid == "" {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %s token without kid", ErrUnexpectedKey, token.Method.Alg())
		}
		if len(v.secret) == 0 {
			return nil, fmt.Errorf("%w: no shared secret configured", ErrUnexpectedKey)
		}
		return v.secret, nil
	}

	switch token.Method.(type) {
	case *jwt.SigningMethodRSA, *jwt.SigningMethodECDSA:
	default:
		return nil, fmt.Errorf("%w: %s token with kid", ErrUnexpectedKey, token.Method.Alg())
	}
	if v.keys == nil {
		return nil, fmt.Errorf("%w: no key set configured", ErrUnexpectedKey)
	}
	return v.keys.FetchPublicKey(ctx, kid)
}

// NewToken signs an HS256 token for subject. Used by development tooling and tests.
func NewToken(secret []byte, issuer, subject, email, role string, ttl time.Duration) (string, error) {
	return SignToken(jwt.SigningMethodHS256, secret, "", issuer, subject, email, role, ttl)
}

// SignToken signs a token with method and key. A non-empty kid is written to
// the header so verifiers look the public key up in their key set.
func SignToken(method jwt.SigningMethod, key interface{}, kid, issuer, subject, email, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Role:  role,
	}
	token := jwt.NewWithClaims(method, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
