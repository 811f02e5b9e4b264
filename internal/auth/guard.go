// Package auth resolves the caller's identity from an inbound request.
//
// The identity provider itself (Google sign-in, account linking, refresh)
// lives outside this service. What reaches us is a signed session token;
// Guard verifies it and yields the identity it carries, an email address.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthenticated is returned by Guard.Identity when the request carries
// no valid session or the session has no identity claim.
var ErrUnauthenticated = errors.New("unauthenticated")

// Guard resolves the verified identity of the caller of r.
// Implementations return ErrUnauthenticated (possibly wrapped) when no
// identity can be established.
type Guard interface {
	Identity(r *http.Request) (string, error)
}

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	jwt.RegisteredClaims
	// Email is the identity of the signed-in user.
	Email string `json:"email"`
}

// issuer is stamped on tokens minted by Issue. It is not required on
// verification, so tokens minted by the identity provider are accepted too.
const issuer = "trip-explorer"

// JWTGuard verifies HS256 session tokens signed with a shared secret.
// The token is read from the Authorization header ("Bearer <token>") and,
// failing that, from the session cookie.
type JWTGuard struct {
	secret []byte
	cookie string
}

// NewJWTGuard returns a JWTGuard that verifies tokens with secret and falls
// back to the named cookie when no Authorization header is present.
func NewJWTGuard(secret, cookieName string) *JWTGuard {
	return &JWTGuard{secret: []byte(secret), cookie: cookieName}
}

// Identity implements Guard.
func (g *JWTGuard) Identity(r *http.Request) (string, error) {
	raw := g.token(r)
	if raw == "" {
		return "", fmt.Errorf("auth.JWTGuard.Identity: no session token: %w", ErrUnauthenticated)
	}

	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(_ *jwt.Token) (any, error) {
		return g.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return "", fmt.Errorf("auth.JWTGuard.Identity: %w: %v", ErrUnauthenticated, err)
	}

	email := strings.TrimSpace(claims.Email)
	if email == "" {
		return "", fmt.Errorf("auth.JWTGuard.Identity: token has no email claim: %w", ErrUnauthenticated)
	}
	return email, nil
}

// Issue mints a session token for email that expires after ttl.
func (g *JWTGuard) Issue(email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("auth.JWTGuard.Issue: %w", err)
	}
	return signed, nil
}

// token extracts the raw token from the request, preferring the header.
func (g *JWTGuard) token(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
		return ""
	}
	if g.cookie == "" {
		return ""
	}
	c, err := r.Cookie(g.cookie)
	if err != nil {
		return ""
	}
	return c.Value
}

// contextKey is unexported so no other package can collide with it.
type contextKey struct{}

// WithIdentity returns a copy of ctx carrying the caller identity.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, contextKey{}, identity)
}

// IdentityFromContext returns the identity stored by WithIdentity.
// ok is false when there is none or it is empty.
func IdentityFromContext(ctx context.Context) (identity string, ok bool) {
	identity, _ = ctx.Value(contextKey{}).(string)
	return identity, identity != ""
}
