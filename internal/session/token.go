package session

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that cannot be turned into an identity.
var ErrInvalidToken = errors.New("invalid session token")

// TokenQueryParam is the URL query parameter carrying a session token.
const TokenQueryParam = "token"

// Resolver turns a raw session token into an Identity.
type Resolver interface {
	Resolve(ctx context.Context, token string) (Identity, error)
}

// TokenResolver reads the user id from a JWT. With a secret the signature is
// verified (HMAC only); without one the claims are trusted as issued by the
// commerce backend, and only expiry is checked.
type TokenResolver struct {
	secret []byte
	now    func() time.Time
}

// NewTokenResolver creates a resolver. An empty secret disables signature checks.
func NewTokenResolver(secret string) *TokenResolver {
	r := &TokenResolver{now: time.Now}
	if secret != "" {
		r.secret = []byte(secret)
	}
	return r
}

// Resolve implements Resolver. An empty token resolves to Anonymous.
func (r *TokenResolver) Resolve(ctx context.Context, token string) (Identity, error) {
	if err := ctx.Err(); err != nil {
		return Anonymous, err
	}
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return Anonymous, nil
	}

	claims := jwt.MapClaims{}
	if r.secret != nil {
		parser := jwt.NewParser(
			jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
			jwt.WithTimeFunc(r.now),
		)
		if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return r.secret, nil
		}); err != nil {
			return Anonymous, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return Anonymous, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		exp, err := claims.GetExpirationTime()
		if err != nil {
			return Anonymous, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		if exp != nil && r.now().After(exp.Time) {
			return Anonymous, fmt.Errorf("%w: token is expired", ErrInvalidToken)
		}
	}

	userID, err := userIDFromClaims(claims)
	if err != nil {
		return Anonymous, err
	}
	return Identity{UserID: userID}, nil
}

// userIDFromClaims prefers "user_id" and falls back to the subject.
func userIDFromClaims(claims jwt.MapClaims) (string, error) {
	if v, ok := claims["user_id"].(string); ok && v != "" {
		return v, nil
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("%w: no user id claim", ErrInvalidToken)
	}
	return sub, nil
}

// TokenFromURL extracts the session token from the query of rawURL.
// It returns "" when the URL has no token parameter.
func TokenFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	return u.Query().Get(TokenQueryParam), nil
}
