package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every verification failure: bad signature,
// expired, malformed, missing claims, or wrong token class. Callers must not
// be able to tell these apart from the returned error; the underlying cause
// is wrapped for server-side logging only.
var ErrInvalidToken = errors.New("invalid token")

// Class distinguishes the two token kinds the codec issues.
type Class string

const (
	// ClassAccess is the short-lived token presented on protected routes.
	// Access tokens carry no type marker in their claims.
	ClassAccess Class = ""
	// ClassRefresh is the long-lived token accepted only by the refresh
	// operation, marked with an explicit "refresh" claim.
	ClassRefresh Class = "refresh"
)

// Claims are the fields encoded inside every issued token.
type Claims struct {
	jwt.RegisteredClaims
	Email     string `json:"email"`
	TokenType string `json:"type,omitempty"`
}

// Codec mints and verifies signed bearer tokens.
type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewCodec creates a Codec signing with the given secret.
func NewCodec(secret string, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// IssueAccessToken encodes and signs an access token for the given subject.
// Returns the token string and its lifetime in seconds.
func (c *Codec) IssueAccessToken(subjectID, email string) (string, int64, error) {
	tok, err := c.issue(subjectID, email, ClassAccess, c.accessTTL)
	if err != nil {
		return "", 0, err
	}
	return tok, int64(c.accessTTL.Seconds()), nil
}

// IssueRefreshToken encodes and signs a refresh token for the given subject.
func (c *Codec) IssueRefreshToken(subjectID, email string) (string, error) {
	return c.issue(subjectID, email, ClassRefresh, c.refreshTTL)
}

func (c *Codec) issue(subjectID, email string, class Class, ttl time.Duration) (string, error) {
	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:     email,
		TokenType: string(class),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}

	return signed, nil
}

// Verify checks signature, expiry, required claims, and that the token's
// class matches the expected one. Any failure yields ErrInvalidToken.
func (c *Codec) Verify(tokenString string, expected Class) (*Claims, error) {
	claims := &Claims{}

	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !tok.Valid {
		return nil, ErrInvalidToken
	}

	// Reject tokens with absent required claims rather than defaulting.
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing required claims", ErrInvalidToken)
	}

	if Class(claims.TokenType) != expected {
		return nil, fmt.Errorf("%w: unexpected token class", ErrInvalidToken)
	}

	return claims, nil
}
