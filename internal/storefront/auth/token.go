// Package auth issues and verifies bearer tokens and hashes passwords.
//
// Verification never fails with an error: it returns a tagged Result so the
// caller decides whether an anonymous or invalid caller is acceptable.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultTokenTTL applies when NewTokens gets a non-positive ttl.
const DefaultTokenTTL = 24 * time.Hour

// Status classifies the caller behind a request.
type Status int

const (
	Anonymous Status = iota
	Authenticated
	Invalid
)

func (s Status) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Invalid:
		return "invalid"
	default:
		return "anonymous"
	}
}

// Result is the outcome of verifying a presented token.
type Result struct {
	Status Status
	UserID string
	Reason string
}

func anonymous() Result { return Result{Status: Anonymous} }

func invalid(reason string) Result { return Result{Status: Invalid, Reason: reason} }

type claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 JWTs carrying a user id.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens signs with secret. Tokens expire ttl after issue.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token binding userID with an absolute expiry.
func (t *Tokens) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("auth: empty user id")
	}
	c := claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(t.now().Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify never fails: a missing token is Anonymous and a bad one is Invalid
// with the reason attached.
func (t *Tokens) Verify(raw string) Result {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return anonymous()
	}

	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return invalid("token expired")
	case errors.Is(err, jwt.ErrTokenMalformed):
		return invalid("token malformed")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return invalid("signature mismatch")
	default:
		return invalid("token rejected")
	}

	if c.ExpiresAt == nil {
		return invalid("token has no expiry")
	}
	if c.UserID == "" {
		return invalid("token has no user")
	}
	return Result{Status: Authenticated, UserID: c.UserID}
}

// ParseBearer extracts the token from an Authorization header value.
// A header that is not of the form "Bearer <token>" yields an empty token.
func ParseBearer(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
