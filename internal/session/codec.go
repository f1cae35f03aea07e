// Package session issues and verifies self-signed, time-bounded session
// tokens. The codec is stateless: revocation is checked elsewhere.
package session

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/devraider/dataroom/internal/core"
)

const issuerName = "dataroom"

// Claims are the verified contents of a session token.
type Claims struct {
	UserID    int64
	Email     string
	ExpiresAt time.Time
}

// Codec signs and verifies session tokens with a shared HMAC secret.
type Codec struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// New creates a Codec. algorithm must be one of the HMAC family
// (HS256, HS384, HS512).
func New(secret, algorithm string, ttl time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("signing secret must not be empty")
	}
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not an HMAC method", algorithm)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive")
	}
	return &Codec{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
	}, nil
}

// TTL returns the configured token lifetime.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue builds and signs a session token for the given principal.
func (c *Codec) Issue(userID int64, email string, now time.Time) (string, time.Time, error) {
	exp := now.Add(c.ttl)

	claims := jwt.MapClaims{
		"iss":   issuerName,
		"sub":   strconv.FormatInt(userID, 10),
		"email": email,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}

	token := jwt.NewWithClaims(c.method, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing session token: %w", err)
	}
	return signed, exp, nil
}

// Verify decodes the token and checks signature and expiry in one step,
// using the supplied clock. Expiry is strict: a token whose exp equals now
// is already expired. Every failure collapses to core.ErrInvalidToken so
// callers cannot distinguish why a token was rejected.
func (c *Codec) Verify(raw string, now time.Time) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	token, err := parser.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, core.ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, core.ErrInvalidToken
	}

	sub, err := mapClaims.GetSubject()
	if err != nil || sub == "" {
		return nil, core.ErrInvalidToken
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return nil, core.ErrInvalidToken
	}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, core.ErrInvalidToken
	}

	email, _ := mapClaims["email"].(string)

	return &Claims{
		UserID:    userID,
		Email:     email,
		ExpiresAt: exp.Time,
	}, nil
}
