package core

import "errors"

// Authentication taxonomy. Components normalize their internal failures into
// these sentinels; the service layer maps them to HTTP status codes.
var (
	// ErrInvalidCredential covers every way an external Google credential can
	// fail verification: signature, issuer, audience, expiry, malformed input,
	// provider unreachable. Wrap it with a human-readable reason.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrEmailNotVerified is returned when the credential verifies but the
	// account's email is not marked verified by Google.
	ErrEmailNotVerified = errors.New("email not verified")

	// ErrEmailMissing is returned when the credential verifies but carries no
	// email claim at all.
	ErrEmailMissing = errors.New("email not provided")

	// ErrInvalidToken covers every structural, signature, or expiry failure of
	// a session token. Deliberately carries no further detail.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenRevoked marks a token that was explicitly logged out.
	ErrTokenRevoked = errors.New("token has been revoked")

	// ErrUnknownPrincipal marks a valid token whose subject no longer exists.
	ErrUnknownPrincipal = errors.New("unknown principal")
)

// Storage errors.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate record")
)
