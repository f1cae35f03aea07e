package service

import (
	"time"

	"github.com/devraider/dataroom/internal/core"
)

type LoginRequest struct {
	// Credential is the raw Google ID token obtained by the client.
	Credential string
}

type LoginResponse struct {
	// Token is the issued session token.
	Token string

	// ExpiresAt is the session expiry.
	ExpiresAt time.Time

	// User is the resolved principal. First logins create it on the fly.
	User *core.User

	// Created reports whether this login created the account.
	Created bool
}
