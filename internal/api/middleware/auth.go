package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/devraider/dataroom/internal/api/presenter"
	"github.com/devraider/dataroom/internal/core"
	"github.com/devraider/dataroom/internal/session"
)

const (
	principalKey = "principal"
	claimsKey    = "session_claims"
	rawTokenKey  = "session_token"
)

// Authenticator resolves a raw session token to its principal.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*core.User, *session.Claims, error)
}

// PrincipalCtx retrieves the authenticated user from the context.
func PrincipalCtx(ctx context.Context) *core.User {
	u, _ := ctx.Value(principalKey).(*core.User)
	return u
}

// ClaimsCtx retrieves the verified session claims from the context.
func ClaimsCtx(ctx context.Context) *session.Claims {
	c, _ := ctx.Value(claimsKey).(*session.Claims)
	return c
}

// RawTokenCtx retrieves the exact encoded token the request presented.
func RawTokenCtx(ctx context.Context) string {
	t, _ := ctx.Value(rawTokenKey).(string)
	return t
}

// SessionAuth guards routes behind a valid session token.
//
// A request without credentials gets a 403; a request with bad credentials
// gets a 401. Revocation is the only rejection a caller can tell apart,
// every other failure reads the same.
func SessionAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			scheme, raw, found := strings.Cut(header, " ")
			if header == "" || !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
				presenter.Error(w, r, "authorization required", http.StatusForbidden)
				return
			}
			raw = strings.TrimSpace(raw)

			user, claims, err := auth.Authenticate(r.Context(), raw)
			if err != nil {
				switch {
				case errors.Is(err, core.ErrTokenRevoked):
					w.Header().Set("WWW-Authenticate", "Bearer")
					presenter.Error(w, r, "token has been revoked", http.StatusUnauthorized)
				case errors.Is(err, core.ErrInvalidToken), errors.Is(err, core.ErrUnknownPrincipal):
					w.Header().Set("WWW-Authenticate", "Bearer")
					presenter.Error(w, r, "invalid or expired token", http.StatusUnauthorized)
				default:
					log.Ctx(r.Context()).Error().Err(err).Msg("authentication failed")
					presenter.Error(w, r, "internal server error", http.StatusInternalServerError)
				}
				return
			}

			ctx := context.WithValue(r.Context(), principalKey, user)
			ctx = context.WithValue(ctx, claimsKey, claims)
			ctx = context.WithValue(ctx, rawTokenKey, raw)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
