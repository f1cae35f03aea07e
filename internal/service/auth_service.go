package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/devraider/dataroom/internal/audit"
	"github.com/devraider/dataroom/internal/core"
	"github.com/devraider/dataroom/internal/session"
)

// AuthService handles the full session lifecycle: exchanging a Google
// credential for a session token, authenticating requests, and revocation.
type AuthService struct {
	issuer      core.Issuer
	users       core.UserStore
	revocations core.RevocationStore
	codec       *session.Codec
	auditor     core.Auditor
	now         func() time.Time
}

func NewAuthService(
	issuer core.Issuer,
	users core.UserStore,
	revocations core.RevocationStore,
	codec *session.Codec,
	auditor core.Auditor,
) *AuthService {
	return &AuthService{
		issuer:      issuer,
		users:       users,
		revocations: revocations,
		codec:       codec,
		auditor:     auditor,
		now:         time.Now,
	}
}

// Login verifies the external credential, resolves (or creates) the local
// principal and issues a session token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	logger := log.Ctx(ctx)
	reqID, _ := ctx.Value("correlation_id").(string)

	auditEntry := core.AuditEntry{
		ID:     reqID,
		Time:   s.now(),
		Action: "auth.login",
	}
	defer func() {
		if err := s.auditor.Log(auditEntry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log entry for login")
		}
	}()

	identity, err := s.issuer.Verify(ctx, req.Credential)
	if err != nil {
		auditEntry.Error = "credential verification failed"
		switch {
		case errors.Is(err, core.ErrEmailMissing), errors.Is(err, core.ErrEmailNotVerified):
			return nil, httpError(http.StatusBadRequest, err)
		default:
			return nil, httpError(http.StatusUnauthorized,
				fmt.Errorf("credential verification failed: %w", core.ErrInvalidCredential))
		}
	}

	logger.UpdateContext(func(c zerolog.Context) zerolog.Context {
		return c.Str("sub", identity.Subject)
	})

	user, created, err := s.resolvePrincipal(ctx, identity)
	if err != nil {
		auditEntry.Error = "principal resolution failed"
		return nil, httpError(http.StatusInternalServerError,
			fmt.Errorf("resolving principal: %w", err))
	}
	auditEntry.UserID = user.ID
	auditEntry.Email = user.Email

	token, expiresAt, err := s.codec.Issue(user.ID, user.Email, s.now())
	if err != nil {
		auditEntry.Error = "token issuance failed"
		return nil, httpError(http.StatusInternalServerError, err)
	}

	auditEntry.Success = true
	auditEntry.TokenFingerprint = audit.Fingerprint(token)
	auditEntry.Metadata = map[string]any{
		"issuer":       s.issuer.Name(),
		"created_user": created,
	}

	if created {
		logger.Info().Int64("user_id", user.ID).Msg("created account on first login")
	}

	return &LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
		Created:   created,
	}, nil
}

// resolvePrincipal finds the user linked to the external subject, creating it
// on first login. Two concurrent first logins race on the insert; the loser
// sees a duplicate and re-reads the winner's row.
func (s *AuthService) resolvePrincipal(ctx context.Context, identity *core.ExternalIdentity) (*core.User, bool, error) {
	user, err := s.users.FindByGoogleID(ctx, identity.Subject)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, false, err
	}

	user = &core.User{
		GoogleUserID: identity.Subject,
		Email:        identity.Email,
		FullName:     identity.Name,
		Picture:      identity.Picture,
	}
	err = s.users.Create(ctx, user)
	if err == nil {
		return user, true, nil
	}
	if !errors.Is(err, core.ErrDuplicate) {
		return nil, false, err
	}

	user, err = s.users.FindByGoogleID(ctx, identity.Subject)
	if err != nil {
		return nil, false, fmt.Errorf("re-reading after duplicate insert: %w", err)
	}
	return user, false, nil
}

// Authenticate validates a raw session token and resolves its principal.
// The revocation check runs on the exact encoded string, before any decoding,
// so even a token the codec would reject is refused once revoked.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*core.User, *session.Claims, error) {
	revoked, err := s.revocations.IsRevoked(ctx, raw)
	if err != nil {
		return nil, nil, fmt.Errorf("checking revocation: %w", err)
	}
	if revoked {
		return nil, nil, core.ErrTokenRevoked
	}

	claims, err := s.codec.Verify(raw, s.now())
	if err != nil {
		return nil, nil, core.ErrInvalidToken
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil, core.ErrUnknownPrincipal
	}
	if err != nil {
		return nil, nil, fmt.Errorf("resolving principal: %w", err)
	}
	return user, claims, nil
}

// Logout revokes the presented session token. The entry inherits the token's
// own expiry so the sweep can drop it once the codec would reject it anyway.
func (s *AuthService) Logout(ctx context.Context, raw string, claims *session.Claims) error {
	logger := log.Ctx(ctx)
	reqID, _ := ctx.Value("correlation_id").(string)

	auditEntry := core.AuditEntry{
		ID:               reqID,
		Time:             s.now(),
		Action:           "auth.logout",
		UserID:           claims.UserID,
		Email:            claims.Email,
		TokenFingerprint: audit.Fingerprint(raw),
	}
	defer func() {
		if err := s.auditor.Log(auditEntry); err != nil {
			logger.Error().Err(err).Msg("failed to write audit log entry for logout")
		}
	}()

	if err := s.revocations.Record(ctx, raw, claims.UserID, claims.ExpiresAt); err != nil {
		auditEntry.Error = "recording revocation failed"
		return httpError(http.StatusInternalServerError,
			fmt.Errorf("recording revocation: %w", err))
	}

	auditEntry.Success = true
	return nil
}

// SweepRevocations prunes revocation entries whose tokens have expired.
// Run at startup and on an interval by the background task manager.
func (s *AuthService) SweepRevocations(ctx context.Context) (int64, error) {
	deleted, err := s.revocations.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("sweeping revocations: %w", err)
	}
	if deleted > 0 {
		log.Ctx(ctx).Info().Int64("deleted", deleted).Msg("pruned expired revocation entries")
	}
	return deleted, nil
}
