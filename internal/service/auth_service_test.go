package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/devraider/dataroom/internal/audit"
	"github.com/devraider/dataroom/internal/core"
	"github.com/devraider/dataroom/internal/session"
	"github.com/devraider/dataroom/internal/store"
)

type stubIssuer struct {
	identity *core.ExternalIdentity
	err      error
}

func (s *stubIssuer) Name() string { return "google" }

func (s *stubIssuer) Verify(_ context.Context, _ string) (*core.ExternalIdentity, error) {
	return s.identity, s.err
}

// duplicateOnCreate simulates a concurrent first login: the first Create
// loses the race and the user appears in the store as if inserted by the
// winning request.
type duplicateOnCreate struct {
	core.UserStore
	inner *store.MemoryUserStore
}

func (d *duplicateOnCreate) Create(ctx context.Context, u *core.User) error {
	winner := *u
	if err := d.inner.Create(ctx, &winner); err != nil {
		return err
	}
	return core.ErrDuplicate
}

func newTestAuthService(t *testing.T, issuer core.Issuer) (*AuthService, *store.MemoryUserStore, *store.MemoryRevocationStore) {
	t.Helper()
	codec, err := session.New("test-secret", "HS256", 30*time.Minute)
	if err != nil {
		t.Fatalf("creating codec: %v", err)
	}
	users := store.NewMemoryUserStore()
	revocations := store.NewMemoryRevocationStore()
	svc := NewAuthService(issuer, users, revocations, codec, audit.NewNoopAuditor())
	return svc, users, revocations
}

func asHTTPError(t *testing.T, err error) *HTTPError {
	t.Helper()
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %T: %v", err, err)
	}
	return httpErr
}

func TestAuthService_Login_CreatesAndFinds(t *testing.T) {
	ctx := context.Background()
	issuer := &stubIssuer{identity: &core.ExternalIdentity{
		Subject: "google-1",
		Email:   "sam@shire.example",
		Name:    "Samwise Gamgee",
	}}
	svc, _, _ := newTestAuthService(t, issuer)

	// first login creates the account
	resp, err := svc.Login(ctx, LoginRequest{Credential: "anything"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !resp.Created {
		t.Fatal("first login should create the account")
	}
	if resp.User.Email != "sam@shire.example" {
		t.Fatalf("unexpected user: %+v", resp.User)
	}
	if resp.Token == "" || !resp.ExpiresAt.After(time.Now()) {
		t.Fatalf("expected a live token, got %q exp %v", resp.Token, resp.ExpiresAt)
	}

	// second login resolves the same account
	again, err := svc.Login(ctx, LoginRequest{Credential: "anything"})
	if err != nil {
		t.Fatalf("second login failed: %v", err)
	}
	if again.Created {
		t.Fatal("second login must not create a new account")
	}
	if again.User.ID != resp.User.ID {
		t.Fatalf("expected same user, got %d and %d", resp.User.ID, again.User.ID)
	}
}

func TestAuthService_Login_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		issuerErr  error
		wantStatus int
	}{
		{"invalid credential", core.ErrInvalidCredential, http.StatusUnauthorized},
		{"unverified email", core.ErrEmailNotVerified, http.StatusBadRequest},
		{"missing email", core.ErrEmailMissing, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestAuthService(t, &stubIssuer{err: tt.issuerErr})
			_, err := svc.Login(context.Background(), LoginRequest{Credential: "bad"})
			if got := asHTTPError(t, err).StatusCode; got != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, got)
			}
		})
	}
}

func TestAuthService_Login_DuplicateRace(t *testing.T) {
	ctx := context.Background()
	issuer := &stubIssuer{identity: &core.ExternalIdentity{
		Subject: "google-2",
		Email:   "merry@shire.example",
	}}
	svc, users, _ := newTestAuthService(t, issuer)
	svc.users = &duplicateOnCreate{UserStore: users, inner: users}

	resp, err := svc.Login(ctx, LoginRequest{Credential: "anything"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if resp.Created {
		t.Fatal("race loser must report the account as found, not created")
	}
	if resp.User.ID == 0 {
		t.Fatal("expected the winner's row to be resolved")
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	issuer := &stubIssuer{identity: &core.ExternalIdentity{
		Subject: "google-3",
		Email:   "pippin@shire.example",
	}}
	svc, _, _ := newTestAuthService(t, issuer)

	resp, err := svc.Login(ctx, LoginRequest{Credential: "anything"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	user, claims, err := svc.Authenticate(ctx, resp.Token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if user.ID != resp.User.ID || claims.UserID != resp.User.ID {
		t.Fatalf("principal mismatch: %+v / %+v", user, claims)
	}

	if _, _, err := svc.Authenticate(ctx, "not-a-token"); !errors.Is(err, core.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthService_Authenticate_Expired(t *testing.T) {
	ctx := context.Background()
	issuer := &stubIssuer{identity: &core.ExternalIdentity{
		Subject: "google-4",
		Email:   "bilbo@shire.example",
	}}
	svc, _, _ := newTestAuthService(t, issuer)

	resp, err := svc.Login(ctx, LoginRequest{Credential: "anything"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// advance the clock to exactly the expiry instant
	svc.now = func() time.Time { return resp.ExpiresAt }
	if _, _, err := svc.Authenticate(ctx, resp.Token); !errors.Is(err, core.ErrInvalidToken) {
		t.Fatalf("token at its expiry instant must be rejected, got %v", err)
	}
}

func TestAuthService_Authenticate_DeletedUser(t *testing.T) {
	ctx := context.Background()
	codec, err := session.New("test-secret", "HS256", 30*time.Minute)
	if err != nil {
		t.Fatalf("creating codec: %v", err)
	}
	svc := NewAuthService(&stubIssuer{}, store.NewMemoryUserStore(),
		store.NewMemoryRevocationStore(), codec, audit.NewNoopAuditor())

	// a well-signed token for a principal that does not exist
	token, _, err := codec.Issue(999, "ghost@shire.example", time.Now())
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, _, err := svc.Authenticate(ctx, token); !errors.Is(err, core.ErrUnknownPrincipal) {
		t.Fatalf("expected ErrUnknownPrincipal, got %v", err)
	}
}

func TestAuthService_LogoutRevokes(t *testing.T) {
	ctx := context.Background()
	issuer := &stubIssuer{identity: &core.ExternalIdentity{
		Subject: "google-5",
		Email:   "gimli@erebor.example",
	}}
	svc, _, _ := newTestAuthService(t, issuer)

	resp, err := svc.Login(ctx, LoginRequest{Credential: "anything"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	_, claims, err := svc.Authenticate(ctx, resp.Token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}

	if err := svc.Logout(ctx, resp.Token, claims); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, _, err := svc.Authenticate(ctx, resp.Token); !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked after logout, got %v", err)
	}

	// logging out the same token again is a no-op
	if err := svc.Logout(ctx, resp.Token, claims); err != nil {
		t.Fatalf("repeated logout failed: %v", err)
	}

	// a fresh login still works; revocation pins the token, not the user
	again, err := svc.Login(ctx, LoginRequest{Credential: "anything"})
	if err != nil {
		t.Fatalf("re-login failed: %v", err)
	}
	if _, _, err := svc.Authenticate(ctx, again.Token); err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}
}

func TestAuthService_SweepRevocations(t *testing.T) {
	ctx := context.Background()
	issuer := &stubIssuer{identity: &core.ExternalIdentity{
		Subject: "google-6",
		Email:   "legolas@mirkwood.example",
	}}
	svc, _, revocations := newTestAuthService(t, issuer)

	resp, err := svc.Login(ctx, LoginRequest{Credential: "anything"})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	_, claims, err := svc.Authenticate(ctx, resp.Token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if err := svc.Logout(ctx, resp.Token, claims); err != nil {
		t.Fatalf("logout failed: %v", err)
	}

	// nothing to prune while the token is still live
	deleted, err := svc.SweepRevocations(ctx)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("expected 0 pruned, got %d", deleted)
	}

	// past the token expiry the entry goes away, and the token stays dead
	// because the codec rejects it on its own
	svc.now = func() time.Time { return resp.ExpiresAt.Add(time.Second) }
	deleted, err = svc.SweepRevocations(ctx)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 pruned, got %d", deleted)
	}
	revoked, _ := revocations.IsRevoked(ctx, resp.Token)
	if revoked {
		t.Fatal("entry should be gone after the sweep")
	}
	if _, _, err := svc.Authenticate(ctx, resp.Token); !errors.Is(err, core.ErrInvalidToken) {
		t.Fatalf("expired token must still be rejected, got %v", err)
	}
}
