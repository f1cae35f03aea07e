package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/devraider/dataroom/internal/audit"
	"github.com/devraider/dataroom/internal/core"
	"github.com/devraider/dataroom/internal/store"
)

func newTestWorkspaceService(t *testing.T) (*WorkspaceService, *store.MemoryUserStore) {
	t.Helper()
	users := store.NewMemoryUserStore()
	svc := NewWorkspaceService(store.NewMemoryWorkspaceStore(), users, audit.NewNoopAuditor())
	return svc, users
}

func seedUser(t *testing.T, users *store.MemoryUserStore, sub, email string) *core.User {
	t.Helper()
	u := &core.User{GoogleUserID: sub, Email: email}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return u
}

func TestWorkspaceService_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestWorkspaceService(t)
	owner := seedUser(t, users, "g-1", "owner@acme.example")
	stranger := seedUser(t, users, "g-2", "stranger@acme.example")

	if _, err := svc.Create(ctx, owner.ID, "  ", ""); asHTTPError(t, err).StatusCode != http.StatusBadRequest {
		t.Fatal("blank name must be rejected")
	}

	ws, err := svc.Create(ctx, owner.ID, "deal-room", "q3 fundraise")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := svc.Get(ctx, owner.ID, ws.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Name != "deal-room" {
		t.Fatalf("unexpected workspace: %+v", got)
	}

	// non-members cannot tell the workspace exists
	_, err = svc.Get(ctx, stranger.ID, ws.ID)
	if asHTTPError(t, err).StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for non-member, got %v", err)
	}
}

func TestWorkspaceService_AdminOnlyWrites(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestWorkspaceService(t)
	owner := seedUser(t, users, "g-1", "owner@acme.example")
	member := seedUser(t, users, "g-2", "member@acme.example")

	ws, err := svc.Create(ctx, owner.ID, "deal-room", "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.AddMember(ctx, owner.ID, ws.ID, member.Email, core.RoleMember); err != nil {
		t.Fatalf("add member failed: %v", err)
	}

	// plain members may read but not write
	if _, err := svc.Get(ctx, member.ID, ws.ID); err != nil {
		t.Fatalf("member read failed: %v", err)
	}
	_, err = svc.Update(ctx, member.ID, ws.ID, "renamed", "")
	if asHTTPError(t, err).StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for member write, got %v", err)
	}
	err = svc.Delete(ctx, member.ID, ws.ID)
	if asHTTPError(t, err).StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for member delete, got %v", err)
	}

	if _, err := svc.Update(ctx, owner.ID, ws.ID, "renamed", "new desc"); err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	if err := svc.Delete(ctx, owner.ID, ws.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
}

func TestWorkspaceService_Members(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestWorkspaceService(t)
	owner := seedUser(t, users, "g-1", "owner@acme.example")
	member := seedUser(t, users, "g-2", "member@acme.example")

	ws, err := svc.Create(ctx, owner.ID, "deal-room", "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// inviting an unknown address fails
	_, err = svc.AddMember(ctx, owner.ID, ws.ID, "nobody@acme.example", core.RoleMember)
	if asHTTPError(t, err).StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown invitee, got %v", err)
	}

	// bad role fails
	_, err = svc.AddMember(ctx, owner.ID, ws.ID, member.Email, core.Role("owner"))
	if asHTTPError(t, err).StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad role, got %v", err)
	}

	m, err := svc.AddMember(ctx, owner.ID, ws.ID, member.Email, core.RoleMember)
	if err != nil {
		t.Fatalf("add member failed: %v", err)
	}
	if m.UserID != member.ID || m.Role != core.RoleMember {
		t.Fatalf("unexpected member: %+v", m)
	}

	// inviting twice conflicts
	_, err = svc.AddMember(ctx, owner.ID, ws.ID, member.Email, core.RoleMember)
	if asHTTPError(t, err).StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate invite, got %v", err)
	}

	members, err := svc.ListMembers(ctx, member.ID, ws.ID)
	if err != nil {
		t.Fatalf("list members failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}

	// members may leave on their own
	if err := svc.RemoveMember(ctx, member.ID, ws.ID, member.ID); err != nil {
		t.Fatalf("self-removal failed: %v", err)
	}
}

func TestWorkspaceService_LastAdminStays(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestWorkspaceService(t)
	owner := seedUser(t, users, "g-1", "owner@acme.example")

	ws, err := svc.Create(ctx, owner.ID, "deal-room", "")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err = svc.RemoveMember(ctx, owner.ID, ws.ID, owner.ID)
	if asHTTPError(t, err).StatusCode != http.StatusBadRequest {
		t.Fatalf("removing the last admin must fail, got %v", err)
	}
}
