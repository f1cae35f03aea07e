package store

import (
	"context"
	"testing"
	"time"

	"github.com/devraider/dataroom/internal/core"
)

func TestMemoryUserStore_FindOrCreate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryUserStore()

	if _, err := s.FindByGoogleID(ctx, "google-123"); err != core.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	u := &core.User{GoogleUserID: "google-123", Email: "frodo@shire.example", FullName: "Frodo Baggins"}
	if err := s.Create(ctx, u); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if u.ID == 0 {
		t.Fatal("expected ID to be assigned")
	}

	found, err := s.FindByGoogleID(ctx, "google-123")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if found.ID != u.ID || found.Email != u.Email {
		t.Fatalf("found user mismatch: %+v", found)
	}

	dup := &core.User{GoogleUserID: "google-123", Email: "other@shire.example"}
	if err := s.Create(ctx, dup); err != core.ErrDuplicate {
		t.Fatalf("expected ErrDuplicate for same google id, got %v", err)
	}
	dupMail := &core.User{GoogleUserID: "google-456", Email: "frodo@shire.example"}
	if err := s.Create(ctx, dupMail); err != core.ErrDuplicate {
		t.Fatalf("expected ErrDuplicate for same email, got %v", err)
	}
}

func TestMemoryRevocationStore_RecordAndCheck(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryRevocationStore()
	exp := time.Now().Add(time.Hour)

	revoked, err := s.IsRevoked(ctx, "token-a")
	if err != nil || revoked {
		t.Fatalf("fresh store should report not revoked, got %v %v", revoked, err)
	}

	if err := s.Record(ctx, "token-a", 1, exp); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	// recording twice is a no-op
	if err := s.Record(ctx, "token-a", 1, exp); err != nil {
		t.Fatalf("repeated record failed: %v", err)
	}

	revoked, err = s.IsRevoked(ctx, "token-a")
	if err != nil || !revoked {
		t.Fatalf("expected token-a revoked, got %v %v", revoked, err)
	}

	// the check is an exact string match, not a prefix or claim match
	revoked, _ = s.IsRevoked(ctx, "token-a ")
	if revoked {
		t.Fatal("near-identical token must not be considered revoked")
	}
}

func TestMemoryRevocationStore_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryRevocationStore()
	now := time.Now()

	if err := s.Record(ctx, "expired", 1, now.Add(-time.Minute)); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := s.Record(ctx, "boundary", 1, now); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := s.Record(ctx, "live", 1, now.Add(time.Hour)); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	// expires_at <= now counts as expired
	deleted, err := s.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if deleted != 2 {
		t.Fatalf("expected 2 deleted, got %d", deleted)
	}

	// second sweep with the same clock is a no-op
	deleted, err = s.DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if deleted != 0 {
		t.Fatalf("expected 0 deleted on repeat sweep, got %d", deleted)
	}

	revoked, _ := s.IsRevoked(ctx, "live")
	if !revoked {
		t.Fatal("sweep must never delete unexpired entries")
	}
}

func TestMemoryWorkspaceStore_CreatorIsAdmin(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryWorkspaceStore()

	ws := &core.Workspace{Name: "due-diligence"}
	if err := s.Create(ctx, ws, 7); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	role, err := s.MemberRole(ctx, ws.ID, 7)
	if err != nil {
		t.Fatalf("member role failed: %v", err)
	}
	if role != core.RoleAdmin {
		t.Fatalf("expected creator to be admin, got %q", role)
	}

	if _, err := s.MemberRole(ctx, ws.ID, 8); err != core.ErrNotFound {
		t.Fatalf("expected ErrNotFound for non-member, got %v", err)
	}
}

func TestMemoryWorkspaceStore_Members(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryWorkspaceStore()

	ws := &core.Workspace{Name: "acme"}
	if err := s.Create(ctx, ws, 1); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	m := &core.WorkspaceMember{WorkspaceID: ws.ID, UserID: 2, Role: core.RoleMember}
	if err := s.AddMember(ctx, m); err != nil {
		t.Fatalf("add member failed: %v", err)
	}
	if err := s.AddMember(ctx, m); err != core.ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	members, err := s.ListMembers(ctx, ws.ID)
	if err != nil {
		t.Fatalf("list members failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}

	if err := s.RemoveMember(ctx, ws.ID, 2); err != nil {
		t.Fatalf("remove member failed: %v", err)
	}
	if err := s.RemoveMember(ctx, ws.ID, 2); err != core.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	list, err := s.ListForUser(ctx, 2)
	if err != nil {
		t.Fatalf("list for user failed: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("removed member should no longer see workspace, got %d", len(list))
	}
}

func TestMemoryFileStore_Scoping(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryFileStore()

	a := &core.File{WorkspaceID: 1, Name: "pitch.pdf", Size: 100, UploadedBy: 1}
	b := &core.File{WorkspaceID: 2, Name: "contract.pdf", Size: 200, UploadedBy: 2}
	if err := s.Create(ctx, a); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := s.Create(ctx, b); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	files, err := s.ListByWorkspace(ctx, 1)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(files) != 1 || files[0].Name != "pitch.pdf" {
		t.Fatalf("unexpected listing: %+v", files)
	}

	if err := s.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := s.FindByID(ctx, a.ID); err != core.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
