package service

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/devraider/dataroom/internal/audit"
	"github.com/devraider/dataroom/internal/core"
	"github.com/devraider/dataroom/internal/storage"
	"github.com/devraider/dataroom/internal/store"
)

type fileFixture struct {
	files      *FileService
	workspaces *WorkspaceService
	users      *store.MemoryUserStore
	owner      *core.User
	member     *core.User
	stranger   *core.User
	ws         *core.Workspace
}

func newFileFixture(t *testing.T) *fileFixture {
	t.Helper()
	ctx := context.Background()

	users := store.NewMemoryUserStore()
	workspaces := store.NewMemoryWorkspaceStore()
	blobs, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating blob store: %v", err)
	}

	fx := &fileFixture{
		files:      NewFileService(store.NewMemoryFileStore(), workspaces, blobs),
		workspaces: NewWorkspaceService(workspaces, users, audit.NewNoopAuditor()),
		users:      users,
		owner:      seedUser(t, users, "g-1", "owner@acme.example"),
		member:     seedUser(t, users, "g-2", "member@acme.example"),
		stranger:   seedUser(t, users, "g-3", "stranger@acme.example"),
	}

	fx.ws, err = fx.workspaces.Create(ctx, fx.owner.ID, "deal-room", "")
	if err != nil {
		t.Fatalf("creating workspace: %v", err)
	}
	if _, err := fx.workspaces.AddMember(ctx, fx.owner.ID, fx.ws.ID, fx.member.Email, core.RoleMember); err != nil {
		t.Fatalf("adding member: %v", err)
	}
	return fx
}

func (fx *fileFixture) upload(t *testing.T, userID int64, name, content string) *core.File {
	t.Helper()
	f, err := fx.files.Upload(context.Background(), userID, UploadRequest{
		WorkspaceID: fx.ws.ID,
		Name:        name,
		MimeType:    "text/plain",
		Content:     strings.NewReader(content),
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	return f
}

func TestFileService_UploadAndDownload(t *testing.T) {
	ctx := context.Background()
	fx := newFileFixture(t)

	f := fx.upload(t, fx.member.ID, "pitch.txt", "ten slides")
	if f.Size != int64(len("ten slides")) || f.UploadedBy != fx.member.ID {
		t.Fatalf("unexpected metadata: %+v", f)
	}

	got, rc, err := fx.files.Download(ctx, fx.owner.ID, f.ID)
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(data) != "ten slides" || got.Name != "pitch.txt" {
		t.Fatalf("round-trip mismatch: %q %+v", data, got)
	}
}

func TestFileService_StripsClientPaths(t *testing.T) {
	fx := newFileFixture(t)

	f := fx.upload(t, fx.member.ID, "../../etc/passwd", "not really")
	if f.Name != "passwd" {
		t.Fatalf("expected path-stripped name, got %q", f.Name)
	}

	_, err := fx.files.Upload(context.Background(), fx.member.ID, UploadRequest{
		WorkspaceID: fx.ws.ID,
		Name:        "  ",
		Content:     strings.NewReader("x"),
	})
	if asHTTPError(t, err).StatusCode != http.StatusBadRequest {
		t.Fatalf("blank name must be rejected, got %v", err)
	}
}

func TestFileService_WorkspaceScoping(t *testing.T) {
	ctx := context.Background()
	fx := newFileFixture(t)
	f := fx.upload(t, fx.owner.ID, "contract.txt", "terms")

	// strangers see neither the listing nor the file
	_, err := fx.files.List(ctx, fx.stranger.ID, fx.ws.ID)
	if asHTTPError(t, err).StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 listing for stranger, got %v", err)
	}
	_, err = fx.files.Get(ctx, fx.stranger.ID, f.ID)
	if asHTTPError(t, err).StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 get for stranger, got %v", err)
	}
	_, err = fx.files.Upload(ctx, fx.stranger.ID, UploadRequest{
		WorkspaceID: fx.ws.ID,
		Name:        "sneaky.txt",
		Content:     strings.NewReader("x"),
	})
	if asHTTPError(t, err).StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 upload for stranger, got %v", err)
	}

	files, err := fx.files.List(ctx, fx.member.ID, fx.ws.ID)
	if err != nil {
		t.Fatalf("member listing failed: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
}

func TestFileService_DeleteRules(t *testing.T) {
	ctx := context.Background()
	fx := newFileFixture(t)
	f := fx.upload(t, fx.member.ID, "draft.txt", "wip")

	// another plain member could not delete it, but here the other party is
	// the workspace admin, which is allowed
	other := fx.upload(t, fx.owner.ID, "admin-file.txt", "x")
	err := fx.files.Delete(ctx, fx.member.ID, other.ID)
	if asHTTPError(t, err).StatusCode != http.StatusForbidden {
		t.Fatalf("member deleting another's file must fail, got %v", err)
	}

	// uploader deletes own file
	if err := fx.files.Delete(ctx, fx.member.ID, f.ID); err != nil {
		t.Fatalf("uploader delete failed: %v", err)
	}
	_, err = fx.files.Get(ctx, fx.member.ID, f.ID)
	if asHTTPError(t, err).StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %v", err)
	}

	// admin deletes anyone's file
	again := fx.upload(t, fx.member.ID, "draft2.txt", "wip")
	if err := fx.files.Delete(ctx, fx.owner.ID, again.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
}
