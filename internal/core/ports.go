package core

import (
	"context"
	"io"
	"time"
)

// Issuer verifies externally-issued credentials.
// Implementation: Google OIDC issuer.
type Issuer interface {
	// Name returns the identifier of this issuer (as used in audit entries).
	Name() string

	// Verify takes a raw credential string, validates it against the external
	// provider, and returns a normalized identity.
	Verify(ctx context.Context, credential string) (*ExternalIdentity, error)
}

// UserStore persists principals.
type UserStore interface {
	// FindByID returns ErrNotFound if no such user exists.
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindByGoogleID looks a user up by external subject identifier.
	// Returns ErrNotFound if unseen.
	FindByGoogleID(ctx context.Context, googleUserID string) (*User, error)

	// FindByEmail is used for member invitations.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create inserts the user and fills in its assigned ID and timestamps.
	// A concurrent first-login for the same subject surfaces as ErrDuplicate;
	// the caller re-reads instead of failing.
	Create(ctx context.Context, user *User) error
}

// RevocationStore tracks explicitly invalidated session tokens until their
// natural expiry. It is the only shared mutable state of the auth subsystem.
type RevocationStore interface {
	// Record inserts a revocation entry for the exact encoded token string.
	// Recording the same token twice is a silent no-op.
	Record(ctx context.Context, token string, userID int64, expiresAt time.Time) error

	// IsRevoked reports whether the exact encoded string was revoked.
	IsRevoked(ctx context.Context, token string) (bool, error)

	// DeleteExpired removes every entry with expires_at <= now and returns
	// the number of rows pruned. Idempotent, safe to run concurrently with
	// Record and IsRevoked.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// WorkspaceStore persists workspaces and their memberships.
type WorkspaceStore interface {
	Create(ctx context.Context, ws *Workspace, creator int64) error
	FindByID(ctx context.Context, id int64) (*Workspace, error)
	ListForUser(ctx context.Context, userID int64) ([]Workspace, error)
	Update(ctx context.Context, ws *Workspace) error
	Delete(ctx context.Context, id int64) error

	AddMember(ctx context.Context, m *WorkspaceMember) error
	RemoveMember(ctx context.Context, workspaceID, userID int64) error
	ListMembers(ctx context.Context, workspaceID int64) ([]WorkspaceMember, error)

	// MemberRole returns ErrNotFound for non-members.
	MemberRole(ctx context.Context, workspaceID, userID int64) (Role, error)
}

// FileStore persists file metadata; blobs live in a BlobStore.
type FileStore interface {
	Create(ctx context.Context, f *File) error
	FindByID(ctx context.Context, id int64) (*File, error)
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]File, error)
	Delete(ctx context.Context, id int64) error
}

// BlobStore holds file contents addressed by a store-relative path.
type BlobStore interface {
	// Save writes the blob and returns its relative path and size.
	Save(workspaceID int64, name string, r io.Reader) (path string, size int64, err error)
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
}
