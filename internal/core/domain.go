package core

import "time"

// ExternalIdentity is the normalized result of verifying a Google ID token.
// It is produced by an Issuer and consumed by the login flow.
type ExternalIdentity struct {
	// Subject is the stable Google user identifier ("sub" claim).
	Subject string

	// Email is the verified email address of the account.
	Email string

	// Name is the display name, may be empty.
	Name string

	// Picture is the profile picture URL, may be empty.
	Picture string
}

// User is a principal: a local account linked to exactly one external identity.
type User struct {
	ID           int64     `json:"id"`
	GoogleUserID string    `json:"-"`
	Email        string    `json:"email"`
	FullName     string    `json:"name"`
	Picture      string    `json:"picture,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RevocationEntry pins an exact encoded session token as revoked.
// Its ExpiresAt always equals the expiry of the originating token, so the
// sweep can prune entries whose token would be rejected by the codec anyway.
type RevocationEntry struct {
	Token         string    `json:"-"`
	UserID        int64     `json:"user_id"`
	BlacklistedAt time.Time `json:"blacklisted_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Role of a workspace member.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Workspace is a tenant boundary: files and memberships are scoped to it.
type Workspace struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WorkspaceMember links a user to a workspace with a role.
type WorkspaceMember struct {
	WorkspaceID int64     `json:"workspace_id"`
	UserID      int64     `json:"user_id"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`

	// denormalized from users for listings
	Email    string `json:"email,omitempty"`
	FullName string `json:"name,omitempty"`
	Picture  string `json:"picture,omitempty"`
}

// File is the metadata record of an uploaded blob. The blob itself lives on
// disk under the storage base path; StoragePath is relative to it.
type File struct {
	ID          int64     `json:"id"`
	WorkspaceID int64     `json:"workspace_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Size        int64     `json:"size"`
	MimeType    string    `json:"mime_type,omitempty"`
	StoragePath string    `json:"-"`
	UploadedBy  int64     `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}
