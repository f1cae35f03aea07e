package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/devraider/dataroom/internal/core"
)

// In-memory store implementations, used by tests and useful for running the
// server without a database.

type MemoryUserStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]core.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{
		nextID: 1,
		users:  make(map[int64]core.User),
	}
}

func (s *MemoryUserStore) FindByID(_ context.Context, id int64) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) FindByGoogleID(_ context.Context, googleUserID string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.GoogleUserID == googleUserID {
			return &u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, core.ErrNotFound
}

func (s *MemoryUserStore) Create(_ context.Context, u *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.GoogleUserID == u.GoogleUserID || existing.Email == u.Email {
			return core.ErrDuplicate
		}
	}

	u.ID = s.nextID
	s.nextID++
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.users[u.ID] = *u
	return nil
}

type MemoryRevocationStore struct {
	mu      sync.RWMutex
	entries map[string]core.RevocationEntry
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{
		entries: make(map[string]core.RevocationEntry),
	}
}

// Record is idempotent: revoking an already revoked token is a no-op.
func (s *MemoryRevocationStore) Record(_ context.Context, token string, userID int64, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[token]; ok {
		return nil
	}
	s.entries[token] = core.RevocationEntry{
		Token:         token,
		UserID:        userID,
		BlacklistedAt: time.Now(),
		ExpiresAt:     expiresAt,
	}
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.entries[token]
	return ok, nil
}

func (s *MemoryRevocationStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deletedCount int64
	for token, e := range s.entries {
		if !e.ExpiresAt.After(now) {
			delete(s.entries, token)
			deletedCount++
		}
	}
	return deletedCount, nil
}

type MemoryWorkspaceStore struct {
	mu         sync.RWMutex
	nextID     int64
	workspaces map[int64]core.Workspace
	members    map[int64][]core.WorkspaceMember
}

func NewMemoryWorkspaceStore() *MemoryWorkspaceStore {
	return &MemoryWorkspaceStore{
		nextID:     1,
		workspaces: make(map[int64]core.Workspace),
		members:    make(map[int64][]core.WorkspaceMember),
	}
}

func (s *MemoryWorkspaceStore) Create(_ context.Context, ws *core.Workspace, creator int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws.ID = s.nextID
	s.nextID++
	ws.CreatedBy = creator
	now := time.Now()
	ws.CreatedAt = now
	ws.UpdatedAt = now
	s.workspaces[ws.ID] = *ws
	s.members[ws.ID] = []core.WorkspaceMember{{
		WorkspaceID: ws.ID,
		UserID:      creator,
		Role:        core.RoleAdmin,
		CreatedAt:   now,
	}}
	return nil
}

func (s *MemoryWorkspaceStore) FindByID(_ context.Context, id int64) (*core.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ws, ok := s.workspaces[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &ws, nil
}

func (s *MemoryWorkspaceStore) ListForUser(_ context.Context, userID int64) ([]core.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Workspace, 0)
	for id, members := range s.members {
		for _, m := range members {
			if m.UserID == userID {
				out = append(out, s.workspaces[id])
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryWorkspaceStore) Update(_ context.Context, ws *core.Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.workspaces[ws.ID]
	if !ok {
		return core.ErrNotFound
	}
	existing.Name = ws.Name
	existing.Description = ws.Description
	existing.UpdatedAt = time.Now()
	s.workspaces[ws.ID] = existing
	*ws = existing
	return nil
}

func (s *MemoryWorkspaceStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workspaces[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.workspaces, id)
	delete(s.members, id)
	return nil
}

func (s *MemoryWorkspaceStore) AddMember(_ context.Context, m *core.WorkspaceMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workspaces[m.WorkspaceID]; !ok {
		return core.ErrNotFound
	}
	for _, existing := range s.members[m.WorkspaceID] {
		if existing.UserID == m.UserID {
			return core.ErrDuplicate
		}
	}
	m.CreatedAt = time.Now()
	s.members[m.WorkspaceID] = append(s.members[m.WorkspaceID], *m)
	return nil
}

func (s *MemoryWorkspaceStore) RemoveMember(_ context.Context, workspaceID, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	members := s.members[workspaceID]
	for i, m := range members {
		if m.UserID == userID {
			s.members[workspaceID] = append(members[:i], members[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (s *MemoryWorkspaceStore) ListMembers(_ context.Context, workspaceID int64) ([]core.WorkspaceMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.workspaces[workspaceID]; !ok {
		return nil, core.ErrNotFound
	}
	out := make([]core.WorkspaceMember, len(s.members[workspaceID]))
	copy(out, s.members[workspaceID])
	return out, nil
}

func (s *MemoryWorkspaceStore) MemberRole(_ context.Context, workspaceID, userID int64) (core.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.members[workspaceID] {
		if m.UserID == userID {
			return m.Role, nil
		}
	}
	return "", core.ErrNotFound
}

type MemoryFileStore struct {
	mu     sync.RWMutex
	nextID int64
	files  map[int64]core.File
}

func NewMemoryFileStore() *MemoryFileStore {
	return &MemoryFileStore{
		nextID: 1,
		files:  make(map[int64]core.File),
	}
}

func (s *MemoryFileStore) Create(_ context.Context, f *core.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f.ID = s.nextID
	s.nextID++
	f.CreatedAt = time.Now()
	s.files[f.ID] = *f
	return nil
}

func (s *MemoryFileStore) FindByID(_ context.Context, id int64) (*core.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.files[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &f, nil
}

func (s *MemoryFileStore) ListByWorkspace(_ context.Context, workspaceID int64) ([]core.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.File, 0)
	for _, f := range s.files {
		if f.WorkspaceID == workspaceID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryFileStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id]; !ok {
		return core.ErrNotFound
	}
	delete(s.files, id)
	return nil
}

// compile-time interface checks
var (
	_ core.UserStore       = (*MemoryUserStore)(nil)
	_ core.RevocationStore = (*MemoryRevocationStore)(nil)
	_ core.WorkspaceStore  = (*MemoryWorkspaceStore)(nil)
	_ core.FileStore       = (*MemoryFileStore)(nil)
)
