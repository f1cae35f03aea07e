package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/devraider/dataroom/internal/core"
)

// WorkspaceService enforces membership and role rules on top of the store.
// Non-members get a not-found for everything so workspace ids cannot be
// probed; members without the admin role get a forbidden on writes.
type WorkspaceService struct {
	workspaces core.WorkspaceStore
	users      core.UserStore
	auditor    core.Auditor
}

func NewWorkspaceService(workspaces core.WorkspaceStore, users core.UserStore, auditor core.Auditor) *WorkspaceService {
	return &WorkspaceService{
		workspaces: workspaces,
		users:      users,
		auditor:    auditor,
	}
}

func (s *WorkspaceService) Create(ctx context.Context, userID int64, name, description string) (*core.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, httpError(http.StatusBadRequest, fmt.Errorf("workspace name must not be empty"))
	}

	ws := &core.Workspace{Name: name, Description: description}
	if err := s.workspaces.Create(ctx, ws, userID); err != nil {
		return nil, httpError(http.StatusInternalServerError,
			fmt.Errorf("creating workspace: %w", err))
	}

	log.Ctx(ctx).Info().
		Int64("workspace_id", ws.ID).
		Int64("user_id", userID).
		Msg("created workspace")
	return ws, nil
}

func (s *WorkspaceService) Get(ctx context.Context, userID, workspaceID int64) (*core.Workspace, error) {
	if _, err := s.requireMember(ctx, userID, workspaceID); err != nil {
		return nil, err
	}
	ws, err := s.workspaces.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, notFoundOrInternal(err, "workspace")
	}
	return ws, nil
}

func (s *WorkspaceService) List(ctx context.Context, userID int64) ([]core.Workspace, error) {
	list, err := s.workspaces.ListForUser(ctx, userID)
	if err != nil {
		return nil, httpError(http.StatusInternalServerError,
			fmt.Errorf("listing workspaces: %w", err))
	}
	return list, nil
}

func (s *WorkspaceService) Update(ctx context.Context, userID, workspaceID int64, name, description string) (*core.Workspace, error) {
	if err := s.requireAdmin(ctx, userID, workspaceID); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, httpError(http.StatusBadRequest, fmt.Errorf("workspace name must not be empty"))
	}

	ws := &core.Workspace{ID: workspaceID, Name: name, Description: description}
	if err := s.workspaces.Update(ctx, ws); err != nil {
		return nil, notFoundOrInternal(err, "workspace")
	}
	return ws, nil
}

func (s *WorkspaceService) Delete(ctx context.Context, userID, workspaceID int64) error {
	if err := s.requireAdmin(ctx, userID, workspaceID); err != nil {
		return err
	}
	if err := s.workspaces.Delete(ctx, workspaceID); err != nil {
		return notFoundOrInternal(err, "workspace")
	}
	log.Ctx(ctx).Info().
		Int64("workspace_id", workspaceID).
		Int64("user_id", userID).
		Msg("deleted workspace")
	return nil
}

// AddMember invites a known account by email. The invitee must have logged in
// at least once; there is no pending-invite state.
func (s *WorkspaceService) AddMember(ctx context.Context, actorID, workspaceID int64, email string, role core.Role) (*core.WorkspaceMember, error) {
	if err := s.requireAdmin(ctx, actorID, workspaceID); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, httpError(http.StatusBadRequest, fmt.Errorf("invalid role %q", role))
	}

	invitee, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, core.ErrNotFound) {
		return nil, httpError(http.StatusNotFound,
			fmt.Errorf("no account for %q", email))
	}
	if err != nil {
		return nil, httpError(http.StatusInternalServerError,
			fmt.Errorf("looking up invitee: %w", err))
	}

	m := &core.WorkspaceMember{
		WorkspaceID: workspaceID,
		UserID:      invitee.ID,
		Role:        role,
		Email:       invitee.Email,
		FullName:    invitee.FullName,
		Picture:     invitee.Picture,
	}
	err = s.workspaces.AddMember(ctx, m)
	if errors.Is(err, core.ErrDuplicate) {
		return nil, httpError(http.StatusConflict,
			fmt.Errorf("%q is already a member", email))
	}
	if err != nil {
		return nil, httpError(http.StatusInternalServerError,
			fmt.Errorf("adding member: %w", err))
	}
	return m, nil
}

func (s *WorkspaceService) RemoveMember(ctx context.Context, actorID, workspaceID, memberID int64) error {
	// members may remove themselves, everyone else needs admin
	if actorID != memberID {
		if err := s.requireAdmin(ctx, actorID, workspaceID); err != nil {
			return err
		}
	} else if _, err := s.requireMember(ctx, actorID, workspaceID); err != nil {
		return err
	}

	role, err := s.workspaces.MemberRole(ctx, workspaceID, memberID)
	if errors.Is(err, core.ErrNotFound) {
		return httpError(http.StatusNotFound, fmt.Errorf("member not found"))
	}
	if err != nil {
		return httpError(http.StatusInternalServerError,
			fmt.Errorf("looking up member: %w", err))
	}

	// never drop the last admin, the workspace would become unmanageable
	if role == core.RoleAdmin {
		members, err := s.workspaces.ListMembers(ctx, workspaceID)
		if err != nil {
			return httpError(http.StatusInternalServerError,
				fmt.Errorf("listing members: %w", err))
		}
		admins := 0
		for _, m := range members {
			if m.Role == core.RoleAdmin {
				admins++
			}
		}
		if admins <= 1 {
			return httpError(http.StatusBadRequest,
				fmt.Errorf("cannot remove the last admin"))
		}
	}

	if err := s.workspaces.RemoveMember(ctx, workspaceID, memberID); err != nil {
		return notFoundOrInternal(err, "member")
	}
	return nil
}

func (s *WorkspaceService) ListMembers(ctx context.Context, userID, workspaceID int64) ([]core.WorkspaceMember, error) {
	if _, err := s.requireMember(ctx, userID, workspaceID); err != nil {
		return nil, err
	}
	members, err := s.workspaces.ListMembers(ctx, workspaceID)
	if err != nil {
		return nil, notFoundOrInternal(err, "workspace")
	}
	return members, nil
}

// requireMember resolves the caller's role in the workspace. Non-members are
// answered with the same not-found a nonexistent workspace produces.
func (s *WorkspaceService) requireMember(ctx context.Context, userID, workspaceID int64) (core.Role, error) {
	role, err := s.workspaces.MemberRole(ctx, workspaceID, userID)
	if errors.Is(err, core.ErrNotFound) {
		return "", httpError(http.StatusNotFound, fmt.Errorf("workspace not found"))
	}
	if err != nil {
		return "", httpError(http.StatusInternalServerError,
			fmt.Errorf("resolving membership: %w", err))
	}
	return role, nil
}

func (s *WorkspaceService) requireAdmin(ctx context.Context, userID, workspaceID int64) error {
	role, err := s.requireMember(ctx, userID, workspaceID)
	if err != nil {
		return err
	}
	if role != core.RoleAdmin {
		return httpError(http.StatusForbidden, fmt.Errorf("admin role required"))
	}
	return nil
}

func notFoundOrInternal(err error, what string) *HTTPError {
	if errors.Is(err, core.ErrNotFound) {
		return httpError(http.StatusNotFound, fmt.Errorf("%s not found", what))
	}
	return httpError(http.StatusInternalServerError, err)
}
