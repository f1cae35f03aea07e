package api

import (
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/devraider/dataroom/internal/api/middleware"
	"github.com/devraider/dataroom/internal/api/presenter"
	"github.com/devraider/dataroom/internal/core"
)

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

type WorkspacePayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleCreateWorkspace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.PrincipalCtx(ctx)

	var payload WorkspacePayload
	if err := DecodePayload(r, &payload, false); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to decode workspace payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}

	ws, err := s.workspaces.Create(ctx, user.ID, payload.Name, payload.Description)
	if err != nil {
		presenter.Err(w, r, err, "creating workspace failed")
		return
	}
	presenter.JSON(w, r, ws, http.StatusCreated)
}

func (s *Server) handleListWorkspaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.PrincipalCtx(ctx)

	list, err := s.workspaces.List(ctx, user.ID)
	if err != nil {
		presenter.Err(w, r, err, "listing workspaces failed")
		return
	}
	presenter.JSON(w, r, list, http.StatusOK)
}

func (s *Server) handleGetWorkspace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.PrincipalCtx(ctx)

	id, ok := pathID(r, "id")
	if !ok {
		presenter.Error(w, r, "invalid workspace id", http.StatusBadRequest)
		return
	}
	ws, err := s.workspaces.Get(ctx, user.ID, id)
	if err != nil {
		presenter.Err(w, r, err, "fetching workspace failed")
		return
	}
	presenter.JSON(w, r, ws, http.StatusOK)
}

func (s *Server) handleUpdateWorkspace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.PrincipalCtx(ctx)

	id, ok := pathID(r, "id")
	if !ok {
		presenter.Error(w, r, "invalid workspace id", http.StatusBadRequest)
		return
	}

	var payload WorkspacePayload
	if err := DecodePayload(r, &payload, false); err != nil {
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}

	ws, err := s.workspaces.Update(ctx, user.ID, id, payload.Name, payload.Description)
	if err != nil {
		presenter.Err(w, r, err, "updating workspace failed")
		return
	}
	presenter.JSON(w, r, ws, http.StatusOK)
}

func (s *Server) handleDeleteWorkspace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.PrincipalCtx(ctx)

	id, ok := pathID(r, "id")
	if !ok {
		presenter.Error(w, r, "invalid workspace id", http.StatusBadRequest)
		return
	}
	if err := s.workspaces.Delete(ctx, user.ID, id); err != nil {
		presenter.Err(w, r, err, "deleting workspace failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type AddMemberPayload struct {
	Email string    `json:"email"`
	Role  core.Role `json:"role"`
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.PrincipalCtx(ctx)

	id, ok := pathID(r, "id")
	if !ok {
		presenter.Error(w, r, "invalid workspace id", http.StatusBadRequest)
		return
	}
	members, err := s.workspaces.ListMembers(ctx, user.ID, id)
	if err != nil {
		presenter.Err(w, r, err, "listing members failed")
		return
	}
	presenter.JSON(w, r, members, http.StatusOK)
}

func (s *Server) handleAddMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.PrincipalCtx(ctx)

	id, ok := pathID(r, "id")
	if !ok {
		presenter.Error(w, r, "invalid workspace id", http.StatusBadRequest)
		return
	}

	var payload AddMemberPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.Role == "" {
		payload.Role = core.RoleMember
	}

	m, err := s.workspaces.AddMember(ctx, user.ID, id, payload.Email, payload.Role)
	if err != nil {
		presenter.Err(w, r, err, "adding member failed")
		return
	}
	presenter.JSON(w, r, m, http.StatusCreated)
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.PrincipalCtx(ctx)

	id, ok := pathID(r, "id")
	if !ok {
		presenter.Error(w, r, "invalid workspace id", http.StatusBadRequest)
		return
	}
	memberID, ok := pathID(r, "userID")
	if !ok {
		presenter.Error(w, r, "invalid member id", http.StatusBadRequest)
		return
	}

	if err := s.workspaces.RemoveMember(ctx, user.ID, id, memberID); err != nil {
		presenter.Err(w, r, err, "removing member failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
