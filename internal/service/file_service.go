package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/devraider/dataroom/internal/core"
)

// FileService coordinates file metadata and blob contents. Every operation
// goes through the caller's workspace membership first.
type FileService struct {
	files      core.FileStore
	workspaces core.WorkspaceStore
	blobs      core.BlobStore
}

func NewFileService(files core.FileStore, workspaces core.WorkspaceStore, blobs core.BlobStore) *FileService {
	return &FileService{
		files:      files,
		workspaces: workspaces,
		blobs:      blobs,
	}
}

type UploadRequest struct {
	WorkspaceID int64
	Name        string
	Description string
	MimeType    string
	Content     io.Reader
}

func (s *FileService) Upload(ctx context.Context, userID int64, req UploadRequest) (*core.File, error) {
	if _, err := s.memberRole(ctx, userID, req.WorkspaceID); err != nil {
		return nil, err
	}

	// strip any path the client sent along
	name := filepath.Base(strings.TrimSpace(req.Name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, httpError(http.StatusBadRequest, fmt.Errorf("file name must not be empty"))
	}

	path, size, err := s.blobs.Save(req.WorkspaceID, name, req.Content)
	if err != nil {
		return nil, httpError(http.StatusInternalServerError,
			fmt.Errorf("storing blob: %w", err))
	}

	f := &core.File{
		WorkspaceID: req.WorkspaceID,
		Name:        name,
		Description: req.Description,
		Size:        size,
		MimeType:    req.MimeType,
		StoragePath: path,
		UploadedBy:  userID,
	}
	if err := s.files.Create(ctx, f); err != nil {
		if rmErr := s.blobs.Remove(path); rmErr != nil {
			log.Ctx(ctx).Error().Err(rmErr).Str("path", path).Msg("failed to remove orphaned blob")
		}
		return nil, httpError(http.StatusInternalServerError,
			fmt.Errorf("saving file metadata: %w", err))
	}

	log.Ctx(ctx).Info().
		Int64("file_id", f.ID).
		Int64("workspace_id", f.WorkspaceID).
		Int64("size", f.Size).
		Msg("uploaded file")
	return f, nil
}

func (s *FileService) List(ctx context.Context, userID, workspaceID int64) ([]core.File, error) {
	if _, err := s.memberRole(ctx, userID, workspaceID); err != nil {
		return nil, err
	}
	files, err := s.files.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, httpError(http.StatusInternalServerError,
			fmt.Errorf("listing files: %w", err))
	}
	return files, nil
}

func (s *FileService) Get(ctx context.Context, userID, fileID int64) (*core.File, error) {
	f, err := s.files.FindByID(ctx, fileID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, httpError(http.StatusNotFound, fmt.Errorf("file not found"))
	}
	if err != nil {
		return nil, httpError(http.StatusInternalServerError,
			fmt.Errorf("finding file: %w", err))
	}
	// a non-member gets the same answer as for a nonexistent file
	if _, err := s.workspaces.MemberRole(ctx, f.WorkspaceID, userID); err != nil {
		return nil, httpError(http.StatusNotFound, fmt.Errorf("file not found"))
	}
	return f, nil
}

// Download returns the metadata and an open reader for the blob.
// The caller owns closing the reader.
func (s *FileService) Download(ctx context.Context, userID, fileID int64) (*core.File, io.ReadCloser, error) {
	f, err := s.Get(ctx, userID, fileID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Open(f.StoragePath)
	if err != nil {
		return nil, nil, httpError(http.StatusInternalServerError,
			fmt.Errorf("opening blob: %w", err))
	}
	return f, rc, nil
}

// Delete removes metadata and blob. Only the uploader or a workspace admin
// may delete a file.
func (s *FileService) Delete(ctx context.Context, userID, fileID int64) error {
	f, err := s.Get(ctx, userID, fileID)
	if err != nil {
		return err
	}

	if f.UploadedBy != userID {
		role, err := s.workspaces.MemberRole(ctx, f.WorkspaceID, userID)
		if err != nil || role != core.RoleAdmin {
			return httpError(http.StatusForbidden,
				fmt.Errorf("only the uploader or an admin may delete a file"))
		}
	}

	if err := s.files.Delete(ctx, fileID); err != nil {
		return notFoundOrInternal(err, "file")
	}
	if err := s.blobs.Remove(f.StoragePath); err != nil {
		// metadata is gone, the orphaned blob is only a cleanup concern
		log.Ctx(ctx).Error().Err(err).Str("path", f.StoragePath).Msg("failed to remove blob")
	}
	return nil
}

func (s *FileService) memberRole(ctx context.Context, userID, workspaceID int64) (core.Role, error) {
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
