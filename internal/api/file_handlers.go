package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/devraider/dataroom/internal/api/middleware"
	"github.com/devraider/dataroom/internal/api/presenter"
	"github.com/devraider/dataroom/internal/service"
)

// maxUploadBytes caps a single upload, including multipart overhead.
const maxUploadBytes = 512 << 20

// handleUploadFile accepts a multipart upload with a "file" part and an
// optional "description" field.
func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.PrincipalCtx(ctx)

	workspaceID, ok := pathID(r, "id")
	if !ok {
		presenter.Error(w, r, "invalid workspace id", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	part, header, err := r.FormFile("file")
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("failed to read multipart upload")
		presenter.Error(w, r, "expected a multipart upload with a 'file' part", http.StatusBadRequest)
		return
	}
	defer part.Close()

	f, err := s.files.Upload(ctx, user.ID, service.UploadRequest{
		WorkspaceID: workspaceID,
		Name:        header.Filename,
		Description: r.FormValue("description"),
		MimeType:    header.Header.Get("Content-Type"),
		Content:     part,
	})
	if err != nil {
		presenter.Err(w, r, err, "upload failed")
		return
	}

	if s.collector != nil {
		s.collector.RecordUploadedBytes(f.Size)
	}
	presenter.JSON(w, r, f, http.StatusCreated)
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.PrincipalCtx(ctx)

	workspaceID, ok := pathID(r, "id")
	if !ok {
		presenter.Error(w, r, "invalid workspace id", http.StatusBadRequest)
		return
	}
	files, err := s.files.List(ctx, user.ID, workspaceID)
	if err != nil {
		presenter.Err(w, r, err, "listing files failed")
		return
	}
	presenter.JSON(w, r, files, http.StatusOK)
}

func (s *Server) handleGetFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.PrincipalCtx(ctx)

	id, ok := pathID(r, "id")
	if !ok {
		presenter.Error(w, r, "invalid file id", http.StatusBadRequest)
		return
	}
	f, err := s.files.Get(ctx, user.ID, id)
	if err != nil {
		presenter.Err(w, r, err, "fetching file failed")
		return
	}
	presenter.JSON(w, r, f, http.StatusOK)
}

func (s *Server) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.PrincipalCtx(ctx)

	id, ok := pathID(r, "id")
	if !ok {
		presenter.Error(w, r, "invalid file id", http.StatusBadRequest)
		return
	}
	f, rc, err := s.files.Download(ctx, user.ID, id)
	if err != nil {
		presenter.Err(w, r, err, "download failed")
		return
	}
	defer rc.Close()

	contentType := f.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(f.Size, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))
	if _, err := io.Copy(w, rc); err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("file_id", f.ID).Msg("streaming download failed")
	}
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.PrincipalCtx(ctx)

	id, ok := pathID(r, "id")
	if !ok {
		presenter.Error(w, r, "invalid file id", http.StatusBadRequest)
		return
	}
	if err := s.files.Delete(ctx, user.ID, id); err != nil {
		presenter.Err(w, r, err, "deleting file failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
