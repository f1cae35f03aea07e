package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/devraider/dataroom/internal/api/middleware"
	"github.com/devraider/dataroom/internal/api/presenter"
	"github.com/devraider/dataroom/internal/core"
	"github.com/devraider/dataroom/internal/service"
)

type LoginPayload struct {
	// Credential is the Google ID token obtained client-side.
	Credential string `json:"credential"`
}

type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *core.User `json:"user"`
}

// handleLogin exchanges a Google credential for a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.Ctx(ctx)

	var payload LoginPayload
	if err := DecodePayload(r, &payload, false); err != nil {
		logger.Warn().Err(err).Msg("failed to decode login payload")
		presenter.Error(w, r, "invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.Credential == "" {
		presenter.Error(w, r, "missing credential", http.StatusBadRequest)
		return
	}

	resp, err := s.auth.Login(ctx, service.LoginRequest{Credential: payload.Credential})
	if err != nil {
		logger.Warn().Err(err).Msg("login rejected")
		if s.collector != nil {
			s.collector.RecordLogin("rejected")
		}
		presenter.Err(w, r, err, "login failed")
		return
	}

	if s.collector != nil {
		if resp.Created {
			s.collector.RecordLogin("created")
		} else {
			s.collector.RecordLogin("success")
		}
	}

	logger.Info().Int64("user_id", resp.User.ID).Msg("session issued")
	presenter.JSON(w, r, LoginResponse{
		Token:     resp.Token,
		ExpiresAt: resp.ExpiresAt,
		User:      resp.User,
	}, http.StatusOK)
}

// handleMe returns the authenticated principal.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	presenter.JSON(w, r, middleware.PrincipalCtx(r.Context()), http.StatusOK)
}

type LogoutResponse struct {
	Status string `json:"status"`
}

// handleLogout revokes the session token this request authenticated with.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	raw := middleware.RawTokenCtx(ctx)
	claims := middleware.ClaimsCtx(ctx)
	if err := s.auth.Logout(ctx, raw, claims); err != nil {
		presenter.Err(w, r, err, "logout failed")
		return
	}
	presenter.JSON(w, r, LogoutResponse{Status: "logged out"}, http.StatusOK)
}
