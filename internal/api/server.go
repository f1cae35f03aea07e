package api

import (
	"net/http"

	"github.com/devraider/dataroom/internal/api/middleware"
	"github.com/devraider/dataroom/internal/audit"
	"github.com/devraider/dataroom/internal/core"
	"github.com/devraider/dataroom/internal/metrics"
	"github.com/devraider/dataroom/internal/service"
	"github.com/devraider/dataroom/internal/tasks"
)

type Server struct {
	auth        *service.AuthService
	workspaces  *service.WorkspaceService
	files       *service.FileService
	taskManager *tasks.Manager
	auditor     core.Auditor
	collector   *metrics.Collector
	login       *middleware.LoginLimiter
}

func NewServer(
	auth *service.AuthService,
	workspaces *service.WorkspaceService,
	files *service.FileService,
	taskManager *tasks.Manager,
	auditor core.Auditor,
	collector *metrics.Collector,
	login *middleware.LoginLimiter,
) *Server {
	if auditor == nil {
		auditor = audit.NewNoopAuditor()
	}

	return &Server{
		auth:        auth,
		workspaces:  workspaces,
		files:       files,
		taskManager: taskManager,
		auditor:     auditor,
		collector:   collector,
		login:       login,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// public routes
	mux.HandleFunc("GET "+HealthCheckRoute, s.handleHealth)
	mux.HandleFunc("GET "+AboutRoute, s.handleAbout)
	if s.collector != nil {
		mux.Handle("GET "+MetricsRoute, s.collector.Handler())
	}

	// login is the only unauthenticated mutation
	loginHandler := http.HandlerFunc(s.handleLogin)
	if s.login != nil {
		mux.Handle("POST "+LoginRoute, s.login.Middleware()(loginHandler))
	} else {
		mux.Handle("POST "+LoginRoute, loginHandler)
	}

	// everything below requires a live session
	authed := http.NewServeMux()
	authed.HandleFunc("GET "+MeRoute, s.handleMe)
	authed.HandleFunc("POST "+LogoutRoute, s.handleLogout)

	authed.HandleFunc("POST "+WorkspacesRoute, s.handleCreateWorkspace)
	authed.HandleFunc("GET "+WorkspacesRoute, s.handleListWorkspaces)
	authed.HandleFunc("GET "+WorkspaceRoute, s.handleGetWorkspace)
	authed.HandleFunc("PUT "+WorkspaceRoute, s.handleUpdateWorkspace)
	authed.HandleFunc("DELETE "+WorkspaceRoute, s.handleDeleteWorkspace)
	authed.HandleFunc("GET "+WorkspaceMembersRoute, s.handleListMembers)
	authed.HandleFunc("POST "+WorkspaceMembersRoute, s.handleAddMember)
	authed.HandleFunc("DELETE "+WorkspaceMemberRoute, s.handleRemoveMember)

	authed.HandleFunc("POST "+WorkspaceFilesRoute, s.handleUploadFile)
	authed.HandleFunc("GET "+WorkspaceFilesRoute, s.handleListFiles)
	authed.HandleFunc("GET "+FileRoute, s.handleGetFile)
	authed.HandleFunc("GET "+FileDownloadRoute, s.handleDownloadFile)
	authed.HandleFunc("DELETE "+FileRoute, s.handleDeleteFile)

	authed.HandleFunc("GET "+ListTasksRoute, s.handleListTasks)
	authed.HandleFunc("POST "+TriggerTaskRoute, s.handleTriggerTask)
	authed.HandleFunc("GET "+LogsForTaskRoute, s.handleLogsForTask)
	authed.HandleFunc("GET "+ListAuditsRoute, s.handleListAudits)

	gate := middleware.SessionAuth(s.auth)
	mux.Handle(AuthParent, gate(authed))
	mux.Handle(WorkspacesRoute, gate(authed))
	mux.Handle(WorkspacesRoute+"/", gate(authed))
	mux.Handle(FilesParent, gate(authed))
	mux.Handle(TaskParent, gate(authed))
	mux.Handle(AuditParent, gate(authed))

	var handler http.Handler = mux
	if s.collector != nil {
		handler = middleware.Instrument(s.collector, mux)(handler)
	}

	return middleware.RecoverMiddleware(
		middleware.CorrelationIDMiddleware(
			middleware.LoggingMiddleware(
				handler)))
}
