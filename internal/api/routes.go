package api

const (
	HealthCheckRoute = "/healthz"
	AboutRoute       = "/v1/about"
	MetricsRoute     = "/metrics"

	AuthParent  = "/v1/auth/"
	LoginRoute  = AuthParent + "google"
	MeRoute     = AuthParent + "me"
	LogoutRoute = AuthParent + "logout"

	WorkspacesRoute       = "/v1/workspaces"
	WorkspaceRoute        = WorkspacesRoute + "/{id}"
	WorkspaceMembersRoute = WorkspaceRoute + "/members"
	WorkspaceMemberRoute  = WorkspaceMembersRoute + "/{userID}"
	WorkspaceFilesRoute   = WorkspaceRoute + "/files"

	FilesParent       = "/v1/files/"
	FileRoute         = FilesParent + "{id}"
	FileDownloadRoute = FileRoute + "/download"

	TaskParent       = "/v1/tasks/"
	ListTasksRoute   = TaskParent
	TriggerTaskRoute = TaskParent + "{name}/trigger"
	LogsForTaskRoute = TaskParent + "{name}/logs"

	AuditParent     = "/v1/audit/"
	ListAuditsRoute = AuditParent + "events"
)
