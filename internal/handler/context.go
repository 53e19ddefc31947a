package handler

import (
	"net/http"

	"github.com/sysu-ecnc-dev/roster-manager/backend/internal/workspace"
)

type ContextKey string

var (
	WorkspaceCtx ContextKey = "workspace"
)

func workspaceFrom(r *http.Request) *workspace.Workspace {
	return r.Context().Value(WorkspaceCtx).(*workspace.Workspace)
}
