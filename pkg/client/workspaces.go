package client

import (
	"context"

	"github.com/devraider/dataroom/internal/api"
	"github.com/devraider/dataroom/internal/core"
)

func (c *Client) ListWorkspaces(ctx context.Context) ([]core.Workspace, error) {
	var res []core.Workspace
	_, err := c.get(ctx, c.url().
		setPath(api.WorkspacesRoute).
		build(), &res)
	return res, err
}

func (c *Client) CreateWorkspace(ctx context.Context, name, description string) (*core.Workspace, error) {
	var ws core.Workspace
	_, err := c.post(ctx, c.url().
		setPath(api.WorkspacesRoute).
		build(), api.WorkspacePayload{Name: name, Description: description}, &ws)
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

func (c *Client) GetWorkspace(ctx context.Context, id int64) (*core.Workspace, error) {
	var ws core.Workspace
	_, err := c.get(ctx, c.url().
		setPath(api.WorkspaceRoute).
		setPathParam("id", id).
		build(), &ws)
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

func (c *Client) DeleteWorkspace(ctx context.Context, id int64) error {
	_, err := c.delete(ctx, c.url().
		setPath(api.WorkspaceRoute).
		setPathParam("id", id).
		build())
	return err
}

func (c *Client) ListMembers(ctx context.Context, workspaceID int64) ([]core.WorkspaceMember, error) {
	var res []core.WorkspaceMember
	_, err := c.get(ctx, c.url().
		setPath(api.WorkspaceMembersRoute).
		setPathParam("id", workspaceID).
		build(), &res)
	return res, err
}

func (c *Client) AddMember(ctx context.Context, workspaceID int64, email string, role core.Role) (*core.WorkspaceMember, error) {
	var m core.WorkspaceMember
	_, err := c.post(ctx, c.url().
		setPath(api.WorkspaceMembersRoute).
		setPathParam("id", workspaceID).
		build(), api.AddMemberPayload{Email: email, Role: role}, &m)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) ListFiles(ctx context.Context, workspaceID int64) ([]core.File, error) {
	var res []core.File
	_, err := c.get(ctx, c.url().
		setPath(api.WorkspaceFilesRoute).
		setPathParam("id", workspaceID).
		build(), &res)
	return res, err
}
