package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/devraider/dataroom/internal/core"
)

// PostgresWorkspaceStore persists workspaces and memberships.
type PostgresWorkspaceStore struct {
	db *sql.DB
}

func NewPostgresWorkspaceStore(db *sql.DB) *PostgresWorkspaceStore {
	return &PostgresWorkspaceStore{db: db}
}

// Create inserts the workspace and its creator's admin membership in one
// transaction.
func (s *PostgresWorkspaceStore) Create(ctx context.Context, ws *core.Workspace, creator int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx,
		`INSERT INTO workspaces (name, description, created_by)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		ws.Name, ws.Description, creator,
	).Scan(&ws.ID, &ws.CreatedAt, &ws.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting workspace: %w", err)
	}
	ws.CreatedBy = creator

	_, err = tx.ExecContext(ctx,
		`INSERT INTO workspace_members (workspace_id, user_id, role)
		 VALUES ($1, $2, $3)`,
		ws.ID, creator, core.RoleAdmin,
	)
	if err != nil {
		return fmt.Errorf("inserting creator membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func (s *PostgresWorkspaceStore) FindByID(ctx context.Context, id int64) (*core.Workspace, error) {
	ws := &core.Workspace{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_by, created_at, updated_at
		 FROM workspaces WHERE id = $1`,
		id,
	).Scan(&ws.ID, &ws.Name, &ws.Description, &ws.CreatedBy, &ws.CreatedAt, &ws.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("finding workspace: %w", err)
	}
	return ws, nil
}

func (s *PostgresWorkspaceStore) ListForUser(ctx context.Context, userID int64) ([]core.Workspace, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT w.id, w.name, w.description, w.created_by, w.created_at, w.updated_at
		 FROM workspaces w
		 JOIN workspace_members m ON m.workspace_id = w.id
		 WHERE m.user_id = $1
		 ORDER BY w.created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	defer rows.Close()

	var out []core.Workspace
	for rows.Next() {
		var ws core.Workspace
		if err := rows.Scan(&ws.ID, &ws.Name, &ws.Description, &ws.CreatedBy, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning workspace: %w", err)
		}
		out = append(out, ws)
	}
	return out, rows.Err()
}

func (s *PostgresWorkspaceStore) Update(ctx context.Context, ws *core.Workspace) error {
	err := s.db.QueryRowContext(ctx,
		`UPDATE workspaces SET name = $1, description = $2, updated_at = now()
		 WHERE id = $3
		 RETURNING updated_at`,
		ws.Name, ws.Description, ws.ID,
	).Scan(&ws.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("updating workspace: %w", err)
	}
	return nil
}

func (s *PostgresWorkspaceStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM workspaces WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting workspace: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading deleted row count: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *PostgresWorkspaceStore) AddMember(ctx context.Context, m *core.WorkspaceMember) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO workspace_members (workspace_id, user_id, role)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`,
		m.WorkspaceID, m.UserID, m.Role,
	).Scan(&m.CreatedAt)
	if isUniqueViolation(err) {
		return core.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("inserting membership: %w", err)
	}
	return nil
}

func (s *PostgresWorkspaceStore) RemoveMember(ctx context.Context, workspaceID, userID int64) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM workspace_members WHERE workspace_id = $1 AND user_id = $2`,
		workspaceID, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting membership: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading deleted row count: %w", err)
	}
	if affected == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *PostgresWorkspaceStore) ListMembers(ctx context.Context, workspaceID int64) ([]core.WorkspaceMember, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.workspace_id, m.user_id, m.role, m.created_at, u.email, u.full_name, u.picture
		 FROM workspace_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.workspace_id = $1
		 ORDER BY m.created_at`,
		workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var out []core.WorkspaceMember
	for rows.Next() {
		var m core.WorkspaceMember
		if err := rows.Scan(&m.WorkspaceID, &m.UserID, &m.Role, &m.CreatedAt, &m.Email, &m.FullName, &m.Picture); err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *PostgresWorkspaceStore) MemberRole(ctx context.Context, workspaceID, userID int64) (core.Role, error) {
	var role core.Role
	err := s.db.QueryRowContext(ctx,
		`SELECT role FROM workspace_members WHERE workspace_id = $1 AND user_id = $2`,
		workspaceID, userID,
	).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", core.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("finding member role: %w", err)
	}
	return role, nil
}

// compile-time interface check
var _ core.WorkspaceStore = (*PostgresWorkspaceStore)(nil)
