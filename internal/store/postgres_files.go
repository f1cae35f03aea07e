package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/devraider/dataroom/internal/core"
)

// PostgresFileStore persists file metadata. The blob contents live in the
// blob store, keyed by StoragePath.
type PostgresFileStore struct {
	db *sql.DB
}

func NewPostgresFileStore(db *sql.DB) *PostgresFileStore {
	return &PostgresFileStore{db: db}
}

const fileColumns = `id, workspace_id, name, description, size, mime_type, storage_path, uploaded_by, created_at`

func scanFile(row interface{ Scan(...any) error }) (*core.File, error) {
	f := &core.File{}
	err := row.Scan(&f.ID, &f.WorkspaceID, &f.Name, &f.Description, &f.Size,
		&f.MimeType, &f.StoragePath, &f.UploadedBy, &f.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning file: %w", err)
	}
	return f, nil
}

func (s *PostgresFileStore) Create(ctx context.Context, f *core.File) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO files (workspace_id, name, description, size, mime_type, storage_path, uploaded_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		f.WorkspaceID, f.Name, f.Description, f.Size, f.MimeType, f.StoragePath, f.UploadedBy,
	).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting file: %w", err)
	}
	return nil
}

func (s *PostgresFileStore) FindByID(ctx context.Context, id int64) (*core.File, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+fileColumns+` FROM files WHERE id = $1`, id)
	return scanFile(row)
}

func (s *PostgresFileStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]core.File, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+fileColumns+` FROM files WHERE workspace_id = $1 ORDER BY created_at`,
		workspaceID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	defer rows.Close()

	var out []core.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func (s *PostgresFileStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting file: %w", err)
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

// compile-time interface check
var _ core.FileStore = (*PostgresFileStore)(nil)
