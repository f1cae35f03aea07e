package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/devraider/dataroom/internal/core"
)

// PostgresUserStore persists principals in the users table.
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

const userColumns = `id, google_user_id, email, full_name, picture, created_at, updated_at`

func scanUser(row *sql.Row) (*core.User, error) {
	u := &core.User{}
	err := row.Scan(&u.ID, &u.GoogleUserID, &u.Email, &u.FullName, &u.Picture, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	return u, nil
}

func (s *PostgresUserStore) FindByID(ctx context.Context, id int64) (*core.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *PostgresUserStore) FindByGoogleID(ctx context.Context, googleUserID string) (*core.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE google_user_id = $1`, googleUserID))
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*core.User, error) {
	return scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// Create inserts the user and fills in its assigned ID and timestamps.
// Unique violations (concurrent first login, reused email) surface as
// core.ErrDuplicate so the caller can re-read.
func (s *PostgresUserStore) Create(ctx context.Context, user *core.User) error {
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (google_user_id, email, full_name, picture)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		user.GoogleUserID, user.Email, user.FullName, user.Picture,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return core.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

// compile-time interface check
var _ core.UserStore = (*PostgresUserStore)(nil)
