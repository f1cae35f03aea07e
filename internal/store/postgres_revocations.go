package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/devraider/dataroom/internal/core"
)

// PostgresRevocationStore persists revoked session tokens in the
// token_blacklist table. Checks are exact on the encoded token string.
type PostgresRevocationStore struct {
	db *sql.DB
}

func NewPostgresRevocationStore(db *sql.DB) *PostgresRevocationStore {
	return &PostgresRevocationStore{db: db}
}

// Record inserts a revocation entry. A token that is already blacklisted is
// left untouched: logging out twice must not fail the logout path.
func (s *PostgresRevocationStore) Record(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO token_blacklist (token, user_id, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (token) DO NOTHING`,
		token, userID, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("inserting revocation entry: %w", err)
	}
	return nil
}

func (s *PostgresRevocationStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	var revoked bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM token_blacklist WHERE token = $1)`,
		token,
	).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("checking revocation: %w", err)
	}
	return revoked, nil
}

// DeleteExpired prunes entries whose token has naturally expired. Expired
// tokens are rejected by the codec regardless of blacklist state, so this
// loses nothing.
func (s *PostgresRevocationStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM token_blacklist WHERE expires_at <= $1`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("pruning revocation entries: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading pruned row count: %w", err)
	}
	return deleted, nil
}

// compile-time interface check
var _ core.RevocationStore = (*PostgresRevocationStore)(nil)
