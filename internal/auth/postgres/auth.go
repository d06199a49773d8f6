package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/frahmantamala/center-access/internal/auth"
	"github.com/jmoiron/sqlx"
)

// Repository serves the narrow read-only queries the auth flow needs.
// Uses sqlx directly; the write-heavy tables go through gorm elsewhere.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) auth.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) GetPasswordForEmail(ctx context.Context, email string) (string, int64, error) {
	var row struct {
		ID           int64  `db:"id"`
		PasswordHash string `db:"password_hash"`
	}
	query := `SELECT id, password_hash FROM users WHERE email = $1 AND is_active = true`

	if err := r.db.GetContext(ctx, &row, query, email); err != nil {
		if err == sql.ErrNoRows {
			return "", 0, fmt.Errorf("user not found")
		}
		return "", 0, err
	}
	return row.PasswordHash, row.ID, nil
}

func (r *Repository) GetUserByID(ctx context.Context, userID int64) (*auth.User, error) {
	var user auth.User
	query := `SELECT id, email, name, is_active FROM users WHERE id = $1`

	if err := r.db.GetContext(ctx, &user, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &user, nil
}
