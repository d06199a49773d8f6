package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/frahmantamala/center-access/internal/user"
	"github.com/jmoiron/sqlx"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) user.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, userID int64) (*user.Profile, error) {
	var profile user.Profile
	query := `SELECT id, email, name, is_active, created_at FROM users WHERE id = $1`

	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &profile, nil
}

func (r *Repository) ListMemberships(ctx context.Context, userID int64) ([]user.MembershipSummary, error) {
	var summaries []user.MembershipSummary
	query := `
SELECT m.id AS membership_id, c.slug AS center_slug, c.name AS center_name, m.role, m.status
FROM memberships m
JOIN centers c ON c.id = m.center_id
WHERE m.user_id = $1
ORDER BY c.slug ASC`

	if err := r.db.SelectContext(ctx, &summaries, query, userID); err != nil {
		return nil, err
	}
	return summaries, nil
}
