package user

import (
	"context"
	"time"
)

// Profile is the current-user view: identity plus a summary of every
// center the user belongs to.
type Profile struct {
	ID          int64               `json:"id" db:"id"`
	Email       string              `json:"email" db:"email"`
	Name        string              `json:"name" db:"name"`
	IsActive    bool                `json:"is_active" db:"is_active"`
	CreatedAt   time.Time           `json:"created_at" db:"created_at"`
	Memberships []MembershipSummary `json:"memberships"`
}

// MembershipSummary is one row of the profile's center list.
type MembershipSummary struct {
	MembershipID int64  `json:"membership_id" db:"membership_id"`
	CenterSlug   string `json:"center_slug" db:"center_slug"`
	CenterName   string `json:"center_name" db:"center_name"`
	Role         string `json:"role" db:"role"`
	Status       string `json:"status" db:"status"`
}

type RepositoryAPI interface {
	GetByID(ctx context.Context, userID int64) (*Profile, error)
	ListMemberships(ctx context.Context, userID int64) ([]MembershipSummary, error)
}
