package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/center-access/internal/accesscontrol"
	membershipDatamodel "github.com/frahmantamala/center-access/internal/core/datamodel/membership"
	"github.com/frahmantamala/center-access/internal/membership"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) membership.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*membershipDatamodel.Membership, error) {
	var row membershipDatamodel.Membership
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *Repository) GetForUserCenter(ctx context.Context, userID, centerID int64) (*membershipDatamodel.Membership, error) {
	var row membershipDatamodel.Membership
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND center_id = ?", userID, centerID).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *Repository) ListForCenter(ctx context.Context, centerID int64) ([]*membershipDatamodel.Membership, error) {
	var rows []*membershipDatamodel.Membership
	err := r.db.WithContext(ctx).
		Where("center_id = ?", centerID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) Create(ctx context.Context, m *membershipDatamodel.Membership) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).
		Model(&membershipDatamodel.Membership{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
}

// Lookup adapts the memberships table to the resolution engine's
// collaborator interface. Absent rows come back as nil, never an error,
// so the engine's status gate handles them.
type Lookup struct {
	db *gorm.DB
}

func NewLookup(db *gorm.DB) accesscontrol.MembershipLookup {
	return &Lookup{db: db}
}

func (l *Lookup) GetForUserCenter(ctx context.Context, userID, centerID int64) (*accesscontrol.Membership, error) {
	var row membershipDatamodel.Membership
	err := l.db.WithContext(ctx).
		Where("user_id = ? AND center_id = ?", userID, centerID).
		First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return toResolution(&row), nil
}

func (l *Lookup) GetByID(ctx context.Context, membershipID int64) (*accesscontrol.Membership, error) {
	var row membershipDatamodel.Membership
	err := l.db.WithContext(ctx).Where("id = ?", membershipID).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return toResolution(&row), nil
}

func toResolution(row *membershipDatamodel.Membership) *accesscontrol.Membership {
	return &accesscontrol.Membership{
		ID:        row.ID,
		CenterID:  row.CenterID,
		UserID:    row.UserID,
		Role:      accesscontrol.Role(row.Role),
		Status:    accesscontrol.MembershipStatus(row.Status),
		CreatedAt: row.CreatedAt,
	}
}
