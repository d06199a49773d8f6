package postgres

import (
	"context"

	"github.com/frahmantamala/center-access/internal"
	"github.com/frahmantamala/center-access/internal/accesscontrol"
	"github.com/frahmantamala/center-access/internal/center"
	centerDatamodel "github.com/frahmantamala/center-access/internal/core/datamodel/center"
	membershipDatamodel "github.com/frahmantamala/center-access/internal/core/datamodel/membership"
	"gorm.io/gorm"
)

type CenterRepository struct {
	db *gorm.DB
}

func NewCenterRepository(db *gorm.DB) center.RepositoryAPI {
	return &CenterRepository{db: db}
}

func (r *CenterRepository) GetBySlug(ctx context.Context, slug string) (*centerDatamodel.Center, error) {
	var row centerDatamodel.Center
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *CenterRepository) GetByID(ctx context.Context, id int64) (*centerDatamodel.Center, error) {
	var row centerDatamodel.Center
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *CenterRepository) List(ctx context.Context) ([]*centerDatamodel.Center, error) {
	var rows []*centerDatamodel.Center
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

// CreateWithOwner inserts the center and its creator's OWNER membership
// in one transaction; a center never exists without an administrator.
func (r *CenterRepository) CreateWithOwner(ctx context.Context, c *centerDatamodel.Center, ownerUserID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}

		owner := &membershipDatamodel.Membership{
			CenterID: c.ID,
			UserID:   ownerUserID,
			Role:     string(accesscontrol.RoleOwner),
			Status:   string(accesscontrol.StatusActive),
		}
		return tx.Create(owner).Error
	})
}

func (r *CenterRepository) Update(ctx context.Context, c *centerDatamodel.Center) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// SlugResolver implements the slug→id lookup the authorization
// middleware and handlers need on every center-scoped request.
type SlugResolver struct {
	db *gorm.DB
}

func NewSlugResolver(db *gorm.DB) accesscontrol.CenterLookup {
	return &SlugResolver{db: db}
}

func (r *SlugResolver) IDBySlug(ctx context.Context, slug string) (int64, error) {
	var row centerDatamodel.Center
	err := r.db.WithContext(ctx).Select("id").Where("slug = ?", slug).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, internal.ErrCenterNotFound
		}
		return 0, err
	}
	return row.ID, nil
}
