package postgres

import (
	"context"

	"github.com/frahmantamala/center-access/internal/accesscontrol"
	permissionDatamodel "github.com/frahmantamala/center-access/internal/core/datamodel/permission"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository loads the administered authorization tables and persists
// membership overrides.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) accesscontrol.RepositoryAPI {
	return &Repository{db: db}
}

// LoadRows fetches the catalog, role defaults and overrides in one
// call. The snapshot store turns the result into an immutable version.
func (r *Repository) LoadRows(ctx context.Context) ([]accesscontrol.Permission, []accesscontrol.RoleGrant, []accesscontrol.Override, error) {
	var permRows []permissionDatamodel.Permission
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&permRows).Error; err != nil {
		return nil, nil, nil, err
	}

	var grantRows []permissionDatamodel.RolePermission
	if err := r.db.WithContext(ctx).Find(&grantRows).Error; err != nil {
		return nil, nil, nil, err
	}

	var overrideRows []permissionDatamodel.MembershipPermission
	if err := r.db.WithContext(ctx).Find(&overrideRows).Error; err != nil {
		return nil, nil, nil, err
	}

	perms := make([]accesscontrol.Permission, 0, len(permRows))
	for _, p := range permRows {
		perms = append(perms, accesscontrol.Permission{ID: p.ID, Key: p.Key, Name: p.Name})
	}

	grants := make([]accesscontrol.RoleGrant, 0, len(grantRows))
	for _, g := range grantRows {
		grants = append(grants, accesscontrol.RoleGrant{
			Role:         accesscontrol.Role(g.Role),
			PermissionID: g.PermissionID,
		})
	}

	overrides := make([]accesscontrol.Override, 0, len(overrideRows))
	for _, o := range overrideRows {
		overrides = append(overrides, accesscontrol.Override{
			MembershipID: o.MembershipID,
			PermissionID: o.PermissionID,
			Allowed:      o.Allowed,
		})
	}

	return perms, grants, overrides, nil
}

// UpsertOverride writes the single override row for (membership,
// permission). ON CONFLICT on the pair's unique index updates the
// existing row, so concurrent writers cannot race a read-then-insert.
func (r *Repository) UpsertOverride(ctx context.Context, membershipID, permissionID int64, allowed bool, grantedBy *int64) error {
	row := permissionDatamodel.MembershipPermission{
		MembershipID: membershipID,
		PermissionID: permissionID,
		Allowed:      allowed,
		GrantedBy:    grantedBy,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "membership_id"}, {Name: "permission_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"allowed", "granted_by", "updated_at"}),
	}).Create(&row).Error
}

// DeleteOverride removes the override row; deleting a row that does not
// exist is a no-op.
func (r *Repository) DeleteOverride(ctx context.Context, membershipID, permissionID int64) error {
	return r.db.WithContext(ctx).
		Where("membership_id = ? AND permission_id = ?", membershipID, permissionID).
		Delete(&permissionDatamodel.MembershipPermission{}).Error
}
