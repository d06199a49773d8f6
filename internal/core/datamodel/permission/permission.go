package permission

import "time"

// Permission is an administered catalog entry. Key is the stable string
// identifier used in code ("mocktest.publish"), Name the display label.
type Permission struct {
	ID        int64     `gorm:"primaryKey"`
	Key       string    `gorm:"column:key;uniqueIndex;not null"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
}

func (Permission) TableName() string {
	return "permissions"
}

// RolePermission grants a permission to every active membership of a
// role by default. A role either has the row or it does not.
type RolePermission struct {
	ID           int64     `gorm:"primaryKey"`
	Role         string    `gorm:"column:role;not null;uniqueIndex:idx_role_permissions_role_perm"`
	PermissionID int64     `gorm:"column:permission_id;not null;uniqueIndex:idx_role_permissions_role_perm"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

// MembershipPermission is a per-membership exception to the role
// defaults. Allowed=true grants, allowed=false revokes; rows exist only
// where a membership deviates from its role.
type MembershipPermission struct {
	ID           int64     `gorm:"primaryKey"`
	MembershipID int64     `gorm:"column:membership_id;not null;uniqueIndex:idx_membership_permissions_pair"`
	PermissionID int64     `gorm:"column:permission_id;not null;uniqueIndex:idx_membership_permissions_pair"`
	Allowed      bool      `gorm:"column:allowed;not null"`
	GrantedBy    *int64    `gorm:"column:granted_by"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `gorm:"column:updated_at;default:now()"`
}

func (MembershipPermission) TableName() string {
	return "membership_permissions"
}
