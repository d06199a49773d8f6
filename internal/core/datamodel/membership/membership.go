package membership

import "time"

// Membership binds a user to a center with a role and a status. One row
// per (center_id, user_id) pair, enforced by a composite unique index.
type Membership struct {
	ID        int64     `gorm:"primaryKey"`
	CenterID  int64     `gorm:"column:center_id;not null;uniqueIndex:idx_memberships_center_user"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_memberships_center_user"`
	Role      string    `gorm:"column:role;not null"`
	Status    string    `gorm:"column:status;not null;default:INVITED"`
	CreatedAt time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt time.Time `gorm:"column:updated_at;default:now()"`
}

func (Membership) TableName() string {
	return "memberships"
}
