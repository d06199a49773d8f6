package accesscontrol

import (
	"errors"
	"time"
)

// Role is the closed set of membership roles. New roles must be added
// here and to the role_permissions seed before they grant anything.
type Role string

const (
	RoleOwner   Role = "OWNER"
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// MembershipStatus is the closed set of membership lifecycle states.
// Only ACTIVE memberships carry any capability.
type MembershipStatus string

const (
	StatusInvited   MembershipStatus = "INVITED"
	StatusActive    MembershipStatus = "ACTIVE"
	StatusSuspended MembershipStatus = "SUSPENDED"
)

func (s MembershipStatus) Valid() bool {
	switch s {
	case StatusInvited, StatusActive, StatusSuspended:
		return true
	}
	return false
}

// Membership is the unit the engine evaluates against: the binding of a
// user to a center with a role and a status.
type Membership struct {
	ID        int64            `json:"id"`
	CenterID  int64            `json:"center_id"`
	UserID    int64            `json:"user_id"`
	Role      Role             `json:"role"`
	Status    MembershipStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

func (m *Membership) IsActive() bool {
	return m != nil && m.Status == StatusActive
}

// Permission is a catalog entry: a stable key checked in code plus a
// display name.
type Permission struct {
	ID   int64  `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
}

// RoleGrant is one row of the administered role-default table.
type RoleGrant struct {
	Role         Role
	PermissionID int64
}

// Override is one row of the per-membership exception table. Allowed
// true grants beyond the role default, false revokes a default grant.
type Override struct {
	MembershipID int64
	PermissionID int64
	Allowed      bool
}

var (
	ErrUnknownPermission  = errors.New("unknown permission key")
	ErrMembershipNotFound = errors.New("membership not found")
)

// Permission keys the service itself gates its own routes with. The
// catalog rows are seeded; these constants only keep route wiring free
// of string literals.
const (
	PermCenterSettings = "center.settings"
	PermMemberInvite   = "member.invite"
	PermMemberSuspend  = "member.suspend"
	PermMemberManage   = "member.manage"
)
