package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeMembershipInvited    = "membership.invited"
	EventTypeMembershipAccepted   = "membership.accepted"
	EventTypeMembershipSuspended  = "membership.suspended"
	EventTypeMembershipReinstated = "membership.reinstated"
	EventTypeAccessDenied         = "authz.access_denied"
	EventTypeOverrideSet          = "authz.override_set"
	EventTypeOverrideCleared      = "authz.override_cleared"
)

type MembershipEvent struct {
	BaseEvent
	MembershipID int64  `json:"membership_id"`
	CenterID     int64  `json:"center_id"`
	UserID       int64  `json:"user_id"`
	Role         string `json:"role"`
}

func NewMembershipEvent(eventType string, membershipID, centerID, userID int64, role string) *MembershipEvent {
	return &MembershipEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      eventType,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"membership_id": membershipID,
				"center_id":     centerID,
				"user_id":       userID,
				"role":          role,
			},
		},
		MembershipID: membershipID,
		CenterID:     centerID,
		UserID:       userID,
		Role:         role,
	}
}

type AccessDeniedEvent struct {
	BaseEvent
	UserID     int64  `json:"user_id"`
	CenterID   int64  `json:"center_id"`
	Permission string `json:"permission"`
}

func NewAccessDeniedEvent(userID, centerID int64, permission string) *AccessDeniedEvent {
	return &AccessDeniedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAccessDenied,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id":    userID,
				"center_id":  centerID,
				"permission": permission,
			},
		},
		UserID:     userID,
		CenterID:   centerID,
		Permission: permission,
	}
}

type OverrideEvent struct {
	BaseEvent
	MembershipID int64  `json:"membership_id"`
	Permission   string `json:"permission"`
	Allowed      bool   `json:"allowed"`
}

func NewOverrideSetEvent(membershipID int64, permission string, allowed bool) *OverrideEvent {
	return &OverrideEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeOverrideSet,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"membership_id": membershipID,
				"permission":    permission,
				"allowed":       allowed,
			},
		},
		MembershipID: membershipID,
		Permission:   permission,
		Allowed:      allowed,
	}
}

func NewOverrideClearedEvent(membershipID int64, permission string) *OverrideEvent {
	return &OverrideEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeOverrideCleared,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"membership_id": membershipID,
				"permission":    permission,
			},
		},
		MembershipID: membershipID,
		Permission:   permission,
	}
}
