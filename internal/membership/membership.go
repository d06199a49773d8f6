package membership

import (
	"time"

	"github.com/frahmantamala/center-access/internal"
	"github.com/frahmantamala/center-access/internal/accesscontrol"
	membershipDatamodel "github.com/frahmantamala/center-access/internal/core/datamodel/membership"
)

// Membership is the domain view of a user's binding to a center. Status
// transitions are the only mutations this module performs; role changes
// and deletion are administrative concerns outside the lifecycle.
type Membership struct {
	ID        int64                          `json:"id"`
	CenterID  int64                          `json:"center_id"`
	UserID    int64                          `json:"user_id"`
	Role      accesscontrol.Role             `json:"role"`
	Status    accesscontrol.MembershipStatus `json:"status"`
	CreatedAt time.Time                      `json:"created_at"`
	UpdatedAt time.Time                      `json:"updated_at"`
}

// canTransitionTo encodes the lifecycle: INVITED→ACTIVE on acceptance,
// ACTIVE↔SUSPENDED by administrative action. Nothing leaves the set.
func (m *Membership) canTransitionTo(next accesscontrol.MembershipStatus) bool {
	switch m.Status {
	case accesscontrol.StatusInvited:
		return next == accesscontrol.StatusActive
	case accesscontrol.StatusActive:
		return next == accesscontrol.StatusSuspended
	case accesscontrol.StatusSuspended:
		return next == accesscontrol.StatusActive
	}
	return false
}

func (m *Membership) transitionTo(next accesscontrol.MembershipStatus) error {
	if !m.canTransitionTo(next) {
		return internal.ErrInvalidTransition
	}
	m.Status = next
	m.UpdatedAt = time.Now()
	return nil
}

// Accept moves an invited membership to ACTIVE.
func (m *Membership) Accept() error {
	if m.Status != accesscontrol.StatusInvited {
		return internal.ErrInvalidTransition
	}
	return m.transitionTo(accesscontrol.StatusActive)
}

// Suspend removes all capability from an active membership.
func (m *Membership) Suspend() error {
	if m.Status != accesscontrol.StatusActive {
		return internal.ErrInvalidTransition
	}
	return m.transitionTo(accesscontrol.StatusSuspended)
}

// Reinstate returns a suspended membership to ACTIVE.
func (m *Membership) Reinstate() error {
	if m.Status != accesscontrol.StatusSuspended {
		return internal.ErrInvalidTransition
	}
	return m.transitionTo(accesscontrol.StatusActive)
}

// ForResolution converts to the shape the resolution engine evaluates.
func (m *Membership) ForResolution() *accesscontrol.Membership {
	return &accesscontrol.Membership{
		ID:        m.ID,
		CenterID:  m.CenterID,
		UserID:    m.UserID,
		Role:      m.Role,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
	}
}

func ToDataModel(m *Membership) *membershipDatamodel.Membership {
	return &membershipDatamodel.Membership{
		ID:        m.ID,
		CenterID:  m.CenterID,
		UserID:    m.UserID,
		Role:      string(m.Role),
		Status:    string(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func FromDataModel(m *membershipDatamodel.Membership) *Membership {
	return &Membership{
		ID:        m.ID,
		CenterID:  m.CenterID,
		UserID:    m.UserID,
		Role:      accesscontrol.Role(m.Role),
		Status:    accesscontrol.MembershipStatus(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
