package membership

import "github.com/frahmantamala/center-access/internal/accesscontrol"

// InviteDTO is the transport shape for inviting a user into a center.
type InviteDTO struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d InviteDTO) Validate() error {
	if d.UserID == 0 {
		return ValidationError{Msg: "user_id is required"}
	}
	if d.Role == "" {
		return ValidationError{Msg: "role is required"}
	}
	if !accesscontrol.Role(d.Role).Valid() {
		return ValidationError{Msg: "role must be one of OWNER, ADMIN, TEACHER, STUDENT"}
	}
	return nil
}

type MembershipResponse struct {
	ID       int64  `json:"id"`
	CenterID int64  `json:"center_id"`
	UserID   int64  `json:"user_id"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

func (m *Membership) ToResponse() MembershipResponse {
	return MembershipResponse{
		ID:       m.ID,
		CenterID: m.CenterID,
		UserID:   m.UserID,
		Role:     string(m.Role),
		Status:   string(m.Status),
	}
}
