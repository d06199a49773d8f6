package accesscontrol

// OverrideDTO is the transport shape for setting a per-membership
// override.
type OverrideDTO struct {
	Allowed *bool `json:"allowed"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d OverrideDTO) Validate() error {
	if d.Allowed == nil {
		return ValidationError{Msg: "allowed is required"}
	}
	return nil
}

type PermissionResponse struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

type EffectivePermissionsResponse struct {
	Permissions []string `json:"permissions"`
}

func ToPermissionResponses(perms []Permission) []PermissionResponse {
	out := make([]PermissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, PermissionResponse{Key: p.Key, Name: p.Name})
	}
	return out
}
