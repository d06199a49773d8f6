package center

import (
	"regexp"
	"time"

	centerDatamodel "github.com/frahmantamala/center-access/internal/core/datamodel/center"
)

// Center is a tenant boundary: memberships and permission decisions are
// always scoped to exactly one center.
type Center struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug reports whether s is a lowercase, hyphen-separated tenant key.
func ValidSlug(s string) bool {
	return len(s) >= 3 && len(s) <= 64 && slugPattern.MatchString(s)
}

type CreateDTO struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type UpdateDTO struct {
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

// ValidationError represents a simple validation error from DTO validation.
type ValidationError struct {
	Msg string
}

func (v ValidationError) Error() string { return v.Msg }

func (d CreateDTO) Validate() error {
	if d.Name == "" {
		return ValidationError{Msg: "name is required"}
	}
	if !ValidSlug(d.Slug) {
		return ValidationError{Msg: "slug must be 3-64 lowercase letters, digits and hyphens"}
	}
	return nil
}

func (d UpdateDTO) Validate() error {
	if d.Name == nil && d.Slug == nil {
		return ValidationError{Msg: "nothing to update"}
	}
	if d.Name != nil && *d.Name == "" {
		return ValidationError{Msg: "name cannot be empty"}
	}
	if d.Slug != nil && !ValidSlug(*d.Slug) {
		return ValidationError{Msg: "slug must be 3-64 lowercase letters, digits and hyphens"}
	}
	return nil
}

type CenterResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (c *Center) ToResponse() CenterResponse {
	return CenterResponse{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

func ToDataModel(c *Center) *centerDatamodel.Center {
	return &centerDatamodel.Center{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromDataModel(c *centerDatamodel.Center) *Center {
	return &Center{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
