package center

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/center-access/internal"
	centerDatamodel "github.com/frahmantamala/center-access/internal/core/datamodel/center"
)

type RepositoryAPI interface {
	GetBySlug(ctx context.Context, slug string) (*centerDatamodel.Center, error)
	GetByID(ctx context.Context, id int64) (*centerDatamodel.Center, error)
	List(ctx context.Context) ([]*centerDatamodel.Center, error)
	CreateWithOwner(ctx context.Context, c *centerDatamodel.Center, ownerUserID int64) error
	Update(ctx context.Context, c *centerDatamodel.Center) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Create registers a new tenant and enrolls its creator as an ACTIVE
// OWNER, so the new center is administrable from the first request.
// Slugs are globally unique.
func (s *Service) Create(ctx context.Context, dto CreateDTO, creatorID int64) (*Center, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetBySlug(ctx, dto.Slug)
	if err != nil {
		s.logger.Error("failed to check slug uniqueness", "slug", dto.Slug, "error", err)
		return nil, err
	}
	if existing != nil {
		return nil, internal.ErrCenterSlugTaken
	}

	row := &centerDatamodel.Center{Name: dto.Name, Slug: dto.Slug}
	if err := s.repo.CreateWithOwner(ctx, row, creatorID); err != nil {
		s.logger.Error("failed to create center", "slug", dto.Slug, "error", err)
		return nil, err
	}

	s.logger.Info("center created", "center_id", row.ID, "slug", row.Slug, "owner_user_id", creatorID)
	return FromDataModel(row), nil
}

// GetBySlug resolves a tenant by its slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*Center, error) {
	row, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrCenterNotFound
	}
	return FromDataModel(row), nil
}

// Update renames or re-slugs a center; ids never change.
func (s *Service) Update(ctx context.Context, slug string, dto UpdateDTO) (*Center, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrCenterNotFound
	}

	if dto.Slug != nil && *dto.Slug != row.Slug {
		taken, err := s.repo.GetBySlug(ctx, *dto.Slug)
		if err != nil {
			return nil, err
		}
		if taken != nil {
			return nil, internal.ErrCenterSlugTaken
		}
		row.Slug = *dto.Slug
	}
	if dto.Name != nil {
		row.Name = *dto.Name
	}
	row.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, row); err != nil {
		s.logger.Error("failed to update center", "center_id", row.ID, "error", err)
		return nil, err
	}

	return FromDataModel(row), nil
}

// List returns all centers.
func (s *Service) List(ctx context.Context) ([]CenterResponse, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list centers", "error", err)
		return nil, err
	}

	responses := make([]CenterResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, FromDataModel(row).ToResponse())
	}
	return responses, nil
}
