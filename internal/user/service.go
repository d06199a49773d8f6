package user

import (
	"context"
	"log/slog"
)

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

// GetProfile returns the user with their membership summaries.
func (s *Service) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	profile, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load user profile", "user_id", userID, "error", err)
		return nil, err
	}

	memberships, err := s.repo.ListMemberships(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load user memberships", "user_id", userID, "error", err)
		return nil, err
	}

	if memberships == nil {
		memberships = []MembershipSummary{}
	}
	profile.Memberships = memberships
	return profile, nil
}
