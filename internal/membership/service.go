package membership

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/center-access/internal"
	"github.com/frahmantamala/center-access/internal/accesscontrol"
	membershipDatamodel "github.com/frahmantamala/center-access/internal/core/datamodel/membership"
	"github.com/frahmantamala/center-access/internal/core/events"
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*membershipDatamodel.Membership, error)
	GetForUserCenter(ctx context.Context, userID, centerID int64) (*membershipDatamodel.Membership, error)
	ListForCenter(ctx context.Context, centerID int64) ([]*membershipDatamodel.Membership, error)
	Create(ctx context.Context, m *membershipDatamodel.Membership) error
	UpdateStatus(ctx context.Context, id int64, status string) error
}

type Service struct {
	repo   RepositoryAPI
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

// Invite creates an INVITED membership for the user in the center. At
// most one membership may exist per (center, user) pair.
func (s *Service) Invite(ctx context.Context, centerID int64, dto InviteDTO) (*Membership, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetForUserCenter(ctx, dto.UserID, centerID)
	if err != nil {
		s.logger.Error("failed to check existing membership", "user_id", dto.UserID, "center_id", centerID, "error", err)
		return nil, err
	}
	if existing != nil {
		return nil, internal.ErrMembershipExists
	}

	row := &membershipDatamodel.Membership{
		CenterID: centerID,
		UserID:   dto.UserID,
		Role:     dto.Role,
		Status:   string(accesscontrol.StatusInvited),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to create membership", "user_id", dto.UserID, "center_id", centerID, "error", err)
		return nil, err
	}

	m := FromDataModel(row)
	s.publish(ctx, events.EventTypeMembershipInvited, m)
	s.logger.Info("membership invited", "membership_id", m.ID, "center_id", centerID, "user_id", dto.UserID, "role", dto.Role)
	return m, nil
}

// Accept transitions INVITED → ACTIVE. Only the invited user may
// accept their own membership, and only through its own center.
func (s *Service) Accept(ctx context.Context, centerID, membershipID, actorID int64) (*Membership, error) {
	row, err := s.repo.GetByID(ctx, membershipID)
	if err != nil {
		s.logger.Error("failed to load membership", "membership_id", membershipID, "error", err)
		return nil, err
	}
	if row == nil || row.UserID != actorID || row.CenterID != centerID {
		return nil, internal.ErrMembershipNotFound
	}

	m := FromDataModel(row)
	if err := m.Accept(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, m.ID, string(m.Status)); err != nil {
		s.logger.Error("failed to update membership status", "membership_id", m.ID, "status", m.Status, "error", err)
		return nil, err
	}

	s.publish(ctx, events.EventTypeMembershipAccepted, m)
	s.logger.Info("membership accepted", "membership_id", m.ID, "user_id", actorID)
	return m, nil
}

// Suspend transitions ACTIVE → SUSPENDED; the engine then resolves the
// membership to zero capability.
func (s *Service) Suspend(ctx context.Context, centerID, membershipID int64) (*Membership, error) {
	return s.transition(ctx, centerID, membershipID, (*Membership).Suspend, events.EventTypeMembershipSuspended)
}

// Reinstate transitions SUSPENDED → ACTIVE.
func (s *Service) Reinstate(ctx context.Context, centerID, membershipID int64) (*Membership, error) {
	return s.transition(ctx, centerID, membershipID, (*Membership).Reinstate, events.EventTypeMembershipReinstated)
}

// transition applies a lifecycle change to a membership of the given
// center. A membership of any other center is reported as not found so
// tenants cannot act on each other's members.
func (s *Service) transition(ctx context.Context, centerID, membershipID int64, apply func(*Membership) error, eventType string) (*Membership, error) {
	row, err := s.repo.GetByID(ctx, membershipID)
	if err != nil {
		s.logger.Error("failed to load membership", "membership_id", membershipID, "error", err)
		return nil, err
	}
	if row == nil || row.CenterID != centerID {
		return nil, internal.ErrMembershipNotFound
	}

	m := FromDataModel(row)
	if err := apply(m); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, m.ID, string(m.Status)); err != nil {
		s.logger.Error("failed to update membership status", "membership_id", m.ID, "status", m.Status, "error", err)
		return nil, err
	}

	s.publish(ctx, eventType, m)
	s.logger.Info("membership status changed", "membership_id", m.ID, "status", m.Status)
	return m, nil
}

// GetForUserCenter returns the membership binding the user to the
// center, or nil when none exists.
func (s *Service) GetForUserCenter(ctx context.Context, userID, centerID int64) (*Membership, error) {
	row, err := s.repo.GetForUserCenter(ctx, userID, centerID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, nil
	}
	return FromDataModel(row), nil
}

// ListForCenter returns all memberships of a center.
func (s *Service) ListForCenter(ctx context.Context, centerID int64) ([]MembershipResponse, error) {
	rows, err := s.repo.ListForCenter(ctx, centerID)
	if err != nil {
		s.logger.Error("failed to list memberships", "center_id", centerID, "error", err)
		return nil, err
	}

	responses := make([]MembershipResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, FromDataModel(row).ToResponse())
	}
	return responses, nil
}

func (s *Service) publish(ctx context.Context, eventType string, m *Membership) {
	if s.bus == nil {
		return
	}
	_ = s.bus.Publish(ctx, events.NewMembershipEvent(eventType, m.ID, m.CenterID, m.UserID, string(m.Role)))
}
