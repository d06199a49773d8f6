package accesscontrol

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/center-access/internal/core/events"
)

// MembershipLookup resolves the active membership binding a user to a
// center. Implemented by the membership module's repository.
type MembershipLookup interface {
	GetForUserCenter(ctx context.Context, userID, centerID int64) (*Membership, error)
	GetByID(ctx context.Context, membershipID int64) (*Membership, error)
}

// RepositoryAPI is the persistence surface the service needs beyond
// snapshot loading: override administration.
type RepositoryAPI interface {
	Loader
	UpsertOverride(ctx context.Context, membershipID, permissionID int64, allowed bool, grantedBy *int64) error
	DeleteOverride(ctx context.Context, membershipID, permissionID int64) error
}

// Service joins the membership lookup collaborator to the pure
// resolution engine and owns override administration. All decision
// paths fail closed: a lookup error is treated as no membership.
type Service struct {
	store       *Store
	memberships MembershipLookup
	repo        RepositoryAPI
	bus         *events.EventBus
	logger      *slog.Logger
}

func NewService(store *Store, memberships MembershipLookup, repo RepositoryAPI, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		store:       store,
		memberships: memberships,
		repo:        repo,
		bus:         bus,
		logger:      logger,
	}
}

// IsAllowed evaluates a membership the caller already holds against the
// current snapshot.
func (s *Service) IsAllowed(m *Membership, key string) bool {
	return s.store.Current().IsAllowed(m, key)
}

// EffectivePermissions returns the post-override permission keys for a
// membership the caller already holds.
func (s *Service) EffectivePermissions(m *Membership) []string {
	return s.store.Current().EffectivePermissions(m)
}

// Can decides whether the user may perform the action inside the
// center. No membership, an inactive membership, an unknown key or a
// lookup failure all deny.
func (s *Service) Can(ctx context.Context, userID, centerID int64, key string) bool {
	m, err := s.memberships.GetForUserCenter(ctx, userID, centerID)
	if err != nil {
		s.logger.Warn("membership lookup failed, denying",
			"user_id", userID, "center_id", centerID, "permission", key, "error", err)
		return false
	}

	allowed := s.store.Current().IsAllowed(m, key)
	if !allowed && s.bus != nil {
		_ = s.bus.Publish(ctx, events.NewAccessDeniedEvent(userID, centerID, key))
	}
	return allowed
}

// PermissionsFor returns the effective permission set for the user in
// the center; empty when there is no active membership.
func (s *Service) PermissionsFor(ctx context.Context, userID, centerID int64) []string {
	m, err := s.memberships.GetForUserCenter(ctx, userID, centerID)
	if err != nil {
		s.logger.Warn("membership lookup failed, returning empty permission set",
			"user_id", userID, "center_id", centerID, "error", err)
		return nil
	}
	return s.store.Current().EffectivePermissions(m)
}

// Catalog lists the administered permission catalog from the current
// snapshot.
func (s *Service) Catalog() []Permission {
	return s.store.Current().Catalog()
}

// SetOverride upserts an explicit grant or revocation for a membership
// and republishes the snapshot so the change takes effect immediately.
// The membership must belong to the given center; one of another center
// is reported as not found.
func (s *Service) SetOverride(ctx context.Context, centerID, membershipID int64, key string, allowed bool, grantedBy *int64) error {
	perm, ok := s.store.Current().LookupByKey(key)
	if !ok {
		return ErrUnknownPermission
	}

	m, err := s.memberships.GetByID(ctx, membershipID)
	if err != nil {
		return err
	}
	if m == nil || m.CenterID != centerID {
		return ErrMembershipNotFound
	}

	if err := s.repo.UpsertOverride(ctx, membershipID, perm.ID, allowed, grantedBy); err != nil {
		s.logger.Error("failed to upsert override",
			"membership_id", membershipID, "permission", key, "error", err)
		return err
	}

	if s.bus != nil {
		_ = s.bus.Publish(ctx, events.NewOverrideSetEvent(membershipID, key, allowed))
	}
	return s.store.Refresh(ctx)
}

// ClearOverride removes an explicit override so the membership falls
// back to its role default for that permission. Scoped to the center
// the same way SetOverride is.
func (s *Service) ClearOverride(ctx context.Context, centerID, membershipID int64, key string) error {
	perm, ok := s.store.Current().LookupByKey(key)
	if !ok {
		return ErrUnknownPermission
	}

	m, err := s.memberships.GetByID(ctx, membershipID)
	if err != nil {
		return err
	}
	if m == nil || m.CenterID != centerID {
		return ErrMembershipNotFound
	}

	if err := s.repo.DeleteOverride(ctx, membershipID, perm.ID); err != nil {
		s.logger.Error("failed to delete override",
			"membership_id", membershipID, "permission", key, "error", err)
		return err
	}

	if s.bus != nil {
		_ = s.bus.Publish(ctx, events.NewOverrideClearedEvent(membershipID, key))
	}
	return s.store.Refresh(ctx)
}
