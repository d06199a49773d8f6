package accesscontrol

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Loader fetches the three administered tables from the backing store.
// One call produces one consistent row set; the store turns it into an
// immutable snapshot.
type Loader interface {
	LoadRows(ctx context.Context) (perms []Permission, grants []RoleGrant, overrides []Override, err error)
}

// Store publishes the current snapshot. Readers call Current and keep
// evaluating against whatever version they got; Refresh builds a new
// snapshot and swaps the pointer atomically, so a reader never observes
// a half-updated table.
type Store struct {
	loader  Loader
	logger  *slog.Logger
	current atomic.Pointer[Snapshot]
}

func NewStore(loader Loader, logger *slog.Logger) *Store {
	s := &Store{
		loader: loader,
		logger: logger,
	}
	s.current.Store(EmptySnapshot())
	return s
}

// Current returns the latest published snapshot. Never nil.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Refresh loads the tables and publishes a fresh snapshot. On failure
// the previous snapshot stays in place.
func (s *Store) Refresh(ctx context.Context) error {
	perms, grants, overrides, err := s.loader.LoadRows(ctx)
	if err != nil {
		s.logger.Error("authz snapshot refresh failed, keeping previous snapshot", "error", err)
		return err
	}

	s.current.Store(NewSnapshot(perms, grants, overrides))
	s.logger.Debug("authz snapshot refreshed",
		"permissions", len(perms),
		"role_grants", len(grants),
		"overrides", len(overrides))
	return nil
}

// StartRefreshing refreshes immediately, then on every tick until the
// context is cancelled. Interval <= 0 disables the loop after the
// initial load.
func (s *Store) StartRefreshing(ctx context.Context, interval time.Duration) error {
	if err := s.Refresh(ctx); err != nil {
		return err
	}
	if interval <= 0 {
		return nil
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = s.Refresh(ctx)
			}
		}
	}()
	return nil
}
