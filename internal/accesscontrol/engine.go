package accesscontrol

import "sort"

// Snapshot is one immutable version of the administered authorization
// tables: the permission catalog, the role-default grants and the
// per-membership overrides. Snapshots are built once and never mutated,
// so any number of goroutines may evaluate against one concurrently.
type Snapshot struct {
	byKey        map[string]Permission
	byID         map[int64]Permission
	roleDefaults map[Role]map[int64]struct{}
	overrides    map[int64]map[int64]bool
}

// NewSnapshot builds an immutable snapshot from raw table rows.
// Overrides that reference a permission id missing from the catalog are
// kept out of the effective-set computation by construction; IsAllowed
// can never reach them because it resolves the key through the catalog
// first.
func NewSnapshot(perms []Permission, grants []RoleGrant, overrides []Override) *Snapshot {
	s := &Snapshot{
		byKey:        make(map[string]Permission, len(perms)),
		byID:         make(map[int64]Permission, len(perms)),
		roleDefaults: make(map[Role]map[int64]struct{}),
		overrides:    make(map[int64]map[int64]bool),
	}

	for _, p := range perms {
		s.byKey[p.Key] = p
		s.byID[p.ID] = p
	}

	for _, g := range grants {
		ids, ok := s.roleDefaults[g.Role]
		if !ok {
			ids = make(map[int64]struct{})
			s.roleDefaults[g.Role] = ids
		}
		ids[g.PermissionID] = struct{}{}
	}

	for _, o := range overrides {
		byPerm, ok := s.overrides[o.MembershipID]
		if !ok {
			byPerm = make(map[int64]bool)
			s.overrides[o.MembershipID] = byPerm
		}
		byPerm[o.PermissionID] = o.Allowed
	}

	return s
}

// EmptySnapshot returns a snapshot that denies everything. Used as the
// store's initial value so evaluation before the first refresh fails
// closed instead of panicking.
func EmptySnapshot() *Snapshot {
	return NewSnapshot(nil, nil, nil)
}

// LookupByKey resolves a permission key against the catalog.
func (s *Snapshot) LookupByKey(key string) (Permission, bool) {
	p, ok := s.byKey[key]
	return p, ok
}

// Catalog returns all permissions sorted by key.
func (s *Snapshot) Catalog() []Permission {
	perms := make([]Permission, 0, len(s.byKey))
	for _, p := range s.byKey {
		perms = append(perms, p)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i].Key < perms[j].Key })
	return perms
}

// IsAllowed decides whether the membership may perform the action named
// by key. The status gate runs before any table lookup, an explicit
// override wins over the role default in both directions, and unknown
// keys always deny.
func (s *Snapshot) IsAllowed(m *Membership, key string) bool {
	if !m.IsActive() {
		return false
	}

	perm, ok := s.byKey[key]
	if !ok {
		return false
	}

	if allowed, ok := s.overrides[m.ID][perm.ID]; ok {
		return allowed
	}

	_, granted := s.roleDefaults[m.Role][perm.ID]
	return granted
}

// EffectivePermissions returns the sorted keys of every permission the
// membership holds after overrides are applied: role defaults plus
// explicit grants, minus explicit revocations, restricted to the
// catalog. Non-active memberships hold nothing.
func (s *Snapshot) EffectivePermissions(m *Membership) []string {
	if !m.IsActive() {
		return nil
	}

	ids := make(map[int64]struct{}, len(s.roleDefaults[m.Role]))
	for id := range s.roleDefaults[m.Role] {
		if _, known := s.byID[id]; known {
			ids[id] = struct{}{}
		}
	}

	for id, allowed := range s.overrides[m.ID] {
		if _, known := s.byID[id]; !known {
			continue
		}
		if allowed {
			ids[id] = struct{}{}
		} else {
			delete(ids, id)
		}
	}

	keys := make([]string, 0, len(ids))
	for id := range ids {
		keys = append(keys, s.byID[id].Key)
	}
	sort.Strings(keys)
	return keys
}
