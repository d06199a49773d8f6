package accesscontrol_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/frahmantamala/center-access/internal/accesscontrol"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// MockMembershipLookup implements accesscontrol.MembershipLookup for testing
type MockMembershipLookup struct {
	byUserCenter map[[2]int64]*accesscontrol.Membership
	byID         map[int64]*accesscontrol.Membership
	shouldFail   bool
	failError    error
}

func NewMockMembershipLookup() *MockMembershipLookup {
	return &MockMembershipLookup{
		byUserCenter: make(map[[2]int64]*accesscontrol.Membership),
		byID:         make(map[int64]*accesscontrol.Membership),
	}
}

func (m *MockMembershipLookup) Add(ms *accesscontrol.Membership) {
	m.byUserCenter[[2]int64{ms.UserID, ms.CenterID}] = ms
	m.byID[ms.ID] = ms
}

func (m *MockMembershipLookup) GetForUserCenter(_ context.Context, userID, centerID int64) (*accesscontrol.Membership, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.byUserCenter[[2]int64{userID, centerID}], nil
}

func (m *MockMembershipLookup) GetByID(_ context.Context, membershipID int64) (*accesscontrol.Membership, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.byID[membershipID], nil
}

// MockAuthzRepository implements accesscontrol.RepositoryAPI for testing
type MockAuthzRepository struct {
	MockLoader
	upserts    map[[2]int64]bool
	shouldFail bool
	failError  error
}

func NewMockAuthzRepository() *MockAuthzRepository {
	return &MockAuthzRepository{upserts: make(map[[2]int64]bool)}
}

func (m *MockAuthzRepository) UpsertOverride(_ context.Context, membershipID, permissionID int64, allowed bool, _ *int64) error {
	if m.shouldFail {
		return m.failError
	}
	m.upserts[[2]int64{membershipID, permissionID}] = allowed
	m.overrides = nil
	for pair, v := range m.upserts {
		m.overrides = append(m.overrides, accesscontrol.Override{MembershipID: pair[0], PermissionID: pair[1], Allowed: v})
	}
	return nil
}

func (m *MockAuthzRepository) DeleteOverride(_ context.Context, membershipID, permissionID int64) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.upserts, [2]int64{membershipID, permissionID})
	m.overrides = nil
	for pair, v := range m.upserts {
		m.overrides = append(m.overrides, accesscontrol.Override{MembershipID: pair[0], PermissionID: pair[1], Allowed: v})
	}
	return nil
}

var _ = Describe("AccessControl Service", func() {
	var (
		lookup  *MockMembershipLookup
		repo    *MockAuthzRepository
		store   *accesscontrol.Store
		service *accesscontrol.Service
		ctx     context.Context
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	BeforeEach(func() {
		ctx = context.Background()

		lookup = NewMockMembershipLookup()
		repo = NewMockAuthzRepository()
		repo.perms = []accesscontrol.Permission{
			{ID: 1, Key: "exercise.create", Name: "Create exercises"},
			{ID: 2, Key: "exercise.publish", Name: "Publish exercises"},
		}
		repo.grants = []accesscontrol.RoleGrant{
			{Role: accesscontrol.RoleTeacher, PermissionID: 1},
			{Role: accesscontrol.RoleTeacher, PermissionID: 2},
		}

		store = accesscontrol.NewStore(repo, testLogger)
		Expect(store.Refresh(ctx)).To(Succeed())

		service = accesscontrol.NewService(store, lookup, repo, nil, testLogger)
	})

	Describe("Can", func() {
		It("allows an active member with the role default", func() {
			lookup.Add(&accesscontrol.Membership{ID: 10, CenterID: 1, UserID: 100, Role: accesscontrol.RoleTeacher, Status: accesscontrol.StatusActive})
			Expect(service.Can(ctx, 100, 1, "exercise.create")).To(BeTrue())
		})

		It("denies a user with no membership in the center", func() {
			Expect(service.Can(ctx, 100, 1, "exercise.create")).To(BeFalse())
		})

		It("denies when the membership lookup fails", func() {
			lookup.Add(&accesscontrol.Membership{ID: 10, CenterID: 1, UserID: 100, Role: accesscontrol.RoleTeacher, Status: accesscontrol.StatusActive})
			lookup.shouldFail = true
			lookup.failError = errors.New("connection refused")
			Expect(service.Can(ctx, 100, 1, "exercise.create")).To(BeFalse())
		})

		It("denies a suspended member", func() {
			lookup.Add(&accesscontrol.Membership{ID: 10, CenterID: 1, UserID: 100, Role: accesscontrol.RoleTeacher, Status: accesscontrol.StatusSuspended})
			Expect(service.Can(ctx, 100, 1, "exercise.create")).To(BeFalse())
		})
	})

	Describe("PermissionsFor", func() {
		It("returns the effective set for an active member", func() {
			lookup.Add(&accesscontrol.Membership{ID: 10, CenterID: 1, UserID: 100, Role: accesscontrol.RoleTeacher, Status: accesscontrol.StatusActive})
			Expect(service.PermissionsFor(ctx, 100, 1)).To(Equal([]string{"exercise.create", "exercise.publish"}))
		})

		It("returns nothing for a non-member", func() {
			Expect(service.PermissionsFor(ctx, 100, 1)).To(BeEmpty())
		})

		It("returns nothing when the lookup fails", func() {
			lookup.shouldFail = true
			lookup.failError = errors.New("connection refused")
			Expect(service.PermissionsFor(ctx, 100, 1)).To(BeEmpty())
		})
	})

	Describe("SetOverride", func() {
		BeforeEach(func() {
			lookup.Add(&accesscontrol.Membership{ID: 10, CenterID: 1, UserID: 100, Role: accesscontrol.RoleTeacher, Status: accesscontrol.StatusActive})
		})

		It("rejects an unknown permission key", func() {
			err := service.SetOverride(ctx, 1, 10, "exercise.delete", false, nil)
			Expect(err).To(MatchError(accesscontrol.ErrUnknownPermission))
			Expect(repo.upserts).To(BeEmpty())
		})

		It("rejects a membership that does not exist", func() {
			err := service.SetOverride(ctx, 1, 999, "exercise.create", false, nil)
			Expect(err).To(MatchError(accesscontrol.ErrMembershipNotFound))
		})

		It("rejects a membership belonging to another center", func() {
			lookup.Add(&accesscontrol.Membership{ID: 30, CenterID: 2, UserID: 300, Role: accesscontrol.RoleTeacher, Status: accesscontrol.StatusActive})

			err := service.SetOverride(ctx, 1, 30, "exercise.create", false, nil)
			Expect(err).To(MatchError(accesscontrol.ErrMembershipNotFound))
			Expect(repo.upserts).To(BeEmpty())
		})

		It("revokes a role default and takes effect immediately", func() {
			Expect(service.Can(ctx, 100, 1, "exercise.publish")).To(BeTrue())

			Expect(service.SetOverride(ctx, 1, 10, "exercise.publish", false, nil)).To(Succeed())
			Expect(service.Can(ctx, 100, 1, "exercise.publish")).To(BeFalse())
			Expect(service.Can(ctx, 100, 1, "exercise.create")).To(BeTrue())
		})

		It("grants beyond the role default and takes effect immediately", func() {
			lookup.Add(&accesscontrol.Membership{ID: 20, CenterID: 1, UserID: 200, Role: accesscontrol.RoleStudent, Status: accesscontrol.StatusActive})
			Expect(service.Can(ctx, 200, 1, "exercise.create")).To(BeFalse())

			Expect(service.SetOverride(ctx, 1, 20, "exercise.create", true, nil)).To(Succeed())
			Expect(service.Can(ctx, 200, 1, "exercise.create")).To(BeTrue())
		})

		It("propagates repository failures", func() {
			repo.shouldFail = true
			repo.failError = errors.New("constraint violation")
			Expect(service.SetOverride(ctx, 1, 10, "exercise.create", false, nil)).To(HaveOccurred())
		})
	})

	Describe("ClearOverride", func() {
		BeforeEach(func() {
			lookup.Add(&accesscontrol.Membership{ID: 10, CenterID: 1, UserID: 100, Role: accesscontrol.RoleTeacher, Status: accesscontrol.StatusActive})
		})

		It("restores the role default", func() {
			Expect(service.SetOverride(ctx, 1, 10, "exercise.publish", false, nil)).To(Succeed())
			Expect(service.Can(ctx, 100, 1, "exercise.publish")).To(BeFalse())

			Expect(service.ClearOverride(ctx, 1, 10, "exercise.publish")).To(Succeed())
			Expect(service.Can(ctx, 100, 1, "exercise.publish")).To(BeTrue())
		})

		It("rejects an unknown permission key", func() {
			Expect(service.ClearOverride(ctx, 1, 10, "exercise.delete")).To(MatchError(accesscontrol.ErrUnknownPermission))
		})

		It("rejects a membership belonging to another center", func() {
			lookup.Add(&accesscontrol.Membership{ID: 30, CenterID: 2, UserID: 300, Role: accesscontrol.RoleTeacher, Status: accesscontrol.StatusActive})

			err := service.ClearOverride(ctx, 1, 30, "exercise.publish")
			Expect(err).To(MatchError(accesscontrol.ErrMembershipNotFound))
		})

		It("is a no-op when no override exists", func() {
			Expect(service.ClearOverride(ctx, 1, 10, "exercise.publish")).To(Succeed())
			Expect(service.Can(ctx, 100, 1, "exercise.publish")).To(BeTrue())
		})
	})

	Describe("Catalog", func() {
		It("lists the administered catalog sorted by key", func() {
			catalog := service.Catalog()
			Expect(catalog).To(HaveLen(2))
			Expect(catalog[0].Key).To(Equal("exercise.create"))
			Expect(catalog[1].Key).To(Equal("exercise.publish"))
		})
	})
})
