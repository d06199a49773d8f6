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

// MockLoader implements accesscontrol.Loader for testing
type MockLoader struct {
	perms      []accesscontrol.Permission
	grants     []accesscontrol.RoleGrant
	overrides  []accesscontrol.Override
	shouldFail bool
	failError  error
	loadCount  int
}

func (m *MockLoader) LoadRows(_ context.Context) ([]accesscontrol.Permission, []accesscontrol.RoleGrant, []accesscontrol.Override, error) {
	m.loadCount++
	if m.shouldFail {
		return nil, nil, nil, m.failError
	}
	return m.perms, m.grants, m.overrides, nil
}

var _ = Describe("Store", func() {
	var (
		loader *MockLoader
		store  *accesscontrol.Store
		ctx    context.Context
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	BeforeEach(func() {
		loader = &MockLoader{
			perms:  []accesscontrol.Permission{{ID: 1, Key: "exercise.create", Name: "Create exercises"}},
			grants: []accesscontrol.RoleGrant{{Role: accesscontrol.RoleTeacher, PermissionID: 1}},
		}
		store = accesscontrol.NewStore(loader, testLogger)
		ctx = context.Background()
	})

	It("starts with an empty snapshot that denies everything", func() {
		m := activeMembership(1, accesscontrol.RoleOwner)
		Expect(store.Current().IsAllowed(m, "exercise.create")).To(BeFalse())
	})

	It("publishes loaded rows on refresh", func() {
		Expect(store.Refresh(ctx)).To(Succeed())

		m := activeMembership(1, accesscontrol.RoleTeacher)
		Expect(store.Current().IsAllowed(m, "exercise.create")).To(BeTrue())
	})

	It("keeps the previous snapshot when a refresh fails", func() {
		Expect(store.Refresh(ctx)).To(Succeed())
		before := store.Current()

		loader.shouldFail = true
		loader.failError = errors.New("connection refused")
		Expect(store.Refresh(ctx)).To(HaveOccurred())
		Expect(store.Current()).To(BeIdenticalTo(before))
	})

	It("swaps in new rows wholesale on the next refresh", func() {
		Expect(store.Refresh(ctx)).To(Succeed())

		loader.grants = nil
		Expect(store.Refresh(ctx)).To(Succeed())

		m := activeMembership(1, accesscontrol.RoleTeacher)
		Expect(store.Current().IsAllowed(m, "exercise.create")).To(BeFalse())
	})

	Describe("StartRefreshing", func() {
		It("fails when the initial load fails", func() {
			loader.shouldFail = true
			loader.failError = errors.New("connection refused")
			Expect(store.StartRefreshing(ctx, 0)).To(HaveOccurred())
		})

		It("performs a single load when the interval is zero", func() {
			Expect(store.StartRefreshing(ctx, 0)).To(Succeed())
			Expect(loader.loadCount).To(Equal(1))

			m := activeMembership(1, accesscontrol.RoleTeacher)
			Expect(store.Current().IsAllowed(m, "exercise.create")).To(BeTrue())
		})
	})
})
