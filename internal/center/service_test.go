package center_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/center-access/internal"
	"github.com/frahmantamala/center-access/internal/center"
	centerDatamodel "github.com/frahmantamala/center-access/internal/core/datamodel/center"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCenterService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Center Service Suite")
}

// MockRepository implements center.RepositoryAPI for testing
type MockRepository struct {
	bySlug     map[string]*centerDatamodel.Center
	owners     map[int64]int64
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		bySlug: make(map[string]*centerDatamodel.Center),
		owners: make(map[int64]int64),
		nextID: 1,
	}
}

func (m *MockRepository) GetBySlug(_ context.Context, slug string) (*centerDatamodel.Center, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.bySlug[slug], nil
}

func (m *MockRepository) GetByID(_ context.Context, id int64) (*centerDatamodel.Center, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, c := range m.bySlug {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) List(_ context.Context) ([]*centerDatamodel.Center, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*centerDatamodel.Center
	for _, c := range m.bySlug {
		result = append(result, c)
	}
	return result, nil
}

func (m *MockRepository) CreateWithOwner(_ context.Context, c *centerDatamodel.Center, ownerUserID int64) error {
	if m.shouldFail {
		return m.failError
	}
	c.ID = m.nextID
	m.nextID++
	m.bySlug[c.Slug] = c
	m.owners[c.ID] = ownerUserID
	return nil
}

func (m *MockRepository) Update(_ context.Context, c *centerDatamodel.Center) error {
	if m.shouldFail {
		return m.failError
	}
	for slug, existing := range m.bySlug {
		if existing.ID == c.ID && slug != c.Slug {
			delete(m.bySlug, slug)
		}
	}
	m.bySlug[c.Slug] = c
	return nil
}

var _ = Describe("Center Service", func() {
	var (
		mockRepo *MockRepository
		service  *center.Service
		ctx      context.Context
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		service = center.NewService(mockRepo, testLogger)
		ctx = context.Background()
	})

	Describe("Create", func() {
		It("creates a center with a valid slug", func() {
			c, err := service.Create(ctx, center.CreateDTO{Name: "Harbor Prep", Slug: "harbor-prep"}, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ID).To(BeNumerically(">", 0))
			Expect(c.Slug).To(Equal("harbor-prep"))
		})

		It("enrolls the creator as the center's owner", func() {
			c, err := service.Create(ctx, center.CreateDTO{Name: "Harbor Prep", Slug: "harbor-prep"}, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(mockRepo.owners[c.ID]).To(Equal(int64(100)))
		})

		It("rejects a taken slug", func() {
			_, err := service.Create(ctx, center.CreateDTO{Name: "Harbor Prep", Slug: "harbor-prep"}, 100)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(ctx, center.CreateDTO{Name: "Another", Slug: "harbor-prep"}, 100)
			Expect(err).To(MatchError(internal.ErrCenterSlugTaken))
		})

		It("rejects malformed slugs", func() {
			for _, slug := range []string{"", "ab", "Harbor", "harbor_prep", "-harbor", "harbor-", "harbor prep"} {
				_, err := service.Create(ctx, center.CreateDTO{Name: "Harbor Prep", Slug: slug}, 100)
				Expect(err).To(HaveOccurred(), "slug %q", slug)
			}
		})

		It("rejects a missing name", func() {
			_, err := service.Create(ctx, center.CreateDTO{Slug: "harbor-prep"}, 100)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetBySlug", func() {
		It("returns the center", func() {
			_, err := service.Create(ctx, center.CreateDTO{Name: "Harbor Prep", Slug: "harbor-prep"}, 100)
			Expect(err).NotTo(HaveOccurred())

			c, err := service.GetBySlug(ctx, "harbor-prep")
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Name).To(Equal("Harbor Prep"))
		})

		It("returns not found for an unknown slug", func() {
			_, err := service.GetBySlug(ctx, "nope")
			Expect(err).To(MatchError(internal.ErrCenterNotFound))
		})
	})

	Describe("Update", func() {
		BeforeEach(func() {
			_, err := service.Create(ctx, center.CreateDTO{Name: "Harbor Prep", Slug: "harbor-prep"}, 100)
			Expect(err).NotTo(HaveOccurred())
		})

		It("renames a center", func() {
			name := "Harbor Preparation"
			c, err := service.Update(ctx, "harbor-prep", center.UpdateDTO{Name: &name})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Name).To(Equal("Harbor Preparation"))
			Expect(c.Slug).To(Equal("harbor-prep"))
		})

		It("re-slugs a center keeping the id", func() {
			before, err := service.GetBySlug(ctx, "harbor-prep")
			Expect(err).NotTo(HaveOccurred())

			slug := "harbor-preparation"
			c, err := service.Update(ctx, "harbor-prep", center.UpdateDTO{Slug: &slug})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.ID).To(Equal(before.ID))
			Expect(c.Slug).To(Equal("harbor-preparation"))
		})

		It("rejects re-slugging onto a taken slug", func() {
			_, err := service.Create(ctx, center.CreateDTO{Name: "Other", Slug: "other-center"}, 100)
			Expect(err).NotTo(HaveOccurred())

			slug := "other-center"
			_, err = service.Update(ctx, "harbor-prep", center.UpdateDTO{Slug: &slug})
			Expect(err).To(MatchError(internal.ErrCenterSlugTaken))
		})

		It("rejects an empty update", func() {
			_, err := service.Update(ctx, "harbor-prep", center.UpdateDTO{})
			Expect(err).To(HaveOccurred())
		})

		It("returns not found for an unknown center", func() {
			name := "New Name"
			_, err := service.Update(ctx, "nope", center.UpdateDTO{Name: &name})
			Expect(err).To(MatchError(internal.ErrCenterNotFound))
		})
	})

	Describe("List", func() {
		It("returns every center", func() {
			_, err := service.Create(ctx, center.CreateDTO{Name: "Harbor Prep", Slug: "harbor-prep"}, 100)
			Expect(err).NotTo(HaveOccurred())
			_, err = service.Create(ctx, center.CreateDTO{Name: "Other", Slug: "other-center"}, 200)
			Expect(err).NotTo(HaveOccurred())

			centers, err := service.List(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(centers).To(HaveLen(2))
		})

		It("propagates repository failures", func() {
			mockRepo.shouldFail = true
			mockRepo.failError = errors.New("connection refused")

			_, err := service.List(ctx)
			Expect(err).To(HaveOccurred())
		})
	})
})
