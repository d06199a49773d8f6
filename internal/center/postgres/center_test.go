package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/frahmantamala/center-access/internal/center"
	centerPostgres "github.com/frahmantamala/center-access/internal/center/postgres"
	centerDatamodel "github.com/frahmantamala/center-access/internal/core/datamodel/center"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestCenterPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Center Postgres Suite")
}

// SQLiteCenter is a SQLite-compatible model for testing
type SQLiteCenter struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	Slug      string    `gorm:"column:slug;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SQLiteCenter) TableName() string { return "centers" }

// SQLiteMembership is a SQLite-compatible model for testing
type SQLiteMembership struct {
	ID        int64     `gorm:"primaryKey"`
	CenterID  int64     `gorm:"column:center_id;not null;uniqueIndex:idx_memberships_center_user"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_memberships_center_user"`
	Role      string    `gorm:"column:role;not null"`
	Status    string    `gorm:"column:status;not null;default:INVITED"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SQLiteMembership) TableName() string { return "memberships" }

var _ = Describe("Center PostgreSQL Repository", func() {
	var (
		db   *gorm.DB
		repo center.RepositoryAPI
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteCenter{}, &SQLiteMembership{})
		Expect(err).NotTo(HaveOccurred())

		repo = centerPostgres.NewCenterRepository(db)
		ctx = context.Background()
	})

	Describe("CreateWithOwner", func() {
		It("creates the center and an ACTIVE OWNER membership for the creator", func() {
			row := &centerDatamodel.Center{Name: "Harbor Prep", Slug: "harbor-prep"}
			Expect(repo.CreateWithOwner(ctx, row, 100)).To(Succeed())
			Expect(row.ID).To(BeNumerically(">", 0))

			var owner SQLiteMembership
			err := db.Where("center_id = ? AND user_id = ?", row.ID, 100).First(&owner).Error
			Expect(err).NotTo(HaveOccurred())
			Expect(owner.Role).To(Equal("OWNER"))
			Expect(owner.Status).To(Equal("ACTIVE"))
		})

		It("leaves no membership behind when the center insert fails", func() {
			first := &centerDatamodel.Center{Name: "Harbor Prep", Slug: "harbor-prep"}
			Expect(repo.CreateWithOwner(ctx, first, 100)).To(Succeed())

			duplicate := &centerDatamodel.Center{Name: "Another", Slug: "harbor-prep"}
			Expect(repo.CreateWithOwner(ctx, duplicate, 200)).To(HaveOccurred())

			var count int64
			Expect(db.Model(&SQLiteMembership{}).Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))
		})
	})

	Describe("GetBySlug", func() {
		It("returns nil for a missing slug", func() {
			row, err := repo.GetBySlug(ctx, "nope")
			Expect(err).NotTo(HaveOccurred())
			Expect(row).To(BeNil())
		})

		It("returns the row when it exists", func() {
			created := &centerDatamodel.Center{Name: "Harbor Prep", Slug: "harbor-prep"}
			Expect(repo.CreateWithOwner(ctx, created, 100)).To(Succeed())

			row, err := repo.GetBySlug(ctx, "harbor-prep")
			Expect(err).NotTo(HaveOccurred())
			Expect(row).NotTo(BeNil())
			Expect(row.Name).To(Equal("Harbor Prep"))
		})
	})

	Describe("Update", func() {
		It("persists renames", func() {
			created := &centerDatamodel.Center{Name: "Harbor Prep", Slug: "harbor-prep"}
			Expect(repo.CreateWithOwner(ctx, created, 100)).To(Succeed())

			created.Name = "Harbor Preparation"
			Expect(repo.Update(ctx, created)).To(Succeed())

			row, err := repo.GetBySlug(ctx, "harbor-prep")
			Expect(err).NotTo(HaveOccurred())
			Expect(row.Name).To(Equal("Harbor Preparation"))
		})
	})

	Describe("SlugResolver", func() {
		It("resolves a slug to its id", func() {
			created := &centerDatamodel.Center{Name: "Harbor Prep", Slug: "harbor-prep"}
			Expect(repo.CreateWithOwner(ctx, created, 100)).To(Succeed())

			resolver := centerPostgres.NewSlugResolver(db)
			id, err := resolver.IDBySlug(ctx, "harbor-prep")
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal(created.ID))
		})

		It("reports an unknown slug", func() {
			resolver := centerPostgres.NewSlugResolver(db)
			_, err := resolver.IDBySlug(ctx, "nope")
			Expect(err).To(HaveOccurred())
		})
	})
})
