package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/frahmantamala/center-access/internal/accesscontrol"
	authzPostgres "github.com/frahmantamala/center-access/internal/accesscontrol/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestAccessControlPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AccessControl Postgres Suite")
}

// SQLite-compatible models for testing
type SQLitePermission struct {
	ID        int64     `gorm:"primaryKey"`
	Key       string    `gorm:"column:key;uniqueIndex;not null"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (SQLitePermission) TableName() string { return "permissions" }

type SQLiteRolePermission struct {
	ID           int64     `gorm:"primaryKey"`
	Role         string    `gorm:"column:role;not null;uniqueIndex:idx_role_permissions_role_perm"`
	PermissionID int64     `gorm:"column:permission_id;not null;uniqueIndex:idx_role_permissions_role_perm"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (SQLiteRolePermission) TableName() string { return "role_permissions" }

type SQLiteMembershipPermission struct {
	ID           int64     `gorm:"primaryKey"`
	MembershipID int64     `gorm:"column:membership_id;not null;uniqueIndex:idx_membership_permissions_pair"`
	PermissionID int64     `gorm:"column:permission_id;not null;uniqueIndex:idx_membership_permissions_pair"`
	Allowed      bool      `gorm:"column:allowed;not null"`
	GrantedBy    *int64    `gorm:"column:granted_by"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (SQLiteMembershipPermission) TableName() string { return "membership_permissions" }

var _ = Describe("AccessControl Repository", func() {
	var (
		db   *gorm.DB
		repo accesscontrol.RepositoryAPI
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLitePermission{}, &SQLiteRolePermission{}, &SQLiteMembershipPermission{})
		Expect(err).NotTo(HaveOccurred())

		repo = authzPostgres.NewRepository(db)
		ctx = context.Background()
	})

	seedTables := func() {
		perms := []SQLitePermission{
			{Key: "exercise.create", Name: "Create exercises"},
			{Key: "exercise.publish", Name: "Publish exercises"},
		}
		Expect(db.Create(&perms).Error).NotTo(HaveOccurred())

		grants := []SQLiteRolePermission{
			{Role: "TEACHER", PermissionID: perms[0].ID},
			{Role: "TEACHER", PermissionID: perms[1].ID},
		}
		Expect(db.Create(&grants).Error).NotTo(HaveOccurred())

		override := SQLiteMembershipPermission{MembershipID: 10, PermissionID: perms[1].ID, Allowed: false}
		Expect(db.Create(&override).Error).NotTo(HaveOccurred())
	}

	Describe("LoadRows", func() {
		It("returns empty row sets from an empty database", func() {
			perms, grants, overrides, err := repo.LoadRows(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(perms).To(BeEmpty())
			Expect(grants).To(BeEmpty())
			Expect(overrides).To(BeEmpty())
		})

		It("returns all three tables as one consistent row set", func() {
			seedTables()

			perms, grants, overrides, err := repo.LoadRows(ctx)
			Expect(err).NotTo(HaveOccurred())

			Expect(perms).To(HaveLen(2))
			Expect(perms[0].Key).To(Equal("exercise.create"))
			Expect(perms[1].Key).To(Equal("exercise.publish"))

			Expect(grants).To(HaveLen(2))
			Expect(grants[0].Role).To(Equal(accesscontrol.RoleTeacher))

			Expect(overrides).To(HaveLen(1))
			Expect(overrides[0].MembershipID).To(Equal(int64(10)))
			Expect(overrides[0].Allowed).To(BeFalse())
		})

		It("feeds a snapshot that honors the persisted override", func() {
			seedTables()

			perms, grants, overrides, err := repo.LoadRows(ctx)
			Expect(err).NotTo(HaveOccurred())

			snap := accesscontrol.NewSnapshot(perms, grants, overrides)
			m := &accesscontrol.Membership{ID: 10, Role: accesscontrol.RoleTeacher, Status: accesscontrol.StatusActive}
			Expect(snap.IsAllowed(m, "exercise.create")).To(BeTrue())
			Expect(snap.IsAllowed(m, "exercise.publish")).To(BeFalse())
		})
	})

	Describe("UpsertOverride", func() {
		It("creates a new override row", func() {
			grantedBy := int64(7)
			Expect(repo.UpsertOverride(ctx, 10, 1, false, &grantedBy)).To(Succeed())

			var row SQLiteMembershipPermission
			Expect(db.Where("membership_id = ? AND permission_id = ?", 10, 1).First(&row).Error).NotTo(HaveOccurred())
			Expect(row.Allowed).To(BeFalse())
			Expect(row.GrantedBy).To(HaveValue(Equal(int64(7))))
		})

		It("updates the allowed flag in place instead of inserting a second row", func() {
			Expect(repo.UpsertOverride(ctx, 10, 1, false, nil)).To(Succeed())
			Expect(repo.UpsertOverride(ctx, 10, 1, true, nil)).To(Succeed())

			var count int64
			Expect(db.Model(&SQLiteMembershipPermission{}).
				Where("membership_id = ? AND permission_id = ?", 10, 1).
				Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(1)))

			var row SQLiteMembershipPermission
			Expect(db.Where("membership_id = ? AND permission_id = ?", 10, 1).First(&row).Error).NotTo(HaveOccurred())
			Expect(row.Allowed).To(BeTrue())
		})
	})

	Describe("DeleteOverride", func() {
		It("removes the override row", func() {
			Expect(repo.UpsertOverride(ctx, 10, 1, false, nil)).To(Succeed())
			Expect(repo.DeleteOverride(ctx, 10, 1)).To(Succeed())

			var count int64
			Expect(db.Model(&SQLiteMembershipPermission{}).
				Where("membership_id = ? AND permission_id = ?", 10, 1).
				Count(&count).Error).NotTo(HaveOccurred())
			Expect(count).To(BeZero())
		})

		It("is a no-op when no override exists", func() {
			Expect(repo.DeleteOverride(ctx, 10, 1)).To(Succeed())
		})
	})
})
