package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the permission catalog and sample data",
	Long:  `Seed the permission catalog, role defaults and a demo center for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, _, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if clearData {
			for _, table := range []string{"membership_permissions", "role_permissions", "memberships", "permissions", "centers", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		seedPermissions(db)
		seedRoleDefaults(db)
		seedDemoCenter(db, cfg.Security.BCryptCost)
	},
}

var catalog = []struct {
	Key  string
	Name string
}{
	{"exercise.create", "Create exercises"},
	{"exercise.edit", "Edit exercises"},
	{"exercise.publish", "Publish exercises"},
	{"mocktest.create", "Create mock tests"},
	{"mocktest.publish", "Publish mock tests"},
	{"mocktest.archive", "Archive mock tests"},
	{"member.invite", "Invite members"},
	{"member.suspend", "Suspend and reinstate members"},
	{"member.manage", "Manage member permission overrides"},
	{"center.settings", "Edit center settings"},
}

var roleDefaults = map[string][]string{
	"OWNER": {
		"exercise.create", "exercise.edit", "exercise.publish",
		"mocktest.create", "mocktest.publish", "mocktest.archive",
		"member.invite", "member.suspend", "member.manage",
		"center.settings",
	},
	"ADMIN": {
		"exercise.create", "exercise.edit", "exercise.publish",
		"mocktest.create", "mocktest.publish", "mocktest.archive",
		"member.invite", "member.suspend", "member.manage",
	},
	"TEACHER": {
		"exercise.create", "exercise.edit", "exercise.publish",
		"mocktest.create", "mocktest.publish",
	},
	"STUDENT": {},
}

func seedPermissions(db *gorm.DB) {
	for _, p := range catalog {
		var pid int64
		row := db.Raw("SELECT id FROM permissions WHERE key = ?", p.Key).Row()
		if err := row.Scan(&pid); err != nil {
			if err := db.Exec("INSERT INTO permissions (key, name, created_at) VALUES (?, ?, now())", p.Key, p.Name).Error; err != nil {
				log.Fatalf("failed to insert permission %s: %v", p.Key, err)
			}
		}
	}
	fmt.Println("Seeded permission catalog:", len(catalog), "permissions")
}

func seedRoleDefaults(db *gorm.DB) {
	for role, keys := range roleDefaults {
		for _, key := range keys {
			var pid int64
			if err := db.Raw("SELECT id FROM permissions WHERE key = ?", key).Row().Scan(&pid); err != nil {
				log.Fatalf("permission not found for role default %s/%s: %v", role, key, err)
			}

			var exists int
			if err := db.Raw("SELECT 1 FROM role_permissions WHERE role = ? AND permission_id = ?", role, pid).Row().Scan(&exists); err == nil {
				continue
			}

			if err := db.Exec("INSERT INTO role_permissions (role, permission_id, created_at) VALUES (?, ?, now())", role, pid).Error; err != nil {
				log.Fatalf("failed to insert role default %s/%s: %v", role, key, err)
			}
		}
	}
	fmt.Println("Seeded role defaults")
}

func seedDemoCenter(db *gorm.DB, bcryptCost int) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcryptCost)

	users := []struct {
		Email string
		Name  string
		Role  string
	}{
		{"owner@harborprep.test", "Hana Owner", "OWNER"},
		{"teacher@harborprep.test", "Tomo Teacher", "TEACHER"},
		{"student@harborprep.test", "Sena Student", "STUDENT"},
	}

	var centerID int64
	if err := db.Raw("SELECT id FROM centers WHERE slug = ?", "harbor-prep").Row().Scan(&centerID); err != nil {
		if err := db.Exec("INSERT INTO centers (name, slug, created_at, updated_at) VALUES (?, ?, now(), now())", "Harbor Prep", "harbor-prep").Error; err != nil {
			log.Fatalf("failed to insert demo center: %v", err)
		}
		if err := db.Raw("SELECT id FROM centers WHERE slug = ?", "harbor-prep").Row().Scan(&centerID); err != nil {
			log.Fatalf("failed to lookup demo center: %v", err)
		}
		fmt.Println("Seeded demo center: harbor-prep")
	}

	for _, u := range users {
		var userID int64
		if err := db.Raw("SELECT id FROM users WHERE email = ?", u.Email).Row().Scan(&userID); err != nil {
			if err := db.Exec("INSERT INTO users (email, name, password_hash, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())", u.Email, u.Name, string(hash)).Error; err != nil {
				log.Fatalf("failed to insert user %s: %v", u.Email, err)
			}
			if err := db.Raw("SELECT id FROM users WHERE email = ?", u.Email).Row().Scan(&userID); err != nil {
				log.Fatalf("failed to lookup user %s: %v", u.Email, err)
			}
			fmt.Println("Seeded user:", u.Email)
		}

		var exists int
		if err := db.Raw("SELECT 1 FROM memberships WHERE center_id = ? AND user_id = ?", centerID, userID).Row().Scan(&exists); err == nil {
			continue
		}

		if err := db.Exec("INSERT INTO memberships (center_id, user_id, role, status, created_at, updated_at) VALUES (?, ?, ?, 'ACTIVE', now(), now())", centerID, userID, u.Role).Error; err != nil {
			log.Fatalf("failed to insert membership for %s: %v", u.Email, err)
		}
	}

	// Demo override: revoke exercise.publish from the teacher even
	// though the TEACHER role grants it by default.
	var teacherMembershipID, permID int64
	if err := db.Raw(`SELECT m.id FROM memberships m JOIN users u ON u.id = m.user_id WHERE u.email = ? AND m.center_id = ?`, "teacher@harborprep.test", centerID).Row().Scan(&teacherMembershipID); err != nil {
		log.Fatalf("failed to lookup teacher membership: %v", err)
	}
	if err := db.Raw("SELECT id FROM permissions WHERE key = ?", "exercise.publish").Row().Scan(&permID); err != nil {
		log.Fatalf("failed to lookup permission: %v", err)
	}

	var exists int
	if err := db.Raw("SELECT 1 FROM membership_permissions WHERE membership_id = ? AND permission_id = ?", teacherMembershipID, permID).Row().Scan(&exists); err != nil {
		if err := db.Exec("INSERT INTO membership_permissions (membership_id, permission_id, allowed, created_at, updated_at) VALUES (?, ?, false, now(), now())", teacherMembershipID, permID).Error; err != nil {
			log.Fatalf("failed to insert demo override: %v", err)
		}
		fmt.Println("Seeded demo override: teacher revoked exercise.publish")
	}
}
