package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with a role catalog and a demo tenant for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm session: %v", err)
		}

		if clearData {
			clearSeedData(db)
		}

		roles := []struct {
			Name        string
			Label       string
			Category    string
			Permissions string
		}{
			{"identity_admin", "Identity Administrator", "administration", `["admin"]`},
			{"org_manager", "Organization Manager", "administration", `["manage_organizations","manage_users"]`},
			{"role_steward", "Role Steward", "administration", `["manage_roles","assign_roles"]`},
			{"support_agent", "Support Agent", "support", `["view_users"]`},
			{"auditor", "Compliance Auditor", "compliance", `["view_users","view_hierarchy"]`},
		}

		for _, role := range roles {
			var exists int
			row := db.Raw("SELECT 1 FROM functional_roles WHERE name = ?", role.Name).Row()
			if err := row.Scan(&exists); err == nil {
				continue
			}
			if err := db.Exec(
				"INSERT INTO functional_roles (name, label, category, permissions, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, true, now(), now())",
				role.Name, role.Label, role.Category, role.Permissions).Error; err != nil {
				log.Fatalf("failed to insert functional role %s: %v", role.Name, err)
			}
			fmt.Println("Seeded functional role:", role.Name)
		}

		orgID := seedOrganization(db, "Acme Holdings", "Acme Holdings Pte Ltd")
		rootUnitID := seedBusinessUnit(db, orgID, "Engineering", nil)
		childUnitID := seedBusinessUnit(db, orgID, "Platform", &rootUnitID)

		password := "password"
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		adminID := seedUser(db, "admin@acme.test", "Acme Admin", string(hash))
		memberID := seedUser(db, "dev@acme.test", "Acme Developer", string(hash))

		seedMembership(db, adminID, rootUnitID)
		seedMembership(db, memberID, childUnitID)

		// enable the full catalog at the organization, a subset at the units
		for _, role := range roles {
			seedOrgEnablement(db, orgID, role.Name)
		}
		seedUnitEnablement(db, rootUnitID, "identity_admin")
		seedUnitEnablement(db, rootUnitID, "role_steward")
		seedUnitEnablement(db, childUnitID, "support_agent")

		seedUserGrant(db, adminID, "identity_admin")

		fmt.Println("Seed data loaded: organization", orgID, "admin user admin@acme.test / password")
	},
}

func clearSeedData(db *gorm.DB) {
	// child tables first to satisfy FK constraints
	tables := []string{
		"email_otps",
		"user_functional_roles",
		"business_unit_functional_roles",
		"organization_functional_roles",
		"user_business_units",
		"business_units",
		"organizations",
		"functional_roles",
		"users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("failed to clear table %s: %v", table, err)
		}
	}
	fmt.Println("Cleared existing data")
}

func seedOrganization(db *gorm.DB, name, legalName string) int64 {
	var id int64
	if err := db.Raw("SELECT id FROM organizations WHERE name = ?", name).Row().Scan(&id); err == nil {
		return id
	}
	if err := db.Raw(
		"INSERT INTO organizations (name, legal_name, is_active, created_at, updated_at) VALUES (?, ?, true, now(), now()) RETURNING id",
		name, legalName).Row().Scan(&id); err != nil {
		log.Fatalf("failed to insert organization %s: %v", name, err)
	}
	fmt.Println("Seeded organization:", name)
	return id
}

func seedBusinessUnit(db *gorm.DB, orgID int64, name string, parentID *int64) int64 {
	var id int64
	if err := db.Raw("SELECT id FROM business_units WHERE organization_id = ? AND name = ?", orgID, name).Row().Scan(&id); err == nil {
		return id
	}
	if err := db.Raw(
		"INSERT INTO business_units (organization_id, name, parent_unit_id, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now()) RETURNING id",
		orgID, name, parentID).Row().Scan(&id); err != nil {
		log.Fatalf("failed to insert business unit %s: %v", name, err)
	}
	fmt.Println("Seeded business unit:", name)
	return id
}

func seedUser(db *gorm.DB, email, name, passwordHash string) int64 {
	var id int64
	if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&id); err == nil {
		return id
	}
	if err := db.Raw(
		"INSERT INTO users (email, name, password_hash, is_active, mfa_enabled, created_at, updated_at) VALUES (?, ?, ?, true, false, now(), now()) RETURNING id",
		email, name, passwordHash).Row().Scan(&id); err != nil {
		log.Fatalf("failed to insert user %s: %v", email, err)
	}
	fmt.Println("Seeded user:", email)
	return id
}

func seedMembership(db *gorm.DB, userID, unitID int64) {
	var exists int
	if err := db.Raw("SELECT 1 FROM user_business_units WHERE user_id = ? AND business_unit_id = ?", userID, unitID).Row().Scan(&exists); err == nil {
		return
	}
	if err := db.Exec(
		"INSERT INTO user_business_units (user_id, business_unit_id, is_active, joined_at, created_at, updated_at) VALUES (?, ?, true, now(), now(), now())",
		userID, unitID).Error; err != nil {
		log.Fatalf("failed to insert membership: %v", err)
	}
}

func seedOrgEnablement(db *gorm.DB, orgID int64, roleName string) {
	var exists int
	query := `SELECT 1 FROM organization_functional_roles ofr
	          JOIN functional_roles fr ON fr.id = ofr.functional_role_id
	          WHERE ofr.organization_id = ? AND fr.name = ?`
	if err := db.Raw(query, orgID, roleName).Row().Scan(&exists); err == nil {
		return
	}
	if err := db.Exec(
		"INSERT INTO organization_functional_roles (organization_id, functional_role_id, is_enabled, assigned_at, created_at, updated_at) SELECT ?, id, true, now(), now(), now() FROM functional_roles WHERE name = ?",
		orgID, roleName).Error; err != nil {
		log.Fatalf("failed to enable role %s at organization: %v", roleName, err)
	}
}

func seedUnitEnablement(db *gorm.DB, unitID int64, roleName string) {
	var exists int
	query := `SELECT 1 FROM business_unit_functional_roles bfr
	          JOIN functional_roles fr ON fr.id = bfr.functional_role_id
	          WHERE bfr.business_unit_id = ? AND fr.name = ?`
	if err := db.Raw(query, unitID, roleName).Row().Scan(&exists); err == nil {
		return
	}
	if err := db.Exec(
		"INSERT INTO business_unit_functional_roles (business_unit_id, functional_role_id, is_enabled, assigned_at, created_at, updated_at) SELECT ?, id, true, now(), now(), now() FROM functional_roles WHERE name = ?",
		unitID, roleName).Error; err != nil {
		log.Fatalf("failed to enable role %s at business unit: %v", roleName, err)
	}
}

func seedUserGrant(db *gorm.DB, userID int64, roleName string) {
	var exists int
	query := `SELECT 1 FROM user_functional_roles ufr
	          JOIN functional_roles fr ON fr.id = ufr.functional_role_id
	          WHERE ufr.user_id = ? AND fr.name = ?`
	if err := db.Raw(query, userID, roleName).Row().Scan(&exists); err == nil {
		return
	}
	if err := db.Exec(
		"INSERT INTO user_functional_roles (user_id, functional_role_id, is_active, assigned_at, created_at, updated_at) SELECT ?, id, true, now(), now(), now() FROM functional_roles WHERE name = ?",
		userID, roleName).Error; err != nil {
		log.Fatalf("failed to grant role %s to user: %v", roleName, err)
	}
}
