package postgres_test

import (
	"testing"
	"time"

	"github.com/adiwarna/identity-admin/internal/assignment"
	assignmentPostgres "github.com/adiwarna/identity-admin/internal/assignment/postgres"
	assignmentDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/assignment"
	buDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/businessunit"
	roleDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/functionalrole"
	orgDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/organization"
	userDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestAssignmentPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Assignment Postgres Suite")
}

var _ = Describe("Assignment Repository", func() {
	var (
		db   *gorm.DB
		repo assignment.RepositoryAPI

		org  orgDatamodel.Organization
		unit buDatamodel.BusinessUnit
		user userDatamodel.User

		adminRole   roleDatamodel.FunctionalRole
		auditorRole roleDatamodel.FunctionalRole
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(
			&orgDatamodel.Organization{},
			&buDatamodel.BusinessUnit{},
			&userDatamodel.User{},
			&userDatamodel.UserBusinessUnit{},
			&roleDatamodel.FunctionalRole{},
			&assignmentDatamodel.OrganizationFunctionalRole{},
			&assignmentDatamodel.BusinessUnitFunctionalRole{},
			&assignmentDatamodel.UserFunctionalRole{},
		)
		Expect(err).NotTo(HaveOccurred())

		repo = assignmentPostgres.NewAssignmentRepository(db)

		org = orgDatamodel.Organization{Name: "Acme Holdings", IsActive: true}
		Expect(db.Create(&org).Error).NotTo(HaveOccurred())

		unit = buDatamodel.BusinessUnit{OrganizationID: org.ID, Name: "Engineering", IsActive: true}
		Expect(db.Create(&unit).Error).NotTo(HaveOccurred())

		user = userDatamodel.User{Email: "dev@acme.test", Name: "Dev", PasswordHash: "x", IsActive: true}
		Expect(db.Create(&user).Error).NotTo(HaveOccurred())

		membership := userDatamodel.UserBusinessUnit{UserID: user.ID, BusinessUnitID: unit.ID, IsActive: true, JoinedAt: time.Now()}
		Expect(db.Create(&membership).Error).NotTo(HaveOccurred())

		adminRole = roleDatamodel.FunctionalRole{Name: "identity_admin", Label: "Identity Administrator", Category: "administration", Permissions: `["admin"]`, IsActive: true}
		Expect(db.Create(&adminRole).Error).NotTo(HaveOccurred())

		auditorRole = roleDatamodel.FunctionalRole{Name: "auditor", Label: "Compliance Auditor", Category: "compliance", Permissions: `["view_users"]`, IsActive: true}
		Expect(db.Create(&auditorRole).Error).NotTo(HaveOccurred())
	})

	Describe("ResolveRoleNames", func() {
		It("should return rows only for known names", func() {
			roles, err := repo.ResolveRoleNames([]string{"identity_admin", "ghost"})
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(1))
			Expect(roles[0].Name).To(Equal("identity_admin"))
		})
	})

	Describe("BulkUpsertOrganizationRoles", func() {
		It("should insert new enablement rows", func() {
			err := repo.BulkUpsertOrganizationRoles(org.ID, []assignment.RoleWrite{
				{RoleID: adminRole.ID, RoleName: adminRole.Name, Enabled: true},
			})
			Expect(err).NotTo(HaveOccurred())

			enabled, err := repo.OrganizationEnablement(org.ID, []int64{adminRole.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(enabled[adminRole.ID]).To(BeTrue())
		})

		It("should not churn timestamps when the row is already in the requested state", func() {
			err := repo.BulkUpsertOrganizationRoles(org.ID, []assignment.RoleWrite{
				{RoleID: adminRole.ID, Enabled: true},
			})
			Expect(err).NotTo(HaveOccurred())

			var before assignmentDatamodel.OrganizationFunctionalRole
			Expect(db.Where("organization_id = ?", org.ID).First(&before).Error).NotTo(HaveOccurred())

			err = repo.BulkUpsertOrganizationRoles(org.ID, []assignment.RoleWrite{
				{RoleID: adminRole.ID, Enabled: true},
			})
			Expect(err).NotTo(HaveOccurred())

			var after assignmentDatamodel.OrganizationFunctionalRole
			Expect(db.Where("organization_id = ?", org.ID).First(&after).Error).NotTo(HaveOccurred())
			Expect(after.AssignedAt).To(BeTemporally("==", before.AssignedAt))
		})

		It("should flip an existing row when the requested state differs", func() {
			err := repo.BulkUpsertOrganizationRoles(org.ID, []assignment.RoleWrite{
				{RoleID: adminRole.ID, Enabled: true},
			})
			Expect(err).NotTo(HaveOccurred())

			err = repo.BulkUpsertOrganizationRoles(org.ID, []assignment.RoleWrite{
				{RoleID: adminRole.ID, Enabled: false},
			})
			Expect(err).NotTo(HaveOccurred())

			enabled, err := repo.OrganizationEnablement(org.ID, []int64{adminRole.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(enabled[adminRole.ID]).To(BeFalse())

			var count int64
			db.Model(&assignmentDatamodel.OrganizationFunctionalRole{}).Count(&count)
			Expect(count).To(Equal(int64(1)))
		})
	})

	Describe("RolesEnabledAtOrganization", func() {
		BeforeEach(func() {
			Expect(repo.BulkUpsertOrganizationRoles(org.ID, []assignment.RoleWrite{
				{RoleID: adminRole.ID, Enabled: true},
				{RoleID: auditorRole.ID, Enabled: true},
			})).NotTo(HaveOccurred())
			Expect(repo.BulkUpsertBusinessUnitRoles(unit.ID, []assignment.RoleWrite{
				{RoleID: adminRole.ID, Enabled: true},
			})).NotTo(HaveOccurred())
		})

		It("should annotate business unit enablement", func() {
			roles, err := repo.RolesEnabledAtOrganization(org.ID, unit.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(2))
			Expect(roles[0].RoleName).To(Equal("identity_admin"))
			Expect(roles[0].EnabledAtBU).To(BeTrue())
			Expect(roles[1].RoleName).To(Equal("auditor"))
			Expect(roles[1].EnabledAtBU).To(BeFalse())
		})

		It("should read missing unit rows as not enabled", func() {
			roles, err := repo.RolesEnabledAtOrganization(org.ID, 0)
			Expect(err).NotTo(HaveOccurred())
			for _, role := range roles {
				Expect(role.EnabledAtBU).To(BeFalse())
			}
		})

		It("should hide organization rows that were disabled", func() {
			Expect(repo.DisableOrganizationRole(org.ID, auditorRole.ID)).NotTo(HaveOccurred())

			roles, err := repo.RolesEnabledAtOrganization(org.ID, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(1))
			Expect(roles[0].RoleName).To(Equal("identity_admin"))
		})
	})

	Describe("BulkAssignUserRoles", func() {
		It("should create active grants", func() {
			err := repo.BulkAssignUserRoles(user.ID, []assignment.RoleWrite{
				{RoleID: adminRole.ID, Enabled: true},
			}, false)
			Expect(err).NotTo(HaveOccurred())

			grants, err := repo.ActiveUserRoles(user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(grants).To(HaveKey(adminRole.ID))
		})

		It("should skip expired grants in the active listing", func() {
			past := time.Now().Add(-time.Hour)
			err := repo.BulkAssignUserRoles(user.ID, []assignment.RoleWrite{
				{RoleID: adminRole.ID, Enabled: true, ExpiresAt: &past},
			}, false)
			Expect(err).NotTo(HaveOccurred())

			grants, err := repo.ActiveUserRoles(user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(grants).NotTo(HaveKey(adminRole.ID))
		})

		It("should deactivate grants outside the set when replacing", func() {
			err := repo.BulkAssignUserRoles(user.ID, []assignment.RoleWrite{
				{RoleID: adminRole.ID, Enabled: true},
				{RoleID: auditorRole.ID, Enabled: true},
			}, false)
			Expect(err).NotTo(HaveOccurred())

			err = repo.BulkAssignUserRoles(user.ID, []assignment.RoleWrite{
				{RoleID: auditorRole.ID, Enabled: true},
			}, true)
			Expect(err).NotTo(HaveOccurred())

			grants, err := repo.ActiveUserRoles(user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(grants).To(HaveLen(1))
			Expect(grants).To(HaveKey(auditorRole.ID))

			// the deactivated row stays in the table
			var count int64
			db.Model(&assignmentDatamodel.UserFunctionalRole{}).Count(&count)
			Expect(count).To(Equal(int64(2)))
		})

		It("should reactivate a previously replaced grant", func() {
			err := repo.BulkAssignUserRoles(user.ID, []assignment.RoleWrite{
				{RoleID: adminRole.ID, Enabled: true},
			}, false)
			Expect(err).NotTo(HaveOccurred())

			err = repo.BulkAssignUserRoles(user.ID, []assignment.RoleWrite{
				{RoleID: auditorRole.ID, Enabled: true},
			}, true)
			Expect(err).NotTo(HaveOccurred())

			err = repo.BulkAssignUserRoles(user.ID, []assignment.RoleWrite{
				{RoleID: adminRole.ID, Enabled: true},
			}, false)
			Expect(err).NotTo(HaveOccurred())

			grants, err := repo.ActiveUserRoles(user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(grants).To(HaveKey(adminRole.ID))
			Expect(grants).To(HaveKey(auditorRole.ID))
		})
	})

	Describe("ActiveBusinessUnitsForUser", func() {
		It("should exclude inactive memberships", func() {
			inactiveUnit := buDatamodel.BusinessUnit{OrganizationID: org.ID, Name: "Dormant", IsActive: true}
			Expect(db.Create(&inactiveUnit).Error).NotTo(HaveOccurred())
			membership := userDatamodel.UserBusinessUnit{UserID: user.ID, BusinessUnitID: inactiveUnit.ID, IsActive: false, JoinedAt: time.Now()}
			Expect(db.Create(&membership).Error).NotTo(HaveOccurred())

			units, err := repo.ActiveBusinessUnitsForUser(user.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(units).To(HaveLen(1))
			Expect(units[0].Name).To(Equal("Engineering"))
		})
	})

	Describe("Usage counts", func() {
		BeforeEach(func() {
			Expect(repo.BulkUpsertOrganizationRoles(org.ID, []assignment.RoleWrite{
				{RoleID: adminRole.ID, Enabled: true},
			})).NotTo(HaveOccurred())
			Expect(repo.BulkUpsertBusinessUnitRoles(unit.ID, []assignment.RoleWrite{
				{RoleID: adminRole.ID, Enabled: true},
			})).NotTo(HaveOccurred())
			Expect(repo.BulkAssignUserRoles(user.ID, []assignment.RoleWrite{
				{RoleID: adminRole.ID, Enabled: true},
			}, false)).NotTo(HaveOccurred())
		})

		It("should count dependents below an organization enablement", func() {
			usage, err := repo.UsageForOrganizationRole(org.ID, adminRole.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(usage.BusinessUnitEnablements).To(Equal(int64(1)))
			Expect(usage.UserAssignments).To(Equal(int64(1)))
		})

		It("should count user assignments within a business unit", func() {
			usage, err := repo.UsageForBusinessUnitRole(unit.ID, adminRole.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(usage.UserAssignments).To(Equal(int64(1)))
		})

		It("should report zero after the grant is deactivated", func() {
			Expect(db.Model(&assignmentDatamodel.UserFunctionalRole{}).
				Where("user_id = ?", user.ID).
				Update("is_active", false).Error).NotTo(HaveOccurred())

			usage, err := repo.UsageForBusinessUnitRole(unit.ID, adminRole.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(usage.UserAssignments).To(Equal(int64(0)))
		})
	})

	Describe("HierarchyView", func() {
		BeforeEach(func() {
			Expect(repo.BulkUpsertOrganizationRoles(org.ID, []assignment.RoleWrite{
				{RoleID: adminRole.ID, Enabled: true},
			})).NotTo(HaveOccurred())
			Expect(repo.BulkUpsertBusinessUnitRoles(unit.ID, []assignment.RoleWrite{
				{RoleID: adminRole.ID, Enabled: true},
			})).NotTo(HaveOccurred())
			Expect(repo.BulkAssignUserRoles(user.ID, []assignment.RoleWrite{
				{RoleID: adminRole.ID, Enabled: true},
			}, false)).NotTo(HaveOccurred())
		})

		It("should produce one row per organization, unit and role", func() {
			rows, err := repo.HierarchyView(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].OrganizationName).To(Equal("Acme Holdings"))
			Expect(rows[0].BusinessUnitName).To(Equal("Engineering"))
			Expect(rows[0].RoleName).To(Equal("identity_admin"))
			Expect(rows[0].EnabledAtBU).To(BeTrue())
			Expect(rows[0].UserCount).To(Equal(int64(1)))
		})

		It("should filter by organization", func() {
			other := orgDatamodel.Organization{Name: "Globex", IsActive: true}
			Expect(db.Create(&other).Error).NotTo(HaveOccurred())

			rows, err := repo.HierarchyView(&other.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(BeEmpty())
		})
	})

	Describe("lookup helpers", func() {
		It("should return nil for a missing business unit", func() {
			got, err := repo.GetBusinessUnit(9999)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})

		It("should report organization existence", func() {
			exists, err := repo.OrganizationExists(org.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeTrue())

			exists, err = repo.OrganizationExists(9999)
			Expect(err).NotTo(HaveOccurred())
			Expect(exists).To(BeFalse())
		})
	})
})
