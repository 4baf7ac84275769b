package assignment_test

import (
	"log/slog"
	"os"
	"time"

	"github.com/adiwarna/identity-admin/internal"
	"github.com/adiwarna/identity-admin/internal/assignment"
	buDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/businessunit"
	roleDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/functionalrole"
	userDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Assignment Resolver", func() {
	var (
		mockRepo *MockRepository
		resolver *assignment.Resolver
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		resolver = assignment.NewResolver(mockRepo, testLogger)

		mockRepo.AddOrganization(1)
		mockRepo.AddBusinessUnit(&buDatamodel.BusinessUnit{ID: 10, OrganizationID: 1, Name: "Engineering", IsActive: true})
		mockRepo.AddBusinessUnit(&buDatamodel.BusinessUnit{ID: 11, OrganizationID: 1, Name: "Platform", IsActive: true})
		mockRepo.AddRole(&roleDatamodel.FunctionalRole{ID: 100, Name: "identity_admin", Label: "Identity Administrator", Category: "administration", IsActive: true})
		mockRepo.AddRole(&roleDatamodel.FunctionalRole{ID: 101, Name: "auditor", Label: "Compliance Auditor", Category: "compliance", IsActive: true})
		mockRepo.AddRole(&roleDatamodel.FunctionalRole{ID: 102, Name: "support_agent", Label: "Support Agent", Category: "support", IsActive: true})
	})

	Describe("AvailableRolesForBusinessUnit", func() {
		Context("when the unit does not exist", func() {
			It("should return business unit not found", func() {
				_, err := resolver.AvailableRolesForBusinessUnit(99)
				Expect(err).To(Equal(internal.ErrBusinessUnitNotFound))
			})
		})

		Context("with organization and unit enablements", func() {
			BeforeEach(func() {
				mockRepo.EnableAtOrganization(1, 100)
				mockRepo.EnableAtOrganization(1, 101)
				mockRepo.EnableAtBusinessUnit(10, 100)
			})

			It("should list every organization-enabled role with unit annotation", func() {
				roles, err := resolver.AvailableRolesForBusinessUnit(10)
				Expect(err).NotTo(HaveOccurred())
				Expect(roles).To(HaveLen(2))
				Expect(roles[0].RoleName).To(Equal("identity_admin"))
				Expect(roles[0].EnabledAtBU).To(BeTrue())
				Expect(roles[1].RoleName).To(Equal("auditor"))
				Expect(roles[1].EnabledAtBU).To(BeFalse())
			})

			It("should not leak another unit's enablement", func() {
				roles, err := resolver.AvailableRolesForBusinessUnit(11)
				Expect(err).NotTo(HaveOccurred())
				for _, role := range roles {
					Expect(role.EnabledAtBU).To(BeFalse())
				}
			})
		})

		Context("with an inactive catalog role", func() {
			BeforeEach(func() {
				mockRepo.AddRole(&roleDatamodel.FunctionalRole{ID: 103, Name: "retired", Label: "Retired", Category: "support", IsActive: false})
				mockRepo.EnableAtOrganization(1, 103)
			})

			It("should exclude the inactive role", func() {
				roles, err := resolver.AvailableRolesForBusinessUnit(10)
				Expect(err).NotTo(HaveOccurred())
				for _, role := range roles {
					Expect(role.RoleName).NotTo(Equal("retired"))
				}
			})
		})
	})

	Describe("AvailableRolesForUser", func() {
		BeforeEach(func() {
			mockRepo.AddUser(&userDatamodel.User{ID: 50, Email: "dev@acme.test", Name: "Dev", IsActive: true}, 10, 11)
			mockRepo.EnableAtOrganization(1, 100)
			mockRepo.EnableAtOrganization(1, 101)
			mockRepo.EnableAtBusinessUnit(10, 100)
			mockRepo.EnableAtBusinessUnit(11, 100)
			mockRepo.EnableAtBusinessUnit(11, 101)
		})

		Context("when the user does not exist", func() {
			It("should return user not found", func() {
				_, err := resolver.AvailableRolesForUser(99)
				Expect(err).To(Equal(internal.ErrUserNotFound))
			})
		})

		It("should union roles across memberships without duplicates", func() {
			roles, err := resolver.AvailableRolesForUser(50)
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(2))

			names := make([]string, len(roles))
			for i, role := range roles {
				names[i] = role.RoleName
			}
			Expect(names).To(Equal([]string{"identity_admin", "auditor"}))
		})

		It("should annotate direct grants with assignment metadata", func() {
			expiresAt := time.Now().Add(24 * time.Hour)
			mockRepo.GrantToUser(50, 100, assignment.UserRoleGrant{
				AssignedAt: time.Now().Add(-time.Hour),
				ExpiresAt:  &expiresAt,
			})

			roles, err := resolver.AvailableRolesForUser(50)
			Expect(err).NotTo(HaveOccurred())

			var admin *assignment.RoleAvailability
			for i := range roles {
				if roles[i].RoleName == "identity_admin" {
					admin = &roles[i]
				}
			}
			Expect(admin).NotTo(BeNil())
			Expect(admin.CurrentlyAssigned).To(BeTrue())
			Expect(admin.AssignedAt).NotTo(BeNil())
			Expect(admin.ExpiresAt).NotTo(BeNil())
		})

		Context("with no active memberships", func() {
			BeforeEach(func() {
				mockRepo.AddUser(&userDatamodel.User{ID: 51, Email: "lone@acme.test", Name: "Lone", IsActive: true})
			})

			It("should return an empty set", func() {
				roles, err := resolver.AvailableRolesForUser(51)
				Expect(err).NotTo(HaveOccurred())
				Expect(roles).To(BeEmpty())
			})
		})
	})

	Describe("HierarchyView", func() {
		BeforeEach(func() {
			mockRepo.hierarchy = []assignment.HierarchyRow{
				{OrganizationID: 1, OrganizationName: "Acme", BusinessUnitID: 10, BusinessUnitName: "Engineering", RoleID: 100, RoleName: "identity_admin", EnabledAtOrg: true, EnabledAtBU: true, UserCount: 2},
				{OrganizationID: 2, OrganizationName: "Globex", BusinessUnitID: 20, BusinessUnitName: "Sales", RoleID: 100, RoleName: "identity_admin", EnabledAtOrg: true, EnabledAtBU: false, UserCount: 0},
			}
			mockRepo.AddOrganization(2)
		})

		It("should return all rows without a filter", func() {
			rows, err := resolver.HierarchyView(nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(2))
		})

		It("should filter to one organization", func() {
			orgID := int64(1)
			rows, err := resolver.HierarchyView(&orgID)
			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
			Expect(rows[0].OrganizationName).To(Equal("Acme"))
		})

		It("should reject an unknown organization filter", func() {
			orgID := int64(99)
			_, err := resolver.HierarchyView(&orgID)
			Expect(err).To(Equal(internal.ErrOrganizationNotFound))
		})
	})

	Describe("Usage counts", func() {
		BeforeEach(func() {
			mockRepo.orgUsage[[2]int64{1, 100}] = assignment.UsageCount{BusinessUnitEnablements: 3, UserAssignments: 7}
			mockRepo.buUsage[[2]int64{10, 100}] = assignment.UsageCount{UserAssignments: 4}
		})

		It("should report organization-level usage", func() {
			usage, err := resolver.UsageForOrganizationRole(1, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(usage.BusinessUnitEnablements).To(Equal(int64(3)))
			Expect(usage.UserAssignments).To(Equal(int64(7)))
			Expect(usage.Total()).To(Equal(int64(10)))
		})

		It("should report business unit level usage", func() {
			usage, err := resolver.UsageForBusinessUnitRole(10, 100)
			Expect(err).NotTo(HaveOccurred())
			Expect(usage.UserAssignments).To(Equal(int64(4)))
		})

		It("should reject unknown scopes", func() {
			_, err := resolver.UsageForOrganizationRole(99, 100)
			Expect(err).To(Equal(internal.ErrOrganizationNotFound))

			_, err = resolver.UsageForBusinessUnitRole(99, 100)
			Expect(err).To(Equal(internal.ErrBusinessUnitNotFound))
		})
	})
})
