package functionalrole_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/adiwarna/identity-admin/internal"
	roleDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/functionalrole"
	"github.com/adiwarna/identity-admin/internal/functionalrole"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestFunctionalRoleService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "FunctionalRole Service Suite")
}

// MockRepository implements functionalrole.RepositoryAPI.
type MockRepository struct {
	roles      map[int64]*roleDatamodel.FunctionalRole
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		roles:  make(map[int64]*roleDatamodel.FunctionalRole),
		nextID: 1,
	}
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) AddRole(role *roleDatamodel.FunctionalRole) {
	m.roles[role.ID] = role
	if role.ID >= m.nextID {
		m.nextID = role.ID + 1
	}
}

func (m *MockRepository) GetAll() ([]*roleDatamodel.FunctionalRole, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var result []*roleDatamodel.FunctionalRole
	for _, role := range m.roles {
		result = append(result, role)
	}
	return result, nil
}

func (m *MockRepository) GetByID(id int64) (*roleDatamodel.FunctionalRole, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.roles[id], nil
}

func (m *MockRepository) GetByName(name string) (*roleDatamodel.FunctionalRole, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	for _, role := range m.roles {
		if role.Name == name {
			return role, nil
		}
	}
	return nil, nil
}

func (m *MockRepository) Create(role *roleDatamodel.FunctionalRole) error {
	if m.shouldFail {
		return m.failError
	}
	role.ID = m.nextID
	m.nextID++
	m.roles[role.ID] = role
	return nil
}

func (m *MockRepository) Update(role *roleDatamodel.FunctionalRole) error {
	if m.shouldFail {
		return m.failError
	}
	m.roles[role.ID] = role
	return nil
}

func (m *MockRepository) SetActive(id int64, active bool) error {
	if m.shouldFail {
		return m.failError
	}
	if role, ok := m.roles[id]; ok {
		role.IsActive = active
	}
	return nil
}

var _ = Describe("FunctionalRole Service", func() {
	var (
		mockRepo *MockRepository
		service  *functionalrole.Service
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		service = functionalrole.NewService(mockRepo, testLogger)
	})

	Describe("CreateRole", func() {
		It("should create a role with normalized category", func() {
			role, err := service.CreateRole(functionalrole.CreateRoleDTO{
				Name:        "fleet_manager",
				Label:       "Fleet Manager",
				Category:    "  Fleet Ops ",
				Permissions: []string{"manage_fleet"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(role.ID).To(BeNumerically(">", 0))
			Expect(role.Category).To(Equal("fleet_ops"))
			Expect(role.IsActive).To(BeTrue())
		})

		It("should reject an uppercase machine name", func() {
			_, err := service.CreateRole(functionalrole.CreateRoleDTO{
				Name:     "FleetManager",
				Label:    "Fleet Manager",
				Category: "fleet",
			})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})

		It("should reject a duplicate name", func() {
			mockRepo.AddRole(&roleDatamodel.FunctionalRole{ID: 1, Name: "fleet_manager", Label: "Fleet Manager", Category: "fleet", IsActive: true})

			_, err := service.CreateRole(functionalrole.CreateRoleDTO{
				Name:     "fleet_manager",
				Label:    "Fleet Manager",
				Category: "fleet",
			})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
		})

		It("should serialize permissions as JSON", func() {
			role, err := service.CreateRole(functionalrole.CreateRoleDTO{
				Name:        "auditor",
				Label:       "Auditor",
				Category:    "compliance",
				Permissions: []string{"view_users", "view_hierarchy"},
			})
			Expect(err).NotTo(HaveOccurred())

			row, err := mockRepo.GetByID(role.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(row.Permissions).To(MatchJSON(`["view_users","view_hierarchy"]`))
		})
	})

	Describe("ListRoles", func() {
		BeforeEach(func() {
			mockRepo.AddRole(&roleDatamodel.FunctionalRole{ID: 1, Name: "identity_admin", Label: "Identity Administrator", Category: "administration", IsActive: true})
			mockRepo.AddRole(&roleDatamodel.FunctionalRole{ID: 2, Name: "retired", Label: "Retired", Category: "support", IsActive: false})
		})

		It("should hide inactive roles by default", func() {
			roles, err := service.ListRoles(false)
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(1))
			Expect(roles[0].Name).To(Equal("identity_admin"))
		})

		It("should include inactive roles on request", func() {
			roles, err := service.ListRoles(true)
			Expect(err).NotTo(HaveOccurred())
			Expect(roles).To(HaveLen(2))
		})
	})

	Describe("UpdateRole", func() {
		BeforeEach(func() {
			mockRepo.AddRole(&roleDatamodel.FunctionalRole{ID: 1, Name: "identity_admin", Label: "Identity Administrator", Category: "administration", Permissions: `["admin"]`, IsActive: true})
		})

		It("should keep the machine name immutable", func() {
			role, err := service.UpdateRole(1, functionalrole.UpdateRoleDTO{
				Label:    "Platform Administrator",
				Category: "Platform-Admin",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(role.Name).To(Equal("identity_admin"))
			Expect(role.Label).To(Equal("Platform Administrator"))
			Expect(role.Category).To(Equal("platform_admin"))
		})

		It("should return not found for a missing role", func() {
			_, err := service.UpdateRole(404, functionalrole.UpdateRoleDTO{Label: "X", Category: "y"})
			Expect(err).To(Equal(internal.ErrRoleNotFound))
		})
	})

	Describe("DeactivateRole", func() {
		BeforeEach(func() {
			mockRepo.AddRole(&roleDatamodel.FunctionalRole{ID: 1, Name: "identity_admin", Label: "Identity Administrator", Category: "administration", IsActive: true})
		})

		It("should turn the role off without deleting it", func() {
			Expect(service.DeactivateRole(1)).NotTo(HaveOccurred())

			row, err := mockRepo.GetByID(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(row).NotTo(BeNil())
			Expect(row.IsActive).To(BeFalse())
		})

		It("should return not found for a missing role", func() {
			Expect(service.DeactivateRole(404)).To(Equal(internal.ErrRoleNotFound))
		})
	})

	Describe("repository failures", func() {
		It("should propagate the error", func() {
			mockRepo.SetShouldFail(true, errors.New("database error"))
			_, err := service.ListRoles(false)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("database error"))
		})
	})
})
