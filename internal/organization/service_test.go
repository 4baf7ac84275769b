package organization_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/adiwarna/identity-admin/internal"
	orgDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/organization"
	"github.com/adiwarna/identity-admin/internal/organization"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestOrganizationService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Organization Service Suite")
}

// MockRepository implements organization.RepositoryAPI.
type MockRepository struct {
	orgs       map[int64]*orgDatamodel.Organization
	nextID     int64
	shouldFail bool
	failError  error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		orgs:   make(map[int64]*orgDatamodel.Organization),
		nextID: 1,
	}
}

func (m *MockRepository) AddOrganization(org *orgDatamodel.Organization) {
	m.orgs[org.ID] = org
	if org.ID >= m.nextID {
		m.nextID = org.ID + 1
	}
}

func (m *MockRepository) SetShouldFail(err error) {
	m.shouldFail = true
	m.failError = err
}

func (m *MockRepository) GetAll() ([]*orgDatamodel.Organization, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var orgs []*orgDatamodel.Organization
	for _, org := range m.orgs {
		orgs = append(orgs, org)
	}
	return orgs, nil
}

func (m *MockRepository) GetByID(id int64) (*orgDatamodel.Organization, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	return m.orgs[id], nil
}

func (m *MockRepository) Create(org *orgDatamodel.Organization) error {
	if m.shouldFail {
		return m.failError
	}
	org.ID = m.nextID
	m.nextID++
	m.orgs[org.ID] = org
	return nil
}

func (m *MockRepository) Update(org *orgDatamodel.Organization) error {
	if m.shouldFail {
		return m.failError
	}
	m.orgs[org.ID] = org
	return nil
}

func (m *MockRepository) Delete(id int64) error {
	if m.shouldFail {
		return m.failError
	}
	delete(m.orgs, id)
	return nil
}

var _ = Describe("Organization Service", func() {
	var (
		mockRepo *MockRepository
		service  *organization.Service
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		service = organization.NewService(mockRepo, testLogger)
	})

	Describe("CreateOrganization", func() {
		It("should create an organization", func() {
			created, err := service.CreateOrganization(organization.CreateOrganizationDTO{
				Name:         "Acme Holdings",
				ContactEmail: "ops@acme.test",
				Country:      "ID",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(BeNumerically(">", 0))
			Expect(created.Name).To(Equal("Acme Holdings"))
			Expect(created.IsActive).To(BeTrue())

			row, err := mockRepo.GetByID(created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(row.ContactEmail).To(Equal("ops@acme.test"))
		})

		It("should reject a blank name", func() {
			_, err := service.CreateOrganization(organization.CreateOrganizationDTO{Name: "   "})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})

		It("should reject a malformed contact email", func() {
			_, err := service.CreateOrganization(organization.CreateOrganizationDTO{
				Name:         "Acme Holdings",
				ContactEmail: "not-an-email",
			})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		})
	})

	Describe("GetOrganization", func() {
		It("should return not found for a missing organization", func() {
			_, err := service.GetOrganization(404)
			Expect(err).To(Equal(internal.ErrOrganizationNotFound))
		})
	})

	Describe("UpdateOrganization", func() {
		BeforeEach(func() {
			mockRepo.AddOrganization(&orgDatamodel.Organization{
				ID:       1,
				Name:     "Acme Holdings",
				City:     "Jakarta",
				IsActive: true,
			})
		})

		It("should update the mutable fields", func() {
			updated, err := service.UpdateOrganization(1, organization.UpdateOrganizationDTO{
				Name:      "Acme Group",
				LegalName: "PT Acme Group Tbk",
				City:      "Bandung",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Acme Group"))
			Expect(updated.LegalName).To(Equal("PT Acme Group Tbk"))
			Expect(updated.City).To(Equal("Bandung"))
		})

		It("should return not found for a missing organization", func() {
			_, err := service.UpdateOrganization(404, organization.UpdateOrganizationDTO{Name: "Ghost"})
			Expect(err).To(Equal(internal.ErrOrganizationNotFound))
		})
	})

	Describe("DeleteOrganization", func() {
		BeforeEach(func() {
			mockRepo.AddOrganization(&orgDatamodel.Organization{ID: 1, Name: "Acme Holdings", IsActive: true})
		})

		It("should delete an existing organization", func() {
			Expect(service.DeleteOrganization(1)).NotTo(HaveOccurred())
			row, err := mockRepo.GetByID(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(row).To(BeNil())
		})

		It("should return not found for a missing organization", func() {
			Expect(service.DeleteOrganization(404)).To(Equal(internal.ErrOrganizationNotFound))
		})
	})

	Describe("ListOrganizations", func() {
		It("should surface repository failures", func() {
			mockRepo.SetShouldFail(errors.New("connection refused"))
			_, err := service.ListOrganizations()
			Expect(err).To(MatchError("connection refused"))
		})
	})
})
