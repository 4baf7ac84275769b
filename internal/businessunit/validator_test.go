package businessunit_test

import (
	"log/slog"
	"os"

	"github.com/adiwarna/identity-admin/internal"
	"github.com/adiwarna/identity-admin/internal/businessunit"
	buDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/businessunit"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BusinessUnit Validator", func() {
	var (
		mockRepo  *MockRepository
		validator *businessunit.Validator
	)

	testLogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		validator = businessunit.NewValidator(mockRepo, testLogger)
	})

	Context("on creation", func() {
		BeforeEach(func() {
			mockRepo.AddUnit(&buDatamodel.BusinessUnit{ID: 10, OrganizationID: 1, Name: "Engineering", IsActive: true})
		})

		It("should accept a same-organization parent", func() {
			err := validator.ValidateParent(nil, 10, 1)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject a parent from another organization", func() {
			err := validator.ValidateParent(nil, 10, 2)
			Expect(err).To(Equal(internal.ErrCrossOrgParent))
		})

		It("should reject a missing parent", func() {
			err := validator.ValidateParent(nil, 404, 1)
			Expect(err).To(Equal(internal.ErrBusinessUnitNotFound))
		})
	})

	Context("on reparenting", func() {
		BeforeEach(func() {
			mockRepo.AddUnit(&buDatamodel.BusinessUnit{ID: 10, OrganizationID: 1, Name: "Engineering", IsActive: true})
			mockRepo.AddUnit(&buDatamodel.BusinessUnit{ID: 11, OrganizationID: 1, Name: "Platform", ParentUnitID: int64Ptr(10), IsActive: true})
			mockRepo.AddUnit(&buDatamodel.BusinessUnit{ID: 12, OrganizationID: 1, Name: "Runtime", ParentUnitID: int64Ptr(11), IsActive: true})
		})

		It("should reject self-parenting", func() {
			unitID := int64(10)
			err := validator.ValidateParent(&unitID, 10, 1)
			Expect(err).To(Equal(internal.ErrCircularHierarchy))
		})

		It("should reject a parent that descends from the unit", func() {
			unitID := int64(10)
			err := validator.ValidateParent(&unitID, 12, 1)
			Expect(err).To(Equal(internal.ErrCircularHierarchy))
		})

		It("should accept an unrelated parent", func() {
			mockRepo.AddUnit(&buDatamodel.BusinessUnit{ID: 20, OrganizationID: 1, Name: "Ops", IsActive: true})

			unitID := int64(12)
			err := validator.ValidateParent(&unitID, 20, 1)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should terminate on a corrupt stored chain", func() {
			// 30 -> 31 -> 30 already forms a cycle in the store
			mockRepo.AddUnit(&buDatamodel.BusinessUnit{ID: 30, OrganizationID: 1, Name: "A", ParentUnitID: int64Ptr(31), IsActive: true})
			mockRepo.AddUnit(&buDatamodel.BusinessUnit{ID: 31, OrganizationID: 1, Name: "B", ParentUnitID: int64Ptr(30), IsActive: true})

			unitID := int64(12)
			err := validator.ValidateParent(&unitID, 30, 1)
			Expect(err).To(Equal(internal.ErrCircularHierarchy))
		})
	})
})
