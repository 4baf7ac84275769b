package functionalrole_test

import (
	"github.com/adiwarna/identity-admin/internal/functionalrole"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NormalizeCategory", func() {
	It("should lowercase and trim", func() {
		Expect(functionalrole.NormalizeCategory("  Administration ")).To(Equal("administration"))
	})

	It("should fold spaces and hyphens to underscores", func() {
		Expect(functionalrole.NormalizeCategory("Fleet Ops")).To(Equal("fleet_ops"))
		Expect(functionalrole.NormalizeCategory("fleet-ops")).To(Equal("fleet_ops"))
		Expect(functionalrole.NormalizeCategory("Fleet  -  Ops")).To(Equal("fleet_ops"))
	})

	It("should strip leading and trailing separators", func() {
		Expect(functionalrole.NormalizeCategory("-fleet ops-")).To(Equal("fleet_ops"))
	})

	It("should return empty for blank input", func() {
		Expect(functionalrole.NormalizeCategory("   ")).To(Equal(""))
	})
})
