package assignment

import (
	"time"

	buDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/businessunit"
	roleDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/functionalrole"
	userDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/user"
)

// RepositoryAPI is the data access surface shared by the resolution engine
// and the bulk assignment service. Read methods are pure joins with no side
// effects; every Bulk/Disable method runs inside one database transaction.
type RepositoryAPI interface {
	GetBusinessUnit(id int64) (*buDatamodel.BusinessUnit, error)
	GetUser(id int64) (*userDatamodel.User, error)
	OrganizationExists(id int64) (bool, error)
	ActiveBusinessUnitsForUser(userID int64) ([]*buDatamodel.BusinessUnit, error)

	// ResolveRoleNames returns the catalog rows for the names it can find;
	// the caller diffs against the request to batch-report unknown names.
	ResolveRoleNames(names []string) ([]*roleDatamodel.FunctionalRole, error)

	// RolesEnabledAtOrganization lists every active catalog role enabled at
	// the organization, annotated with the business unit enablement flag for
	// businessUnitID (zero means no business unit annotation is wanted).
	// Ordered by (category, name).
	RolesEnabledAtOrganization(organizationID, businessUnitID int64) ([]RoleAvailability, error)

	// OrganizationEnablement returns the subset of roleIDs currently enabled
	// at the organization.
	OrganizationEnablement(organizationID int64, roleIDs []int64) (map[int64]bool, error)

	// ActiveUserRoles returns the user's active direct grants keyed by role id.
	ActiveUserRoles(userID int64) (map[int64]UserRoleGrant, error)

	HierarchyView(organizationID *int64) ([]HierarchyRow, error)
	UsageForOrganizationRole(organizationID, roleID int64) (UsageCount, error)
	UsageForBusinessUnitRole(businessUnitID, roleID int64) (UsageCount, error)

	BulkUpsertOrganizationRoles(organizationID int64, writes []RoleWrite) error
	BulkUpsertBusinessUnitRoles(businessUnitID int64, writes []RoleWrite) error
	BulkAssignUserRoles(userID int64, writes []RoleWrite, replaceExisting bool) error
	DisableOrganizationRole(organizationID, roleID int64) error
	DisableBusinessUnitRole(businessUnitID, roleID int64) error
}

// UserRoleGrant carries the assignment metadata of one active direct grant.
type UserRoleGrant struct {
	AssignedAt time.Time
	ExpiresAt  *time.Time
}
