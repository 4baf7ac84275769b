package assignment

import (
	"log/slog"
	"sort"

	"github.com/adiwarna/identity-admin/internal"
)

// Resolver answers "which functional roles are available or enabled" at each
// hierarchy tier by composing the three enablement layers. All listings are
// sorted by (category, name) so repeated calls over unchanged data produce
// byte-identical output.
type Resolver struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewResolver(repo RepositoryAPI, logger *slog.Logger) *Resolver {
	return &Resolver{
		repo:   repo,
		logger: logger,
	}
}

// AvailableRolesForBusinessUnit returns every role enabled at the unit's
// organization, annotated with whether the unit itself has enabled it. A
// missing business unit enablement row reads as not-enabled.
func (r *Resolver) AvailableRolesForBusinessUnit(businessUnitID int64) ([]RoleAvailability, error) {
	unit, err := r.repo.GetBusinessUnit(businessUnitID)
	if err != nil {
		r.logger.Error("failed to load business unit", "error", err, "business_unit_id", businessUnitID)
		return nil, err
	}
	if unit == nil {
		return nil, internal.ErrBusinessUnitNotFound
	}

	roles, err := r.repo.RolesEnabledAtOrganization(unit.OrganizationID, businessUnitID)
	if err != nil {
		r.logger.Error("failed to resolve business unit roles", "error", err, "business_unit_id", businessUnitID)
		return nil, err
	}

	sortAvailabilities(roles)
	return roles, nil
}

// AvailableRolesForUser computes the union of the enabled-at-business-unit
// role sets across the user's active memberships, de-duplicated by role id
// and annotated with the user's direct grants.
func (r *Resolver) AvailableRolesForUser(userID int64) ([]RoleAvailability, error) {
	user, err := r.repo.GetUser(userID)
	if err != nil {
		r.logger.Error("failed to load user", "error", err, "user_id", userID)
		return nil, err
	}
	if user == nil {
		return nil, internal.ErrUserNotFound
	}

	units, err := r.repo.ActiveBusinessUnitsForUser(userID)
	if err != nil {
		return nil, err
	}

	merged := make(map[int64]RoleAvailability)
	for _, unit := range units {
		roles, err := r.repo.RolesEnabledAtOrganization(unit.OrganizationID, unit.ID)
		if err != nil {
			return nil, err
		}
		for _, role := range roles {
			if !role.EnabledAtBU {
				continue
			}
			if _, ok := merged[role.RoleID]; !ok {
				merged[role.RoleID] = role
			}
		}
	}

	grants, err := r.repo.ActiveUserRoles(userID)
	if err != nil {
		return nil, err
	}

	result := make([]RoleAvailability, 0, len(merged))
	for _, role := range merged {
		if grant, ok := grants[role.RoleID]; ok {
			role.CurrentlyAssigned = true
			assignedAt := grant.AssignedAt
			role.AssignedAt = &assignedAt
			role.ExpiresAt = grant.ExpiresAt
		}
		result = append(result, role)
	}

	sortAvailabilities(result)
	return result, nil
}

// HierarchyView returns the denormalized audit report, optionally filtered to
// one organization.
func (r *Resolver) HierarchyView(organizationID *int64) ([]HierarchyRow, error) {
	if organizationID != nil {
		exists, err := r.repo.OrganizationExists(*organizationID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, internal.ErrOrganizationNotFound
		}
	}

	rows, err := r.repo.HierarchyView(organizationID)
	if err != nil {
		r.logger.Error("failed to build hierarchy view", "error", err)
		return nil, err
	}
	return rows, nil
}

// UsageForOrganizationRole reports dependent enablements below an
// organization-level row. The bulk assignment service decides policy; this
// engine only counts.
func (r *Resolver) UsageForOrganizationRole(organizationID, roleID int64) (UsageCount, error) {
	exists, err := r.repo.OrganizationExists(organizationID)
	if err != nil {
		return UsageCount{}, err
	}
	if !exists {
		return UsageCount{}, internal.ErrOrganizationNotFound
	}
	return r.repo.UsageForOrganizationRole(organizationID, roleID)
}

func (r *Resolver) UsageForBusinessUnitRole(businessUnitID, roleID int64) (UsageCount, error) {
	unit, err := r.repo.GetBusinessUnit(businessUnitID)
	if err != nil {
		return UsageCount{}, err
	}
	if unit == nil {
		return UsageCount{}, internal.ErrBusinessUnitNotFound
	}
	return r.repo.UsageForBusinessUnitRole(businessUnitID, roleID)
}

func sortAvailabilities(roles []RoleAvailability) {
	sort.Slice(roles, func(i, j int) bool {
		if roles[i].Category != roles[j].Category {
			return roles[i].Category < roles[j].Category
		}
		return roles[i].RoleName < roles[j].RoleName
	})
}
