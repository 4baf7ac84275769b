package assignment

import (
	"context"
	"log/slog"
	"sort"

	"github.com/adiwarna/identity-admin/internal"
	"github.com/adiwarna/identity-admin/internal/core/events"
)

// Service reconciles a requested role-name set against the backing
// assignment tables for one scope, atomically. Enablement at the organization
// and business unit tiers is additive: roles omitted from the request are
// left untouched, and turning a role off is a separate explicit Disable call.
type Service struct {
	repo     RepositoryAPI
	resolver *Resolver
	bus      *events.EventBus
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, resolver *Resolver, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		bus:      bus,
		logger:   logger,
	}
}

// resolveNames maps every requested name to a catalog row, reporting all
// unresolved names in one error instead of failing on the first.
func (s *Service) resolveNames(dto BulkAssignDTO, assignedBy *int64) ([]RoleWrite, error) {
	rows, err := s.repo.ResolveRoleNames(dto.RoleNames)
	if err != nil {
		s.logger.Error("failed to resolve role names", "error", err)
		return nil, err
	}

	byName := make(map[string]int64, len(rows))
	for _, row := range rows {
		byName[row.Name] = row.ID
	}

	var unknown []string
	writes := make([]RoleWrite, 0, len(dto.RoleNames))
	for _, name := range dto.RoleNames {
		id, ok := byName[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		writes = append(writes, RoleWrite{
			RoleID:     id,
			RoleName:   name,
			Enabled:    dto.IsEnabled,
			Notes:      dto.Notes,
			AssignedBy: assignedBy,
			ExpiresAt:  dto.ExpiresAt,
		})
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, internal.NewUnknownRoleError(unknown)
	}
	return writes, nil
}

// BulkAssignOrganization upserts tier 1 enablement rows for every resolved
// role. Rows already in the requested state are left alone so repeated calls
// do not churn assignment timestamps.
func (s *Service) BulkAssignOrganization(organizationID int64, dto BulkAssignDTO, assignedBy *int64) (*AssignmentResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	exists, err := s.repo.OrganizationExists(organizationID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, internal.ErrOrganizationNotFound
	}

	writes, err := s.resolveNames(dto, assignedBy)
	if err != nil {
		return nil, err
	}

	if err := s.repo.BulkUpsertOrganizationRoles(organizationID, writes); err != nil {
		s.logger.Error("bulk organization assignment failed", "error", err, "organization_id", organizationID)
		return nil, err
	}

	s.logger.Info("bulk organization assignment applied",
		"organization_id", organizationID,
		"roles", dto.RoleNames,
		"enabled", dto.IsEnabled)
	s.publishBulkAssigned(ScopeOrganization, organizationID, dto)

	return s.effectiveForOrganization(organizationID)
}

// BulkAssignBusinessUnit upserts tier 2 rows. Every requested role must
// already be enabled at the unit's organization; violations are collected and
// the whole call fails atomically.
func (s *Service) BulkAssignBusinessUnit(businessUnitID int64, dto BulkAssignDTO, assignedBy *int64) (*AssignmentResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	unit, err := s.repo.GetBusinessUnit(businessUnitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, internal.ErrBusinessUnitNotFound
	}

	writes, err := s.resolveNames(dto, assignedBy)
	if err != nil {
		return nil, err
	}

	// tier gating: organization enablement must precede business unit enablement
	if dto.IsEnabled {
		roleIDs := make([]int64, len(writes))
		for i, w := range writes {
			roleIDs[i] = w.RoleID
		}
		enabled, err := s.repo.OrganizationEnablement(unit.OrganizationID, roleIDs)
		if err != nil {
			return nil, err
		}

		var blocked []string
		for _, w := range writes {
			if !enabled[w.RoleID] {
				blocked = append(blocked, w.RoleName)
			}
		}
		if len(blocked) > 0 {
			sort.Strings(blocked)
			s.logger.Warn("business unit assignment blocked by tier gating",
				"business_unit_id", businessUnitID,
				"organization_id", unit.OrganizationID,
				"roles", blocked)
			return nil, internal.NewParentTierNotEnabledError(blocked)
		}
	}

	if err := s.repo.BulkUpsertBusinessUnitRoles(businessUnitID, writes); err != nil {
		s.logger.Error("bulk business unit assignment failed", "error", err, "business_unit_id", businessUnitID)
		return nil, err
	}

	s.logger.Info("bulk business unit assignment applied",
		"business_unit_id", businessUnitID,
		"roles", dto.RoleNames,
		"enabled", dto.IsEnabled)
	s.publishBulkAssigned(ScopeBusinessUnit, businessUnitID, dto)

	return s.effectiveForBusinessUnit(businessUnitID)
}

// BulkAssignUser writes tier 3 direct grants. Each role must be available to
// the user through at least one active business unit membership; when
// replace_existing is set, active grants outside the new set are deactivated.
func (s *Service) BulkAssignUser(userID int64, dto BulkAssignDTO, assignedBy *int64) (*AssignmentResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	user, err := s.repo.GetUser(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, internal.ErrUserNotFound
	}

	writes, err := s.resolveNames(dto, assignedBy)
	if err != nil {
		return nil, err
	}

	if dto.IsEnabled {
		available, err := s.availableRoleIDsForUser(userID)
		if err != nil {
			return nil, err
		}

		var unavailable []string
		for _, w := range writes {
			if !available[w.RoleID] {
				unavailable = append(unavailable, w.RoleName)
			}
		}
		if len(unavailable) > 0 {
			sort.Strings(unavailable)
			s.logger.Warn("user assignment blocked: roles outside business unit chain",
				"user_id", userID,
				"roles", unavailable)
			return nil, internal.NewRoleNotAvailableError(unavailable)
		}
	}

	if err := s.repo.BulkAssignUserRoles(userID, writes, dto.ReplaceExisting); err != nil {
		s.logger.Error("bulk user assignment failed", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("bulk user assignment applied",
		"user_id", userID,
		"roles", dto.RoleNames,
		"replace_existing", dto.ReplaceExisting)
	s.publishBulkAssigned(ScopeUser, userID, dto)

	return s.effectiveForUser(userID)
}

// DisableOrganizationRole turns off a tier 1 row. Refused while business
// units still depend on the enablement, unless force is set.
func (s *Service) DisableOrganizationRole(organizationID int64, dto DisableRoleDTO) (*AssignmentResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	exists, err := s.repo.OrganizationExists(organizationID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, internal.ErrOrganizationNotFound
	}

	roleWrites, err := s.resolveNames(BulkAssignDTO{RoleNames: []string{dto.RoleName}}, nil)
	if err != nil {
		return nil, err
	}
	roleID := roleWrites[0].RoleID

	if !dto.Force {
		usage, err := s.repo.UsageForOrganizationRole(organizationID, roleID)
		if err != nil {
			return nil, err
		}
		if usage.Total() > 0 {
			s.logger.Warn("organization role disable refused: dependents exist",
				"organization_id", organizationID,
				"role", dto.RoleName,
				"business_unit_enablements", usage.BusinessUnitEnablements,
				"user_assignments", usage.UserAssignments)
			return nil, internal.ErrRoleInUse
		}
	}

	if err := s.repo.DisableOrganizationRole(organizationID, roleID); err != nil {
		s.logger.Error("failed to disable organization role", "error", err, "organization_id", organizationID, "role", dto.RoleName)
		return nil, err
	}

	s.logger.Info("organization role disabled", "organization_id", organizationID, "role", dto.RoleName)
	s.publishDisabled(ScopeOrganization, organizationID, dto.RoleName)

	return s.effectiveForOrganization(organizationID)
}

func (s *Service) DisableBusinessUnitRole(businessUnitID int64, dto DisableRoleDTO) (*AssignmentResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	unit, err := s.repo.GetBusinessUnit(businessUnitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, internal.ErrBusinessUnitNotFound
	}

	roleWrites, err := s.resolveNames(BulkAssignDTO{RoleNames: []string{dto.RoleName}}, nil)
	if err != nil {
		return nil, err
	}
	roleID := roleWrites[0].RoleID

	if !dto.Force {
		usage, err := s.repo.UsageForBusinessUnitRole(businessUnitID, roleID)
		if err != nil {
			return nil, err
		}
		if usage.UserAssignments > 0 {
			return nil, internal.ErrRoleInUse
		}
	}

	if err := s.repo.DisableBusinessUnitRole(businessUnitID, roleID); err != nil {
		s.logger.Error("failed to disable business unit role", "error", err, "business_unit_id", businessUnitID, "role", dto.RoleName)
		return nil, err
	}

	s.logger.Info("business unit role disabled", "business_unit_id", businessUnitID, "role", dto.RoleName)
	s.publishDisabled(ScopeBusinessUnit, businessUnitID, dto.RoleName)

	return s.effectiveForBusinessUnit(businessUnitID)
}

func (s *Service) availableRoleIDsForUser(userID int64) (map[int64]bool, error) {
	units, err := s.repo.ActiveBusinessUnitsForUser(userID)
	if err != nil {
		return nil, err
	}

	available := make(map[int64]bool)
	for _, unit := range units {
		roles, err := s.repo.RolesEnabledAtOrganization(unit.OrganizationID, unit.ID)
		if err != nil {
			return nil, err
		}
		for _, role := range roles {
			if role.EnabledAtBU {
				available[role.RoleID] = true
			}
		}
	}
	return available, nil
}

func (s *Service) effectiveForOrganization(organizationID int64) (*AssignmentResult, error) {
	roles, err := s.repo.RolesEnabledAtOrganization(organizationID, 0)
	if err != nil {
		return nil, err
	}
	sortAvailabilities(roles)
	return &AssignmentResult{Scope: ScopeOrganization, ScopeID: organizationID, EffectiveRoles: roles}, nil
}

func (s *Service) effectiveForBusinessUnit(businessUnitID int64) (*AssignmentResult, error) {
	roles, err := s.resolver.AvailableRolesForBusinessUnit(businessUnitID)
	if err != nil {
		return nil, err
	}
	effective := roles[:0:0]
	for _, role := range roles {
		if role.EnabledAtBU {
			effective = append(effective, role)
		}
	}
	return &AssignmentResult{Scope: ScopeBusinessUnit, ScopeID: businessUnitID, EffectiveRoles: effective}, nil
}

func (s *Service) effectiveForUser(userID int64) (*AssignmentResult, error) {
	roles, err := s.resolver.AvailableRolesForUser(userID)
	if err != nil {
		return nil, err
	}
	effective := roles[:0:0]
	for _, role := range roles {
		if role.CurrentlyAssigned {
			effective = append(effective, role)
		}
	}
	return &AssignmentResult{Scope: ScopeUser, ScopeID: userID, EffectiveRoles: effective}, nil
}

func (s *Service) publishBulkAssigned(scope Scope, scopeID int64, dto BulkAssignDTO) {
	if s.bus == nil {
		return
	}
	event := events.NewRolesBulkAssignedEvent(string(scope), scopeID, dto.RoleNames, dto.IsEnabled)
	if err := s.bus.Publish(context.Background(), event); err != nil {
		s.logger.Warn("failed to publish bulk assignment event", "error", err)
	}
}

func (s *Service) publishDisabled(scope Scope, scopeID int64, roleName string) {
	if s.bus == nil {
		return
	}
	event := events.NewRoleDisabledEvent(string(scope), scopeID, roleName)
	if err := s.bus.Publish(context.Background(), event); err != nil {
		s.logger.Warn("failed to publish role disabled event", "error", err)
	}
}
