package assignment

import "time"

// Scope identifies the tier a bulk assignment or resolution call targets.
type Scope string

const (
	ScopeOrganization Scope = "organization"
	ScopeBusinessUnit Scope = "business_unit"
	ScopeUser         Scope = "user"
)

func (s Scope) Valid() bool {
	switch s {
	case ScopeOrganization, ScopeBusinessUnit, ScopeUser:
		return true
	}
	return false
}

// RoleAvailability is one row of a resolution listing: a catalog role together
// with its enablement state at each tier that applies to the requested scope.
type RoleAvailability struct {
	RoleID            int64      `json:"role_id"`
	RoleName          string     `json:"role_name"`
	Label             string     `json:"label"`
	Category          string     `json:"category"`
	EnabledAtOrg      bool       `json:"enabled_at_org"`
	EnabledAtBU       bool       `json:"enabled_at_bu"`
	CurrentlyAssigned bool       `json:"currently_assigned"`
	AssignedAt        *time.Time `json:"assigned_at,omitempty"`
	ExpiresAt         *time.Time `json:"expires_at,omitempty"`
}

// HierarchyRow is one denormalized audit row per (organization, business
// unit, role) combination.
type HierarchyRow struct {
	OrganizationID   int64  `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	BusinessUnitID   int64  `json:"business_unit_id"`
	BusinessUnitName string `json:"business_unit_name"`
	RoleID           int64  `json:"role_id"`
	RoleName         string `json:"role_name"`
	Category         string `json:"category"`
	EnabledAtOrg     bool   `json:"enabled_at_org"`
	EnabledAtBU      bool   `json:"enabled_at_bu"`
	UserCount        int64  `json:"user_count"`
}

// UsageCount reports how many lower-tier rows depend on an enablement; used
// to gate destructive operations.
type UsageCount struct {
	BusinessUnitEnablements int64 `json:"business_unit_enablements"`
	UserAssignments         int64 `json:"user_assignments"`
}

func (u UsageCount) Total() int64 {
	return u.BusinessUnitEnablements + u.UserAssignments
}

// RoleWrite is one resolved role in a bulk write, ready for upsert.
type RoleWrite struct {
	RoleID     int64
	RoleName   string
	Enabled    bool
	Notes      string
	AssignedBy *int64
	ExpiresAt  *time.Time
}

// AssignmentResult is returned by every bulk operation: the effective role
// set for the scope read back after the write, so callers can detect
// server-side normalization.
type AssignmentResult struct {
	Scope          Scope              `json:"scope"`
	ScopeID        int64              `json:"scope_id"`
	EffectiveRoles []RoleAvailability `json:"effective_roles"`
}
