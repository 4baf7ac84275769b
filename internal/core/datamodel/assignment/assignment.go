package assignment

import "time"

// OrganizationFunctionalRole is the tier 1 enablement row. A role must be
// enabled here before any business unit of the organization may enable it.
type OrganizationFunctionalRole struct {
	ID               int64     `gorm:"primaryKey"`
	OrganizationID   int64     `gorm:"column:organization_id;not null;uniqueIndex:uq_org_role;index:idx_org_role_enabled"`
	FunctionalRoleID int64     `gorm:"column:functional_role_id;not null;uniqueIndex:uq_org_role"`
	IsEnabled        bool      `gorm:"column:is_enabled;default:true;index:idx_org_role_enabled"`
	AssignedBy       *int64    `gorm:"column:assigned_by"`
	AssignedAt       time.Time `gorm:"column:assigned_at"`
	Notes            string    `gorm:"column:notes"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// BusinessUnitFunctionalRole is the tier 2 enablement row, valid only while
// the same role is enabled at the owning organization.
type BusinessUnitFunctionalRole struct {
	ID               int64     `gorm:"primaryKey"`
	BusinessUnitID   int64     `gorm:"column:business_unit_id;not null;uniqueIndex:uq_bu_role;index:idx_bu_role_enabled"`
	FunctionalRoleID int64     `gorm:"column:functional_role_id;not null;uniqueIndex:uq_bu_role"`
	IsEnabled        bool      `gorm:"column:is_enabled;default:true;index:idx_bu_role_enabled"`
	AssignedBy       *int64    `gorm:"column:assigned_by"`
	AssignedAt       time.Time `gorm:"column:assigned_at"`
	Notes            string    `gorm:"column:notes"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// UserFunctionalRole is the tier 3 direct grant. Rows may outlive the
// enablement chain; availability listings re-check the chain at read time.
type UserFunctionalRole struct {
	ID               int64      `gorm:"primaryKey"`
	UserID           int64      `gorm:"column:user_id;not null;uniqueIndex:uq_user_role"`
	FunctionalRoleID int64      `gorm:"column:functional_role_id;not null;uniqueIndex:uq_user_role"`
	IsActive         bool       `gorm:"column:is_active;default:true"`
	ExpiresAt        *time.Time `gorm:"column:expires_at"`
	AssignedBy       *int64     `gorm:"column:assigned_by"`
	AssignedAt       time.Time  `gorm:"column:assigned_at"`
	Notes            string     `gorm:"column:notes"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
