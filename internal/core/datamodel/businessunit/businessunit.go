package businessunit

import "time"

type BusinessUnit struct {
	ID             int64     `gorm:"primaryKey"`
	OrganizationID int64     `gorm:"column:organization_id;not null;index;uniqueIndex:uq_bu_sibling_name;uniqueIndex:uq_bu_org_code"`
	ParentUnitID   *int64    `gorm:"column:parent_unit_id;index;uniqueIndex:uq_bu_sibling_name"`
	ManagerUserID  *int64    `gorm:"column:manager_user_id;index"`
	Name           string    `gorm:"column:name;not null;uniqueIndex:uq_bu_sibling_name"`
	Code           *string   `gorm:"column:code;uniqueIndex:uq_bu_org_code"`
	Description    string    `gorm:"column:description"`
	IsActive       bool      `gorm:"column:is_active;default:true"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
