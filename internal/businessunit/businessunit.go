package businessunit

import (
	"time"

	buDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/businessunit"
)

// BusinessUnit is an organizational subdivision. Units form a tree inside one
// organization; the parent chain is validated against cycles and
// cross-organization links before every write.
type BusinessUnit struct {
	ID             int64     `json:"id"`
	OrganizationID int64     `json:"organization_id"`
	ParentUnitID   *int64    `json:"parent_unit_id,omitempty"`
	ManagerUserID  *int64    `json:"manager_user_id,omitempty"`
	Name           string    `json:"name"`
	Code           *string   `json:"code,omitempty"`
	Description    string    `json:"description,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (b *BusinessUnit) Deactivate() {
	b.IsActive = false
	b.UpdatedAt = time.Now()
}

func NewBusinessUnit(organizationID int64, dto CreateBusinessUnitDTO) *BusinessUnit {
	now := time.Now()
	return &BusinessUnit{
		OrganizationID: organizationID,
		ParentUnitID:   dto.ParentUnitID,
		ManagerUserID:  dto.ManagerUserID,
		Name:           dto.Name,
		Code:           dto.Code,
		Description:    dto.Description,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func ToDataModel(b *BusinessUnit) *buDatamodel.BusinessUnit {
	return &buDatamodel.BusinessUnit{
		ID:             b.ID,
		OrganizationID: b.OrganizationID,
		ParentUnitID:   b.ParentUnitID,
		ManagerUserID:  b.ManagerUserID,
		Name:           b.Name,
		Code:           b.Code,
		Description:    b.Description,
		IsActive:       b.IsActive,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func FromDataModel(b *buDatamodel.BusinessUnit) *BusinessUnit {
	return &BusinessUnit{
		ID:             b.ID,
		OrganizationID: b.OrganizationID,
		ParentUnitID:   b.ParentUnitID,
		ManagerUserID:  b.ManagerUserID,
		Name:           b.Name,
		Code:           b.Code,
		Description:    b.Description,
		IsActive:       b.IsActive,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func FromDataModelSlice(units []*buDatamodel.BusinessUnit) []*BusinessUnit {
	result := make([]*BusinessUnit, len(units))
	for i, u := range units {
		result[i] = FromDataModel(u)
	}
	return result
}
