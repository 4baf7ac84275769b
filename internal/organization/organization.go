package organization

import (
	"time"

	orgDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/organization"
)

// Organization is the root of the tenancy hierarchy. Deleting one cascades at
// the store level to its business units and role enablements.
type Organization struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	LegalName    string    `json:"legal_name,omitempty"`
	ContactEmail string    `json:"contact_email,omitempty"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	AddressLine1 string    `json:"address_line1,omitempty"`
	AddressLine2 string    `json:"address_line2,omitempty"`
	City         string    `json:"city,omitempty"`
	Country      string    `json:"country,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewOrganization(dto CreateOrganizationDTO) *Organization {
	now := time.Now()
	return &Organization{
		Name:         dto.Name,
		LegalName:    dto.LegalName,
		ContactEmail: dto.ContactEmail,
		ContactPhone: dto.ContactPhone,
		AddressLine1: dto.AddressLine1,
		AddressLine2: dto.AddressLine2,
		City:         dto.City,
		Country:      dto.Country,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func ToDataModel(o *Organization) *orgDatamodel.Organization {
	return &orgDatamodel.Organization{
		ID:           o.ID,
		Name:         o.Name,
		LegalName:    o.LegalName,
		ContactEmail: o.ContactEmail,
		ContactPhone: o.ContactPhone,
		AddressLine1: o.AddressLine1,
		AddressLine2: o.AddressLine2,
		City:         o.City,
		Country:      o.Country,
		IsActive:     o.IsActive,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func FromDataModel(o *orgDatamodel.Organization) *Organization {
	return &Organization{
		ID:           o.ID,
		Name:         o.Name,
		LegalName:    o.LegalName,
		ContactEmail: o.ContactEmail,
		ContactPhone: o.ContactPhone,
		AddressLine1: o.AddressLine1,
		AddressLine2: o.AddressLine2,
		City:         o.City,
		Country:      o.Country,
		IsActive:     o.IsActive,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func FromDataModelSlice(orgs []*orgDatamodel.Organization) []*Organization {
	result := make([]*Organization, len(orgs))
	for i, o := range orgs {
		result[i] = FromDataModel(o)
	}
	return result
}
