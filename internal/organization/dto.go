package organization

import (
	"errors"
	"strings"
)

type CreateOrganizationDTO struct {
	Name         string `json:"name"`
	LegalName    string `json:"legal_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	AddressLine1 string `json:"address_line1,omitempty"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city,omitempty"`
	Country      string `json:"country,omitempty"`
}

func (dto CreateOrganizationDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return errors.New("name is required")
	}
	if len(dto.Name) > 255 {
		return errors.New("name must be less than 255 characters")
	}
	if dto.ContactEmail != "" && !strings.Contains(dto.ContactEmail, "@") {
		return errors.New("contact_email is not a valid email address")
	}
	return nil
}

type UpdateOrganizationDTO struct {
	Name         string `json:"name"`
	LegalName    string `json:"legal_name,omitempty"`
	ContactEmail string `json:"contact_email,omitempty"`
	ContactPhone string `json:"contact_phone,omitempty"`
	AddressLine1 string `json:"address_line1,omitempty"`
	AddressLine2 string `json:"address_line2,omitempty"`
	City         string `json:"city,omitempty"`
	Country      string `json:"country,omitempty"`
}

func (dto UpdateOrganizationDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return errors.New("name is required")
	}
	if dto.ContactEmail != "" && !strings.Contains(dto.ContactEmail, "@") {
		return errors.New("contact_email is not a valid email address")
	}
	return nil
}

type OrganizationsResponse struct {
	Organizations []*Organization `json:"organizations"`
}
