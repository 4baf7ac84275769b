package businessunit

import (
	"errors"
	"strings"
)

type CreateBusinessUnitDTO struct {
	Name          string  `json:"name"`
	Code          *string `json:"code,omitempty"`
	Description   string  `json:"description,omitempty"`
	ParentUnitID  *int64  `json:"parent_unit_id,omitempty"`
	ManagerUserID *int64  `json:"manager_user_id,omitempty"`
}

func (dto CreateBusinessUnitDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return errors.New("name is required")
	}
	if len(dto.Name) > 255 {
		return errors.New("name must be less than 255 characters")
	}
	if dto.Code != nil && strings.TrimSpace(*dto.Code) == "" {
		return errors.New("code must not be blank when present")
	}
	return nil
}

type UpdateBusinessUnitDTO struct {
	Name          string  `json:"name"`
	Code          *string `json:"code,omitempty"`
	Description   string  `json:"description,omitempty"`
	ParentUnitID  *int64  `json:"parent_unit_id,omitempty"`
	ManagerUserID *int64  `json:"manager_user_id,omitempty"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

func (dto UpdateBusinessUnitDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return errors.New("name is required")
	}
	if dto.Code != nil && strings.TrimSpace(*dto.Code) == "" {
		return errors.New("code must not be blank when present")
	}
	return nil
}

type BusinessUnitsResponse struct {
	BusinessUnits []*BusinessUnit `json:"business_units"`
}
