package user

import (
	"errors"
	"strings"
)

type CreateUserDTO struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

func (dto CreateUserDTO) Validate() error {
	if strings.TrimSpace(dto.Email) == "" {
		return errors.New("email is required")
	}
	if !strings.Contains(dto.Email, "@") {
		return errors.New("email is not a valid email address")
	}
	if strings.TrimSpace(dto.Name) == "" {
		return errors.New("name is required")
	}
	if len(dto.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}

type UpdateUserDTO struct {
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
	IsActive *bool  `json:"is_active,omitempty"`
}

func (dto UpdateUserDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

type AssignMembershipDTO struct {
	BusinessUnitID int64 `json:"business_unit_id"`
}

func (dto AssignMembershipDTO) Validate() error {
	if dto.BusinessUnitID <= 0 {
		return errors.New("business_unit_id is required")
	}
	return nil
}

type UsersResponse struct {
	Users []*User `json:"users"`
}

type MembershipsResponse struct {
	Memberships []*Membership `json:"memberships"`
}
