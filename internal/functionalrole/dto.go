package functionalrole

import (
	"errors"
	"regexp"
)

var roleNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{1,63}$`)

// CreateRoleDTO is the request payload for adding a role to the catalog.
type CreateRoleDTO struct {
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Permissions []string `json:"permissions,omitempty"`
}

func (dto CreateRoleDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if !roleNamePattern.MatchString(dto.Name) {
		return errors.New("name must be a lowercase machine key (letters, digits, underscores)")
	}
	if dto.Label == "" {
		return errors.New("label is required")
	}
	if dto.Category == "" {
		return errors.New("category is required")
	}
	for _, p := range dto.Permissions {
		if p == "" {
			return errors.New("permissions must not contain empty strings")
		}
	}
	return nil
}

// UpdateRoleDTO updates the human-facing fields; the machine name is immutable.
type UpdateRoleDTO struct {
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Permissions []string `json:"permissions,omitempty"`
}

func (dto UpdateRoleDTO) Validate() error {
	if dto.Label == "" {
		return errors.New("label is required")
	}
	if dto.Category == "" {
		return errors.New("category is required")
	}
	return nil
}

type RoleResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Label       string   `json:"label"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Permissions []string `json:"permissions,omitempty"`
	IsActive    bool     `json:"is_active"`
}

type RolesResponse struct {
	Roles []RoleResponse `json:"roles"`
}

func (r *FunctionalRole) ToResponse() RoleResponse {
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Label:       r.Label,
		Description: r.Description,
		Category:    r.Category,
		Permissions: r.Permissions,
		IsActive:    r.IsActive,
	}
}
