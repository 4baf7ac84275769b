package assignment

import (
	"errors"
	"strings"
	"time"
)

// BulkAssignDTO is the request payload shared by the three scoped bulk
// assignment endpoints.
type BulkAssignDTO struct {
	RoleNames       []string   `json:"role_names"`
	IsEnabled       bool       `json:"is_enabled"`
	Notes           string     `json:"notes,omitempty"`
	ReplaceExisting bool       `json:"replace_existing,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

func (dto BulkAssignDTO) Validate() error {
	if len(dto.RoleNames) == 0 {
		return errors.New("role_names must not be empty")
	}
	seen := make(map[string]bool, len(dto.RoleNames))
	for _, name := range dto.RoleNames {
		if strings.TrimSpace(name) == "" {
			return errors.New("role_names must not contain blank entries")
		}
		if seen[name] {
			return errors.New("role_names must not contain duplicates")
		}
		seen[name] = true
	}
	if len(dto.Notes) > 1000 {
		return errors.New("notes must be less than 1000 characters")
	}
	return nil
}

type DisableRoleDTO struct {
	RoleName string `json:"role_name"`
	Force    bool   `json:"force,omitempty"`
}

func (dto DisableRoleDTO) Validate() error {
	if strings.TrimSpace(dto.RoleName) == "" {
		return errors.New("role_name is required")
	}
	return nil
}

type AvailabilityResponse struct {
	Roles []RoleAvailability `json:"roles"`
}

type HierarchyResponse struct {
	Rows []HierarchyRow `json:"rows"`
}
