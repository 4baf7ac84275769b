package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeRolesBulkAssigned      = "roles.bulk_assigned"
	EventTypeRoleDisabled           = "roles.disabled"
	EventTypeBusinessUnitReparented = "business_units.reparented"
	EventTypeUserLoggedIn           = "users.logged_in"
)

type RolesBulkAssignedEvent struct {
	BaseEvent
	Scope     string   `json:"scope"`
	ScopeID   int64    `json:"scope_id"`
	RoleNames []string `json:"role_names"`
	Enabled   bool     `json:"enabled"`
}

func NewRolesBulkAssignedEvent(scope string, scopeID int64, roleNames []string, enabled bool) *RolesBulkAssignedEvent {
	return &RolesBulkAssignedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRolesBulkAssigned,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"scope":      scope,
				"scope_id":   scopeID,
				"role_names": roleNames,
				"enabled":    enabled,
			},
		},
		Scope:     scope,
		ScopeID:   scopeID,
		RoleNames: roleNames,
		Enabled:   enabled,
	}
}

type RoleDisabledEvent struct {
	BaseEvent
	Scope    string `json:"scope"`
	ScopeID  int64  `json:"scope_id"`
	RoleName string `json:"role_name"`
}

func NewRoleDisabledEvent(scope string, scopeID int64, roleName string) *RoleDisabledEvent {
	return &RoleDisabledEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeRoleDisabled,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"scope":     scope,
				"scope_id":  scopeID,
				"role_name": roleName,
			},
		},
		Scope:    scope,
		ScopeID:  scopeID,
		RoleName: roleName,
	}
}

type BusinessUnitReparentedEvent struct {
	BaseEvent
	BusinessUnitID int64  `json:"business_unit_id"`
	OldParentID    *int64 `json:"old_parent_id"`
	NewParentID    *int64 `json:"new_parent_id"`
}

func NewBusinessUnitReparentedEvent(businessUnitID int64, oldParentID, newParentID *int64) *BusinessUnitReparentedEvent {
	return &BusinessUnitReparentedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeBusinessUnitReparented,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"business_unit_id": businessUnitID,
				"old_parent_id":    oldParentID,
				"new_parent_id":    newParentID,
			},
		},
		BusinessUnitID: businessUnitID,
		OldParentID:    oldParentID,
		NewParentID:    newParentID,
	}
}

type UserLoggedInEvent struct {
	BaseEvent
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

func NewUserLoggedInEvent(userID int64, email string) *UserLoggedInEvent {
	return &UserLoggedInEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeUserLoggedIn,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"user_id": userID,
				"email":   email,
			},
		},
		UserID: userID,
		Email:  email,
	}
}
