package user

import (
	"time"

	userDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/user"
)

type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone,omitempty"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
	MFAEnabled   bool       `json:"mfa_enabled"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Membership is one row of a user's business unit membership history.
type Membership struct {
	ID               int64     `json:"id"`
	BusinessUnitID   int64     `json:"business_unit_id"`
	BusinessUnitName string    `json:"business_unit_name"`
	OrganizationID   int64     `json:"organization_id"`
	IsActive         bool      `json:"is_active"`
	JoinedAt         time.Time `json:"joined_at"`
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		MFAEnabled:   u.MFAEnabled,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Phone:        u.Phone,
		PasswordHash: u.PasswordHash,
		IsActive:     u.IsActive,
		MFAEnabled:   u.MFAEnabled,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
