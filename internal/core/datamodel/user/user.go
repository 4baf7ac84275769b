package user

import "time"

type User struct {
	ID           int64      `gorm:"primaryKey"`
	Email        string     `gorm:"column:email;uniqueIndex;not null"`
	Name         string     `gorm:"column:name;not null"`
	Phone        string     `gorm:"column:phone"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	IsActive     bool       `gorm:"column:is_active;default:true"`
	MFAEnabled   bool       `gorm:"column:mfa_enabled;default:false"`
	TOTPSecret   *string    `gorm:"column:totp_secret"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// UserBusinessUnit keeps one row per (user, business unit); historical
// memberships stay around with is_active=false instead of being deleted.
type UserBusinessUnit struct {
	ID             int64     `gorm:"primaryKey"`
	UserID         int64     `gorm:"column:user_id;not null;uniqueIndex:uq_user_unit"`
	BusinessUnitID int64     `gorm:"column:business_unit_id;not null;uniqueIndex:uq_user_unit"`
	IsActive       bool      `gorm:"column:is_active;default:true"`
	JoinedAt       time.Time `gorm:"column:joined_at"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// EmailOTP is a single-use email one-time-code challenge.
type EmailOTP struct {
	ID          int64      `gorm:"primaryKey"`
	UserID      int64      `gorm:"column:user_id;not null;index"`
	ChallengeID string     `gorm:"column:challenge_id;uniqueIndex;not null"`
	CodeHash    string     `gorm:"column:code_hash;not null"`
	ExpiresAt   time.Time  `gorm:"column:expires_at;not null"`
	ConsumedAt  *time.Time `gorm:"column:consumed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
}
