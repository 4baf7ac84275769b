package functionalrole

import "time"

type FunctionalRole struct {
	ID          int64     `gorm:"primaryKey"`
	Name        string    `gorm:"column:name;uniqueIndex;not null"`
	Label       string    `gorm:"column:label;not null"`
	Description string    `gorm:"column:description"`
	Category    string    `gorm:"column:category;index"`
	Permissions string    `gorm:"column:permissions"` // JSON array of permission strings
	IsActive    bool      `gorm:"column:is_active;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
