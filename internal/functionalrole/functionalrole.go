package functionalrole

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	roleDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/functionalrole"
)

// FunctionalRole is a named, permission-bearing capability in the global
// catalog. It is not tenant-scoped; organizations opt in via enablement rows.
type FunctionalRole struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Permissions []string  `json:"permissions"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var categorySeparators = regexp.MustCompile(`[\s\-]+`)

// NormalizeCategory collapses free-form category text onto a stable grouping
// key: trimmed, lowercased, separators folded to underscores. Prevents
// "Fleet Ops" and "fleet-ops" from fragmenting into two groups.
func NormalizeCategory(category string) string {
	category = strings.ToLower(strings.TrimSpace(category))
	category = categorySeparators.ReplaceAllString(category, "_")
	return strings.Trim(category, "_")
}

func (r *FunctionalRole) Deactivate() {
	r.IsActive = false
	r.UpdatedAt = time.Now()
}

func (r *FunctionalRole) Activate() {
	r.IsActive = true
	r.UpdatedAt = time.Now()
}

func NewFunctionalRole(name, label, description, category string, permissions []string) *FunctionalRole {
	now := time.Now()
	return &FunctionalRole{
		Name:        strings.TrimSpace(name),
		Label:       strings.TrimSpace(label),
		Description: description,
		Category:    NormalizeCategory(category),
		Permissions: permissions,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func ToDataModel(r *FunctionalRole) *roleDatamodel.FunctionalRole {
	perms, _ := json.Marshal(r.Permissions)
	return &roleDatamodel.FunctionalRole{
		ID:          r.ID,
		Name:        r.Name,
		Label:       r.Label,
		Description: r.Description,
		Category:    r.Category,
		Permissions: string(perms),
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func FromDataModel(r *roleDatamodel.FunctionalRole) *FunctionalRole {
	var perms []string
	if r.Permissions != "" {
		_ = json.Unmarshal([]byte(r.Permissions), &perms)
	}
	return &FunctionalRole{
		ID:          r.ID,
		Name:        r.Name,
		Label:       r.Label,
		Description: r.Description,
		Category:    r.Category,
		Permissions: perms,
		IsActive:    r.IsActive,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func FromDataModelSlice(roles []*roleDatamodel.FunctionalRole) []*FunctionalRole {
	result := make([]*FunctionalRole, len(roles))
	for i, r := range roles {
		result[i] = FromDataModel(r)
	}
	return result
}
