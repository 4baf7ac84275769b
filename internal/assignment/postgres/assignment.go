package postgres

import (
	"errors"
	"strings"
	"time"

	"github.com/adiwarna/identity-admin/internal"
	"github.com/adiwarna/identity-admin/internal/assignment"
	assignmentDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/assignment"
	buDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/businessunit"
	roleDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/functionalrole"
	orgDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/organization"
	userDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

var _ assignment.RepositoryAPI = (*AssignmentRepository)(nil)

func (r *AssignmentRepository) GetBusinessUnit(id int64) (*buDatamodel.BusinessUnit, error) {
	var unit buDatamodel.BusinessUnit
	err := r.db.Where("id = ?", id).First(&unit).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &unit, nil
}

func (r *AssignmentRepository) GetUser(id int64) (*userDatamodel.User, error) {
	var user userDatamodel.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *AssignmentRepository) OrganizationExists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&orgDatamodel.Organization{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *AssignmentRepository) ActiveBusinessUnitsForUser(userID int64) ([]*buDatamodel.BusinessUnit, error) {
	var units []*buDatamodel.BusinessUnit
	err := r.db.
		Joins("JOIN user_business_units ubu ON ubu.business_unit_id = business_units.id").
		Where("ubu.user_id = ? AND ubu.is_active = ? AND business_units.is_active = ?", userID, true, true).
		Find(&units).Error
	return units, err
}

func (r *AssignmentRepository) ResolveRoleNames(names []string) ([]*roleDatamodel.FunctionalRole, error) {
	var roles []*roleDatamodel.FunctionalRole
	err := r.db.Where("name IN ?", names).Find(&roles).Error
	return roles, err
}

func (r *AssignmentRepository) RolesEnabledAtOrganization(organizationID, businessUnitID int64) ([]assignment.RoleAvailability, error) {
	var rows []assignment.RoleAvailability
	err := r.db.Raw(`
		SELECT fr.id AS role_id,
		       fr.name AS role_name,
		       fr.label,
		       fr.category,
		       ofr.is_enabled AS enabled_at_org,
		       COALESCE(bfr.is_enabled, ?) AS enabled_at_bu
		FROM functional_roles fr
		JOIN organization_functional_roles ofr
		  ON ofr.functional_role_id = fr.id AND ofr.organization_id = ?
		LEFT JOIN business_unit_functional_roles bfr
		  ON bfr.functional_role_id = fr.id AND bfr.business_unit_id = ?
		WHERE fr.is_active = ? AND ofr.is_enabled = ?
		ORDER BY fr.category ASC, fr.name ASC`,
		false, organizationID, businessUnitID, true, true).
		Scan(&rows).Error
	return rows, err
}

func (r *AssignmentRepository) OrganizationEnablement(organizationID int64, roleIDs []int64) (map[int64]bool, error) {
	if len(roleIDs) == 0 {
		return map[int64]bool{}, nil
	}

	var enabledIDs []int64
	err := r.db.Model(&assignmentDatamodel.OrganizationFunctionalRole{}).
		Where("organization_id = ? AND functional_role_id IN ? AND is_enabled = ?", organizationID, roleIDs, true).
		Pluck("functional_role_id", &enabledIDs).Error
	if err != nil {
		return nil, err
	}

	enabled := make(map[int64]bool, len(enabledIDs))
	for _, id := range enabledIDs {
		enabled[id] = true
	}
	return enabled, nil
}

func (r *AssignmentRepository) ActiveUserRoles(userID int64) (map[int64]assignment.UserRoleGrant, error) {
	var rows []assignmentDatamodel.UserFunctionalRole
	err := r.db.
		Where("user_id = ? AND is_active = ?", userID, true).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	now := time.Now()
	grants := make(map[int64]assignment.UserRoleGrant, len(rows))
	for _, row := range rows {
		// expired grants stay in the table but stop counting as active
		if row.ExpiresAt != nil && row.ExpiresAt.Before(now) {
			continue
		}
		grants[row.FunctionalRoleID] = assignment.UserRoleGrant{
			AssignedAt: row.AssignedAt,
			ExpiresAt:  row.ExpiresAt,
		}
	}
	return grants, nil
}

func (r *AssignmentRepository) HierarchyView(organizationID *int64) ([]assignment.HierarchyRow, error) {
	query := `
		SELECT o.id AS organization_id,
		       o.name AS organization_name,
		       bu.id AS business_unit_id,
		       bu.name AS business_unit_name,
		       fr.id AS role_id,
		       fr.name AS role_name,
		       fr.category,
		       ofr.is_enabled AS enabled_at_org,
		       COALESCE(bfr.is_enabled, ?) AS enabled_at_bu,
		       (SELECT COUNT(*)
		        FROM user_functional_roles ufr
		        JOIN user_business_units ubu
		          ON ubu.user_id = ufr.user_id
		         AND ubu.business_unit_id = bu.id
		         AND ubu.is_active = ?
		        WHERE ufr.functional_role_id = fr.id
		          AND ufr.is_active = ?) AS user_count
		FROM organizations o
		JOIN business_units bu ON bu.organization_id = o.id
		JOIN organization_functional_roles ofr
		  ON ofr.organization_id = o.id AND ofr.is_enabled = ?
		JOIN functional_roles fr
		  ON fr.id = ofr.functional_role_id AND fr.is_active = ?
		LEFT JOIN business_unit_functional_roles bfr
		  ON bfr.business_unit_id = bu.id AND bfr.functional_role_id = fr.id`
	args := []interface{}{false, true, true, true, true}

	if organizationID != nil {
		query += `
		WHERE o.id = ?`
		args = append(args, *organizationID)
	}
	query += `
		ORDER BY o.name ASC, bu.name ASC, fr.category ASC, fr.name ASC`

	var rows []assignment.HierarchyRow
	err := r.db.Raw(query, args...).Scan(&rows).Error
	return rows, err
}

func (r *AssignmentRepository) UsageForOrganizationRole(organizationID, roleID int64) (assignment.UsageCount, error) {
	var usage assignment.UsageCount

	err := r.db.Model(&assignmentDatamodel.BusinessUnitFunctionalRole{}).
		Joins("JOIN business_units bu ON bu.id = business_unit_functional_roles.business_unit_id").
		Where("bu.organization_id = ? AND business_unit_functional_roles.functional_role_id = ? AND business_unit_functional_roles.is_enabled = ?",
			organizationID, roleID, true).
		Count(&usage.BusinessUnitEnablements).Error
	if err != nil {
		return assignment.UsageCount{}, err
	}

	err = r.db.Model(&assignmentDatamodel.UserFunctionalRole{}).
		Joins("JOIN user_business_units ubu ON ubu.user_id = user_functional_roles.user_id AND ubu.is_active = ?", true).
		Joins("JOIN business_units bu ON bu.id = ubu.business_unit_id").
		Where("bu.organization_id = ? AND user_functional_roles.functional_role_id = ? AND user_functional_roles.is_active = ?",
			organizationID, roleID, true).
		Distinct("user_functional_roles.id").
		Count(&usage.UserAssignments).Error
	if err != nil {
		return assignment.UsageCount{}, err
	}

	return usage, nil
}

func (r *AssignmentRepository) UsageForBusinessUnitRole(businessUnitID, roleID int64) (assignment.UsageCount, error) {
	var usage assignment.UsageCount
	err := r.db.Model(&assignmentDatamodel.UserFunctionalRole{}).
		Joins("JOIN user_business_units ubu ON ubu.user_id = user_functional_roles.user_id").
		Where("ubu.business_unit_id = ? AND ubu.is_active = ? AND user_functional_roles.functional_role_id = ? AND user_functional_roles.is_active = ?",
			businessUnitID, true, roleID, true).
		Count(&usage.UserAssignments).Error
	if err != nil {
		return assignment.UsageCount{}, err
	}
	return usage, nil
}

func (r *AssignmentRepository) BulkUpsertOrganizationRoles(organizationID int64, writes []assignment.RoleWrite) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, w := range writes {
			var row assignmentDatamodel.OrganizationFunctionalRole
			err := tx.Where("organization_id = ? AND functional_role_id = ?", organizationID, w.RoleID).
				First(&row).Error
			if err == gorm.ErrRecordNotFound {
				row = assignmentDatamodel.OrganizationFunctionalRole{
					OrganizationID:   organizationID,
					FunctionalRoleID: w.RoleID,
					IsEnabled:        w.Enabled,
					AssignedBy:       w.AssignedBy,
					AssignedAt:       time.Now(),
					Notes:            w.Notes,
				}
				if err := tx.Create(&row).Error; err != nil {
					return translateWriteError(err)
				}
				continue
			}
			if err != nil {
				return err
			}
			// already in the requested state, leave the timestamps alone
			if row.IsEnabled == w.Enabled && row.Notes == w.Notes {
				continue
			}
			row.IsEnabled = w.Enabled
			row.AssignedBy = w.AssignedBy
			row.AssignedAt = time.Now()
			row.Notes = w.Notes
			if err := tx.Save(&row).Error; err != nil {
				return translateWriteError(err)
			}
		}
		return nil
	})
}

func (r *AssignmentRepository) BulkUpsertBusinessUnitRoles(businessUnitID int64, writes []assignment.RoleWrite) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, w := range writes {
			var row assignmentDatamodel.BusinessUnitFunctionalRole
			err := tx.Where("business_unit_id = ? AND functional_role_id = ?", businessUnitID, w.RoleID).
				First(&row).Error
			if err == gorm.ErrRecordNotFound {
				row = assignmentDatamodel.BusinessUnitFunctionalRole{
					BusinessUnitID:   businessUnitID,
					FunctionalRoleID: w.RoleID,
					IsEnabled:        w.Enabled,
					AssignedBy:       w.AssignedBy,
					AssignedAt:       time.Now(),
					Notes:            w.Notes,
				}
				if err := tx.Create(&row).Error; err != nil {
					return translateWriteError(err)
				}
				continue
			}
			if err != nil {
				return err
			}
			if row.IsEnabled == w.Enabled && row.Notes == w.Notes {
				continue
			}
			row.IsEnabled = w.Enabled
			row.AssignedBy = w.AssignedBy
			row.AssignedAt = time.Now()
			row.Notes = w.Notes
			if err := tx.Save(&row).Error; err != nil {
				return translateWriteError(err)
			}
		}
		return nil
	})
}

func (r *AssignmentRepository) BulkAssignUserRoles(userID int64, writes []assignment.RoleWrite, replaceExisting bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if replaceExisting {
			requested := make([]int64, 0, len(writes))
			for _, w := range writes {
				requested = append(requested, w.RoleID)
			}
			err := tx.Model(&assignmentDatamodel.UserFunctionalRole{}).
				Where("user_id = ? AND is_active = ? AND functional_role_id NOT IN ?", userID, true, requested).
				Update("is_active", false).Error
			if err != nil {
				return err
			}
		}

		for _, w := range writes {
			var row assignmentDatamodel.UserFunctionalRole
			err := tx.Where("user_id = ? AND functional_role_id = ?", userID, w.RoleID).
				First(&row).Error
			if err == gorm.ErrRecordNotFound {
				row = assignmentDatamodel.UserFunctionalRole{
					UserID:           userID,
					FunctionalRoleID: w.RoleID,
					IsActive:         w.Enabled,
					ExpiresAt:        w.ExpiresAt,
					AssignedBy:       w.AssignedBy,
					AssignedAt:       time.Now(),
					Notes:            w.Notes,
				}
				if err := tx.Create(&row).Error; err != nil {
					return translateWriteError(err)
				}
				continue
			}
			if err != nil {
				return err
			}
			if row.IsActive == w.Enabled && row.Notes == w.Notes && equalTimePtr(row.ExpiresAt, w.ExpiresAt) {
				continue
			}
			row.IsActive = w.Enabled
			row.ExpiresAt = w.ExpiresAt
			row.AssignedBy = w.AssignedBy
			row.AssignedAt = time.Now()
			row.Notes = w.Notes
			if err := tx.Save(&row).Error; err != nil {
				return translateWriteError(err)
			}
		}
		return nil
	})
}

func (r *AssignmentRepository) DisableOrganizationRole(organizationID, roleID int64) error {
	return r.db.Model(&assignmentDatamodel.OrganizationFunctionalRole{}).
		Where("organization_id = ? AND functional_role_id = ?", organizationID, roleID).
		Update("is_enabled", false).Error
}

func (r *AssignmentRepository) DisableBusinessUnitRole(businessUnitID, roleID int64) error {
	return r.db.Model(&assignmentDatamodel.BusinessUnitFunctionalRole{}).
		Where("business_unit_id = ? AND functional_role_id = ?", businessUnitID, roleID).
		Update("is_enabled", false).Error
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// translateWriteError maps unique-constraint violations onto the domain's
// duplicate assignment error. Covers both postgres and the sqlite driver used
// in tests.
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return internal.ErrDuplicateAssignment
	}
	msg := err.Error()
	if strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint") {
		return internal.ErrDuplicateAssignment
	}
	return err
}
