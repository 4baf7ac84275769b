package postgres

import (
	"errors"
	"strings"

	"github.com/adiwarna/identity-admin/internal"
	"github.com/adiwarna/identity-admin/internal/businessunit"
	buDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/businessunit"
	"gorm.io/gorm"
)

type BusinessUnitRepository struct {
	db *gorm.DB
}

func NewBusinessUnitRepository(db *gorm.DB) *BusinessUnitRepository {
	return &BusinessUnitRepository{db: db}
}

var _ businessunit.RepositoryAPI = (*BusinessUnitRepository)(nil)
var _ businessunit.UnitLookup = (*BusinessUnitRepository)(nil)

func (r *BusinessUnitRepository) GetByOrganization(organizationID int64) ([]*buDatamodel.BusinessUnit, error) {
	var units []*buDatamodel.BusinessUnit
	err := r.db.Where("organization_id = ?", organizationID).
		Order("name ASC").
		Find(&units).Error
	return units, err
}

func (r *BusinessUnitRepository) GetByID(id int64) (*buDatamodel.BusinessUnit, error) {
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

func (r *BusinessUnitRepository) GetByCode(organizationID int64, code string) (*buDatamodel.BusinessUnit, error) {
	var unit buDatamodel.BusinessUnit
	err := r.db.Where("organization_id = ? AND code = ?", organizationID, code).First(&unit).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &unit, nil
}

func (r *BusinessUnitRepository) GetSibling(organizationID int64, parentUnitID *int64, name string) (*buDatamodel.BusinessUnit, error) {
	query := r.db.Where("organization_id = ? AND name = ?", organizationID, name)
	if parentUnitID == nil {
		query = query.Where("parent_unit_id IS NULL")
	} else {
		query = query.Where("parent_unit_id = ?", *parentUnitID)
	}

	var unit buDatamodel.BusinessUnit
	err := query.First(&unit).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &unit, nil
}

func (r *BusinessUnitRepository) Exists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&buDatamodel.BusinessUnit{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *BusinessUnitRepository) HasChildren(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&buDatamodel.BusinessUnit{}).Where("parent_unit_id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *BusinessUnitRepository) Create(unit *buDatamodel.BusinessUnit) error {
	return translateWriteError(r.db.Create(unit).Error)
}

func (r *BusinessUnitRepository) Update(unit *buDatamodel.BusinessUnit) error {
	return translateWriteError(r.db.Save(unit).Error)
}

// translateWriteError maps unique-constraint violations on the sibling-name
// and code indexes onto the conflict taxonomy. Covers both postgres and the
// sqlite driver used in tests.
func translateWriteError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return internal.NewConflictError("business unit name or code already used", internal.ErrCodeDuplicateAssignment)
	}
	msg := err.Error()
	if strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint") {
		return internal.NewConflictError("business unit name or code already used", internal.ErrCodeDuplicateAssignment)
	}
	return err
}

func (r *BusinessUnitRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&buDatamodel.BusinessUnit{}).Error
}
