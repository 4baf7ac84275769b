package postgres

import (
	roleDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/functionalrole"
	"github.com/adiwarna/identity-admin/internal/functionalrole"
	"gorm.io/gorm"
)

type FunctionalRoleRepository struct {
	db *gorm.DB
}

func NewFunctionalRoleRepository(db *gorm.DB) *FunctionalRoleRepository {
	return &FunctionalRoleRepository{db: db}
}

var _ functionalrole.RepositoryAPI = (*FunctionalRoleRepository)(nil)

func (r *FunctionalRoleRepository) GetAll() ([]*roleDatamodel.FunctionalRole, error) {
	var roles []*roleDatamodel.FunctionalRole
	err := r.db.Order("category ASC, name ASC").Find(&roles).Error
	return roles, err
}

func (r *FunctionalRoleRepository) GetByID(id int64) (*roleDatamodel.FunctionalRole, error) {
	var role roleDatamodel.FunctionalRole
	err := r.db.Where("id = ?", id).First(&role).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *FunctionalRoleRepository) GetByName(name string) (*roleDatamodel.FunctionalRole, error) {
	var role roleDatamodel.FunctionalRole
	err := r.db.Where("name = ?", name).First(&role).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *FunctionalRoleRepository) Create(role *roleDatamodel.FunctionalRole) error {
	return r.db.Create(role).Error
}

func (r *FunctionalRoleRepository) Update(role *roleDatamodel.FunctionalRole) error {
	return r.db.Save(role).Error
}

func (r *FunctionalRoleRepository) SetActive(id int64, active bool) error {
	return r.db.Model(&roleDatamodel.FunctionalRole{}).Where("id = ?", id).Update("is_active", active).Error
}
