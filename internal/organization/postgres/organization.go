package postgres

import (
	orgDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/organization"
	"github.com/adiwarna/identity-admin/internal/organization"
	"gorm.io/gorm"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

var _ organization.RepositoryAPI = (*OrganizationRepository)(nil)

func (r *OrganizationRepository) GetAll() ([]*orgDatamodel.Organization, error) {
	var orgs []*orgDatamodel.Organization
	err := r.db.Order("name ASC").Find(&orgs).Error
	return orgs, err
}

func (r *OrganizationRepository) GetByID(id int64) (*orgDatamodel.Organization, error) {
	var org orgDatamodel.Organization
	err := r.db.Where("id = ?", id).First(&org).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

func (r *OrganizationRepository) Exists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&orgDatamodel.Organization{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *OrganizationRepository) Create(org *orgDatamodel.Organization) error {
	return r.db.Create(org).Error
}

func (r *OrganizationRepository) Update(org *orgDatamodel.Organization) error {
	return r.db.Save(org).Error
}

func (r *OrganizationRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&orgDatamodel.Organization{}).Error
}
