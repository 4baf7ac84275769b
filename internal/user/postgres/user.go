package postgres

import (
	userDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/user"
	"github.com/adiwarna/identity-admin/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ user.RepositoryAPI = (*UserRepository)(nil)

func (r *UserRepository) GetAll() ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.Order("name ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(u *userDatamodel.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) Update(u *userDatamodel.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) GetMemberships(userID int64) ([]*user.Membership, error) {
	var memberships []*user.Membership
	err := r.db.Raw(`
		SELECT ubu.id,
		       ubu.business_unit_id,
		       bu.name AS business_unit_name,
		       bu.organization_id,
		       ubu.is_active,
		       ubu.joined_at
		FROM user_business_units ubu
		JOIN business_units bu ON bu.id = ubu.business_unit_id
		WHERE ubu.user_id = ?
		ORDER BY bu.name ASC`, userID).
		Scan(&memberships).Error
	return memberships, err
}

func (r *UserRepository) GetMembership(userID, businessUnitID int64) (*userDatamodel.UserBusinessUnit, error) {
	var membership userDatamodel.UserBusinessUnit
	err := r.db.Where("user_id = ? AND business_unit_id = ?", userID, businessUnitID).
		First(&membership).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &membership, nil
}

func (r *UserRepository) CreateMembership(membership *userDatamodel.UserBusinessUnit) error {
	return r.db.Create(membership).Error
}

func (r *UserRepository) UpdateMembership(membership *userDatamodel.UserBusinessUnit) error {
	return r.db.Save(membership).Error
}
