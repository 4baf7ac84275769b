package user

import (
	"log/slog"
	"time"

	"github.com/adiwarna/identity-admin/internal"
	userDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

type RepositoryAPI interface {
	GetAll() ([]*userDatamodel.User, error)
	GetByID(id int64) (*userDatamodel.User, error)
	GetByEmail(email string) (*userDatamodel.User, error)
	Create(user *userDatamodel.User) error
	Update(user *userDatamodel.User) error

	GetMemberships(userID int64) ([]*Membership, error)
	GetMembership(userID, businessUnitID int64) (*userDatamodel.UserBusinessUnit, error)
	CreateMembership(membership *userDatamodel.UserBusinessUnit) error
	UpdateMembership(membership *userDatamodel.UserBusinessUnit) error
}

// BusinessUnitLookup is the slice of the business unit store the membership
// operations need.
type BusinessUnitLookup interface {
	Exists(id int64) (bool, error)
}

type Service struct {
	repo       RepositoryAPI
	units      BusinessUnitLookup
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, units BusinessUnitLookup, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		units:      units,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) ListUsers() ([]*User, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, err
	}
	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users, nil
}

func (s *Service) GetUser(id int64) (*User, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get user", "error", err, "user_id", id)
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) CreateUser(dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	existing, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, internal.NewConflictError("email already registered", internal.ErrCodeDuplicateEmail)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	row := &userDatamodel.User{
		Email:        dto.Email,
		Name:         dto.Name,
		Phone:        dto.Phone,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, err
	}

	s.logger.Info("user created", "user_id", row.ID, "email", row.Email)
	return FromDataModel(row), nil
}

func (s *Service) UpdateUser(id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}

	row.Name = dto.Name
	row.Phone = dto.Phone
	if dto.IsActive != nil {
		row.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(row); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", id)
		return nil, err
	}

	s.logger.Info("user updated", "user_id", id)
	return FromDataModel(row), nil
}

func (s *Service) ListMemberships(userID int64) ([]*Membership, error) {
	row, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}
	return s.repo.GetMemberships(userID)
}

// AssignToBusinessUnit activates a membership, reviving a deactivated row
// when one exists so the join date history is preserved.
func (s *Service) AssignToBusinessUnit(userID int64, dto AssignMembershipDTO) (*Membership, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	row, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrUserNotFound
	}

	exists, err := s.units.Exists(dto.BusinessUnitID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, internal.ErrBusinessUnitNotFound
	}

	membership, err := s.repo.GetMembership(userID, dto.BusinessUnitID)
	if err != nil {
		return nil, err
	}
	if membership == nil {
		membership = &userDatamodel.UserBusinessUnit{
			UserID:         userID,
			BusinessUnitID: dto.BusinessUnitID,
			IsActive:       true,
			JoinedAt:       time.Now(),
		}
		if err := s.repo.CreateMembership(membership); err != nil {
			s.logger.Error("failed to create membership", "error", err, "user_id", userID, "business_unit_id", dto.BusinessUnitID)
			return nil, err
		}
	} else if !membership.IsActive {
		membership.IsActive = true
		membership.JoinedAt = time.Now()
		if err := s.repo.UpdateMembership(membership); err != nil {
			s.logger.Error("failed to reactivate membership", "error", err, "user_id", userID, "business_unit_id", dto.BusinessUnitID)
			return nil, err
		}
	}

	s.logger.Info("membership assigned", "user_id", userID, "business_unit_id", dto.BusinessUnitID)
	return &Membership{
		ID:             membership.ID,
		BusinessUnitID: membership.BusinessUnitID,
		IsActive:       membership.IsActive,
		JoinedAt:       membership.JoinedAt,
	}, nil
}

// DeactivateMembership flips the row to inactive; the row itself stays for
// history and for re-activation later.
func (s *Service) DeactivateMembership(userID, businessUnitID int64) error {
	membership, err := s.repo.GetMembership(userID, businessUnitID)
	if err != nil {
		return err
	}
	if membership == nil {
		return internal.ErrMembershipNotFound
	}
	if !membership.IsActive {
		return nil
	}

	membership.IsActive = false
	if err := s.repo.UpdateMembership(membership); err != nil {
		s.logger.Error("failed to deactivate membership", "error", err, "user_id", userID, "business_unit_id", businessUnitID)
		return err
	}

	s.logger.Info("membership deactivated", "user_id", userID, "business_unit_id", businessUnitID)
	return nil
}
