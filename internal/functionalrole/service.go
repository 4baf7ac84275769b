package functionalrole

import (
	"log/slog"

	"github.com/adiwarna/identity-admin/internal"
	roleDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/functionalrole"
)

type RepositoryAPI interface {
	GetAll() ([]*roleDatamodel.FunctionalRole, error)
	GetByID(id int64) (*roleDatamodel.FunctionalRole, error)
	GetByName(name string) (*roleDatamodel.FunctionalRole, error)
	Create(role *roleDatamodel.FunctionalRole) error
	Update(role *roleDatamodel.FunctionalRole) error
	SetActive(id int64, active bool) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListRoles returns the whole catalog ordered by (category, name).
func (s *Service) ListRoles(includeInactive bool) ([]RoleResponse, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list functional roles", "error", err)
		return nil, err
	}

	responses := make([]RoleResponse, 0, len(rows))
	for _, row := range rows {
		role := FromDataModel(row)
		if !includeInactive && !role.IsActive {
			continue
		}
		responses = append(responses, role.ToResponse())
	}
	return responses, nil
}

func (s *Service) GetRole(id int64) (*FunctionalRole, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get functional role", "error", err, "role_id", id)
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrRoleNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) CreateRole(dto CreateRoleDTO) (*FunctionalRole, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	existing, err := s.repo.GetByName(dto.Name)
	if err != nil {
		s.logger.Error("failed to check existing role", "error", err, "name", dto.Name)
		return nil, err
	}
	if existing != nil {
		return nil, internal.NewConflictError("functional role name already exists", internal.ErrCodeDuplicateAssignment)
	}

	role := NewFunctionalRole(dto.Name, dto.Label, dto.Description, dto.Category, dto.Permissions)
	row := ToDataModel(role)
	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create functional role", "error", err, "name", dto.Name)
		return nil, err
	}
	role.ID = row.ID

	s.logger.Info("functional role created", "role_id", role.ID, "name", role.Name, "category", role.Category)
	return role, nil
}

func (s *Service) UpdateRole(id int64, dto UpdateRoleDTO) (*FunctionalRole, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrRoleNotFound
	}

	role := FromDataModel(row)
	role.Label = dto.Label
	role.Description = dto.Description
	role.Category = NormalizeCategory(dto.Category)
	role.Permissions = dto.Permissions

	if err := s.repo.Update(ToDataModel(role)); err != nil {
		s.logger.Error("failed to update functional role", "error", err, "role_id", id)
		return nil, err
	}

	s.logger.Info("functional role updated", "role_id", id, "name", role.Name)
	return role, nil
}

// DeactivateRole turns a catalog entry off instead of deleting it; existing
// enablement rows keep their history but availability listings drop the role.
func (s *Service) DeactivateRole(id int64) error {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if row == nil {
		return internal.ErrRoleNotFound
	}

	if err := s.repo.SetActive(id, false); err != nil {
		s.logger.Error("failed to deactivate functional role", "error", err, "role_id", id)
		return err
	}

	s.logger.Info("functional role deactivated", "role_id", id, "name", row.Name)
	return nil
}

func (s *Service) ActivateRole(id int64) error {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if row == nil {
		return internal.ErrRoleNotFound
	}

	if err := s.repo.SetActive(id, true); err != nil {
		s.logger.Error("failed to activate functional role", "error", err, "role_id", id)
		return err
	}
	return nil
}
