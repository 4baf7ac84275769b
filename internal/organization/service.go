package organization

import (
	"log/slog"

	"github.com/adiwarna/identity-admin/internal"
	orgDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/organization"
)

type RepositoryAPI interface {
	GetAll() ([]*orgDatamodel.Organization, error)
	GetByID(id int64) (*orgDatamodel.Organization, error)
	Create(org *orgDatamodel.Organization) error
	Update(org *orgDatamodel.Organization) error
	Delete(id int64) error
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

func (s *Service) ListOrganizations() ([]*Organization, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list organizations", "error", err)
		return nil, err
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) GetOrganization(id int64) (*Organization, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get organization", "error", err, "organization_id", id)
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrOrganizationNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) CreateOrganization(dto CreateOrganizationDTO) (*Organization, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	org := NewOrganization(dto)
	row := ToDataModel(org)
	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create organization", "error", err, "name", dto.Name)
		return nil, err
	}
	org.ID = row.ID

	s.logger.Info("organization created", "organization_id", org.ID, "name", org.Name)
	return org, nil
}

func (s *Service) UpdateOrganization(id int64, dto UpdateOrganizationDTO) (*Organization, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrOrganizationNotFound
	}

	org := FromDataModel(row)
	org.Name = dto.Name
	org.LegalName = dto.LegalName
	org.ContactEmail = dto.ContactEmail
	org.ContactPhone = dto.ContactPhone
	org.AddressLine1 = dto.AddressLine1
	org.AddressLine2 = dto.AddressLine2
	org.City = dto.City
	org.Country = dto.Country

	if err := s.repo.Update(ToDataModel(org)); err != nil {
		s.logger.Error("failed to update organization", "error", err, "organization_id", id)
		return nil, err
	}

	s.logger.Info("organization updated", "organization_id", id)
	return org, nil
}

// DeleteOrganization removes the organization; business units and enablement
// rows go with it through the store's ON DELETE CASCADE constraints.
func (s *Service) DeleteOrganization(id int64) error {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if row == nil {
		return internal.ErrOrganizationNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete organization", "error", err, "organization_id", id)
		return err
	}

	s.logger.Info("organization deleted", "organization_id", id, "name", row.Name)
	return nil
}
