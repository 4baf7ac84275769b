package businessunit

import (
	"context"
	"log/slog"

	"github.com/adiwarna/identity-admin/internal"
	buDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/businessunit"
	"github.com/adiwarna/identity-admin/internal/core/events"
)

type RepositoryAPI interface {
	GetByOrganization(organizationID int64) ([]*buDatamodel.BusinessUnit, error)
	GetByID(id int64) (*buDatamodel.BusinessUnit, error)
	GetByCode(organizationID int64, code string) (*buDatamodel.BusinessUnit, error)
	GetSibling(organizationID int64, parentUnitID *int64, name string) (*buDatamodel.BusinessUnit, error)
	HasChildren(id int64) (bool, error)
	Create(unit *buDatamodel.BusinessUnit) error
	Update(unit *buDatamodel.BusinessUnit) error
	Delete(id int64) error
}

// OrganizationLookup verifies that the owning organization exists before a
// unit is created under it.
type OrganizationLookup interface {
	Exists(id int64) (bool, error)
}

type Service struct {
	repo      RepositoryAPI
	orgs      OrganizationLookup
	validator *Validator
	bus       *events.EventBus
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, orgs OrganizationLookup, validator *Validator, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		orgs:      orgs,
		validator: validator,
		bus:       bus,
		logger:    logger,
	}
}

func (s *Service) ListBusinessUnits(organizationID int64) ([]*BusinessUnit, error) {
	exists, err := s.orgs.Exists(organizationID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, internal.ErrOrganizationNotFound
	}

	rows, err := s.repo.GetByOrganization(organizationID)
	if err != nil {
		s.logger.Error("failed to list business units", "error", err, "organization_id", organizationID)
		return nil, err
	}
	return FromDataModelSlice(rows), nil
}

func (s *Service) GetBusinessUnit(id int64) (*BusinessUnit, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to get business unit", "error", err, "business_unit_id", id)
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrBusinessUnitNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) CreateBusinessUnit(organizationID int64, dto CreateBusinessUnitDTO) (*BusinessUnit, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	exists, err := s.orgs.Exists(organizationID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, internal.ErrOrganizationNotFound
	}

	if dto.ParentUnitID != nil {
		if err := s.validator.ValidateParent(nil, *dto.ParentUnitID, organizationID); err != nil {
			return nil, err
		}
	}

	if dto.Code != nil {
		dup, err := s.repo.GetByCode(organizationID, *dto.Code)
		if err != nil {
			return nil, err
		}
		if dup != nil {
			return nil, internal.NewConflictError("business unit code already used in this organization", internal.ErrCodeDuplicateAssignment)
		}
	}

	sibling, err := s.repo.GetSibling(organizationID, dto.ParentUnitID, dto.Name)
	if err != nil {
		return nil, err
	}
	if sibling != nil {
		return nil, internal.NewConflictError("business unit name already used under this parent", internal.ErrCodeDuplicateAssignment)
	}

	unit := NewBusinessUnit(organizationID, dto)
	row := ToDataModel(unit)
	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create business unit", "error", err, "organization_id", organizationID, "name", dto.Name)
		return nil, err
	}
	unit.ID = row.ID

	s.logger.Info("business unit created",
		"business_unit_id", unit.ID,
		"organization_id", organizationID,
		"name", unit.Name,
		"parent_unit_id", dto.ParentUnitID)
	return unit, nil
}

func (s *Service) UpdateBusinessUnit(id int64, dto UpdateBusinessUnitDTO) (*BusinessUnit, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrBusinessUnitNotFound
	}

	if dto.ParentUnitID != nil {
		if err := s.validator.ValidateParent(&id, *dto.ParentUnitID, row.OrganizationID); err != nil {
			return nil, err
		}
	}

	if dto.Code != nil && (row.Code == nil || *row.Code != *dto.Code) {
		dup, err := s.repo.GetByCode(row.OrganizationID, *dto.Code)
		if err != nil {
			return nil, err
		}
		if dup != nil && dup.ID != id {
			return nil, internal.NewConflictError("business unit code already used in this organization", internal.ErrCodeDuplicateAssignment)
		}
	}

	sibling, err := s.repo.GetSibling(row.OrganizationID, dto.ParentUnitID, dto.Name)
	if err != nil {
		return nil, err
	}
	if sibling != nil && sibling.ID != id {
		return nil, internal.NewConflictError("business unit name already used under this parent", internal.ErrCodeDuplicateAssignment)
	}

	oldParentID := row.ParentUnitID
	unit := FromDataModel(row)
	unit.Name = dto.Name
	unit.Code = dto.Code
	unit.Description = dto.Description
	unit.ParentUnitID = dto.ParentUnitID
	unit.ManagerUserID = dto.ManagerUserID
	if dto.IsActive != nil {
		unit.IsActive = *dto.IsActive
	}

	if err := s.repo.Update(ToDataModel(unit)); err != nil {
		s.logger.Error("failed to update business unit", "error", err, "business_unit_id", id)
		return nil, err
	}

	if !sameParent(oldParentID, unit.ParentUnitID) {
		s.publishReparented(id, oldParentID, unit.ParentUnitID)
	}

	s.logger.Info("business unit updated", "business_unit_id", id)
	return unit, nil
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (s *Service) publishReparented(businessUnitID int64, oldParentID, newParentID *int64) {
	if s.bus == nil {
		return
	}
	event := events.NewBusinessUnitReparentedEvent(businessUnitID, oldParentID, newParentID)
	if err := s.bus.Publish(context.Background(), event); err != nil {
		s.logger.Warn("failed to publish reparent event", "error", err)
	}
}

// DeleteBusinessUnit soft-disables a unit that still has children and hard
// deletes a leaf unit.
func (s *Service) DeleteBusinessUnit(id int64) error {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if row == nil {
		return internal.ErrBusinessUnitNotFound
	}

	hasChildren, err := s.repo.HasChildren(id)
	if err != nil {
		return err
	}

	if hasChildren {
		unit := FromDataModel(row)
		unit.Deactivate()
		if err := s.repo.Update(ToDataModel(unit)); err != nil {
			s.logger.Error("failed to deactivate business unit", "error", err, "business_unit_id", id)
			return err
		}
		s.logger.Info("business unit deactivated (has children)", "business_unit_id", id)
		return nil
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete business unit", "error", err, "business_unit_id", id)
		return err
	}

	s.logger.Info("business unit deleted", "business_unit_id", id)
	return nil
}
