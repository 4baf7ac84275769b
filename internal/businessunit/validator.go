package businessunit

import (
	"log/slog"

	"github.com/adiwarna/identity-admin/internal"
	buDatamodel "github.com/adiwarna/identity-admin/internal/core/datamodel/businessunit"
)

// UnitLookup is the read access the validator needs on the unit tree.
type UnitLookup interface {
	GetByID(id int64) (*buDatamodel.BusinessUnit, error)
}

// Validator enforces the business unit tree invariants before any store
// mutation. On failure nothing has been written, so no rollback is needed.
type Validator struct {
	units  UnitLookup
	logger *slog.Logger
}

func NewValidator(units UnitLookup, logger *slog.Logger) *Validator {
	return &Validator{
		units:  units,
		logger: logger,
	}
}

// ValidateParent checks a proposed parent link. unitID is nil on creation,
// in which case only the cross-organization condition applies. The ancestor
// walk keeps a visited set instead of a fixed depth cap, so it terminates on
// any input, including a chain that is already corrupt.
func (v *Validator) ValidateParent(unitID *int64, proposedParentID int64, organizationID int64) error {
	if unitID != nil && *unitID == proposedParentID {
		return internal.ErrCircularHierarchy
	}

	parent, err := v.units.GetByID(proposedParentID)
	if err != nil {
		return err
	}
	if parent == nil {
		return internal.ErrBusinessUnitNotFound
	}
	if parent.OrganizationID != organizationID {
		v.logger.Warn("cross-organization parent rejected",
			"proposed_parent_id", proposedParentID,
			"parent_organization_id", parent.OrganizationID,
			"organization_id", organizationID)
		return internal.ErrCrossOrgParent
	}

	if unitID == nil {
		return nil
	}

	visited := map[int64]bool{proposedParentID: true}
	current := parent
	for current.ParentUnitID != nil {
		ancestorID := *current.ParentUnitID
		if ancestorID == *unitID {
			v.logger.Warn("circular hierarchy rejected",
				"unit_id", *unitID,
				"proposed_parent_id", proposedParentID)
			return internal.ErrCircularHierarchy
		}
		if visited[ancestorID] {
			// pre-existing cycle in the stored chain; refuse to extend it
			return internal.ErrCircularHierarchy
		}
		visited[ancestorID] = true

		current, err = v.units.GetByID(ancestorID)
		if err != nil {
			return err
		}
		if current == nil {
			break
		}
	}

	return nil
}
