package assignment

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/adiwarna/identity-admin/internal"
	"github.com/adiwarna/identity-admin/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	BulkAssignOrganization(organizationID int64, dto BulkAssignDTO, assignedBy *int64) (*AssignmentResult, error)
	BulkAssignBusinessUnit(businessUnitID int64, dto BulkAssignDTO, assignedBy *int64) (*AssignmentResult, error)
	BulkAssignUser(userID int64, dto BulkAssignDTO, assignedBy *int64) (*AssignmentResult, error)
	DisableOrganizationRole(organizationID int64, dto DisableRoleDTO) (*AssignmentResult, error)
	DisableBusinessUnitRole(businessUnitID int64, dto DisableRoleDTO) (*AssignmentResult, error)
}

type ResolverAPI interface {
	AvailableRolesForBusinessUnit(businessUnitID int64) ([]RoleAvailability, error)
	AvailableRolesForUser(userID int64) ([]RoleAvailability, error)
	HierarchyView(organizationID *int64) ([]HierarchyRow, error)
	UsageForOrganizationRole(organizationID, roleID int64) (UsageCount, error)
	UsageForBusinessUnitRole(businessUnitID, roleID int64) (UsageCount, error)
}

type Handler struct {
	*transport.BaseHandler
	Service  ServiceAPI
	Resolver ResolverAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI, resolver ResolverAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		Resolver:    resolver,
	}
}

// assignedBy pulls the acting user's ID out of the request context when the
// auth middleware put one there.
func assignedBy(r *http.Request) *int64 {
	raw := internal.UserIDFromContext(r.Context())
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

func (h *Handler) BulkAssignOrganization(w http.ResponseWriter, r *http.Request) {
	orgID, err := strconv.ParseInt(chi.URLParam(r, "orgID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization ID")
		return
	}

	var dto BulkAssignDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("BulkAssignOrganization: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.BulkAssignOrganization(orgID, dto, assignedBy(r))
	if err != nil {
		h.Logger.Error("BulkAssignOrganization: service error", "error", err, "organization_id", orgID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) BulkAssignBusinessUnit(w http.ResponseWriter, r *http.Request) {
	unitID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid business unit ID")
		return
	}

	var dto BulkAssignDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("BulkAssignBusinessUnit: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.BulkAssignBusinessUnit(unitID, dto, assignedBy(r))
	if err != nil {
		h.Logger.Error("BulkAssignBusinessUnit: service error", "error", err, "business_unit_id", unitID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) BulkAssignUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	var dto BulkAssignDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("BulkAssignUser: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.BulkAssignUser(userID, dto, assignedBy(r))
	if err != nil {
		h.Logger.Error("BulkAssignUser: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) DisableOrganizationRole(w http.ResponseWriter, r *http.Request) {
	orgID, err := strconv.ParseInt(chi.URLParam(r, "orgID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization ID")
		return
	}

	var dto DisableRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("DisableOrganizationRole: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.DisableOrganizationRole(orgID, dto)
	if err != nil {
		h.Logger.Error("DisableOrganizationRole: service error", "error", err, "organization_id", orgID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) DisableBusinessUnitRole(w http.ResponseWriter, r *http.Request) {
	unitID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid business unit ID")
		return
	}

	var dto DisableRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("DisableBusinessUnitRole: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.DisableBusinessUnitRole(unitID, dto)
	if err != nil {
		h.Logger.Error("DisableBusinessUnitRole: service error", "error", err, "business_unit_id", unitID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) AvailableRolesForBusinessUnit(w http.ResponseWriter, r *http.Request) {
	unitID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid business unit ID")
		return
	}

	roles, err := h.Resolver.AvailableRolesForBusinessUnit(unitID)
	if err != nil {
		h.Logger.Error("AvailableRolesForBusinessUnit: service error", "error", err, "business_unit_id", unitID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, AvailabilityResponse{Roles: roles})
}

func (h *Handler) AvailableRolesForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	roles, err := h.Resolver.AvailableRolesForUser(userID)
	if err != nil {
		h.Logger.Error("AvailableRolesForUser: service error", "error", err, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, AvailabilityResponse{Roles: roles})
}

func (h *Handler) HierarchyView(w http.ResponseWriter, r *http.Request) {
	var organizationID *int64
	if raw := r.URL.Query().Get("organization_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid organization_id filter")
			return
		}
		organizationID = &id
	}

	rows, err := h.Resolver.HierarchyView(organizationID)
	if err != nil {
		h.Logger.Error("HierarchyView: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, HierarchyResponse{Rows: rows})
}

func (h *Handler) UsageForOrganizationRole(w http.ResponseWriter, r *http.Request) {
	orgID, err := strconv.ParseInt(chi.URLParam(r, "orgID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization ID")
		return
	}
	roleID, err := strconv.ParseInt(chi.URLParam(r, "roleID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid role ID")
		return
	}

	usage, err := h.Resolver.UsageForOrganizationRole(orgID, roleID)
	if err != nil {
		h.Logger.Error("UsageForOrganizationRole: service error", "error", err, "organization_id", orgID, "role_id", roleID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, usage)
}

func (h *Handler) UsageForBusinessUnitRole(w http.ResponseWriter, r *http.Request) {
	unitID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid business unit ID")
		return
	}
	roleID, err := strconv.ParseInt(chi.URLParam(r, "roleID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid role ID")
		return
	}

	usage, err := h.Resolver.UsageForBusinessUnitRole(unitID, roleID)
	if err != nil {
		h.Logger.Error("UsageForBusinessUnitRole: service error", "error", err, "business_unit_id", unitID, "role_id", roleID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, usage)
}
