package organization

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/adiwarna/identity-admin/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListOrganizations() ([]*Organization, error)
	GetOrganization(id int64) (*Organization, error)
	CreateOrganization(dto CreateOrganizationDTO) (*Organization, error)
	UpdateOrganization(id int64, dto UpdateOrganizationDTO) (*Organization, error)
	DeleteOrganization(id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	orgs, err := h.Service.ListOrganizations()
	if err != nil {
		h.Logger.Error("ListOrganizations: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, OrganizationsResponse{Organizations: orgs})
}

func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "orgID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization ID")
		return
	}

	org, err := h.Service.GetOrganization(id)
	if err != nil {
		h.Logger.Error("GetOrganization: service error", "error", err, "organization_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, org)
}

func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var dto CreateOrganizationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateOrganization: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	org, err := h.Service.CreateOrganization(dto)
	if err != nil {
		h.Logger.Error("CreateOrganization: service error", "error", err, "name", dto.Name)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateOrganization: organization created", "organization_id", org.ID)
	h.WriteJSON(w, http.StatusCreated, org)
}

func (h *Handler) UpdateOrganization(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "orgID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization ID")
		return
	}

	var dto UpdateOrganizationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateOrganization: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	org, err := h.Service.UpdateOrganization(id, dto)
	if err != nil {
		h.Logger.Error("UpdateOrganization: service error", "error", err, "organization_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, org)
}

func (h *Handler) DeleteOrganization(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "orgID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization ID")
		return
	}

	if err := h.Service.DeleteOrganization(id); err != nil {
		h.Logger.Error("DeleteOrganization: service error", "error", err, "organization_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
