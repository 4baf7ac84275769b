package businessunit

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/adiwarna/identity-admin/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	ListBusinessUnits(organizationID int64) ([]*BusinessUnit, error)
	GetBusinessUnit(id int64) (*BusinessUnit, error)
	CreateBusinessUnit(organizationID int64, dto CreateBusinessUnitDTO) (*BusinessUnit, error)
	UpdateBusinessUnit(id int64, dto UpdateBusinessUnitDTO) (*BusinessUnit, error)
	DeleteBusinessUnit(id int64) error
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

func (h *Handler) ListBusinessUnits(w http.ResponseWriter, r *http.Request) {
	orgID, err := strconv.ParseInt(chi.URLParam(r, "orgID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization ID")
		return
	}

	units, err := h.Service.ListBusinessUnits(orgID)
	if err != nil {
		h.Logger.Error("ListBusinessUnits: service error", "error", err, "organization_id", orgID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, BusinessUnitsResponse{BusinessUnits: units})
}

func (h *Handler) GetBusinessUnit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid business unit ID")
		return
	}

	unit, err := h.Service.GetBusinessUnit(id)
	if err != nil {
		h.Logger.Error("GetBusinessUnit: service error", "error", err, "business_unit_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, unit)
}

func (h *Handler) CreateBusinessUnit(w http.ResponseWriter, r *http.Request) {
	orgID, err := strconv.ParseInt(chi.URLParam(r, "orgID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid organization ID")
		return
	}

	var dto CreateBusinessUnitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateBusinessUnit: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	unit, err := h.Service.CreateBusinessUnit(orgID, dto)
	if err != nil {
		h.Logger.Error("CreateBusinessUnit: service error", "error", err, "organization_id", orgID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateBusinessUnit: business unit created",
		"business_unit_id", unit.ID,
		"organization_id", orgID)
	h.WriteJSON(w, http.StatusCreated, unit)
}

func (h *Handler) UpdateBusinessUnit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid business unit ID")
		return
	}

	var dto UpdateBusinessUnitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateBusinessUnit: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	unit, err := h.Service.UpdateBusinessUnit(id, dto)
	if err != nil {
		h.Logger.Error("UpdateBusinessUnit: service error", "error", err, "business_unit_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, unit)
}

func (h *Handler) DeleteBusinessUnit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid business unit ID")
		return
	}

	if err := h.Service.DeleteBusinessUnit(id); err != nil {
		h.Logger.Error("DeleteBusinessUnit: service error", "error", err, "business_unit_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
