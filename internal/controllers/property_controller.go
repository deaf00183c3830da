package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/constants"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/dtos"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/services"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

type PropertyController struct {
	propertyService *services.PropertyService
}

func NewPropertyController(s *services.PropertyService) *PropertyController {
	return &PropertyController{propertyService: s}
}

// POST /api/v1/properties
func (c *PropertyController) CreatePropertyHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "CreatePropertyHandler")

	caller, err := callerIdentity(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.PropertyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := c.propertyService.Create(r.Context(), caller, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	logger.WithField("propertyID", p.ID).Info("Property created")
	utils.RespondWithJSON(w, http.StatusCreated, dtos.CreatePropertyResponse{Property: p, PropertyID: p.PropertyCode})
}

// POST /api/v1/properties/bulk
func (c *PropertyController) BulkCreatePropertiesHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	// Items are validated one by one in the service so a bad item is
	// skipped instead of failing the batch.
	var reqs []dtos.PropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload,
			"Please provide an array of property objects", nil, err)
		return
	}

	resp, err := c.propertyService.BulkCreate(r.Context(), caller, reqs)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// GET /api/v1/properties/my?isActive=&page=&limit=
func (c *PropertyController) ListMyPropertiesHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	q := r.URL.Query()
	page, limit := utils.ParsePaging(q.Get("page"), q.Get("limit"), constants.DefaultPageLimit, constants.MaxPageLimit)

	var isActive *bool
	if raw := q.Get("isActive"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "isActive must be true or false", nil, err)
			return
		}
		isActive = &v
	}

	resp, err := c.propertyService.ListMine(r.Context(), caller, isActive, page, limit)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

// GET /api/v1/properties/{id}
func (c *PropertyController) GetPropertyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	p, err := c.propertyService.GetByID(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// GET /api/v1/properties/code/{code}
func (c *PropertyController) GetPropertyByCodeHandler(w http.ResponseWriter, r *http.Request) {
	p, err := c.propertyService.GetByCode(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// PUT /api/v1/properties/{id}
func (c *PropertyController) UpdatePropertyHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.PropertyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := c.propertyService.Update(r.Context(), caller, id, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// PATCH /api/v1/properties/{id}/status
func (c *PropertyController) TogglePropertyStatusHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	p, err := c.propertyService.ToggleActive(r.Context(), caller, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	msg := "Property deactivated successfully"
	if p.IsActive {
		msg = "Property activated successfully"
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.ToggleStatusResponse{Message: msg, Property: p})
}

// PATCH /api/v1/properties/{id}/approve
func (c *PropertyController) ApprovePropertyHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	p, err := c.propertyService.Approve(r.Context(), caller, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// DELETE /api/v1/properties/{id}
func (c *PropertyController) DeletePropertyHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	if err := c.propertyService.Delete(r.Context(), caller, id); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.MessageResponse{Message: "Property deleted successfully"})
}

// GET /api/v1/properties/{id}/availability
func (c *PropertyController) CheckAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	avail, err := c.propertyService.CheckAvailability(r.Context(), id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, avail)
}
