package controllers

import (
	"net/http"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/dtos"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/services"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

type VisitController struct {
	visitService *services.VisitService
}

func NewVisitController(s *services.VisitService) *VisitController {
	return &VisitController{visitService: s}
}

// POST /api/v1/visits
func (c *VisitController) RequestVisitHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "RequestVisitHandler")

	caller, err := callerIdentity(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.RequestVisitRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	v, left, err := c.visitService.RequestVisit(r.Context(), caller, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	logger.WithField("visitID", v.ID).Info("Visit requested")
	utils.RespondWithJSON(w, http.StatusCreated, dtos.VisitResponse{
		Message:   "Visit request submitted successfully",
		Visit:     v,
		SlotsLeft: &left,
	})
}

// GET /api/v1/visits/my
func (c *VisitController) ListMyVisitsHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	list, err := c.visitService.ListForUser(r.Context(), caller)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.VisitListResponse{Count: len(list), Visits: list})
}

// PATCH /api/v1/visits/{id}/status
func (c *VisitController) UpdateVisitStatusHandler(w http.ResponseWriter, r *http.Request) {
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

	var req dtos.UpdateVisitStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	v, err := c.visitService.UpdateStatus(r.Context(), caller, id, req.Status)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.VisitResponse{Message: "Visit status updated", Visit: v})
}

// PATCH /api/v1/visits/{id}/cancel
func (c *VisitController) CancelVisitHandler(w http.ResponseWriter, r *http.Request) {
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

	v, err := c.visitService.Cancel(r.Context(), caller, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.VisitResponse{Message: "Visit cancelled successfully", Visit: v})
}

// GET /api/v1/properties/{id}/visits
func (c *VisitController) ListPropertyVisitsHandler(w http.ResponseWriter, r *http.Request) {
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

	list, err := c.visitService.ListForProperty(r.Context(), caller, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.VisitListResponse{Count: len(list), Visits: list})
}

// GET /api/v1/properties/{id}/slots?date=YYYY-MM-DD
func (c *VisitController) SlotAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeValidation, "Date is required", nil)
		return
	}

	slots, err := c.visitService.CheckAvailability(r.Context(), id, date)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.SlotAvailabilityResponse{PropertyID: id, Date: date, Slots: slots})
}
