package dtos

import (
	"github.com/google/uuid"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
)

type RequestVisitRequest struct {
	PropertyID uuid.UUID `json:"property_id" validate:"required"`
	VisitDate  string    `json:"visit_date" validate:"required,datetime=2006-01-02"`
	VisitTime  string    `json:"visit_time" validate:"required"`
	Notes      string    `json:"notes,omitempty" validate:"max=500"`
}

type UpdateVisitStatusRequest struct {
	Status models.VisitStatusType `json:"status" validate:"required,oneof=confirmed cancelled completed"`
}

type VisitResponse struct {
	Message   string                `json:"message,omitempty"`
	Visit     *models.PropertyVisit `json:"visit"`
	SlotsLeft *int                  `json:"slots_left,omitempty"`
}

type VisitListResponse struct {
	Count  int                     `json:"count"`
	Visits []*models.PropertyVisit `json:"visits"`
}

type SlotAvailabilityResponse struct {
	PropertyID uuid.UUID                 `json:"property_id"`
	Date       string                    `json:"date"`
	Slots      []models.SlotAvailability `json:"slots"`
}
