package dtos

import (
	"time"

	"github.com/google/uuid"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
)

type CreateBookingRequest struct {
	PropertyID    uuid.UUID `json:"property_id" validate:"required"`
	MoveInDate    time.Time `json:"move_in_date" validate:"required"`
	RentalPeriod  int       `json:"rental_period" validate:"required,gte=1"`
	AdvanceRent   float64   `json:"advance_rent" validate:"gte=0"`
	TenantMessage string    `json:"tenant_message,omitempty" validate:"max=500"`
}

type AcceptBookingRequest struct {
	OwnerResponse string `json:"owner_response,omitempty" validate:"max=500"`
	SpecialTerms  string `json:"special_terms,omitempty" validate:"max=1000"`
}

type RejectBookingRequest struct {
	RejectionReason string `json:"rejection_reason" validate:"max=500"`
}

type CancelBookingRequest struct {
	CancellationReason string `json:"cancellation_reason,omitempty" validate:"max=500"`
}

type BookingResponse struct {
	Message string          `json:"message,omitempty"`
	Booking *models.Booking `json:"booking"`
}

type BookingListResponse struct {
	Count    int               `json:"count"`
	Bookings []*models.Booking `json:"bookings"`
}
