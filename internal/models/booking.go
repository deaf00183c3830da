package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatusType string

const (
	// Declared for clients that already know these values. No transition
	// produces BookingStatusPending or BookingStatusPaymentPending.
	BookingStatusPending        BookingStatusType = "pending"
	BookingStatusPaymentPending BookingStatusType = "payment-pending"

	BookingStatusOwnerReview BookingStatusType = "owner-review"
	BookingStatusAccepted    BookingStatusType = "accepted"
	BookingStatusRejected    BookingStatusType = "rejected"
	BookingStatusConfirmed   BookingStatusType = "confirmed"
	BookingStatusActive      BookingStatusType = "active"
	BookingStatusCompleted   BookingStatusType = "completed"
	BookingStatusCancelled   BookingStatusType = "cancelled"
)

var allBookingStatuses = []BookingStatusType{
	BookingStatusPending,
	BookingStatusOwnerReview,
	BookingStatusAccepted,
	BookingStatusRejected,
	BookingStatusPaymentPending,
	BookingStatusConfirmed,
	BookingStatusActive,
	BookingStatusCompleted,
	BookingStatusCancelled,
}

// LiveBookingStatuses may exist at most once per (tenant, property).
var LiveBookingStatuses = []BookingStatusType{
	BookingStatusPending,
	BookingStatusOwnerReview,
	BookingStatusAccepted,
	BookingStatusPaymentPending,
	BookingStatusConfirmed,
	BookingStatusActive,
}

// CancellableBookingStatuses are the pre-confirmation states a tenant can
// cancel from.
var CancellableBookingStatuses = []BookingStatusType{
	BookingStatusPending,
	BookingStatusOwnerReview,
	BookingStatusAccepted,
	BookingStatusPaymentPending,
}

// OccupyingBookingStatuses make a property unavailable and block deletion.
var OccupyingBookingStatuses = []BookingStatusType{
	BookingStatusConfirmed,
	BookingStatusActive,
}

func (s BookingStatusType) IsValid() bool {
	return s.In(allBookingStatuses)
}

func (s BookingStatusType) In(set []BookingStatusType) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

type Booking struct {
	ID          uuid.UUID `json:"id"`
	BookingCode string    `json:"booking_id"`
	PropertyID  uuid.UUID `json:"property_id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	OwnerID     uuid.UUID `json:"owner_id"`

	MoveInDate   time.Time `json:"move_in_date"`
	MoveOutDate  time.Time `json:"move_out_date"`
	RentalPeriod int       `json:"rental_period"`

	MonthlyRent     float64 `json:"monthly_rent"`
	SecurityDeposit float64 `json:"security_deposit"`
	AdvanceRent     float64 `json:"advance_rent"`
	TotalAmount     float64 `json:"total_amount"`

	Status BookingStatusType `json:"status"`

	TenantMessage      string     `json:"tenant_message,omitempty"`
	OwnerResponse      string     `json:"owner_response,omitempty"`
	SpecialTerms       string     `json:"special_terms,omitempty"`
	RejectionReason    string     `json:"rejection_reason,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`
	CancelledBy        *uuid.UUID `json:"cancelled_by,omitempty"`

	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	RejectedAt  *time.Time `json:"rejected_at,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsParticipant reports whether userID is the tenant or the owner.
func (b *Booking) IsParticipant(userID uuid.UUID) bool {
	return b.TenantID == userID || b.OwnerID == userID
}
