package models

import (
	"time"

	"github.com/google/uuid"
)

type VisitStatusType string

const (
	VisitStatusPending   VisitStatusType = "pending"
	VisitStatusConfirmed VisitStatusType = "confirmed"
	VisitStatusCancelled VisitStatusType = "cancelled"
	VisitStatusCompleted VisitStatusType = "completed"
)

// OccupyingVisitStatuses hold a seat in a slot.
var OccupyingVisitStatuses = []VisitStatusType{
	VisitStatusPending,
	VisitStatusConfirmed,
}

func (s VisitStatusType) In(set []VisitStatusType) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// IsOwnerSettable reports whether an owner may assign s. No transition graph
// applies; any of these is accepted from any current status.
func (s VisitStatusType) IsOwnerSettable() bool {
	switch s {
	case VisitStatusConfirmed, VisitStatusCancelled, VisitStatusCompleted:
		return true
	}
	return false
}

// TenantDetails is copied from the tenant's account when the visit is
// requested and never refreshed.
type TenantDetails struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	ProfileImage string `json:"profile_image,omitempty"`
}

type PropertyVisit struct {
	ID         uuid.UUID `json:"id"`
	PropertyID uuid.UUID `json:"property_id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	OwnerID    uuid.UUID `json:"owner_id"`

	VisitDate time.Time       `json:"visit_date"`
	VisitTime string          `json:"visit_time"`
	Status    VisitStatusType `json:"status"`
	Notes     string          `json:"notes,omitempty"`

	TenantDetails TenantDetails `json:"tenant_details"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SlotAvailability is one row of the daily slot grid.
type SlotAvailability struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	SlotsLeft int    `json:"slots_left"`
}
