package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Address struct {
	Division         string `json:"division"`
	District         string `json:"district"`
	Upazila          string `json:"upazila,omitempty"`
	Postcode         string `json:"postcode,omitempty"`
	CityCorp         string `json:"city_corp,omitempty"`
	DhakaCitySubArea string `json:"dhaka_city_sub_area,omitempty"`
	AddressLine      string `json:"address_line"`
}

// Normalize trims every field.
func (a Address) Normalize() Address {
	return Address{
		Division:         strings.TrimSpace(a.Division),
		District:         strings.TrimSpace(a.District),
		Upazila:          strings.TrimSpace(a.Upazila),
		Postcode:         strings.TrimSpace(a.Postcode),
		CityCorp:         strings.TrimSpace(a.CityCorp),
		DhakaCitySubArea: strings.TrimSpace(a.DhakaCitySubArea),
		AddressLine:      strings.TrimSpace(a.AddressLine),
	}
}

// Full renders the address on one line, skipping empty parts.
func (a Address) Full() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.AddressLine, a.DhakaCitySubArea, a.Upazila, a.District, a.Division} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

type Amenity struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Property struct {
	Versioned

	ID           uuid.UUID `json:"id"`
	PropertyCode string    `json:"property_id"`
	OwnerID      uuid.UUID `json:"owner_id"`

	Title            string    `json:"title"`
	Description      string    `json:"description"`
	PropertyType     int       `json:"property_type"`
	Category         int       `json:"category"`
	PropertyFor      int       `json:"property_for"`
	FurnishedStatus  int       `json:"furnished_status"`
	AvailabilityDate time.Time `json:"availability_date"`
	Amenities        []Amenity `json:"amenities"`
	PropertySize     float64   `json:"property_size"`
	Price            float64   `json:"price"`
	IsNegotiable     bool      `json:"is_negotiable"`

	Address     Address `json:"address"`
	Bedrooms    int     `json:"bedrooms"`
	Bathrooms   int     `json:"bathrooms"`
	FloorNumber int     `json:"floor_number"`
	FlatNumber  string  `json:"flat_number"`
	DrawingRoom bool    `json:"drawing_room"`
	DiningRoom  bool    `json:"dining_room"`
	Balconies   int     `json:"balconies"`

	Images []string `json:"images"`

	IsActive   bool `json:"is_active"`
	IsApproved bool `json:"is_approved"`
	IsFeatured bool `json:"is_featured"`

	Views       int64 `json:"views"`
	LikesCount  int64 `json:"likes_count"`
	VisitsCount int64 `json:"visits_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PropertyAvailability answers whether a property can still be booked.
type PropertyAvailability struct {
	PropertyID       uuid.UUID `json:"property_id"`
	IsAvailable      bool      `json:"is_available"`
	IsActive         bool      `json:"is_active"`
	HasActiveBooking bool      `json:"has_active_booking"`
}
