package dtos

import (
	"time"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
)

type AddressRequest struct {
	Division         string `json:"division" validate:"required"`
	District         string `json:"district" validate:"required"`
	Upazila          string `json:"upazila,omitempty"`
	Postcode         string `json:"postcode,omitempty"`
	CityCorp         string `json:"city_corp,omitempty"`
	DhakaCitySubArea string `json:"dhaka_city_sub_area,omitempty"`
	AddressLine      string `json:"address_line" validate:"required"`
}

func (a AddressRequest) ToModel() models.Address {
	return models.Address{
		Division:         a.Division,
		District:         a.District,
		Upazila:          a.Upazila,
		Postcode:         a.Postcode,
		CityCorp:         a.CityCorp,
		DhakaCitySubArea: a.DhakaCitySubArea,
		AddressLine:      a.AddressLine,
	}.Normalize()
}

type AmenityRequest struct {
	Value string `json:"value" validate:"required"`
	Label string `json:"label" validate:"required"`
}

// PropertyRequest is the body of create, bulk create (one item) and update.
type PropertyRequest struct {
	Title            string           `json:"title" validate:"required,min=5,max=200"`
	Description      string           `json:"description" validate:"required,min=20,max=2000"`
	PropertyType     int              `json:"property_type" validate:"gte=0"`
	Category         int              `json:"category" validate:"gte=0"`
	PropertyFor      int              `json:"property_for" validate:"gte=0"`
	FurnishedStatus  int              `json:"furnished_status" validate:"gte=0"`
	AvailabilityDate time.Time        `json:"availability_date" validate:"required"`
	Amenities        []AmenityRequest `json:"amenities,omitempty" validate:"omitempty,dive"`
	PropertySize     float64          `json:"property_size" validate:"gte=100,lte=100000"`
	Price            float64          `json:"price" validate:"gte=500,lte=10000000000"`
	IsNegotiable     bool             `json:"is_negotiable"`
	Address          AddressRequest   `json:"address" validate:"required"`
	Bedrooms         int              `json:"bedrooms" validate:"gte=0,lte=50"`
	Bathrooms        int              `json:"bathrooms" validate:"gte=0,lte=50"`
	FloorNumber      int              `json:"floor_number" validate:"gte=0,lte=100"`
	FlatNumber       string           `json:"flat_number,omitempty" validate:"max=20"`
	DrawingRoom      bool             `json:"drawing_room"`
	DiningRoom       bool             `json:"dining_room"`
	Balconies        int              `json:"balconies" validate:"gte=0,lte=20"`
	Images           []string         `json:"images,omitempty" validate:"max=6,dive,url"`
}

type CreatePropertyResponse struct {
	Property   *models.Property `json:"property"`
	PropertyID string           `json:"property_id"`
}

type SkippedProperty struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type BulkCreatePropertiesResponse struct {
	CreatedCount int                `json:"created_count"`
	SkippedCount int                `json:"skipped_count"`
	Created      []*models.Property `json:"created_properties"`
	Skipped      []SkippedProperty  `json:"skipped_properties"`
}

// DuplicatePropertyDetails is the details payload of a duplicate conflict.
type DuplicatePropertyDetails struct {
	ExistingPropertyID string          `json:"existing_property_id"`
	ConflictDetails    ConflictDetails `json:"conflict_details"`
}

type ConflictDetails struct {
	Address     models.Address `json:"address"`
	FloorNumber int            `json:"floor_number"`
	FlatNumber  string         `json:"flat_number"`
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int64 `json:"pages"`
	Limit int   `json:"limit"`
}

type PropertyListResponse struct {
	Properties []*models.Property `json:"properties"`
	Pagination Pagination         `json:"pagination"`
}

type ToggleStatusResponse struct {
	Message  string           `json:"message"`
	Property *models.Property `json:"property"`
}
