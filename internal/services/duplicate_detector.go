package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/dtos"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/repositories"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

// DuplicateDetector finds an owner's existing listing for the same unit.
type DuplicateDetector struct {
	repo repositories.PropertyRepository
}

func NewDuplicateDetector(repo repositories.PropertyRepository) *DuplicateDetector {
	return &DuplicateDetector{repo: repo}
}

// BuildDuplicateQuery selects the address fields that identify a unit. A
// postcode pins the location on its own with division, district and upazila;
// without one the city corporation and Dhaka sub-area are used instead.
func BuildDuplicateQuery(ownerID uuid.UUID, addr models.Address, floorNumber int, flatNumber string) repositories.DuplicateQuery {
	addr = addr.Normalize()

	q := repositories.DuplicateQuery{
		OwnerID:     ownerID,
		FloorNumber: floorNumber,
		FlatNumber:  strings.TrimSpace(flatNumber),
		Address: []repositories.AddressMatch{
			{Field: repositories.AddrDivision, Value: addr.Division},
			{Field: repositories.AddrDistrict, Value: addr.District},
			{Field: repositories.AddrUpazila, Value: addr.Upazila},
		},
	}
	if addr.Postcode != "" {
		q.Address = append(q.Address, repositories.AddressMatch{Field: repositories.AddrPostcode, Value: addr.Postcode})
	} else {
		q.Address = append(q.Address,
			repositories.AddressMatch{Field: repositories.AddrCityCorp, Value: addr.CityCorp},
			repositories.AddressMatch{Field: repositories.AddrDhakaCitySubArea, Value: addr.DhakaCitySubArea},
		)
	}
	return q
}

// FindConflict returns the first matching property or nil. excludeID skips
// the property being edited.
func (d *DuplicateDetector) FindConflict(
	ctx context.Context,
	ownerID uuid.UUID,
	addr models.Address,
	floorNumber int,
	flatNumber string,
	excludeID *uuid.UUID,
) (*models.Property, error) {
	q := BuildDuplicateQuery(ownerID, addr, floorNumber, flatNumber)
	q.ExcludeID = excludeID
	return d.repo.FindDuplicate(ctx, q)
}

// DuplicateConflict builds the Conflict error returned for an existing unit.
func DuplicateConflict(existing *models.Property) *utils.AppError {
	return utils.NewConflict(
		fmt.Sprintf("This property already exists at this address with Floor: %d and Flat: %s.", existing.FloorNumber, existing.FlatNumber),
		dtos.DuplicatePropertyDetails{
			ExistingPropertyID: existing.PropertyCode,
			ConflictDetails: dtos.ConflictDetails{
				Address:     existing.Address,
				FloorNumber: existing.FloorNumber,
				FlatNumber:  existing.FlatNumber,
			},
		},
	)
}
