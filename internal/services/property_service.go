package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/sirupsen/logrus"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/constants"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/dtos"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/repositories"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

var validate = validator.New()

type PropertyService struct {
	repo        repositories.PropertyRepository
	bookingRepo repositories.BookingRepository
	ids         IdentifierService
	duplicates  *DuplicateDetector
	now         func() time.Time
}

func NewPropertyService(
	repo repositories.PropertyRepository,
	bookingRepo repositories.BookingRepository,
	ids IdentifierService,
) *PropertyService {
	return &PropertyService{
		repo:        repo,
		bookingRepo: bookingRepo,
		ids:         ids,
		duplicates:  NewDuplicateDetector(repo),
		now:         time.Now,
	}
}

// ----------------------------------------------------------------------
// Create
// ----------------------------------------------------------------------

func (s *PropertyService) Create(ctx context.Context, caller models.Identity, req dtos.PropertyRequest) (*models.Property, error) {
	if !caller.IsOwner {
		return nil, utils.NewForbidden("Only owners can create properties")
	}
	if appErr := s.checkDraft(req); appErr != nil {
		return nil, appErr
	}

	p := newPropertyFromRequest(caller.UserID, req)

	existing, err := s.duplicates.FindConflict(ctx, p.OwnerID, p.Address, p.FloorNumber, p.FlatNumber, nil)
	if err != nil {
		return nil, utils.NewInternal("Failed to check for duplicate property", err)
	}
	if existing != nil {
		return nil, DuplicateConflict(existing)
	}

	if err := s.insertWithCode(ctx, p); err != nil {
		return nil, err
	}

	utils.Logger.WithFields(logrus.Fields{
		"property_id": p.ID,
		"code":        p.PropertyCode,
		"owner_id":    p.OwnerID,
	}).Info("Property created")
	return p, nil
}

// BulkCreate creates every acceptable item and reports the rest. Items are
// processed in order, so a later item duplicating an earlier one is skipped.
func (s *PropertyService) BulkCreate(ctx context.Context, caller models.Identity, reqs []dtos.PropertyRequest) (*dtos.BulkCreatePropertiesResponse, error) {
	if !caller.IsOwner {
		return nil, utils.NewForbidden("Only owners can create properties")
	}
	if len(reqs) == 0 {
		return nil, utils.NewValidation("Please provide an array of property objects")
	}
	if len(reqs) > constants.MaxBulkCreateBatch {
		return nil, utils.NewValidation(fmt.Sprintf("At most %d properties can be created at once", constants.MaxBulkCreateBatch))
	}

	resp := &dtos.BulkCreatePropertiesResponse{
		Created: []*models.Property{},
		Skipped: []dtos.SkippedProperty{},
	}
	for i, req := range reqs {
		skip := func(msg string) {
			resp.Skipped = append(resp.Skipped, dtos.SkippedProperty{Index: i, Title: req.Title, Message: msg})
		}

		if err := validate.Struct(req); err != nil {
			skip(err.Error())
			continue
		}
		if appErr := s.checkDraft(req); appErr != nil {
			skip(appErr.Message)
			continue
		}

		p := newPropertyFromRequest(caller.UserID, req)
		existing, err := s.duplicates.FindConflict(ctx, p.OwnerID, p.Address, p.FloorNumber, p.FlatNumber, nil)
		if err != nil {
			return nil, utils.NewInternal("Failed to check for duplicate property", err)
		}
		if existing != nil {
			skip(fmt.Sprintf("Duplicate found at %s, Floor: %d, Flat: %s", p.Address.AddressLine, p.FloorNumber, p.FlatNumber))
			continue
		}

		if err := s.insertWithCode(ctx, p); err != nil {
			var appErr *utils.AppError
			if errors.As(err, &appErr) && appErr.Code == utils.ErrCodeConflict {
				skip(appErr.Message)
				continue
			}
			return nil, err
		}
		resp.Created = append(resp.Created, p)
	}

	resp.CreatedCount = len(resp.Created)
	resp.SkippedCount = len(resp.Skipped)
	utils.Logger.Infof("Bulk property creation for owner %s: %d created, %d skipped",
		caller.UserID, resp.CreatedCount, resp.SkippedCount)
	return resp, nil
}

func (s *PropertyService) insertWithCode(ctx context.Context, p *models.Property) error {
	for attempt := 1; ; attempt++ {
		code, err := s.ids.NextPropertyCode(ctx)
		if err != nil {
			return utils.NewInternal("Failed to generate property ID", err)
		}
		p.PropertyCode = code

		err = s.repo.Create(ctx, p)
		if err == nil {
			return nil
		}
		if !errors.Is(err, utils.ErrCodeTaken) {
			return utils.NewInternal("Failed to create property", err)
		}
		if attempt >= constants.MaxCodeAttempts {
			return utils.NewConflict("Property ID already exists. Please try again.", nil)
		}
		utils.Logger.WithError(err).Warnf("Property code collision, retrying (attempt %d)", attempt)
	}
}

// checkDraft covers the rules the struct tags cannot express.
func (s *PropertyService) checkDraft(req dtos.PropertyRequest) *utils.AppError {
	if len(req.Images) > constants.MaxPropertyImages {
		return utils.NewValidation(fmt.Sprintf("Cannot upload more than %d images", constants.MaxPropertyImages))
	}
	today := truncateToDay(s.now())
	if req.AvailabilityDate.Before(today) {
		return utils.NewValidation("Availability date must be in the future or today")
	}
	return nil
}

func newPropertyFromRequest(ownerID uuid.UUID, req dtos.PropertyRequest) *models.Property {
	p := &models.Property{
		ID:       uuid.New(),
		OwnerID:  ownerID,
		IsActive: true,
	}
	applyPropertyRequest(p, req)
	return p
}

func applyPropertyRequest(p *models.Property, req dtos.PropertyRequest) {
	p.Title = strings.TrimSpace(req.Title)
	p.Description = strings.TrimSpace(req.Description)
	p.PropertyType = req.PropertyType
	p.Category = req.Category
	p.PropertyFor = req.PropertyFor
	p.FurnishedStatus = req.FurnishedStatus
	p.AvailabilityDate = req.AvailabilityDate
	p.PropertySize = req.PropertySize
	p.Price = req.Price
	p.IsNegotiable = req.IsNegotiable
	p.Address = req.Address.ToModel()
	p.Bedrooms = req.Bedrooms
	p.Bathrooms = req.Bathrooms
	p.FloorNumber = req.FloorNumber
	p.FlatNumber = strings.TrimSpace(req.FlatNumber)
	if p.FlatNumber == "" {
		p.FlatNumber = constants.DefaultFlatNumber
	}
	p.DrawingRoom = req.DrawingRoom
	p.DiningRoom = req.DiningRoom
	p.Balconies = req.Balconies

	p.Amenities = make([]models.Amenity, 0, len(req.Amenities))
	for _, a := range req.Amenities {
		p.Amenities = append(p.Amenities, models.Amenity{Value: a.Value, Label: a.Label})
	}
	p.Images = append([]string{}, req.Images...)
}

// ----------------------------------------------------------------------
// Reads
// ----------------------------------------------------------------------

// GetByID returns the property and counts the view.
func (s *PropertyService) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.NewInternal("Failed to fetch property", err)
	}
	if p == nil {
		return nil, utils.NewNotFound("Property not found")
	}
	s.countView(ctx, p)
	return p, nil
}

func (s *PropertyService) GetByCode(ctx context.Context, code string) (*models.Property, error) {
	p, err := s.repo.GetByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, utils.NewInternal("Failed to fetch property", err)
	}
	if p == nil {
		return nil, utils.NewNotFound("Property not found")
	}
	s.countView(ctx, p)
	return p, nil
}

func (s *PropertyService) countView(ctx context.Context, p *models.Property) {
	if err := s.repo.IncrementViews(ctx, p.ID); err != nil {
		utils.Logger.WithError(err).Warnf("Failed to count view of property %s", p.ID)
		return
	}
	p.Views++
}

func (s *PropertyService) ListMine(ctx context.Context, caller models.Identity, isActive *bool, page, limit int) (*dtos.PropertyListResponse, error) {
	if !caller.IsOwner {
		return nil, utils.NewForbidden("Only owners have properties")
	}
	props, total, err := s.repo.ListByOwner(ctx, caller.UserID, isActive, limit, (page-1)*limit)
	if err != nil {
		return nil, utils.NewInternal("Failed to fetch your properties", err)
	}
	if props == nil {
		props = []*models.Property{}
	}
	return &dtos.PropertyListResponse{
		Properties: props,
		Pagination: dtos.Pagination{
			Total: total,
			Page:  page,
			Pages: (total + int64(limit) - 1) / int64(limit),
			Limit: limit,
		},
	}, nil
}

// CheckAvailability reports whether the property can still be booked.
func (s *PropertyService) CheckAvailability(ctx context.Context, id uuid.UUID) (*models.PropertyAvailability, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.NewInternal("Failed to fetch property", err)
	}
	if p == nil {
		return nil, utils.NewNotFound("Property not found")
	}
	occupied, err := s.bookingRepo.HasOccupyingBooking(ctx, id)
	if err != nil {
		return nil, utils.NewInternal("Failed to check bookings", err)
	}
	return &models.PropertyAvailability{
		PropertyID:       p.ID,
		IsAvailable:      p.IsActive && !occupied,
		IsActive:         p.IsActive,
		HasActiveBooking: occupied,
	}, nil
}

// ----------------------------------------------------------------------
// Owner / admin mutations
// ----------------------------------------------------------------------

// Update replaces the editable descriptors. Code, owner, flags and counters
// are never touched.
func (s *PropertyService) Update(ctx context.Context, caller models.Identity, id uuid.UUID, req dtos.PropertyRequest) (*models.Property, error) {
	if len(req.Images) > constants.MaxPropertyImages {
		return nil, utils.NewValidation(fmt.Sprintf("Cannot upload more than %d images", constants.MaxPropertyImages))
	}
	if _, err := s.ownedProperty(ctx, caller, id, "You can only update your own properties"); err != nil {
		return nil, err
	}

	var updated *models.Property
	err := s.repo.UpdateWithRetry(ctx, id, func(p *models.Property) error {
		applyPropertyRequest(p, req)
		existing, err := s.duplicates.FindConflict(ctx, p.OwnerID, p.Address, p.FloorNumber, p.FlatNumber, &p.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			return DuplicateConflict(existing)
		}
		updated = p
		return nil
	})
	if err != nil {
		var appErr *utils.AppError
		switch {
		case errors.As(err, &appErr):
			return nil, appErr
		case errors.Is(err, pgx.ErrNoRows):
			return nil, utils.NewNotFound("Property not found")
		case errors.Is(err, utils.ErrEditContention):
			return nil, utils.NewConflict("Property was changed by another request, please retry", nil)
		}
		return nil, utils.NewInternal("Failed to update property", err)
	}
	return updated, nil
}

func (s *PropertyService) ToggleActive(ctx context.Context, caller models.Identity, id uuid.UUID) (*models.Property, error) {
	if _, err := s.ownedProperty(ctx, caller, id, "You can only update your own properties"); err != nil {
		return nil, err
	}
	p, err := s.repo.ToggleActive(ctx, id)
	if err != nil {
		return nil, utils.NewInternal("Failed to toggle property status", err)
	}
	if p == nil {
		return nil, utils.NewNotFound("Property not found")
	}
	utils.Logger.Infof("Property %s active=%t", p.ID, p.IsActive)
	return p, nil
}

func (s *PropertyService) Approve(ctx context.Context, caller models.Identity, id uuid.UUID) (*models.Property, error) {
	if !caller.IsAdmin {
		return nil, utils.NewForbidden("Admin access required")
	}
	p, err := s.repo.Approve(ctx, id)
	if err != nil {
		return nil, utils.NewInternal("Failed to approve property", err)
	}
	if p == nil {
		return nil, utils.NewNotFound("Property not found")
	}
	utils.Logger.Infof("Property %s approved by admin %s", p.ID, caller.UserID)
	return p, nil
}

// Delete is allowed to the owner and to admins, and only while no confirmed
// or active booking references the property.
func (s *PropertyService) Delete(ctx context.Context, caller models.Identity, id uuid.UUID) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return utils.NewInternal("Failed to fetch property", err)
	}
	if p == nil {
		return utils.NewNotFound("Property not found")
	}
	if p.OwnerID != caller.UserID && !caller.IsAdmin {
		return utils.NewForbidden("You can only delete your own properties")
	}

	deleted, err := s.repo.DeleteIfUnoccupied(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return utils.NewNotFound("Property not found")
	}
	if err != nil {
		return utils.NewInternal("Failed to delete property", err)
	}
	if !deleted {
		return utils.NewConflict("Cannot delete property with active bookings", nil)
	}
	utils.Logger.Infof("Property %s deleted by %s", id, caller.UserID)
	return nil
}

func (s *PropertyService) ownedProperty(ctx context.Context, caller models.Identity, id uuid.UUID, forbiddenMsg string) (*models.Property, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.NewInternal("Failed to fetch property", err)
	}
	if p == nil {
		return nil, utils.NewNotFound("Property not found")
	}
	if p.OwnerID != caller.UserID {
		return nil, utils.NewForbidden(forbiddenMsg)
	}
	return p, nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
