package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/constants"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/dtos"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/repositories"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

type VisitService struct {
	repo         repositories.VisitRepository
	propertyRepo repositories.PropertyRepository
	userRepo     repositories.UserRepository
	cache        SlotCache
	notifier     Notifier
	now          func() time.Time
}

func NewVisitService(
	repo repositories.VisitRepository,
	propertyRepo repositories.PropertyRepository,
	userRepo repositories.UserRepository,
	cache SlotCache,
	notifier Notifier,
) *VisitService {
	return &VisitService{
		repo:         repo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		cache:        cache,
		notifier:     notifier,
		now:          time.Now,
	}
}

// ParseVisitDate accepts YYYY-MM-DD and returns midnight UTC of that day.
func ParseVisitDate(raw string) (time.Time, error) {
	d, err := time.Parse(constants.VisitDateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, utils.NewValidation("Invalid date format. Use YYYY-MM-DD")
	}
	return d, nil
}

// CheckAvailability reports every slot of the day in grid order.
func (s *VisitService) CheckAvailability(ctx context.Context, propertyID uuid.UUID, rawDate string) ([]models.SlotAvailability, error) {
	date, err := ParseVisitDate(rawDate)
	if err != nil {
		return nil, err
	}
	if _, err := s.property(ctx, propertyID); err != nil {
		return nil, err
	}

	cached, gen, ok := s.cache.Get(ctx, propertyID, date)
	if ok {
		return cached, nil
	}

	occupied, err := s.repo.CountOccupied(ctx, propertyID, date)
	if err != nil {
		return nil, utils.NewInternal("Failed to check availability", err)
	}
	slots := make([]models.SlotAvailability, 0, len(constants.VisitSlots))
	for _, slot := range constants.VisitSlots {
		left := constants.VisitSlotCapacity - occupied[slot]
		if left < 0 {
			left = 0
		}
		slots = append(slots, models.SlotAvailability{Time: slot, Available: left > 0, SlotsLeft: left})
	}
	s.cache.Set(ctx, propertyID, date, gen, slots)
	return slots, nil
}

// RequestVisit books a seat in a slot. Returns the visit and the seats left
// in that slot after admission.
func (s *VisitService) RequestVisit(ctx context.Context, caller models.Identity, req dtos.RequestVisitRequest) (*models.PropertyVisit, int, error) {
	if !caller.IsTenant {
		return nil, 0, utils.NewForbidden("Only tenants can request visits")
	}
	slot := strings.TrimSpace(req.VisitTime)
	if !constants.IsVisitSlot(slot) {
		return nil, 0, utils.NewValidation("Invalid time slot")
	}
	date, err := ParseVisitDate(req.VisitDate)
	if err != nil {
		return nil, 0, err
	}
	now := s.now().UTC()
	if date.Before(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)) {
		return nil, 0, utils.NewValidation("Visit date cannot be in the past")
	}

	if _, err := s.property(ctx, req.PropertyID); err != nil {
		return nil, 0, err
	}
	tenant, err := s.userRepo.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, 0, utils.NewInternal("Failed to fetch tenant", err)
	}
	if tenant == nil {
		return nil, 0, utils.NewNotFound("User not found")
	}

	v := &models.PropertyVisit{
		ID:         uuid.New(),
		PropertyID: req.PropertyID,
		TenantID:   caller.UserID,
		VisitDate:  date,
		VisitTime:  slot,
		Status:     models.VisitStatusPending,
		Notes:      strings.TrimSpace(req.Notes),
		TenantDetails: models.TenantDetails{
			FirstName:    tenant.FirstName,
			LastName:     tenant.LastName,
			Email:        tenant.Email,
			Phone:        tenant.PhoneNumber,
			ProfileImage: tenant.ProfileImage,
		},
	}

	seatsLeft, admitted, err := s.repo.CreateWithinCapacity(ctx, v, constants.VisitSlotCapacity)
	if errors.Is(err, utils.ErrPropertyGone) {
		return nil, 0, utils.NewNotFound("Property not found")
	}
	if err != nil {
		return nil, 0, utils.NewInternal("Failed to request visit", err)
	}
	if !admitted {
		return nil, 0, utils.NewConflict("This time slot is fully booked", nil)
	}
	s.cache.Invalidate(ctx, v.PropertyID, v.VisitDate)

	utils.Logger.WithFields(logrus.Fields{
		"visit_id":    v.ID,
		"property_id": v.PropertyID,
		"slot":        v.VisitTime,
		"seats_left":  seatsLeft,
	}).Info("Visit requested")
	s.notifier.Notify(ctx, EventVisitRequested, NotificationPayload{
		RecipientIDs: []uuid.UUID{v.OwnerID},
		Visit:        v,
	})
	return v, seatsLeft, nil
}

// UpdateStatus lets the property owner set any of confirmed, cancelled or
// completed, whatever the current status.
func (s *VisitService) UpdateStatus(ctx context.Context, caller models.Identity, id uuid.UUID, status models.VisitStatusType) (*models.PropertyVisit, error) {
	if !status.IsOwnerSettable() {
		return nil, utils.NewValidation("Invalid status")
	}
	v, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.OwnerID != caller.UserID {
		return nil, utils.NewForbidden("Not authorized")
	}

	out, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, utils.NewInternal("Failed to update visit", err)
	}
	if out == nil {
		return nil, utils.NewNotFound("Visit not found")
	}
	s.cache.Invalidate(ctx, out.PropertyID, out.VisitDate)

	utils.Logger.WithFields(logrus.Fields{"visit_id": out.ID, "status": out.Status}).Info("Visit status updated")
	s.notifier.Notify(ctx, EventVisitStatusChanged, NotificationPayload{
		RecipientIDs: []uuid.UUID{out.TenantID},
		Visit:        out,
	})
	return out, nil
}

func (s *VisitService) Cancel(ctx context.Context, caller models.Identity, id uuid.UUID) (*models.PropertyVisit, error) {
	v, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.TenantID != caller.UserID && v.OwnerID != caller.UserID {
		return nil, utils.NewForbidden("Not authorized")
	}
	if v.Status == models.VisitStatusCancelled {
		return nil, utils.NewConflict("Visit is already cancelled", nil)
	}

	out, err := s.repo.CancelAtomic(ctx, id)
	if err != nil {
		return nil, utils.NewInternal("Failed to cancel visit", err)
	}
	if out == nil {
		return nil, utils.NewConflict("Visit is already cancelled", nil)
	}
	s.cache.Invalidate(ctx, out.PropertyID, out.VisitDate)

	utils.Logger.WithFields(logrus.Fields{"visit_id": out.ID, "cancelled_by": caller.UserID}).Info("Visit cancelled")
	other := out.OwnerID
	if caller.UserID == out.OwnerID {
		other = out.TenantID
	}
	s.notifier.Notify(ctx, EventVisitCancelled, NotificationPayload{
		RecipientIDs: []uuid.UUID{other},
		Visit:        out,
	})
	return out, nil
}

func (s *VisitService) ListForUser(ctx context.Context, caller models.Identity) ([]*models.PropertyVisit, error) {
	list, err := s.repo.ListByTenant(ctx, caller.UserID)
	if err != nil {
		return nil, utils.NewInternal("Failed to fetch visits", err)
	}
	return nonNilVisits(list), nil
}

func (s *VisitService) ListForProperty(ctx context.Context, caller models.Identity, propertyID uuid.UUID) ([]*models.PropertyVisit, error) {
	p, err := s.property(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != caller.UserID {
		return nil, utils.NewForbidden("Not authorized")
	}
	list, err := s.repo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, utils.NewInternal("Failed to fetch visits", err)
	}
	return nonNilVisits(list), nil
}

func (s *VisitService) property(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	p, err := s.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.NewInternal("Failed to fetch property", err)
	}
	if p == nil {
		return nil, utils.NewNotFound("Property not found")
	}
	return p, nil
}

func (s *VisitService) load(ctx context.Context, id uuid.UUID) (*models.PropertyVisit, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.NewInternal("Failed to fetch visit", err)
	}
	if v == nil {
		return nil, utils.NewNotFound("Visit not found")
	}
	return v, nil
}

func nonNilVisits(in []*models.PropertyVisit) []*models.PropertyVisit {
	if in == nil {
		return []*models.PropertyVisit{}
	}
	return in
}
