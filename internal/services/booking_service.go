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

// BookingService drives the rental request lifecycle:
//
//	owner-review -> accepted -> confirmed
//	owner-review -> rejected
//	{pending, owner-review, accepted, payment-pending} -> cancelled
//
// Every transition is a single conditional update in the store.
type BookingService struct {
	repo         repositories.BookingRepository
	propertyRepo repositories.PropertyRepository
	ids          IdentifierService
	notifier     Notifier
	now          func() time.Time
}

func NewBookingService(
	repo repositories.BookingRepository,
	propertyRepo repositories.PropertyRepository,
	ids IdentifierService,
	notifier Notifier,
) *BookingService {
	return &BookingService{
		repo:         repo,
		propertyRepo: propertyRepo,
		ids:          ids,
		notifier:     notifier,
		now:          time.Now,
	}
}

func (s *BookingService) Create(ctx context.Context, caller models.Identity, req dtos.CreateBookingRequest) (*models.Booking, error) {
	if !caller.IsTenant {
		return nil, utils.NewForbidden("Only tenants can request bookings")
	}
	if req.RentalPeriod < constants.MinRentalPeriodMonths {
		return nil, utils.NewValidation("Rental period must be at least 1 month")
	}
	if req.AdvanceRent < 0 {
		return nil, utils.NewValidation("Advance rent cannot be negative")
	}
	if !req.MoveInDate.After(s.now()) {
		return nil, utils.NewValidation("Move-in date must be in the future")
	}

	property, err := s.propertyRepo.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, utils.NewInternal("Failed to fetch property", err)
	}
	if property == nil {
		return nil, utils.NewNotFound("Property not found")
	}
	if !property.IsActive {
		return nil, utils.NewValidation("Property is not available for booking")
	}
	if property.Price < constants.MinMonthlyRent {
		return nil, utils.NewValidation("Monthly rent must be at least 500")
	}

	live, err := s.repo.HasLiveBooking(ctx, caller.UserID, property.ID)
	if err != nil {
		return nil, utils.NewInternal("Failed to check existing bookings", err)
	}
	if live {
		return nil, utils.NewConflict("You already have an active booking request for this property", nil)
	}

	rent := property.Price
	deposit := rent * constants.SecurityDepositMultiplier
	b := &models.Booking{
		ID:              uuid.New(),
		PropertyID:      property.ID,
		TenantID:        caller.UserID,
		OwnerID:         property.OwnerID,
		MoveInDate:      req.MoveInDate,
		MoveOutDate:     req.MoveInDate.AddDate(0, req.RentalPeriod, 0),
		RentalPeriod:    req.RentalPeriod,
		MonthlyRent:     rent,
		SecurityDeposit: deposit,
		AdvanceRent:     req.AdvanceRent,
		TotalAmount:     rent + deposit + req.AdvanceRent,
		Status:          models.BookingStatusOwnerReview,
		TenantMessage:   strings.TrimSpace(req.TenantMessage),
	}

	if err := s.insertWithCode(ctx, b); err != nil {
		return nil, err
	}

	s.logTransition(b, "Booking requested")
	s.notifier.Notify(ctx, EventBookingRequested, NotificationPayload{
		RecipientIDs: []uuid.UUID{b.OwnerID},
		Booking:      b,
	})
	return b, nil
}

func (s *BookingService) insertWithCode(ctx context.Context, b *models.Booking) error {
	for attempt := 1; ; attempt++ {
		code, err := s.ids.NextBookingCode(ctx)
		if err != nil {
			return utils.NewInternal("Failed to generate booking ID", err)
		}
		b.BookingCode = code

		err = s.repo.Create(ctx, b)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, utils.ErrLiveBookingExists):
			return utils.NewConflict("You already have an active booking request for this property", nil)
		case !errors.Is(err, utils.ErrCodeTaken):
			return utils.NewInternal("Failed to create booking", err)
		}
		if attempt >= constants.MaxCodeAttempts {
			return utils.NewConflict("Booking ID already exists. Please try again.", nil)
		}
		utils.Logger.WithError(err).Warnf("Booking code collision, retrying (attempt %d)", attempt)
	}
}

// ----------------------------------------------------------------------
// Reads
// ----------------------------------------------------------------------

func (s *BookingService) Get(ctx context.Context, caller models.Identity, id uuid.UUID) (*models.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.IsParticipant(caller.UserID) && !caller.IsAdmin {
		return nil, utils.NewForbidden("Not authorized to view this booking")
	}
	return b, nil
}

func (s *BookingService) ListForTenant(ctx context.Context, caller models.Identity, status string) ([]*models.Booking, error) {
	filter, appErr := parseBookingStatusFilter(status)
	if appErr != nil {
		return nil, appErr
	}
	list, err := s.repo.ListByTenant(ctx, caller.UserID, filter)
	if err != nil {
		return nil, utils.NewInternal("Failed to fetch bookings", err)
	}
	return nonNilBookings(list), nil
}

func (s *BookingService) ListForOwner(ctx context.Context, caller models.Identity, status string) ([]*models.Booking, error) {
	filter, appErr := parseBookingStatusFilter(status)
	if appErr != nil {
		return nil, appErr
	}
	list, err := s.repo.ListByOwner(ctx, caller.UserID, filter)
	if err != nil {
		return nil, utils.NewInternal("Failed to fetch booking requests", err)
	}
	return nonNilBookings(list), nil
}

func parseBookingStatusFilter(raw string) (*models.BookingStatusType, *utils.AppError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	st := models.BookingStatusType(raw)
	if !st.IsValid() {
		return nil, utils.NewValidation("Unknown booking status: " + raw)
	}
	return &st, nil
}

func nonNilBookings(in []*models.Booking) []*models.Booking {
	if in == nil {
		return []*models.Booking{}
	}
	return in
}

// ----------------------------------------------------------------------
// Transitions
// ----------------------------------------------------------------------

func (s *BookingService) Accept(ctx context.Context, caller models.Identity, id uuid.UUID, req dtos.AcceptBookingRequest) (*models.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != caller.UserID {
		return nil, utils.NewForbidden("Not authorized")
	}

	now := s.now()
	t := repositories.BookingTransition{
		To:         models.BookingStatusAccepted,
		AcceptedAt: &now,
	}
	if v := strings.TrimSpace(req.OwnerResponse); v != "" {
		t.OwnerResponse = &v
	}
	if v := strings.TrimSpace(req.SpecialTerms); v != "" {
		t.SpecialTerms = &v
	}

	out, err := s.transition(ctx, id, []models.BookingStatusType{models.BookingStatusOwnerReview}, t,
		"Booking is not in owner review")
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, EventBookingAccepted, NotificationPayload{
		RecipientIDs: []uuid.UUID{out.TenantID},
		Booking:      out,
	})
	return out, nil
}

func (s *BookingService) Reject(ctx context.Context, caller models.Identity, id uuid.UUID, req dtos.RejectBookingRequest) (*models.Booking, error) {
	reason := strings.TrimSpace(req.RejectionReason)
	if reason == "" {
		return nil, utils.NewValidation("Rejection reason is required")
	}

	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.OwnerID != caller.UserID {
		return nil, utils.NewForbidden("Not authorized")
	}

	now := s.now()
	out, err := s.transition(ctx, id, []models.BookingStatusType{models.BookingStatusOwnerReview},
		repositories.BookingTransition{
			To:              models.BookingStatusRejected,
			RejectionReason: &reason,
			RejectedAt:      &now,
		},
		"Booking is not in owner review")
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, EventBookingRejected, NotificationPayload{
		RecipientIDs: []uuid.UUID{out.TenantID},
		Booking:      out,
		Reason:       reason,
	})
	return out, nil
}

// Confirm finalizes an accepted booking. Either participant may confirm;
// the property leaves the market in the same transaction.
func (s *BookingService) Confirm(ctx context.Context, caller models.Identity, id uuid.UUID) (*models.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.IsParticipant(caller.UserID) {
		return nil, utils.NewForbidden("Not authorized")
	}

	now := s.now()
	out, err := s.transition(ctx, id, []models.BookingStatusType{models.BookingStatusAccepted},
		repositories.BookingTransition{
			To:                 models.BookingStatusConfirmed,
			ConfirmedAt:        &now,
			DeactivateProperty: true,
		},
		"Booking must be accepted first")
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, EventBookingConfirmed, NotificationPayload{
		RecipientIDs: []uuid.UUID{out.TenantID, out.OwnerID},
		Booking:      out,
	})
	return out, nil
}

func (s *BookingService) Cancel(ctx context.Context, caller models.Identity, id uuid.UUID, req dtos.CancelBookingRequest) (*models.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.TenantID != caller.UserID {
		return nil, utils.NewForbidden("Not authorized")
	}

	now := s.now()
	t := repositories.BookingTransition{
		To:          models.BookingStatusCancelled,
		CancelledBy: &caller.UserID,
		CancelledAt: &now,
	}
	reason := strings.TrimSpace(req.CancellationReason)
	if reason != "" {
		t.CancellationReason = &reason
	}

	out, err := s.transition(ctx, id, models.CancellableBookingStatuses, t,
		"Cannot cancel booking at this stage")
	if err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, EventBookingCancelled, NotificationPayload{
		RecipientIDs: []uuid.UUID{out.OwnerID},
		Booking:      out,
		Reason:       reason,
	})
	return out, nil
}

func (s *BookingService) transition(
	ctx context.Context,
	id uuid.UUID,
	from []models.BookingStatusType,
	t repositories.BookingTransition,
	conflictMsg string,
) (*models.Booking, error) {
	out, err := s.repo.TransitionAtomic(ctx, id, from, t)
	if err != nil {
		return nil, utils.NewInternal("Failed to update booking", err)
	}
	if out == nil {
		return nil, utils.NewConflict(conflictMsg, nil)
	}
	s.logTransition(out, "Booking transitioned")
	return out, nil
}

func (s *BookingService) load(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, utils.NewInternal("Failed to fetch booking", err)
	}
	if b == nil {
		return nil, utils.NewNotFound("Booking not found")
	}
	return b, nil
}

func (s *BookingService) logTransition(b *models.Booking, msg string) {
	utils.Logger.WithFields(logrus.Fields{
		"booking_id":  b.ID,
		"code":        b.BookingCode,
		"property_id": b.PropertyID,
		"status":      b.Status,
	}).Info(msg)
}
