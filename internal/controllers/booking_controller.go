package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/dtos"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/services"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

type BookingController struct {
	bookingService *services.BookingService
}

func NewBookingController(s *services.BookingService) *BookingController {
	return &BookingController{bookingService: s}
}

// POST /api/v1/bookings
func (c *BookingController) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	logger := utils.Logger.WithField("handler", "CreateBookingHandler")

	caller, err := callerIdentity(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.CreateBookingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	b, err := c.bookingService.Create(r.Context(), caller, req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	logger.WithField("bookingID", b.ID).Info("Booking request created")
	utils.RespondWithJSON(w, http.StatusCreated, dtos.BookingResponse{
		Message: "Booking request sent successfully",
		Booking: b,
	})
}

// GET /api/v1/bookings/my?status=
func (c *BookingController) ListMyBookingsHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	list, err := c.bookingService.ListForTenant(r.Context(), caller, r.URL.Query().Get("status"))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.BookingListResponse{Count: len(list), Bookings: list})
}

// GET /api/v1/bookings/requests?status=
func (c *BookingController) ListBookingRequestsHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	list, err := c.bookingService.ListForOwner(r.Context(), caller, r.URL.Query().Get("status"))
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.BookingListResponse{Count: len(list), Bookings: list})
}

// GET /api/v1/bookings/{id}
func (c *BookingController) GetBookingHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := callerIdentity(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	b, err := c.bookingService.Get(r.Context(), caller, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.BookingResponse{Booking: b})
}

// PATCH /api/v1/bookings/{id}/accept
func (c *BookingController) AcceptBookingHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.AcceptBookingRequest
	c.transition(w, r, &req, "Booking accepted successfully",
		func(ctx context.Context, caller models.Identity, id uuid.UUID) (*models.Booking, error) {
			return c.bookingService.Accept(ctx, caller, id, req)
		})
}

// PATCH /api/v1/bookings/{id}/reject
func (c *BookingController) RejectBookingHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.RejectBookingRequest
	c.transition(w, r, &req, "Booking rejected",
		func(ctx context.Context, caller models.Identity, id uuid.UUID) (*models.Booking, error) {
			return c.bookingService.Reject(ctx, caller, id, req)
		})
}

// PATCH /api/v1/bookings/{id}/confirm
func (c *BookingController) ConfirmBookingHandler(w http.ResponseWriter, r *http.Request) {
	c.transition(w, r, nil, "Booking confirmed successfully",
		func(ctx context.Context, caller models.Identity, id uuid.UUID) (*models.Booking, error) {
			return c.bookingService.Confirm(ctx, caller, id)
		})
}

// PATCH /api/v1/bookings/{id}/cancel
func (c *BookingController) CancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.CancelBookingRequest
	c.transition(w, r, &req, "Booking cancelled successfully",
		func(ctx context.Context, caller models.Identity, id uuid.UUID) (*models.Booking, error) {
			return c.bookingService.Cancel(ctx, caller, id, req)
		})
}

type bookingTransitionFunc func(ctx context.Context, caller models.Identity, id uuid.UUID) (*models.Booking, error)

// transition runs the shared steps of every lifecycle endpoint. body may be
// nil; an empty request body leaves it zero-valued.
func (c *BookingController) transition(w http.ResponseWriter, r *http.Request, body any, msg string, run bookingTransitionFunc) {
	caller, err := callerIdentity(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	if body != nil {
		if err := json.NewDecoder(r.Body).Decode(body); err != nil && !errors.Is(err, io.EOF) {
			utils.RespondErrorWithCode(w, http.StatusBadRequest, utils.ErrCodeInvalidPayload, "Invalid JSON payload", nil, err)
			return
		}
		if !validatePayload(w, body) {
			return
		}
	}

	b, err := run(r.Context(), caller, id)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dtos.BookingResponse{Message: msg, Booking: b})
}
