package controllers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/routes"
)

type Handlers struct {
	Health   *HealthController
	Property *PropertyController
	Booking  *BookingController
	Visit    *VisitController
	Like     *LikeController
}

// RegisterRoutes mounts every endpoint on r. Static segments such as
// /properties/my are registered ahead of /properties/{id} because mux
// picks the first match.
func RegisterRoutes(r *mux.Router, auth mux.MiddlewareFunc, h Handlers) {
	public := func(path string, fn http.HandlerFunc, method string) {
		r.Handle(path, fn).Methods(method)
	}
	secured := func(path string, fn http.HandlerFunc, method string) {
		r.Handle(path, auth(fn)).Methods(method)
	}

	public(routes.Health, h.Health.HealthCheckHandler, http.MethodGet)

	// Properties
	secured(routes.Properties, h.Property.CreatePropertyHandler, http.MethodPost)
	secured(routes.PropertiesBulk, h.Property.BulkCreatePropertiesHandler, http.MethodPost)
	secured(routes.PropertiesMy, h.Property.ListMyPropertiesHandler, http.MethodGet)
	public(routes.PropertyByCode, h.Property.GetPropertyByCodeHandler, http.MethodGet)
	public(routes.Property, h.Property.GetPropertyHandler, http.MethodGet)
	secured(routes.Property, h.Property.UpdatePropertyHandler, http.MethodPut)
	secured(routes.Property, h.Property.DeletePropertyHandler, http.MethodDelete)
	secured(routes.PropertyStatus, h.Property.TogglePropertyStatusHandler, http.MethodPatch)
	secured(routes.PropertyApprove, h.Property.ApprovePropertyHandler, http.MethodPatch)
	public(routes.PropertyAvailability, h.Property.CheckAvailabilityHandler, http.MethodGet)
	public(routes.PropertySlots, h.Visit.SlotAvailabilityHandler, http.MethodGet)
	secured(routes.PropertyVisits, h.Visit.ListPropertyVisitsHandler, http.MethodGet)

	// Likes
	secured(routes.PropertyLike, h.Like.LikeHandler, http.MethodPost)
	secured(routes.PropertyLike, h.Like.UnlikeHandler, http.MethodDelete)
	secured(routes.PropertyLike, h.Like.IsLikedHandler, http.MethodGet)
	public(routes.LikeCounts, h.Like.LikeCountsHandler, http.MethodGet)
	secured(routes.LikesMy, h.Like.MyLikesHandler, http.MethodGet)

	// Bookings
	secured(routes.Bookings, h.Booking.CreateBookingHandler, http.MethodPost)
	secured(routes.BookingsMy, h.Booking.ListMyBookingsHandler, http.MethodGet)
	secured(routes.BookingRequests, h.Booking.ListBookingRequestsHandler, http.MethodGet)
	secured(routes.Booking, h.Booking.GetBookingHandler, http.MethodGet)
	secured(routes.BookingAccept, h.Booking.AcceptBookingHandler, http.MethodPatch)
	secured(routes.BookingReject, h.Booking.RejectBookingHandler, http.MethodPatch)
	secured(routes.BookingConfirm, h.Booking.ConfirmBookingHandler, http.MethodPatch)
	secured(routes.BookingCancel, h.Booking.CancelBookingHandler, http.MethodPatch)

	// Visits
	secured(routes.Visits, h.Visit.RequestVisitHandler, http.MethodPost)
	secured(routes.VisitsMy, h.Visit.ListMyVisitsHandler, http.MethodGet)
	secured(routes.VisitStatus, h.Visit.UpdateVisitStatusHandler, http.MethodPatch)
	secured(routes.VisitCancel, h.Visit.CancelVisitHandler, http.MethodPatch)
}
