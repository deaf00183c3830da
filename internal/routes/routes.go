package routes

const (
	Health = "/health"

	Properties           = "/api/v1/properties"
	PropertiesBulk       = "/api/v1/properties/bulk"
	PropertiesMy         = "/api/v1/properties/my"
	PropertyByCode       = "/api/v1/properties/code/{code}"
	Property             = "/api/v1/properties/{id}"
	PropertyStatus       = "/api/v1/properties/{id}/status"
	PropertyApprove      = "/api/v1/properties/{id}/approve"
	PropertyAvailability = "/api/v1/properties/{id}/availability"
	PropertySlots        = "/api/v1/properties/{id}/slots"
	PropertyVisits       = "/api/v1/properties/{id}/visits"
	PropertyLike         = "/api/v1/properties/{id}/like"

	LikeCounts = "/api/v1/likes/counts"
	LikesMy    = "/api/v1/likes/my"

	Bookings        = "/api/v1/bookings"
	BookingsMy      = "/api/v1/bookings/my"
	BookingRequests = "/api/v1/bookings/requests"
	Booking         = "/api/v1/bookings/{id}"
	BookingAccept   = "/api/v1/bookings/{id}/accept"
	BookingReject   = "/api/v1/bookings/{id}/reject"
	BookingConfirm  = "/api/v1/bookings/{id}/confirm"
	BookingCancel   = "/api/v1/bookings/{id}/cancel"

	Visits      = "/api/v1/visits"
	VisitsMy    = "/api/v1/visits/my"
	VisitStatus = "/api/v1/visits/{id}/status"
	VisitCancel = "/api/v1/visits/{id}/cancel"
)
