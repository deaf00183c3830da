package constants

import "time"

// ----------------------------------------------------------------------
// Visit slot grid
// ----------------------------------------------------------------------

// VisitSlots is the fixed daily grid of one-hour viewing windows, in order.
var VisitSlots = []string{
	"09:00 AM",
	"10:00 AM",
	"11:00 AM",
	"12:00 PM",
	"01:00 PM",
	"02:00 PM",
	"03:00 PM",
	"04:00 PM",
	"05:00 PM",
	"06:00 PM",
}

const (
	// Visits in pending or confirmed status that may share one
	// (property, date, slot).
	VisitSlotCapacity = 3

	VisitDateLayout = "2006-01-02"

	SlotCacheTTL = 2 * time.Minute
	// Outlives any cached grid so a generation never resets under a reader.
	SlotGenerationTTL = 24 * time.Hour
)

// IsVisitSlot reports whether s is one of VisitSlots.
func IsVisitSlot(s string) bool {
	for _, slot := range VisitSlots {
		if slot == s {
			return true
		}
	}
	return false
}

// ----------------------------------------------------------------------
// Booking policy
// ----------------------------------------------------------------------

const (
	SecurityDepositMultiplier = 2
	MinMonthlyRent            = 500
	MinRentalPeriodMonths     = 1
)

// ----------------------------------------------------------------------
// Identifiers
// ----------------------------------------------------------------------

const (
	FirstPropertyCode = "AAAA0001"
	BookingCodePrefix = "BK"

	// Attempts at inserting a row with a freshly generated code before a
	// unique-index collision is reported to the caller.
	MaxCodeAttempts = 3

	// Reload-and-reapply rounds of an optimistic-lock edit.
	MaxEditAttempts = 3
)

// ----------------------------------------------------------------------
// Property listing
// ----------------------------------------------------------------------

const (
	MaxPropertyImages  = 6
	DefaultPageLimit   = 10
	MaxPageLimit       = 100
	DefaultFlatNumber  = "A"
	MaxBulkCreateBatch = 100
)

// ----------------------------------------------------------------------
// Notifications
// ----------------------------------------------------------------------

// NotificationTimeout bounds the delivery of one event to all recipients,
// and each Twilio call.
const NotificationTimeout = 10 * time.Second
