package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVisitStatusOccupiesSeat(t *testing.T) {
	require.True(t, VisitStatusPending.In(OccupyingVisitStatuses))
	require.True(t, VisitStatusConfirmed.In(OccupyingVisitStatuses))
	require.False(t, VisitStatusCancelled.In(OccupyingVisitStatuses))
	require.False(t, VisitStatusCompleted.In(OccupyingVisitStatuses))
	require.False(t, VisitStatusPending.In(nil))
}

func TestVisitStatusOwnerSettable(t *testing.T) {
	require.False(t, VisitStatusPending.IsOwnerSettable())
	require.True(t, VisitStatusConfirmed.IsOwnerSettable())
	require.True(t, VisitStatusCancelled.IsOwnerSettable())
	require.True(t, VisitStatusCompleted.IsOwnerSettable())
	require.False(t, VisitStatusType("visited").IsOwnerSettable())
}

func TestBookingStatusSets(t *testing.T) {
	require.True(t, BookingStatusConfirmed.In(OccupyingBookingStatuses))
	require.True(t, BookingStatusActive.In(OccupyingBookingStatuses))
	require.False(t, BookingStatusAccepted.In(OccupyingBookingStatuses))
	require.True(t, BookingStatusPaymentPending.IsValid())
	require.False(t, BookingStatusType("archived").IsValid())
}
