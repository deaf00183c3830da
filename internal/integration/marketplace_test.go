//go:build integration

package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/dtos"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/services"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

func TestPropertyCodesIncrease(t *testing.T) {
	owner := newUser(t, false, true)
	a := newProperty(t, owner)
	b := newProperty(t, owner)

	next, err := services.SuccessorPropertyCode(a.PropertyCode)
	require.NoError(t, err)
	require.LessOrEqual(t, next, b.PropertyCode)
	require.Less(t, a.PropertyCode, b.PropertyCode)
}

func TestDuplicatePropertyIsRejected(t *testing.T) {
	ctx := context.Background()
	owner := newUser(t, false, true)
	p := newProperty(t, owner)

	_, err := propertyService.Create(ctx, owner, dtos.PropertyRequest{
		Title:            "Same unit again",
		Description:      "Trying to list the very same flat twice over.",
		AvailabilityDate: time.Now().UTC().AddDate(0, 0, 7),
		PropertySize:     1200,
		Price:            12000,
		Address: dtos.AddressRequest{
			Division:    "dhaka",
			District:    "DHAKA",
			Upazila:     "Mirpur",
			Postcode:    "1216",
			AddressLine: "Another line",
		},
		FloorNumber: p.FloorNumber,
		FlatNumber:  p.FlatNumber,
	})
	require.Equal(t, utils.ErrCodeConflict, utils.ErrorCode(err))
}

func TestBookingLifecycle(t *testing.T) {
	ctx := context.Background()
	owner := newUser(t, false, true)
	tenant := newUser(t, true, false)
	p := newProperty(t, owner)

	moveIn := time.Now().UTC().AddDate(0, 0, 10).Truncate(time.Second)
	b, err := bookingService.Create(ctx, tenant, dtos.CreateBookingRequest{
		PropertyID:   p.ID,
		MoveInDate:   moveIn,
		RentalPeriod: 6,
	})
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusOwnerReview, b.Status)
	require.Equal(t, 20000.0, b.SecurityDeposit)
	require.Equal(t, 30000.0, b.TotalAmount)
	require.True(t, b.MoveOutDate.Equal(moveIn.AddDate(0, 6, 0)))

	_, err = bookingService.Create(ctx, tenant, dtos.CreateBookingRequest{
		PropertyID: p.ID, MoveInDate: moveIn, RentalPeriod: 3,
	})
	require.Equal(t, utils.ErrCodeConflict, utils.ErrorCode(err), "second live booking")

	b, err = bookingService.Accept(ctx, owner, b.ID, dtos.AcceptBookingRequest{})
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusAccepted, b.Status)

	b, err = bookingService.Confirm(ctx, tenant, b.ID)
	require.NoError(t, err)
	require.Equal(t, models.BookingStatusConfirmed, b.Status)

	stored, err := propertyRepo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.False(t, stored.IsActive, "confirm deactivates the property")

	_, err = bookingService.Accept(ctx, owner, b.ID, dtos.AcceptBookingRequest{})
	require.Equal(t, utils.ErrCodeConflict, utils.ErrorCode(err))
}

func TestVisitSlotCapacityUnderConcurrency(t *testing.T) {
	ctx := context.Background()
	owner := newUser(t, false, true)
	p := newProperty(t, owner)
	date := time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")

	const requests = 5
	codes := make([]string, requests)
	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		tenant := newUser(t, true, false)
		wg.Add(1)
		go func(i int, tenant models.Identity) {
			defer wg.Done()
			_, _, err := visitService.RequestVisit(ctx, tenant, dtos.RequestVisitRequest{
				PropertyID: p.ID, VisitDate: date, VisitTime: "11:00 AM",
			})
			codes[i] = utils.ErrorCode(err)
		}(i, tenant)
	}
	wg.Wait()

	admitted, full := 0, 0
	for _, c := range codes {
		switch c {
		case "":
			admitted++
		case utils.ErrCodeConflict:
			full++
		}
	}
	require.Equal(t, 3, admitted)
	require.Equal(t, requests-3, full)

	slots, err := visitService.CheckAvailability(ctx, p.ID, date)
	require.NoError(t, err)
	for _, s := range slots {
		if s.Time == "11:00 AM" {
			require.Equal(t, models.SlotAvailability{Time: "11:00 AM", Available: false, SlotsLeft: 0}, s)
		}
	}
}

func TestLikeUnlikeKeepsCounter(t *testing.T) {
	ctx := context.Background()
	owner := newUser(t, false, true)
	tenant := newUser(t, true, false)
	p := newProperty(t, owner)

	require.NoError(t, likeService.Like(ctx, tenant, p.ID))
	require.Equal(t, utils.ErrCodeConflict, utils.ErrorCode(likeService.Like(ctx, tenant, p.ID)))

	require.NoError(t, likeService.Unlike(ctx, tenant, p.ID))
	stored, err := propertyRepo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, stored.LikesCount)

	counts, err := likeService.Counts(ctx, []uuid.UUID{p.ID})
	require.NoError(t, err)
	require.EqualValues(t, 0, counts[0].Count)
}
