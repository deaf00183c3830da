package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/dtos"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/testhelpers"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func ctx() context.Context { return context.Background() }

func ownerIdentity() models.Identity {
	return models.Identity{UserID: uuid.New(), IsOwner: true}
}

func tenantIdentity() models.Identity {
	return models.Identity{UserID: uuid.New(), IsTenant: true}
}

func adminIdentity() models.Identity {
	return models.Identity{UserID: uuid.New(), IsAdmin: true}
}

func samplePropertyRequest() dtos.PropertyRequest {
	return dtos.PropertyRequest{
		Title:            "Bright flat in Gulshan",
		Description:      "Three bedroom flat close to the lake and schools.",
		PropertyType:     1,
		Category:         0,
		PropertyFor:      0,
		FurnishedStatus:  2,
		AvailabilityDate: fixedNow.AddDate(0, 0, 7),
		PropertySize:     1200,
		Price:            10000,
		Address: dtos.AddressRequest{
			Division:    "Dhaka",
			District:    "Dhaka",
			Upazila:     "Gulshan",
			Postcode:    "1212",
			AddressLine: "Road 11, House 5",
		},
		Bedrooms:    3,
		Bathrooms:   2,
		FloorNumber: 3,
		FlatNumber:  "B",
		Balconies:   1,
		Images:      []string{"https://img.example.com/1.jpg"},
	}
}

type serviceFixture struct {
	repos      *testhelpers.MemoryRepos
	notifier   *fakeNotifier
	cache      *memorySlotCache
	properties *PropertyService
	bookings   *BookingService
	visits     *VisitService
	likes      *LikeService
}

func newServiceFixture() *serviceFixture {
	repos := testhelpers.NewMemoryRepos()
	notifier := &fakeNotifier{}
	cache := newMemorySlotCache()
	ids := NewIdentifierService(repos.Properties, repos.Bookings)

	f := &serviceFixture{
		repos:      repos,
		notifier:   notifier,
		cache:      cache,
		properties: NewPropertyService(repos.Properties, repos.Bookings, ids),
		bookings:   NewBookingService(repos.Bookings, repos.Properties, ids, notifier),
		visits:     NewVisitService(repos.Visits, repos.Properties, repos.Users, cache, notifier),
		likes:      NewLikeService(repos.Likes, repos.Properties),
	}
	f.properties.now = clock
	f.bookings.now = clock
	f.visits.now = clock
	return f
}

func (f *serviceFixture) createProperty(t *testing.T, owner models.Identity, mutate func(*dtos.PropertyRequest)) *models.Property {
	t.Helper()
	req := samplePropertyRequest()
	if mutate != nil {
		mutate(&req)
	}
	p, err := f.properties.Create(ctx(), owner, req)
	require.NoError(t, err, "create property")
	return p
}

func (f *serviceFixture) registerUser(t *testing.T, id models.Identity, first string) *models.User {
	t.Helper()
	u := &models.User{
		ID:          id.UserID,
		FirstName:   first,
		LastName:    "Rahman",
		Email:       first + "@example.com",
		PhoneNumber: "+8801700000000",
		IsTenant:    id.IsTenant,
		IsOwner:     id.IsOwner,
	}
	require.NoError(t, f.repos.Users.Create(ctx(), u))
	return u
}

func requireAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, utils.ErrorCode(err), "unexpected error: %v", err)
}
