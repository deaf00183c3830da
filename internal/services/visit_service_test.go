package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/constants"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/dtos"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/testhelpers"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

const visitDay = "2026-03-05"

func visitRequest(propertyID uuid.UUID, slot string) dtos.RequestVisitRequest {
	return dtos.RequestVisitRequest{
		PropertyID: propertyID,
		VisitDate:  visitDay,
		VisitTime:  slot,
		Notes:      "After office hours if possible",
	}
}

func (f *serviceFixture) newTenant(t *testing.T, name string) models.Identity {
	t.Helper()
	id := tenantIdentity()
	f.registerUser(t, id, name)
	return id
}

func TestVisitSlotOdometer(t *testing.T) {
	f := newServiceFixture()
	p := f.createProperty(t, ownerIdentity(), nil)

	for i, want := range []int{2, 1, 0} {
		_, left, err := f.visits.RequestVisit(ctx(), f.newTenant(t, "tenant"), visitRequest(p.ID, "10:00 AM"))
		require.NoError(t, err, "request %d", i+1)
		require.Equal(t, want, left, "request %d", i+1)
	}

	_, _, err := f.visits.RequestVisit(ctx(), f.newTenant(t, "late"), visitRequest(p.ID, "10:00 AM"))
	requireAppError(t, err, utils.ErrCodeConflict)

	slots, err := f.visits.CheckAvailability(ctx(), p.ID, visitDay)
	require.NoError(t, err)
	require.Len(t, slots, len(constants.VisitSlots))
	require.Equal(t, models.SlotAvailability{Time: "10:00 AM", Available: false, SlotsLeft: 0}, slots[1])
	require.Equal(t, models.SlotAvailability{Time: "09:00 AM", Available: true, SlotsLeft: 3}, slots[0])

	stored, err := f.repos.Properties.GetByID(ctx(), p.ID)
	require.NoError(t, err)
	require.Equal(t, int64(3), stored.VisitsCount)
}

func TestRequestVisitSnapshotsTenant(t *testing.T) {
	f := newServiceFixture()
	owner := ownerIdentity()
	p := f.createProperty(t, owner, nil)
	tenant := f.newTenant(t, "Nadia")

	v, _, err := f.visits.RequestVisit(ctx(), tenant, visitRequest(p.ID, "09:00 AM"))
	require.NoError(t, err)
	require.Equal(t, models.VisitStatusPending, v.Status)
	require.Equal(t, owner.UserID, v.OwnerID)
	require.Equal(t, "Nadia", v.TenantDetails.FirstName)
	require.Equal(t, "Nadia@example.com", v.TenantDetails.Email)

	// Later profile edits do not reach the visit.
	f.repos.Store.Users[tenant.UserID].FirstName = "Changed"
	got, err := f.repos.Visits.GetByID(ctx(), v.ID)
	require.NoError(t, err)
	require.Equal(t, "Nadia", got.TenantDetails.FirstName)

	require.Equal(t, []NotificationEvent{EventVisitRequested}, f.notifier.events())
}

func TestRequestVisitValidation(t *testing.T) {
	f := newServiceFixture()
	p := f.createProperty(t, ownerIdentity(), nil)
	tenant := f.newTenant(t, "tenant")

	_, _, err := f.visits.RequestVisit(ctx(), ownerIdentity(), visitRequest(p.ID, "09:00 AM"))
	requireAppError(t, err, utils.ErrCodeForbidden)

	_, _, err = f.visits.RequestVisit(ctx(), tenant, visitRequest(p.ID, "08:00 AM"))
	requireAppError(t, err, utils.ErrCodeValidation)

	past := visitRequest(p.ID, "09:00 AM")
	past.VisitDate = "2026-02-28"
	_, _, err = f.visits.RequestVisit(ctx(), tenant, past)
	requireAppError(t, err, utils.ErrCodeValidation)

	today := visitRequest(p.ID, "09:00 AM")
	today.VisitDate = "2026-03-01"
	_, _, err = f.visits.RequestVisit(ctx(), tenant, today)
	require.NoError(t, err)

	_, _, err = f.visits.RequestVisit(ctx(), tenant, visitRequest(uuid.New(), "09:00 AM"))
	requireAppError(t, err, utils.ErrCodeNotFound)
}

func TestCheckAvailabilityValidation(t *testing.T) {
	f := newServiceFixture()
	p := f.createProperty(t, ownerIdentity(), nil)

	_, err := f.visits.CheckAvailability(ctx(), p.ID, "05/03/2026")
	requireAppError(t, err, utils.ErrCodeValidation)

	_, err = f.visits.CheckAvailability(ctx(), uuid.New(), visitDay)
	requireAppError(t, err, utils.ErrCodeNotFound)
}

func TestSlotCacheInvalidatedOnWrites(t *testing.T) {
	f := newServiceFixture()
	p := f.createProperty(t, ownerIdentity(), nil)

	_, err := f.visits.CheckAvailability(ctx(), p.ID, visitDay)
	require.NoError(t, err)
	_, err = f.visits.CheckAvailability(ctx(), p.ID, visitDay)
	require.NoError(t, err)
	require.Equal(t, 1, f.cache.hits)

	_, _, err = f.visits.RequestVisit(ctx(), f.newTenant(t, "tenant"), visitRequest(p.ID, "09:00 AM"))
	require.NoError(t, err)

	slots, err := f.visits.CheckAvailability(ctx(), p.ID, visitDay)
	require.NoError(t, err)
	require.Equal(t, 1, f.cache.hits, "write dropped the cached grid")
	require.Equal(t, 2, slots[0].SlotsLeft)
}

// interleavedVisitRepo runs a concurrent visit request right after the
// occupancy of a day has been counted.
type interleavedVisitRepo struct {
	*testhelpers.MemoryVisitRepo
	during func()
}

func (r *interleavedVisitRepo) CountOccupied(ctx context.Context, propertyID uuid.UUID, date time.Time) (map[string]int, error) {
	counts, err := r.MemoryVisitRepo.CountOccupied(ctx, propertyID, date)
	if r.during != nil {
		during := r.during
		r.during = nil
		during()
	}
	return counts, err
}

func TestSlotGridCountedBeforeWriteIsNotCached(t *testing.T) {
	f := newServiceFixture()
	p := f.createProperty(t, ownerIdentity(), nil)
	tenant := f.newTenant(t, "tenant")

	repo := &interleavedVisitRepo{MemoryVisitRepo: f.repos.Visits}
	visits := NewVisitService(repo, f.repos.Properties, f.repos.Users, f.cache, f.notifier)
	visits.now = clock
	repo.during = func() {
		_, _, err := visits.RequestVisit(ctx(), tenant, visitRequest(p.ID, "09:00 AM"))
		require.NoError(t, err)
	}

	stale, err := visits.CheckAvailability(ctx(), p.ID, visitDay)
	require.NoError(t, err)
	require.Equal(t, 3, stale[0].SlotsLeft, "counted before the request landed")

	date, err := ParseVisitDate(visitDay)
	require.NoError(t, err)
	require.False(t, f.cache.cached(p.ID, date))
	require.Equal(t, 1, f.cache.dropped)

	fresh, err := visits.CheckAvailability(ctx(), p.ID, visitDay)
	require.NoError(t, err)
	require.Equal(t, 2, fresh[0].SlotsLeft)
	require.True(t, f.cache.cached(p.ID, date))
}

func TestUpdateVisitStatus(t *testing.T) {
	f := newServiceFixture()
	owner := ownerIdentity()
	p := f.createProperty(t, owner, nil)
	tenant := f.newTenant(t, "tenant")
	v, _, err := f.visits.RequestVisit(ctx(), tenant, visitRequest(p.ID, "11:00 AM"))
	require.NoError(t, err)

	_, err = f.visits.UpdateStatus(ctx(), tenant, v.ID, models.VisitStatusConfirmed)
	requireAppError(t, err, utils.ErrCodeForbidden)

	_, err = f.visits.UpdateStatus(ctx(), owner, v.ID, models.VisitStatusPending)
	requireAppError(t, err, utils.ErrCodeValidation)

	// No transition graph: completed can go back to confirmed.
	for _, st := range []models.VisitStatusType{models.VisitStatusCompleted, models.VisitStatusConfirmed} {
		got, err := f.visits.UpdateStatus(ctx(), owner, v.ID, st)
		require.NoError(t, err)
		require.Equal(t, st, got.Status)
	}

	_, err = f.visits.UpdateStatus(ctx(), owner, uuid.New(), models.VisitStatusConfirmed)
	requireAppError(t, err, utils.ErrCodeNotFound)
}

func TestCancelVisitFreesSeat(t *testing.T) {
	f := newServiceFixture()
	owner := ownerIdentity()
	p := f.createProperty(t, owner, nil)
	tenant := f.newTenant(t, "tenant")

	v, _, err := f.visits.RequestVisit(ctx(), tenant, visitRequest(p.ID, "02:00 PM"))
	require.NoError(t, err)

	_, err = f.visits.Cancel(ctx(), f.newTenant(t, "other"), v.ID)
	requireAppError(t, err, utils.ErrCodeForbidden)

	cancelled, err := f.visits.Cancel(ctx(), tenant, v.ID)
	require.NoError(t, err)
	require.Equal(t, models.VisitStatusCancelled, cancelled.Status)

	_, err = f.visits.Cancel(ctx(), owner, v.ID)
	requireAppError(t, err, utils.ErrCodeConflict)

	stored, err := f.repos.Properties.GetByID(ctx(), p.ID)
	require.NoError(t, err)
	require.Zero(t, stored.VisitsCount)

	slots, err := f.visits.CheckAvailability(ctx(), p.ID, visitDay)
	require.NoError(t, err)
	require.Equal(t, 3, slots[5].SlotsLeft)
}

func TestListVisits(t *testing.T) {
	f := newServiceFixture()
	owner := ownerIdentity()
	p := f.createProperty(t, owner, nil)
	tenant := f.newTenant(t, "tenant")

	first, _, err := f.visits.RequestVisit(ctx(), tenant, visitRequest(p.ID, "09:00 AM"))
	require.NoError(t, err)
	second, _, err := f.visits.RequestVisit(ctx(), tenant, visitRequest(p.ID, "03:00 PM"))
	require.NoError(t, err)

	mine, err := f.visits.ListForUser(ctx(), tenant)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, second.ID, mine[0].ID)
	require.Equal(t, first.ID, mine[1].ID)

	_, err = f.visits.ListForProperty(ctx(), tenant, p.ID)
	requireAppError(t, err, utils.ErrCodeForbidden)

	onProperty, err := f.visits.ListForProperty(ctx(), owner, p.ID)
	require.NoError(t, err)
	require.Len(t, onProperty, 2)
}
