package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/constants"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/dtos"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/testhelpers"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

func TestSuccessorPropertyCode(t *testing.T) {
	cases := []struct {
		last, want string
	}{
		{"", "AAAA0001"},
		{"AAAA0001", "AAAA0002"},
		{"AAAA0999", "AAAA1000"},
		{"AAAA9999", "AAAB0001"},
		{"AAAZ9999", "AABA0001"},
		{"AZZZ9999", "BAAA0001"},
	}
	for _, tc := range cases {
		got, err := SuccessorPropertyCode(tc.last)
		require.NoError(t, err, "successor of %q", tc.last)
		require.Equal(t, tc.want, got, "successor of %q", tc.last)
	}
}

func TestSuccessorPropertyCodeExhausted(t *testing.T) {
	_, err := SuccessorPropertyCode("ZZZZ9999")
	require.ErrorIs(t, err, utils.ErrPropertyCodeExhausted)
}

func TestSuccessorPropertyCodeMalformed(t *testing.T) {
	for _, last := range []string{"AAA0001", "aaaa0001", "AAAA00X1", "BK00000001"} {
		_, err := SuccessorPropertyCode(last)
		require.ErrorIs(t, err, utils.ErrMalformedCode, "input %q", last)
	}
}

func TestSuccessorBookingCode(t *testing.T) {
	got, err := SuccessorBookingCode("")
	require.NoError(t, err)
	require.Equal(t, "BK00000001", got)

	got, err = SuccessorBookingCode("BK00000041")
	require.NoError(t, err)
	require.Equal(t, "BK00000042", got)

	_, err = SuccessorBookingCode("BK99999999")
	require.ErrorIs(t, err, utils.ErrBookingCodeExhausted)

	_, err = SuccessorBookingCode("XX00000001")
	require.ErrorIs(t, err, utils.ErrMalformedCode)
}

func TestPropertyCodesIncreaseAcrossCreates(t *testing.T) {
	f := newServiceFixture()
	owner := ownerIdentity()

	var codes []string
	for floor := 1; floor <= 3; floor++ {
		p := f.createProperty(t, owner, func(r *dtos.PropertyRequest) { r.FloorNumber = floor })
		codes = append(codes, p.PropertyCode)
	}
	require.Equal(t, []string{"AAAA0001", "AAAA0002", "AAAA0003"}, codes)
}

func TestPropertyCreateRetriesOnCodeCollision(t *testing.T) {
	f := newServiceFixture()
	f.repos.Store.TakenCodes["AAAA0001"] = true

	p := f.createProperty(t, ownerIdentity(), nil)
	require.Equal(t, "AAAA0001", p.PropertyCode, "second attempt reuses the freed code")
}

// collidingPropertyRepo rejects every insert as a code collision.
type collidingPropertyRepo struct {
	*testhelpers.MemoryPropertyRepo
	attempts int
}

func (r *collidingPropertyRepo) Create(context.Context, *models.Property) error {
	r.attempts++
	return utils.ErrCodeTaken
}

func TestPropertyCreateGivesUpAfterRepeatedCollisions(t *testing.T) {
	repos := testhelpers.NewMemoryRepos()
	colliding := &collidingPropertyRepo{MemoryPropertyRepo: repos.Properties}
	svc := NewPropertyService(colliding, repos.Bookings, NewIdentifierService(colliding, repos.Bookings))
	svc.now = clock

	_, err := svc.Create(ctx(), ownerIdentity(), samplePropertyRequest())
	requireAppError(t, err, utils.ErrCodeConflict)
	require.Equal(t, constants.MaxCodeAttempts, colliding.attempts)
}
