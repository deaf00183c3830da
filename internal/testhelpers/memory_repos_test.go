package testhelpers

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/repositories"
)

func TestMatchesDuplicate(t *testing.T) {
	owner := uuid.New()
	p := &models.Property{
		ID:          uuid.New(),
		OwnerID:     owner,
		FloorNumber: 3,
		FlatNumber:  "B",
		Address: models.Address{
			Division:    "Dhaka",
			District:    "Dhaka",
			Upazila:     "Gulshan",
			Postcode:    "1212",
			AddressLine: "Road 11",
		},
	}
	q := repositories.DuplicateQuery{
		OwnerID:     owner,
		FloorNumber: 3,
		FlatNumber:  "B",
		Address: []repositories.AddressMatch{
			{Field: repositories.AddrDivision, Value: "Dhaka"},
			{Field: repositories.AddrUpazila, Value: "Gulshan"},
			{Field: repositories.AddrPostcode, Value: "1212"},
		},
	}
	require.True(t, matchesDuplicate(q, p))

	other := q
	other.FlatNumber = "C"
	require.False(t, matchesDuplicate(other, p))

	other = q
	other.OwnerID = uuid.New()
	require.False(t, matchesDuplicate(other, p))

	other = q
	other.Address = []repositories.AddressMatch{{Field: repositories.AddrPostcode, Value: "1213"}}
	require.False(t, matchesDuplicate(other, p))

	other = q
	other.ExcludeID = &p.ID
	require.False(t, matchesDuplicate(other, p), "a property never duplicates itself")
}
