package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/dtos"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

func TestLikeUnlikeAsymmetry(t *testing.T) {
	f := newServiceFixture()
	p := f.createProperty(t, ownerIdentity(), nil)
	user := tenantIdentity()

	require.NoError(t, f.likes.Like(ctx(), user, p.ID))
	err := f.likes.Like(ctx(), user, p.ID)
	requireAppError(t, err, utils.ErrCodeConflict)

	stored, err := f.repos.Properties.GetByID(ctx(), p.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), stored.LikesCount)

	require.NoError(t, f.likes.Unlike(ctx(), user, p.ID))
	err = f.likes.Unlike(ctx(), user, p.ID)
	requireAppError(t, err, utils.ErrCodeNotFound)

	// Unlike leaves the stored counter alone; the aggregate is exact.
	stored, err = f.repos.Properties.GetByID(ctx(), p.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), stored.LikesCount)

	counts, err := f.likes.Counts(ctx(), []uuid.UUID{p.ID})
	require.NoError(t, err)
	require.Equal(t, []models.LikeCount{{PropertyID: p.ID, Count: 0}}, counts)

	// Liking again is allowed and bumps the counter once more.
	require.NoError(t, f.likes.Like(ctx(), user, p.ID))
	stored, err = f.repos.Properties.GetByID(ctx(), p.ID)
	require.NoError(t, err)
	require.Equal(t, int64(2), stored.LikesCount)
}

func TestLikeMissingProperty(t *testing.T) {
	f := newServiceFixture()
	err := f.likes.Like(ctx(), tenantIdentity(), uuid.New())
	requireAppError(t, err, utils.ErrCodeNotFound)
}

func TestLikeCountsKeepsInputOrder(t *testing.T) {
	f := newServiceFixture()
	owner := ownerIdentity()
	a := f.createProperty(t, owner, nil)
	b := f.createProperty(t, owner, func(r *dtos.PropertyRequest) { r.FloorNumber = 5 })
	unknown := uuid.New()

	for i := 0; i < 3; i++ {
		require.NoError(t, f.likes.Like(ctx(), tenantIdentity(), b.ID))
	}
	require.NoError(t, f.likes.Like(ctx(), tenantIdentity(), a.ID))

	counts, err := f.likes.Counts(ctx(), []uuid.UUID{b.ID, unknown, a.ID, b.ID})
	require.NoError(t, err)
	require.Equal(t, []models.LikeCount{
		{PropertyID: b.ID, Count: 3},
		{PropertyID: unknown, Count: 0},
		{PropertyID: a.ID, Count: 1},
	}, counts)

	empty, err := f.likes.Counts(ctx(), nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestListLikedAndIsLiked(t *testing.T) {
	f := newServiceFixture()
	owner := ownerIdentity()
	a := f.createProperty(t, owner, nil)
	b := f.createProperty(t, owner, func(r *dtos.PropertyRequest) { r.FloorNumber = 5 })
	user := tenantIdentity()

	require.NoError(t, f.likes.Like(ctx(), user, a.ID))
	require.NoError(t, f.likes.Like(ctx(), user, b.ID))

	liked, err := f.likes.ListLiked(ctx(), user)
	require.NoError(t, err)
	require.Len(t, liked, 2)
	require.Equal(t, b.ID, liked[0].ID, "most recent like first")

	ok, err := f.likes.IsLiked(ctx(), user, a.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = f.likes.IsLiked(ctx(), tenantIdentity(), a.ID)
	require.NoError(t, err)
	require.False(t, ok)

	none, err := f.likes.ListLiked(ctx(), tenantIdentity())
	require.NoError(t, err)
	require.NotNil(t, none)
}
