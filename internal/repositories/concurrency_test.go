package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/stretchr/testify/require"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

// versionedRow simulates one row that a concurrent writer bumps a fixed
// number of times before our update lands.
type versionedRow struct {
	stored   models.Property
	races    int
	updates  int
	attempts int
}

func (r *versionedRow) get(context.Context, uuid.UUID) (*models.Property, error) {
	cp := r.stored
	return &cp, nil
}

func (r *versionedRow) update(_ context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error) {
	r.attempts++
	if r.races > 0 {
		r.races--
		r.stored.RowVersion++
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	if r.stored.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	r.updates++
	r.stored = *p
	r.stored.RowVersion = expected + 1
	return pgconn.CommandTag("UPDATE 1"), nil
}

func TestEditWithRetryRetriesOnVersionMismatch(t *testing.T) {
	row := &versionedRow{stored: models.Property{ID: uuid.New(), Title: "old"}, races: 2}

	err := EditWithRetry(context.Background(), 3, row.stored.ID, row.get, row.update, func(p *models.Property) error {
		p.Title = "new"
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, row.attempts)
	require.Equal(t, 1, row.updates)
	require.Equal(t, "new", row.stored.Title)
	require.EqualValues(t, 3, row.stored.RowVersion)
}

func TestEditWithRetryGivesUpUnderContention(t *testing.T) {
	row := &versionedRow{stored: models.Property{ID: uuid.New()}, races: 10}

	err := EditWithRetry(context.Background(), 3, row.stored.ID, row.get, row.update, func(*models.Property) error { return nil })
	require.ErrorIs(t, err, utils.ErrEditContention)
	require.ErrorContains(t, err, row.stored.ID.String())
	require.Equal(t, 3, row.attempts)
}

func TestEditWithRetryStopsOnMutateError(t *testing.T) {
	row := &versionedRow{stored: models.Property{ID: uuid.New()}}
	boom := errors.New("duplicate unit")

	err := EditWithRetry(context.Background(), 3, row.stored.ID, row.get, row.update, func(*models.Property) error { return boom })
	require.ErrorIs(t, err, boom)
	require.Zero(t, row.attempts)
}

func TestEditWithRetryMissingRow(t *testing.T) {
	get := func(context.Context, uuid.UUID) (*models.Property, error) { return nil, nil }
	update := func(context.Context, *models.Property, int64) (pgconn.CommandTag, error) {
		t.Fatal("update must not run")
		return nil, nil
	}

	err := EditWithRetry(context.Background(), 3, uuid.New(), get, update, func(*models.Property) error { return nil })
	require.ErrorIs(t, err, pgx.ErrNoRows)
}
