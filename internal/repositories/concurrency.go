package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

// VersionedEntity is a pointer to a row guarded by row_version. It must be
// comparable so a nil result can be told apart from a loaded row.
type VersionedEntity interface {
	comparable
	GetRowVersion() int64
	SetRowVersion(int64)
}

type LoadFunc[T VersionedEntity] func(ctx context.Context, id uuid.UUID) (T, error)

// SaveIfVersionFunc writes entity only while the stored row_version still
// equals expected. Zero affected rows means another writer got there first.
type SaveIfVersionFunc[T VersionedEntity] func(ctx context.Context, entity T, expected int64) (pgconn.CommandTag, error)

// EditWithRetry loads the row, applies edit and saves it under the version
// it was loaded at, reloading and re-applying edit when a concurrent writer
// bumped the version in between.
//
// A missing row yields pgx.ErrNoRows. An edit error stops the loop and is
// returned as is. Losing the race on every attempt yields
// utils.ErrEditContention.
func EditWithRetry[T VersionedEntity](
	ctx context.Context,
	attempts int,
	id uuid.UUID,
	load LoadFunc[T],
	save SaveIfVersionFunc[T],
	edit func(T) error,
) error {
	var missing T
	for i := 0; i < attempts; i++ {
		row, err := load(ctx, id)
		if err != nil {
			return err
		}
		if row == missing {
			return pgx.ErrNoRows
		}

		loadedAt := row.GetRowVersion()
		if err := edit(row); err != nil {
			return err
		}

		tag, err := save(ctx, row, loadedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 1 {
			row.SetRowVersion(loadedAt + 1)
			return nil
		}
	}
	return fmt.Errorf("%w: %s changed on each of %d attempts", utils.ErrEditContention, id, attempts)
}
