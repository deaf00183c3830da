package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/constants"
)

// versionedTable loads rows of one table by id and edits them under
// optimistic locking. Repositories embed it next to their own statements.
type versionedTable[T VersionedEntity] struct {
	db         DB
	selectByID string
	scan       func(row pgx.Row) (T, error)
}

func newVersionedTable[T VersionedEntity](db DB, selectByID string, scan func(pgx.Row) (T, error)) versionedTable[T] {
	return versionedTable[T]{db: db, selectByID: selectByID, scan: scan}
}

func (t versionedTable[T]) load(ctx context.Context, id uuid.UUID) (T, error) {
	return t.scan(t.db.QueryRow(ctx, t.selectByID, id))
}

func (t versionedTable[T]) edit(ctx context.Context, id uuid.UUID, save SaveIfVersionFunc[T], edit func(T) error) error {
	return EditWithRetry(ctx, constants.MaxEditAttempts, id, t.load, save, edit)
}
