package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

type LikeRepository interface {
	// Create stores the like and bumps the property's likes_count in one
	// transaction. Returns utils.ErrAlreadyLiked for a repeated pair and
	// utils.ErrPropertyGone when the property vanished meanwhile.
	Create(ctx context.Context, l *models.PropertyLike) error

	// Delete removes the pair and reports whether it existed. likes_count is
	// left as is.
	Delete(ctx context.Context, userID, propertyID uuid.UUID) (bool, error)

	Exists(ctx context.Context, userID, propertyID uuid.UUID) (bool, error)
	CountByProperties(ctx context.Context, propertyIDs []uuid.UUID) ([]models.LikeCount, error)
	ListLikedProperties(ctx context.Context, userID uuid.UUID) ([]*models.Property, error)
}

type likeRepo struct {
	db DB
}

func NewLikeRepository(db DB) LikeRepository {
	return &likeRepo{db: db}
}

func (r *likeRepo) Create(ctx context.Context, l *models.PropertyLike) error {
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `
            INSERT INTO property_likes (id, user_id, property_id, created_at)
            VALUES ($1, $2, $3, NOW())
            RETURNING created_at
        `, l.ID, l.UserID, l.PropertyID).Scan(&l.CreatedAt); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `UPDATE properties SET likes_count=likes_count+1 WHERE id=$1`, l.PropertyID)
		return err
	})
	if code, constraint, ok := pgConstraintError(err); ok {
		switch {
		case code == pgUniqueViolation && constraint == constraintLikePair:
			return utils.ErrAlreadyLiked
		case code == pgForeignKeyViolation:
			return utils.ErrPropertyGone
		}
	}
	return err
}

func (r *likeRepo) Delete(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM property_likes WHERE user_id=$1 AND property_id=$2`, userID, propertyID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *likeRepo) Exists(ctx context.Context, userID, propertyID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM property_likes WHERE user_id=$1 AND property_id=$2)
    `, userID, propertyID).Scan(&exists)
	return exists, err
}

func (r *likeRepo) CountByProperties(ctx context.Context, propertyIDs []uuid.UUID) ([]models.LikeCount, error) {
	rows, err := r.db.Query(ctx, `
        SELECT ids.id, COUNT(l.id)
        FROM UNNEST($1::uuid[]) AS ids(id)
        LEFT JOIN property_likes l ON l.property_id = ids.id
        GROUP BY ids.id
    `, propertyIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.LikeCount
	for rows.Next() {
		var c models.LikeCount
		if err := rows.Scan(&c.PropertyID, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *likeRepo) ListLikedProperties(ctx context.Context, userID uuid.UUID) ([]*models.Property, error) {
	rows, err := r.db.Query(ctx, `
        SELECT `+propertyColumns+`
        FROM properties
        WHERE id IN (SELECT property_id FROM property_likes WHERE user_id=$1)
        ORDER BY (SELECT created_at FROM property_likes WHERE user_id=$1 AND property_id=properties.id) DESC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
