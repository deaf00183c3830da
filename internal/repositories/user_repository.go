package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
)

// UserRepository reads the accounts owned by the identity service.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
}

type userRepo struct {
	db DB
}

func NewUserRepository(db DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(ctx, `
        SELECT id, first_name, last_name, email, phone_number, profile_image,
               is_tenant, is_owner, is_admin
        FROM users WHERE id=$1
    `, id).Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PhoneNumber, &u.ProfileImage,
		&u.IsTenant, &u.IsOwner, &u.IsAdmin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Create is used by seeding and integration tests.
func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	_, err := r.db.Exec(ctx, `
        INSERT INTO users (
            id, first_name, last_name, email, phone_number, profile_image,
            is_tenant, is_owner, is_admin, created_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, NOW())
    `,
		u.ID, u.FirstName, u.LastName, u.Email, u.PhoneNumber, u.ProfileImage,
		u.IsTenant, u.IsOwner, u.IsAdmin,
	)
	return err
}
