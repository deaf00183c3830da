package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

// BookingTransition is applied by TransitionAtomic. Nil fields leave the
// stored column untouched.
type BookingTransition struct {
	To models.BookingStatusType

	OwnerResponse      *string
	SpecialTerms       *string
	RejectionReason    *string
	CancellationReason *string
	CancelledBy        *uuid.UUID

	AcceptedAt  *time.Time
	RejectedAt  *time.Time
	ConfirmedAt *time.Time
	CancelledAt *time.Time

	// DeactivateProperty sets is_active=false on the booked property in the
	// same transaction.
	DeactivateProperty bool
}

type BookingRepository interface {
	// Create returns utils.ErrCodeTaken when the booking code collides and
	// utils.ErrLiveBookingExists when the tenant already holds a live
	// booking for the property.
	Create(ctx context.Context, b *models.Booking) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	MaxBookingCode(ctx context.Context) (string, error)
	HasLiveBooking(ctx context.Context, tenantID, propertyID uuid.UUID) (bool, error)
	HasOccupyingBooking(ctx context.Context, propertyID uuid.UUID) (bool, error)

	// TransitionAtomic moves the booking to t.To only if its current status
	// is in from. Returns (nil, nil) when no row matched.
	TransitionAtomic(ctx context.Context, id uuid.UUID, from []models.BookingStatusType, t BookingTransition) (*models.Booking, error)

	ListByTenant(ctx context.Context, tenantID uuid.UUID, status *models.BookingStatusType) ([]*models.Booking, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, status *models.BookingStatusType) ([]*models.Booking, error)
}

type bookingRepo struct {
	db DB
}

func NewBookingRepository(db DB) BookingRepository {
	return &bookingRepo{db: db}
}

func baseSelectBooking() string {
	return "SELECT " + bookingColumns + " FROM bookings"
}

const bookingColumns = `
            id, booking_code, property_id, tenant_id, owner_id,
            move_in_date, move_out_date, rental_period,
            monthly_rent, security_deposit, advance_rent, total_amount,
            status, tenant_message, owner_response, special_terms,
            rejection_reason, cancellation_reason, cancelled_by,
            accepted_at, rejected_at, confirmed_at, cancelled_at,
            created_at, updated_at
`

func scanBooking(row pgx.Row) (*models.Booking, error) {
	var b models.Booking
	err := row.Scan(
		&b.ID, &b.BookingCode, &b.PropertyID, &b.TenantID, &b.OwnerID,
		&b.MoveInDate, &b.MoveOutDate, &b.RentalPeriod,
		&b.MonthlyRent, &b.SecurityDeposit, &b.AdvanceRent, &b.TotalAmount,
		&b.Status, &b.TenantMessage, &b.OwnerResponse, &b.SpecialTerms,
		&b.RejectionReason, &b.CancellationReason, &b.CancelledBy,
		&b.AcceptedAt, &b.RejectedAt, &b.ConfirmedAt, &b.CancelledAt,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepo) Create(ctx context.Context, b *models.Booking) error {
	row := r.db.QueryRow(ctx, `
        INSERT INTO bookings (
            id, booking_code, property_id, tenant_id, owner_id,
            move_in_date, move_out_date, rental_period,
            monthly_rent, security_deposit, advance_rent, total_amount,
            status, tenant_message, created_at, updated_at
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14, NOW(), NOW())
        RETURNING created_at, updated_at
    `,
		b.ID, b.BookingCode, b.PropertyID, b.TenantID, b.OwnerID,
		b.MoveInDate, b.MoveOutDate, b.RentalPeriod,
		b.MonthlyRent, b.SecurityDeposit, b.AdvanceRent, b.TotalAmount,
		string(b.Status), b.TenantMessage,
	)
	err := row.Scan(&b.CreatedAt, &b.UpdatedAt)
	if code, constraint, ok := pgConstraintError(err); ok && code == pgUniqueViolation {
		switch constraint {
		case constraintBookingCode:
			return fmt.Errorf("booking code %s: %w", b.BookingCode, utils.ErrCodeTaken)
		case constraintOneLiveBooking:
			return utils.ErrLiveBookingExists
		}
	}
	return err
}

func (r *bookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	return scanBooking(r.db.QueryRow(ctx, baseSelectBooking()+" WHERE id=$1", id))
}

func (r *bookingRepo) MaxBookingCode(ctx context.Context) (string, error) {
	var code string
	err := r.db.QueryRow(ctx, `SELECT booking_code FROM bookings ORDER BY booking_code DESC LIMIT 1`).Scan(&code)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return code, err
}

func (r *bookingRepo) HasLiveBooking(ctx context.Context, tenantID, propertyID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM bookings
            WHERE tenant_id=$1 AND property_id=$2 AND status = ANY($3)
        )
    `, tenantID, propertyID, statusStrings(models.LiveBookingStatuses)).Scan(&exists)
	return exists, err
}

func (r *bookingRepo) HasOccupyingBooking(ctx context.Context, propertyID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM bookings WHERE property_id=$1 AND status = ANY($2))
    `, propertyID, statusStrings(models.OccupyingBookingStatuses)).Scan(&exists)
	return exists, err
}

func (r *bookingRepo) TransitionAtomic(
	ctx context.Context,
	id uuid.UUID,
	from []models.BookingStatusType,
	t BookingTransition,
) (*models.Booking, error) {
	var out *models.Booking
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
            UPDATE bookings SET
                status=$3,
                owner_response=COALESCE($4, owner_response),
                special_terms=COALESCE($5, special_terms),
                rejection_reason=COALESCE($6, rejection_reason),
                cancellation_reason=COALESCE($7, cancellation_reason),
                cancelled_by=COALESCE($8, cancelled_by),
                accepted_at=COALESCE($9, accepted_at),
                rejected_at=COALESCE($10, rejected_at),
                confirmed_at=COALESCE($11, confirmed_at),
                cancelled_at=COALESCE($12, cancelled_at),
                updated_at=NOW()
            WHERE id=$1 AND status = ANY($2)
            RETURNING `+bookingColumns,
			id, statusStrings(from), string(t.To),
			t.OwnerResponse, t.SpecialTerms, t.RejectionReason, t.CancellationReason, t.CancelledBy,
			t.AcceptedAt, t.RejectedAt, t.ConfirmedAt, t.CancelledAt,
		)
		b, err := scanBooking(row)
		if err != nil || b == nil {
			return err
		}

		if t.DeactivateProperty {
			if _, err := tx.Exec(ctx, `
                UPDATE properties
                SET is_active=FALSE, updated_at=NOW(), row_version=row_version+1
                WHERE id=$1
            `, b.PropertyID); err != nil {
				return err
			}
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *bookingRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID, status *models.BookingStatusType) ([]*models.Booking, error) {
	return r.list(ctx, "tenant_id", tenantID, status)
}

func (r *bookingRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, status *models.BookingStatusType) ([]*models.Booking, error) {
	return r.list(ctx, "owner_id", ownerID, status)
}

func (r *bookingRepo) list(ctx context.Context, column string, id uuid.UUID, status *models.BookingStatusType) ([]*models.Booking, error) {
	sql := baseSelectBooking() + " WHERE " + column + "=$1"
	args := []any{id}
	if status != nil {
		sql += " AND status=$2"
		args = append(args, string(*status))
	}
	sql += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
