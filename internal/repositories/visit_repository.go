package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

type VisitRepository interface {
	// CountOccupied returns, per slot label, the visits of the property on
	// date that hold a seat. Slots without visits are absent.
	CountOccupied(ctx context.Context, propertyID uuid.UUID, date time.Time) (map[string]int, error)

	// CreateWithinCapacity inserts v only when fewer than capacity seats of
	// its slot are taken, and bumps the property's visits_count. The property
	// row is locked for the duration so concurrent requests serialize.
	// Returns the seats left after admission, or admitted=false when full.
	CreateWithinCapacity(ctx context.Context, v *models.PropertyVisit, capacity int) (seatsLeft int, admitted bool, err error)

	GetByID(ctx context.Context, id uuid.UUID) (*models.PropertyVisit, error)

	// UpdateStatus assigns status unconditionally. Returns (nil, nil) when
	// the visit does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.VisitStatusType) (*models.PropertyVisit, error)

	// CancelAtomic cancels a visit that is not already cancelled and
	// decrements the property's visits_count. Returns (nil, nil) when no row
	// matched.
	CancelAtomic(ctx context.Context, id uuid.UUID) (*models.PropertyVisit, error)

	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.PropertyVisit, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.PropertyVisit, error)
}

type visitRepo struct {
	db DB
}

func NewVisitRepository(db DB) VisitRepository {
	return &visitRepo{db: db}
}

const visitColumns = `
            id, property_id, tenant_id, owner_id,
            visit_date, visit_time, status, notes,
            tenant_first_name, tenant_last_name, tenant_email, tenant_phone, tenant_profile_image,
            created_at, updated_at
`

func baseSelectVisit() string {
	return "SELECT " + visitColumns + " FROM property_visits"
}

func scanVisit(row pgx.Row) (*models.PropertyVisit, error) {
	var v models.PropertyVisit
	err := row.Scan(
		&v.ID, &v.PropertyID, &v.TenantID, &v.OwnerID,
		&v.VisitDate, &v.VisitTime, &v.Status, &v.Notes,
		&v.TenantDetails.FirstName, &v.TenantDetails.LastName, &v.TenantDetails.Email,
		&v.TenantDetails.Phone, &v.TenantDetails.ProfileImage,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *visitRepo) CountOccupied(ctx context.Context, propertyID uuid.UUID, date time.Time) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `
        SELECT visit_time, COUNT(*)
        FROM property_visits
        WHERE property_id=$1 AND visit_date=$2 AND status = ANY($3)
        GROUP BY visit_time
    `, propertyID, date, statusStrings(models.OccupyingVisitStatuses))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			slot  string
			count int
		)
		if err := rows.Scan(&slot, &count); err != nil {
			return nil, err
		}
		out[slot] = count
	}
	return out, rows.Err()
}

func (r *visitRepo) CreateWithinCapacity(ctx context.Context, v *models.PropertyVisit, capacity int) (int, bool, error) {
	var (
		seatsLeft int
		admitted  bool
	)
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		var ownerID uuid.UUID
		err := tx.QueryRow(ctx, `SELECT owner_id FROM properties WHERE id=$1 FOR UPDATE`, v.PropertyID).Scan(&ownerID)
		if errors.Is(err, pgx.ErrNoRows) {
			return utils.ErrPropertyGone
		}
		if err != nil {
			return err
		}

		var taken int
		if err := tx.QueryRow(ctx, `
            SELECT COUNT(*) FROM property_visits
            WHERE property_id=$1 AND visit_date=$2 AND visit_time=$3 AND status = ANY($4)
        `, v.PropertyID, v.VisitDate, v.VisitTime, statusStrings(models.OccupyingVisitStatuses)).Scan(&taken); err != nil {
			return err
		}
		if taken >= capacity {
			return nil
		}

		v.OwnerID = ownerID
		if err := tx.QueryRow(ctx, `
            INSERT INTO property_visits (
                id, property_id, tenant_id, owner_id,
                visit_date, visit_time, status, notes,
                tenant_first_name, tenant_last_name, tenant_email, tenant_phone, tenant_profile_image,
                created_at, updated_at
            ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13, NOW(), NOW())
            RETURNING created_at, updated_at
        `,
			v.ID, v.PropertyID, v.TenantID, v.OwnerID,
			v.VisitDate, v.VisitTime, string(v.Status), v.Notes,
			v.TenantDetails.FirstName, v.TenantDetails.LastName, v.TenantDetails.Email,
			v.TenantDetails.Phone, v.TenantDetails.ProfileImage,
		).Scan(&v.CreatedAt, &v.UpdatedAt); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `UPDATE properties SET visits_count=visits_count+1 WHERE id=$1`, v.PropertyID); err != nil {
			return err
		}

		admitted = true
		seatsLeft = capacity - taken - 1
		return nil
	})
	if err != nil {
		return 0, false, err
	}
	return seatsLeft, admitted, nil
}

func (r *visitRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.PropertyVisit, error) {
	return scanVisit(r.db.QueryRow(ctx, baseSelectVisit()+" WHERE id=$1", id))
}

func (r *visitRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status models.VisitStatusType) (*models.PropertyVisit, error) {
	row := r.db.QueryRow(ctx, `
        UPDATE property_visits SET status=$2, updated_at=NOW()
        WHERE id=$1
        RETURNING `+visitColumns, id, string(status))
	return scanVisit(row)
}

func (r *visitRepo) CancelAtomic(ctx context.Context, id uuid.UUID) (*models.PropertyVisit, error) {
	var out *models.PropertyVisit
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		v, err := scanVisit(tx.QueryRow(ctx, `
            UPDATE property_visits SET status=$2, updated_at=NOW()
            WHERE id=$1 AND status<>$2
            RETURNING `+visitColumns, id, string(models.VisitStatusCancelled)))
		if err != nil || v == nil {
			return err
		}
		if _, err := tx.Exec(ctx, `
            UPDATE properties SET visits_count=GREATEST(visits_count-1, 0) WHERE id=$1
        `, v.PropertyID); err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *visitRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.PropertyVisit, error) {
	return r.list(ctx, baseSelectVisit()+" WHERE tenant_id=$1 ORDER BY created_at DESC", tenantID)
}

func (r *visitRepo) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]*models.PropertyVisit, error) {
	return r.list(ctx, baseSelectVisit()+" WHERE property_id=$1 ORDER BY visit_date DESC, created_at DESC", propertyID)
}

func (r *visitRepo) list(ctx context.Context, sql string, args ...any) ([]*models.PropertyVisit, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.PropertyVisit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
