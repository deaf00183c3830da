package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

/* ------------------------------------------------------------------
   Duplicate lookups
------------------------------------------------------------------ */

// AddressField names a stored address column usable in a duplicate lookup.
type AddressField string

const (
	AddrDivision         AddressField = "addr_division"
	AddrDistrict         AddressField = "addr_district"
	AddrUpazila          AddressField = "addr_upazila"
	AddrPostcode         AddressField = "addr_postcode"
	AddrCityCorp         AddressField = "addr_city_corp"
	AddrDhakaCitySubArea AddressField = "addr_dhaka_city_sub_area"
)

type AddressMatch struct {
	Field AddressField
	Value string
}

// DuplicateQuery is an exact-match filter over one owner's properties.
type DuplicateQuery struct {
	OwnerID     uuid.UUID
	FloorNumber int
	FlatNumber  string
	Address     []AddressMatch
	ExcludeID   *uuid.UUID
}

/* ------------------------------------------------------------------
   Public interface
------------------------------------------------------------------ */

type PropertyRepository interface {
	Create(ctx context.Context, p *models.Property) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
	GetByCode(ctx context.Context, code string) (*models.Property, error)
	MaxPropertyCode(ctx context.Context) (string, error)
	FindDuplicate(ctx context.Context, q DuplicateQuery) (*models.Property, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, isActive *bool, limit, offset int) ([]*models.Property, int64, error)

	UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error)
	UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error

	ToggleActive(ctx context.Context, id uuid.UUID) (*models.Property, error)
	Approve(ctx context.Context, id uuid.UUID) (*models.Property, error)
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// DeleteIfUnoccupied removes the property unless a confirmed or active
	// booking references it. Returns (false, nil) when such a booking exists
	// and pgx.ErrNoRows when the property does not.
	DeleteIfUnoccupied(ctx context.Context, id uuid.UUID) (bool, error)
}

/* ------------------------------------------------------------------
   Implementation
------------------------------------------------------------------ */

type propertyRepo struct {
	rows versionedTable[*models.Property]
	db   DB
}

func NewPropertyRepository(db DB) PropertyRepository {
	return &propertyRepo{
		rows: newVersionedTable(db, baseSelectProperty()+" WHERE id=$1", scanProperty),
		db:   db,
	}
}

func (r *propertyRepo) Create(ctx context.Context, p *models.Property) error {
	amenities, err := json.Marshal(nonNilAmenities(p.Amenities))
	if err != nil {
		return err
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}

	_, err = r.db.Exec(ctx, `
        INSERT INTO properties (
            id, property_code, owner_id,
            title, description, property_type, category, property_for, furnished_status,
            availability_date, amenities, property_size, price, is_negotiable,
            addr_division, addr_district, addr_upazila, addr_postcode,
            addr_city_corp, addr_dhaka_city_sub_area, addr_line,
            bedrooms, bathrooms, floor_number, flat_number,
            drawing_room, dining_room, balconies, images,
            is_active, is_approved, is_featured,
            created_at, updated_at, row_version
        ) VALUES (
            $1,$2,$3,
            $4,$5,$6,$7,$8,$9,
            $10,$11,$12,$13,$14,
            $15,$16,$17,$18,
            $19,$20,$21,
            $22,$23,$24,$25,
            $26,$27,$28,$29,
            $30,$31,$32,
            NOW(), NOW(), 1
        )
    `,
		p.ID, p.PropertyCode, p.OwnerID,
		p.Title, p.Description, p.PropertyType, p.Category, p.PropertyFor, p.FurnishedStatus,
		p.AvailabilityDate, string(amenities), p.PropertySize, p.Price, p.IsNegotiable,
		p.Address.Division, p.Address.District, p.Address.Upazila, p.Address.Postcode,
		p.Address.CityCorp, p.Address.DhakaCitySubArea, p.Address.AddressLine,
		p.Bedrooms, p.Bathrooms, p.FloorNumber, p.FlatNumber,
		p.DrawingRoom, p.DiningRoom, p.Balconies, images,
		p.IsActive, p.IsApproved, p.IsFeatured,
	)
	if code, constraint, ok := pgConstraintError(err); ok && code == pgUniqueViolation && constraint == constraintPropertyCode {
		return fmt.Errorf("property code %s: %w", p.PropertyCode, utils.ErrCodeTaken)
	}
	if err != nil {
		return err
	}
	p.RowVersion = 1
	return nil
}

func (r *propertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	return r.rows.load(ctx, id)
}

func (r *propertyRepo) GetByCode(ctx context.Context, code string) (*models.Property, error) {
	row := r.db.QueryRow(ctx, baseSelectProperty()+" WHERE property_code=$1", code)
	return scanProperty(row)
}

// MaxPropertyCode returns "" when no property exists. Codes are fixed width,
// so text ordering is letters-then-digits ordering.
func (r *propertyRepo) MaxPropertyCode(ctx context.Context) (string, error) {
	var code string
	err := r.db.QueryRow(ctx, `SELECT property_code FROM properties ORDER BY property_code DESC LIMIT 1`).Scan(&code)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	return code, err
}

func (r *propertyRepo) FindDuplicate(ctx context.Context, q DuplicateQuery) (*models.Property, error) {
	var sb strings.Builder
	sb.WriteString(" WHERE owner_id=$1 AND floor_number=$2 AND flat_number=$3")
	args := []any{q.OwnerID, q.FloorNumber, q.FlatNumber}
	for _, m := range q.Address {
		args = append(args, m.Value)
		fmt.Fprintf(&sb, " AND %s=$%d", m.Field, len(args))
	}
	if q.ExcludeID != nil {
		args = append(args, *q.ExcludeID)
		fmt.Fprintf(&sb, " AND id<>$%d", len(args))
	}
	sb.WriteString(" ORDER BY created_at LIMIT 1")

	row := r.db.QueryRow(ctx, baseSelectProperty()+sb.String(), args...)
	return scanProperty(row)
}

func (r *propertyRepo) ListByOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	isActive *bool,
	limit, offset int,
) ([]*models.Property, int64, error) {
	where := " WHERE owner_id=$1"
	args := []any{ownerID}
	if isActive != nil {
		where += " AND is_active=$2"
		args = append(args, *isActive)
	}

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM properties"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	sql := fmt.Sprintf("%s%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		baseSelectProperty(), where, len(args)-1, len(args))
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*models.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *propertyRepo) UpdateIfVersion(ctx context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error) {
	amenities, err := json.Marshal(nonNilAmenities(p.Amenities))
	if err != nil {
		return nil, err
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return r.db.Exec(ctx, `
        UPDATE properties SET
            title=$1, description=$2, property_type=$3, category=$4, property_for=$5,
            furnished_status=$6, availability_date=$7, amenities=$8, property_size=$9,
            price=$10, is_negotiable=$11,
            addr_division=$12, addr_district=$13, addr_upazila=$14, addr_postcode=$15,
            addr_city_corp=$16, addr_dhaka_city_sub_area=$17, addr_line=$18,
            bedrooms=$19, bathrooms=$20, floor_number=$21, flat_number=$22,
            drawing_room=$23, dining_room=$24, balconies=$25, images=$26,
            updated_at=NOW(), row_version=row_version+1
        WHERE id=$27 AND row_version=$28
    `,
		p.Title, p.Description, p.PropertyType, p.Category, p.PropertyFor,
		p.FurnishedStatus, p.AvailabilityDate, string(amenities), p.PropertySize,
		p.Price, p.IsNegotiable,
		p.Address.Division, p.Address.District, p.Address.Upazila, p.Address.Postcode,
		p.Address.CityCorp, p.Address.DhakaCitySubArea, p.Address.AddressLine,
		p.Bedrooms, p.Bathrooms, p.FloorNumber, p.FlatNumber,
		p.DrawingRoom, p.DiningRoom, p.Balconies, images,
		p.ID, expected,
	)
}

func (r *propertyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error {
	return r.rows.edit(ctx, id, r.UpdateIfVersion, mutate)
}

func (r *propertyRepo) ToggleActive(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	row := r.db.QueryRow(ctx, `
        UPDATE properties
        SET is_active = NOT is_active, updated_at=NOW(), row_version=row_version+1
        WHERE id=$1
        RETURNING `+propertyColumns, id)
	return scanProperty(row)
}

func (r *propertyRepo) Approve(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	row := r.db.QueryRow(ctx, `
        UPDATE properties
        SET is_approved=TRUE, updated_at=NOW(), row_version=row_version+1
        WHERE id=$1
        RETURNING `+propertyColumns, id)
	return scanProperty(row)
}

func (r *propertyRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, `UPDATE properties SET views=views+1 WHERE id=$1`, id)
	return err
}

func (r *propertyRepo) DeleteIfUnoccupied(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted := false
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		var lockedID uuid.UUID
		if err := tx.QueryRow(ctx, `SELECT id FROM properties WHERE id=$1 FOR UPDATE`, id).Scan(&lockedID); err != nil {
			return err
		}

		var occupied bool
		if err := tx.QueryRow(ctx, `
            SELECT EXISTS (SELECT 1 FROM bookings WHERE property_id=$1 AND status = ANY($2))
        `, id, statusStrings(models.OccupyingBookingStatuses)).Scan(&occupied); err != nil {
			return err
		}
		if occupied {
			return nil
		}

		if _, err := tx.Exec(ctx, `DELETE FROM properties WHERE id=$1`, id); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}

const propertyColumns = `
            id, property_code, owner_id,
            title, description, property_type, category, property_for, furnished_status,
            availability_date, amenities, property_size, price, is_negotiable,
            addr_division, addr_district, addr_upazila, addr_postcode,
            addr_city_corp, addr_dhaka_city_sub_area, addr_line,
            bedrooms, bathrooms, floor_number, flat_number,
            drawing_room, dining_room, balconies, images,
            is_active, is_approved, is_featured,
            views, likes_count, visits_count,
            created_at, updated_at, row_version
`

func baseSelectProperty() string {
	return "SELECT " + propertyColumns + " FROM properties"
}

func scanProperty(row pgx.Row) (*models.Property, error) {
	var (
		p         models.Property
		amenities []byte
	)
	err := row.Scan(
		&p.ID, &p.PropertyCode, &p.OwnerID,
		&p.Title, &p.Description, &p.PropertyType, &p.Category, &p.PropertyFor, &p.FurnishedStatus,
		&p.AvailabilityDate, &amenities, &p.PropertySize, &p.Price, &p.IsNegotiable,
		&p.Address.Division, &p.Address.District, &p.Address.Upazila, &p.Address.Postcode,
		&p.Address.CityCorp, &p.Address.DhakaCitySubArea, &p.Address.AddressLine,
		&p.Bedrooms, &p.Bathrooms, &p.FloorNumber, &p.FlatNumber,
		&p.DrawingRoom, &p.DiningRoom, &p.Balconies, &p.Images,
		&p.IsActive, &p.IsApproved, &p.IsFeatured,
		&p.Views, &p.LikesCount, &p.VisitsCount,
		&p.CreatedAt, &p.UpdatedAt, &p.RowVersion,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if len(amenities) > 0 {
		if err := json.Unmarshal(amenities, &p.Amenities); err != nil {
			return nil, fmt.Errorf("decode amenities for %s: %w", p.ID, err)
		}
	}
	return &p, nil
}

func nonNilAmenities(in []models.Amenity) []models.Amenity {
	if in == nil {
		return []models.Amenity{}
	}
	return in
}
