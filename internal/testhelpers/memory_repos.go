package testhelpers

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"

	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/constants"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/models"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/repositories"
	"github.com/emaduddin678/Dhaka-City-To-Let-Backend-Server/internal/utils"
)

// MemoryStore is an in-memory stand-in for the database. Each repository is
// a view over it so cross-table effects (confirm deactivating a property,
// likes bumping likes_count) behave as they do in PostgreSQL. Tests may
// reach into the maps directly to arrange state.
type MemoryStore struct {
	mu  sync.Mutex
	seq time.Duration

	Properties map[uuid.UUID]*models.Property
	Bookings   map[uuid.UUID]*models.Booking
	Visits     map[uuid.UUID]*models.PropertyVisit
	Likes      map[[2]uuid.UUID]*models.PropertyLike
	Users      map[uuid.UUID]*models.User

	// TakenCodes makes Create report a collision for the listed codes once.
	TakenCodes map[string]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		Properties: map[uuid.UUID]*models.Property{},
		Bookings:   map[uuid.UUID]*models.Booking{},
		Visits:     map[uuid.UUID]*models.PropertyVisit{},
		Likes:      map[[2]uuid.UUID]*models.PropertyLike{},
		Users:      map[uuid.UUID]*models.User{},
		TakenCodes: map[string]bool{},
	}
}

func (s *MemoryStore) tick() time.Time {
	s.seq += time.Second
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(s.seq)
}

func copyProperty(p *models.Property) *models.Property {
	cp := *p
	cp.Images = append([]string{}, p.Images...)
	cp.Amenities = append([]models.Amenity{}, p.Amenities...)
	return &cp
}

func copyBooking(b *models.Booking) *models.Booking { cp := *b; return &cp }
func copyVisit(v *models.PropertyVisit) *models.PropertyVisit { cp := *v; return &cp }

func (s *MemoryStore) hasBookingIn(propertyID uuid.UUID, set []models.BookingStatusType) bool {
	for _, b := range s.Bookings {
		if b.PropertyID == propertyID && b.Status.In(set) {
			return true
		}
	}
	return false
}

// MemoryRepos bundles one of each repository over a shared store.
type MemoryRepos struct {
	Store      *MemoryStore
	Properties *MemoryPropertyRepo
	Bookings   *MemoryBookingRepo
	Visits     *MemoryVisitRepo
	Likes      *MemoryLikeRepo
	Users      *MemoryUserRepo
}

func NewMemoryRepos() *MemoryRepos {
	s := NewMemoryStore()
	return &MemoryRepos{
		Store:      s,
		Properties: &MemoryPropertyRepo{s: s},
		Bookings:   &MemoryBookingRepo{s: s},
		Visits:     &MemoryVisitRepo{s: s},
		Likes:      &MemoryLikeRepo{s: s},
		Users:      &MemoryUserRepo{s: s},
	}
}


type MemoryPropertyRepo struct{ s *MemoryStore }

var _ repositories.PropertyRepository = (*MemoryPropertyRepo)(nil)

func (r *MemoryPropertyRepo) Create(_ context.Context, p *models.Property) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.TakenCodes[p.PropertyCode] {
		delete(r.s.TakenCodes, p.PropertyCode)
		return utils.ErrCodeTaken
	}
	for _, existing := range r.s.Properties {
		if existing.PropertyCode == p.PropertyCode {
			return utils.ErrCodeTaken
		}
	}
	p.CreatedAt = r.s.tick()
	p.UpdatedAt = p.CreatedAt
	p.RowVersion = 1
	r.s.Properties[p.ID] = copyProperty(p)
	return nil
}

func (r *MemoryPropertyRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.Properties[id]
	if !ok {
		return nil, nil
	}
	return copyProperty(p), nil
}

func (r *MemoryPropertyRepo) GetByCode(_ context.Context, code string) (*models.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.Properties {
		if p.PropertyCode == code {
			return copyProperty(p), nil
		}
	}
	return nil, nil
}

func (r *MemoryPropertyRepo) MaxPropertyCode(context.Context) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	max := ""
	for _, p := range r.s.Properties {
		if p.PropertyCode > max {
			max = p.PropertyCode
		}
	}
	return max, nil
}

// matchesDuplicate evaluates q the way the SQL in FindDuplicate does.
func matchesDuplicate(q repositories.DuplicateQuery, p *models.Property) bool {
	if p.OwnerID != q.OwnerID || p.FloorNumber != q.FloorNumber || p.FlatNumber != q.FlatNumber {
		return false
	}
	if q.ExcludeID != nil && p.ID == *q.ExcludeID {
		return false
	}
	for _, m := range q.Address {
		if addressValue(p.Address, m.Field) != m.Value {
			return false
		}
	}
	return true
}

func addressValue(a models.Address, f repositories.AddressField) string {
	switch f {
	case repositories.AddrDivision:
		return a.Division
	case repositories.AddrDistrict:
		return a.District
	case repositories.AddrUpazila:
		return a.Upazila
	case repositories.AddrPostcode:
		return a.Postcode
	case repositories.AddrCityCorp:
		return a.CityCorp
	case repositories.AddrDhakaCitySubArea:
		return a.DhakaCitySubArea
	}
	return ""
}

func (r *MemoryPropertyRepo) FindDuplicate(_ context.Context, q repositories.DuplicateQuery) (*models.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found *models.Property
	for _, p := range r.s.Properties {
		if matchesDuplicate(q, p) && (found == nil || p.CreatedAt.Before(found.CreatedAt)) {
			found = p
		}
	}
	if found == nil {
		return nil, nil
	}
	return copyProperty(found), nil
}

func (r *MemoryPropertyRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, isActive *bool, limit, offset int) ([]*models.Property, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*models.Property
	for _, p := range r.s.Properties {
		if p.OwnerID != ownerID || (isActive != nil && p.IsActive != *isActive) {
			continue
		}
		all = append(all, copyProperty(p))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *MemoryPropertyRepo) UpdateIfVersion(_ context.Context, p *models.Property, expected int64) (pgconn.CommandTag, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.Properties[p.ID]
	if !ok || cur.RowVersion != expected {
		return pgconn.CommandTag("UPDATE 0"), nil
	}
	next := copyProperty(p)
	next.RowVersion = expected + 1
	next.UpdatedAt = r.s.tick()
	r.s.Properties[p.ID] = next
	return pgconn.CommandTag("UPDATE 1"), nil
}

func (r *MemoryPropertyRepo) UpdateWithRetry(ctx context.Context, id uuid.UUID, mutate func(*models.Property) error) error {
	return repositories.EditWithRetry(ctx, constants.MaxEditAttempts, id, r.GetByID, r.UpdateIfVersion, mutate)
}

func (r *MemoryPropertyRepo) ToggleActive(_ context.Context, id uuid.UUID) (*models.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.Properties[id]
	if !ok {
		return nil, nil
	}
	p.IsActive = !p.IsActive
	p.RowVersion++
	return copyProperty(p), nil
}

func (r *MemoryPropertyRepo) Approve(_ context.Context, id uuid.UUID) (*models.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.Properties[id]
	if !ok {
		return nil, nil
	}
	p.IsApproved = true
	p.RowVersion++
	return copyProperty(p), nil
}

func (r *MemoryPropertyRepo) IncrementViews(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.Properties[id]; ok {
		p.Views++
	}
	return nil
}

func (r *MemoryPropertyRepo) DeleteIfUnoccupied(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Properties[id]; !ok {
		return false, pgx.ErrNoRows
	}
	if r.s.hasBookingIn(id, models.OccupyingBookingStatuses) {
		return false, nil
	}
	delete(r.s.Properties, id)
	for k, l := range r.s.Likes {
		if l.PropertyID == id {
			delete(r.s.Likes, k)
		}
	}
	return true, nil
}

// ----------------------------------------------------------------------
// Bookings
// ----------------------------------------------------------------------

type MemoryBookingRepo struct{ s *MemoryStore }

var _ repositories.BookingRepository = (*MemoryBookingRepo)(nil)

func (r *MemoryBookingRepo) Create(_ context.Context, b *models.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.TakenCodes[b.BookingCode] {
		delete(r.s.TakenCodes, b.BookingCode)
		return utils.ErrCodeTaken
	}
	for _, existing := range r.s.Bookings {
		if existing.BookingCode == b.BookingCode {
			return utils.ErrCodeTaken
		}
		if existing.TenantID == b.TenantID && existing.PropertyID == b.PropertyID &&
			existing.Status.In(models.LiveBookingStatuses) && b.Status.In(models.LiveBookingStatuses) {
			return utils.ErrLiveBookingExists
		}
	}
	b.CreatedAt = r.s.tick()
	b.UpdatedAt = b.CreatedAt
	r.s.Bookings[b.ID] = copyBooking(b)
	return nil
}

func (r *MemoryBookingRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.Bookings[id]
	if !ok {
		return nil, nil
	}
	return copyBooking(b), nil
}

func (r *MemoryBookingRepo) MaxBookingCode(context.Context) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	max := ""
	for _, b := range r.s.Bookings {
		if b.BookingCode > max {
			max = b.BookingCode
		}
	}
	return max, nil
}

func (r *MemoryBookingRepo) HasLiveBooking(_ context.Context, tenantID, propertyID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, b := range r.s.Bookings {
		if b.TenantID == tenantID && b.PropertyID == propertyID && b.Status.In(models.LiveBookingStatuses) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryBookingRepo) HasOccupyingBooking(_ context.Context, propertyID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.hasBookingIn(propertyID, models.OccupyingBookingStatuses), nil
}

func (r *MemoryBookingRepo) TransitionAtomic(_ context.Context, id uuid.UUID, from []models.BookingStatusType, t repositories.BookingTransition) (*models.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.Bookings[id]
	if !ok || !b.Status.In(from) {
		return nil, nil
	}
	b.Status = t.To
	if t.OwnerResponse != nil {
		b.OwnerResponse = *t.OwnerResponse
	}
	if t.SpecialTerms != nil {
		b.SpecialTerms = *t.SpecialTerms
	}
	if t.RejectionReason != nil {
		b.RejectionReason = *t.RejectionReason
	}
	if t.CancellationReason != nil {
		b.CancellationReason = *t.CancellationReason
	}
	if t.CancelledBy != nil {
		by := *t.CancelledBy
		b.CancelledBy = &by
	}
	if t.AcceptedAt != nil {
		b.AcceptedAt = t.AcceptedAt
	}
	if t.RejectedAt != nil {
		b.RejectedAt = t.RejectedAt
	}
	if t.ConfirmedAt != nil {
		b.ConfirmedAt = t.ConfirmedAt
	}
	if t.CancelledAt != nil {
		b.CancelledAt = t.CancelledAt
	}
	b.UpdatedAt = r.s.tick()
	if t.DeactivateProperty {
		if p, ok := r.s.Properties[b.PropertyID]; ok {
			p.IsActive = false
			p.RowVersion++
		}
	}
	return copyBooking(b), nil
}

func (r *MemoryBookingRepo) ListByTenant(_ context.Context, tenantID uuid.UUID, status *models.BookingStatusType) ([]*models.Booking, error) {
	return r.list(func(b *models.Booking) bool { return b.TenantID == tenantID }, status), nil
}

func (r *MemoryBookingRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, status *models.BookingStatusType) ([]*models.Booking, error) {
	return r.list(func(b *models.Booking) bool { return b.OwnerID == ownerID }, status), nil
}

func (r *MemoryBookingRepo) list(match func(*models.Booking) bool, status *models.BookingStatusType) []*models.Booking {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Booking
	for _, b := range r.s.Bookings {
		if match(b) && (status == nil || b.Status == *status) {
			out = append(out, copyBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// ----------------------------------------------------------------------
// Visits
// ----------------------------------------------------------------------

type MemoryVisitRepo struct{ s *MemoryStore }

var _ repositories.VisitRepository = (*MemoryVisitRepo)(nil)

func (r *MemoryVisitRepo) occupied(propertyID uuid.UUID, date time.Time, slot string) int {
	n := 0
	for _, v := range r.s.Visits {
		if v.PropertyID == propertyID && v.VisitDate.Equal(date) && v.VisitTime == slot &&
			v.Status.In(models.OccupyingVisitStatuses) {
			n++
		}
	}
	return n
}

func (r *MemoryVisitRepo) CountOccupied(_ context.Context, propertyID uuid.UUID, date time.Time) (map[string]int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := map[string]int{}
	for _, v := range r.s.Visits {
		if v.PropertyID == propertyID && v.VisitDate.Equal(date) && v.Status.In(models.OccupyingVisitStatuses) {
			out[v.VisitTime]++
		}
	}
	return out, nil
}

func (r *MemoryVisitRepo) CreateWithinCapacity(_ context.Context, v *models.PropertyVisit, capacity int) (int, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.Properties[v.PropertyID]
	if !ok {
		return 0, false, utils.ErrPropertyGone
	}
	taken := r.occupied(v.PropertyID, v.VisitDate, v.VisitTime)
	if taken >= capacity {
		return 0, false, nil
	}
	v.OwnerID = p.OwnerID
	v.CreatedAt = r.s.tick()
	v.UpdatedAt = v.CreatedAt
	r.s.Visits[v.ID] = copyVisit(v)
	p.VisitsCount++
	return capacity - taken - 1, true, nil
}

func (r *MemoryVisitRepo) GetByID(_ context.Context, id uuid.UUID) (*models.PropertyVisit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.Visits[id]
	if !ok {
		return nil, nil
	}
	return copyVisit(v), nil
}

func (r *MemoryVisitRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.VisitStatusType) (*models.PropertyVisit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.Visits[id]
	if !ok {
		return nil, nil
	}
	v.Status = status
	v.UpdatedAt = r.s.tick()
	return copyVisit(v), nil
}

func (r *MemoryVisitRepo) CancelAtomic(_ context.Context, id uuid.UUID) (*models.PropertyVisit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.Visits[id]
	if !ok || v.Status == models.VisitStatusCancelled {
		return nil, nil
	}
	v.Status = models.VisitStatusCancelled
	v.UpdatedAt = r.s.tick()
	if p, ok := r.s.Properties[v.PropertyID]; ok && p.VisitsCount > 0 {
		p.VisitsCount--
	}
	return copyVisit(v), nil
}

func (r *MemoryVisitRepo) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]*models.PropertyVisit, error) {
	return r.list(func(v *models.PropertyVisit) bool { return v.TenantID == tenantID }), nil
}

func (r *MemoryVisitRepo) ListByProperty(_ context.Context, propertyID uuid.UUID) ([]*models.PropertyVisit, error) {
	return r.list(func(v *models.PropertyVisit) bool { return v.PropertyID == propertyID }), nil
}

func (r *MemoryVisitRepo) list(match func(*models.PropertyVisit) bool) []*models.PropertyVisit {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.PropertyVisit
	for _, v := range r.s.Visits {
		if match(v) {
			out = append(out, copyVisit(v))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// ----------------------------------------------------------------------
// Likes
// ----------------------------------------------------------------------

type MemoryLikeRepo struct{ s *MemoryStore }

var _ repositories.LikeRepository = (*MemoryLikeRepo)(nil)

func (r *MemoryLikeRepo) Create(_ context.Context, l *models.PropertyLike) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := [2]uuid.UUID{l.UserID, l.PropertyID}
	if _, ok := r.s.Likes[key]; ok {
		return utils.ErrAlreadyLiked
	}
	p, ok := r.s.Properties[l.PropertyID]
	if !ok {
		return utils.ErrPropertyGone
	}
	l.CreatedAt = r.s.tick()
	cp := *l
	r.s.Likes[key] = &cp
	p.LikesCount++
	return nil
}

func (r *MemoryLikeRepo) Delete(_ context.Context, userID, propertyID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := [2]uuid.UUID{userID, propertyID}
	if _, ok := r.s.Likes[key]; !ok {
		return false, nil
	}
	delete(r.s.Likes, key)
	return true, nil
}

func (r *MemoryLikeRepo) Exists(_ context.Context, userID, propertyID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.Likes[[2]uuid.UUID{userID, propertyID}]
	return ok, nil
}

func (r *MemoryLikeRepo) CountByProperties(_ context.Context, propertyIDs []uuid.UUID) ([]models.LikeCount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.LikeCount, 0, len(propertyIDs))
	for _, id := range propertyIDs {
		c := models.LikeCount{PropertyID: id}
		for _, l := range r.s.Likes {
			if l.PropertyID == id {
				c.Count++
			}
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *MemoryLikeRepo) ListLikedProperties(_ context.Context, userID uuid.UUID) ([]*models.Property, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var mine []*models.PropertyLike
	for _, l := range r.s.Likes {
		if l.UserID == userID {
			mine = append(mine, l)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })

	var out []*models.Property
	for _, l := range mine {
		if p, ok := r.s.Properties[l.PropertyID]; ok {
			out = append(out, copyProperty(p))
		}
	}
	return out, nil
}

// ----------------------------------------------------------------------
// Users
// ----------------------------------------------------------------------

type MemoryUserRepo struct{ s *MemoryStore }

var _ repositories.UserRepository = (*MemoryUserRepo)(nil)

func (r *MemoryUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.Users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *MemoryUserRepo) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *u
	r.s.Users[u.ID] = &cp
	return nil
}

