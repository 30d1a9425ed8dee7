package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"costaverde/internal/db"
	"costaverde/internal/entities"
	apperrors "costaverde/internal/errors"
	"costaverde/internal/interval"
)

type memTxKey struct{}

// MemoryStore keeps resources and reservations in process memory behind a
// single mutex, so a reserve attempt's check-then-insert runs as one critical
// section. It backs tests and small single-node deployments.
type MemoryStore struct {
	mu           sync.Mutex
	resources    map[string]*db.Resource
	reservations map[string]*db.Reservation // by code
	nextID       int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		resources:    make(map[string]*db.Resource),
		reservations: make(map[string]*db.Reservation),
		nextID:       1,
	}
}

// WithTx holds the store lock for the whole of fn, serializing it against
// every other operation.
func (s *MemoryStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(context.WithValue(ctx, memTxKey{}, struct{}{}))
}

func (s *MemoryStore) lock(ctx context.Context) func() {
	if ctx.Value(memTxKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *MemoryStore) CreateResource(ctx context.Context, res *db.Resource) error {
	defer s.lock(ctx)()
	if _, ok := s.resources[res.ID]; ok {
		return fmt.Errorf("resource %s already exists", res.ID)
	}
	cp := *res
	s.resources[res.ID] = &cp
	return nil
}

func (s *MemoryStore) UpdateResource(ctx context.Context, res *db.Resource) error {
	defer s.lock(ctx)()
	existing, ok := s.resources[res.ID]
	if !ok {
		return fmt.Errorf("resource: %w", apperrors.ErrNotFound)
	}
	cp := *res
	cp.Kind = existing.Kind
	cp.CreatedAt = existing.CreatedAt
	s.resources[res.ID] = &cp
	return nil
}

func (s *MemoryStore) DeleteResource(ctx context.Context, id string) error {
	defer s.lock(ctx)()
	if _, ok := s.resources[id]; !ok {
		return fmt.Errorf("resource: %w", apperrors.ErrNotFound)
	}
	delete(s.resources, id)
	return nil
}

func (s *MemoryStore) SetResourceAvailability(ctx context.Context, id string, isAvailable bool, updatedAt time.Time) error {
	defer s.lock(ctx)()
	res, ok := s.resources[id]
	if !ok {
		return fmt.Errorf("resource: %w", apperrors.ErrNotFound)
	}
	res.IsAvailable = isAvailable
	res.UpdatedAt = updatedAt
	return nil
}

func (s *MemoryStore) GetResource(ctx context.Context, id string) (*db.Resource, error) {
	defer s.lock(ctx)()
	res, ok := s.resources[id]
	if !ok {
		return nil, fmt.Errorf("resource: %w", apperrors.ErrNotFound)
	}
	cp := *res
	return &cp, nil
}

// GetResourceForUpdate matches the Postgres store's row-lock contract; the
// store mutex held by WithTx already provides the exclusion.
func (s *MemoryStore) GetResourceForUpdate(ctx context.Context, id string) (*db.Resource, error) {
	return s.GetResource(ctx, id)
}

func (s *MemoryStore) ListResources(ctx context.Context, kind string) ([]db.Resource, error) {
	defer s.lock(ctx)()
	var out []db.Resource
	for _, res := range s.resources {
		if kind != "" && res.Kind != kind {
			continue
		}
		out = append(out, *res)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *MemoryStore) ListActiveIntervals(ctx context.Context, resourceID string) ([]interval.Interval, error) {
	defer s.lock(ctx)()
	var out []interval.Interval
	for _, r := range s.reservations {
		if r.ResourceID == resourceID && r.Occupying() {
			out = append(out, interval.Interval{Start: r.StartTime, End: r.EndTime})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (s *MemoryStore) CreateReservation(ctx context.Context, res *db.Reservation) error {
	defer s.lock(ctx)()
	if _, ok := s.reservations[res.Code]; ok {
		return fmt.Errorf("reservation %s already exists", res.Code)
	}
	res.ID = s.nextID
	s.nextID++
	cp := *res
	s.reservations[res.Code] = &cp
	return nil
}

func (s *MemoryStore) GetReservationByCode(ctx context.Context, code string) (*db.Reservation, error) {
	defer s.lock(ctx)()
	return s.getLocked(code)
}

func (s *MemoryStore) GetReservationForUpdate(ctx context.Context, code string) (*db.Reservation, error) {
	return s.GetReservationByCode(ctx, code)
}

func (s *MemoryStore) getLocked(code string) (*db.Reservation, error) {
	r, ok := s.reservations[code]
	if !ok {
		return nil, fmt.Errorf("reservation: %w", apperrors.ErrNotFound)
	}
	cp := *r
	return &cp, nil
}

func (s *MemoryStore) UpdateReservationStatus(ctx context.Context, code, status string, updatedAt time.Time) error {
	defer s.lock(ctx)()
	r, ok := s.reservations[code]
	if !ok {
		return fmt.Errorf("reservation: %w", apperrors.ErrNotFound)
	}
	r.Status = status
	r.UpdatedAt = updatedAt
	return nil
}

func (s *MemoryStore) UpdateReservationPayment(ctx context.Context, code, paymentStatus string, depositReturned bool, updatedAt time.Time) error {
	defer s.lock(ctx)()
	r, ok := s.reservations[code]
	if !ok {
		return fmt.Errorf("reservation: %w", apperrors.ErrNotFound)
	}
	r.PaymentStatus = paymentStatus
	r.DepositReturned = depositReturned
	r.UpdatedAt = updatedAt
	return nil
}

func (s *MemoryStore) ListReservations(ctx context.Context, filter entities.ReservationFilter) ([]*db.Reservation, error) {
	defer s.lock(ctx)()
	var out []*db.Reservation
	for _, r := range s.reservations {
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.PaymentStatus != "" && r.PaymentStatus != filter.PaymentStatus {
			continue
		}
		if !filter.From.IsZero() && !r.EndTime.After(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !r.StartTime.Before(filter.To) {
			continue
		}
		if filter.Search != "" && !matchesSearch(r, filter.Search) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

func matchesSearch(r *db.Reservation, search string) bool {
	search = strings.ToLower(search)
	return strings.Contains(strings.ToLower(r.Code), search) ||
		strings.Contains(strings.ToLower(r.GuestName), search) ||
		strings.Contains(strings.ToLower(r.GuestEmail), search)
}

func (s *MemoryStore) CountOccupyingReservations(ctx context.Context, resourceID string) (int, error) {
	defer s.lock(ctx)()
	n := 0
	for _, r := range s.reservations {
		if r.ResourceID == resourceID && r.Occupying() {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) ListElapsedActiveRentals(ctx context.Context, now time.Time) ([]*db.Reservation, error) {
	defer s.lock(ctx)()
	var out []*db.Reservation
	for _, r := range s.reservations {
		if r.ResourceKind == db.KindVehicle && r.Status == db.StatusActive && r.EndTime.Before(now) {
			cp := *r
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) UpdateReservationStatuses(ctx context.Context, ids []int, newStatus string, updatedAt time.Time) error {
	defer s.lock(ctx)()
	for _, r := range s.reservations {
		for _, id := range ids {
			if r.ID == id {
				r.Status = newStatus
				r.UpdatedAt = updatedAt
			}
		}
	}
	return nil
}
