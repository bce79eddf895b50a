package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ListFilter narrows a booking listing.
type ListFilter struct {
	Limit      int
	Offset     int
	TasterDate string
}

// Repository defines the interface for booking storage
type Repository interface {
	Create(ctx context.Context, req *CreateBookingRequest) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter ListFilter) ([]*Booking, error)
}

// InMemoryRepository is a stub implementation of Repository using in-memory storage
type InMemoryRepository struct {
	mu       sync.RWMutex
	bookings map[string]*Booking
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		bookings: make(map[string]*Booking),
	}
}

// Create stores a new booking in memory
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateBookingRequest) (*Booking, error) {
	booking := req.toBooking(uuid.New().String(), time.Now().UTC())

	r.mu.Lock()
	r.bookings[booking.ID] = booking
	r.mu.Unlock()

	return booking, nil
}

// GetByID retrieves a booking by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	booking, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return booking, nil
}

// List returns bookings newest first, honouring the filter.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Booking, error) {
	r.mu.RLock()
	all := make([]*Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		if filter.TasterDate != "" && b.TasterDate != filter.TasterDate {
			continue
		}
		all = append(all, b)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if filter.Offset >= len(all) {
		return []*Booking{}, nil
	}
	all = all[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(all) {
		all = all[:filter.Limit]
	}
	return all, nil
}
