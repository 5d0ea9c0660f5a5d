// Package memory is a process-local implementation of the repository ports.
// It backs STORE_DRIVER=memory and the HTTP tests; data is lost on restart.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
)

// Store groups the in-memory repositories.
type Store struct {
	Users    *UserRepository
	Sessions *SessionRepository
	Cars     *CarRepository
	Bookings *BookingRepository
	Logs     *LogRepository
}

func NewStore() *Store {
	return &Store{
		Users:    &UserRepository{byID: map[string]*domain.User{}, byName: map[string]string{}},
		Sessions: &SessionRepository{sessions: map[string]domain.Session{}},
		Cars:     &CarRepository{cars: map[string]domain.Car{}},
		Bookings: &BookingRepository{bookings: map[string]domain.Booking{}},
		Logs:     &LogRepository{},
	}
}

func (s *Store) Ping(context.Context) error  { return nil }
func (s *Store) Close(context.Context) error { return nil }

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type UserRepository struct {
	mu     sync.RWMutex
	byID   map[string]*domain.User
	byName map[string]string
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	id, ok := r.byName[username]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byName[user.Username]; taken {
		return domain.ErrUserExists
	}
	clone := *user
	r.byID[user.ID] = &clone
	r.byName[user.Username] = user.ID
	return nil
}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

type SessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func (r *SessionRepository) Create(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.Token] = *s
	return nil
}

func (r *SessionRepository) FindByToken(_ context.Context, token string) (*domain.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (r *SessionRepository) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	return nil
}

// Backdate shifts a session's creation time. Tests use it to simulate expiry.
func (r *SessionRepository) Backdate(token string, by time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return false
	}
	s.CreatedAt = s.CreatedAt.Add(-by)
	r.sessions[token] = s
	return true
}

// ---------------------------------------------------------------------------
// Cars
// ---------------------------------------------------------------------------

type CarRepository struct {
	mu   sync.RWMutex
	cars map[string]domain.Car
}

func (r *CarRepository) List(_ context.Context) ([]*domain.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Car, 0, len(r.cars))
	for _, c := range r.cars {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Brand != out[j].Brand {
			return out[i].Brand < out[j].Brand
		}
		if out[i].Model != out[j].Model {
			return out[i].Model < out[j].Model
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *CarRepository) FindByID(_ context.Context, id string) (*domain.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cars[id]
	if !ok {
		return nil, domain.ErrCarNotFound
	}
	return &c, nil
}

func (r *CarRepository) Create(ctx context.Context, car *domain.Car) error {
	return r.CreateMany(ctx, []*domain.Car{car})
}

func (r *CarRepository) CreateMany(_ context.Context, cars []*domain.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range cars {
		r.cars[c.ID] = *c
	}
	return nil
}

func (r *CarRepository) Update(_ context.Context, id string, p domain.CarPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cars[id]
	if !ok {
		return domain.ErrCarNotFound
	}
	if p.Brand != nil {
		c.Brand = *p.Brand
	}
	if p.Model != nil {
		c.Model = *p.Model
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.PricePerDay != nil {
		c.PricePerDay = *p.PricePerDay
	}
	if p.Available != nil {
		c.Available = *p.Available
	}
	r.cars[id] = c
	return nil
}

func (r *CarRepository) SetAvailable(_ context.Context, id string, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cars[id]
	if !ok {
		return domain.ErrCarNotFound
	}
	c.Available = available
	r.cars[id] = c
	return nil
}

func (r *CarRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cars[id]; !ok {
		return domain.ErrCarNotFound
	}
	delete(r.cars, id)
	return nil
}

// ---------------------------------------------------------------------------
// Bookings
// ---------------------------------------------------------------------------

type BookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]domain.Booking
}

func (r *BookingRepository) Create(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = *b
	return nil
}

func (r *BookingRepository) FindByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return &b, nil
}

func (r *BookingRepository) ListByUser(_ context.Context, userID string) ([]*domain.Booking, error) {
	return r.filter(func(b *domain.Booking) bool { return b.UserID == userID }), nil
}

func (r *BookingRepository) List(_ context.Context) ([]*domain.Booking, error) {
	return r.filter(func(*domain.Booking) bool { return true }), nil
}

func (r *BookingRepository) filter(keep func(*domain.Booking) bool) []*domain.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		b := b
		if keep(&b) {
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *BookingRepository) UpdateDates(_ context.Context, id string, start, end time.Time, total float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return domain.ErrBookingNotFound
	}
	b.StartDate, b.EndDate, b.TotalPrice = start, end, total
	r.bookings[id] = b
	return nil
}

func (r *BookingRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return domain.ErrBookingNotFound
	}
	delete(r.bookings, id)
	return nil
}

// ---------------------------------------------------------------------------
// Audit log
// ---------------------------------------------------------------------------

type LogRepository struct {
	mu      sync.RWMutex
	entries []domain.LogEntry
}

func (r *LogRepository) Insert(_ context.Context, entry *domain.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

// List returns entries newest first; ties keep reverse insertion order.
func (r *LogRepository) List(_ context.Context) ([]*domain.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.LogEntry, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0; i-- {
		e := r.entries[i]
		out = append(out, &e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}
