package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.User
	byName map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byID: map[string]*domain.User{}, byName: map[string]*domain.User{}}
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byName[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[user.Username]; exists {
		return domain.ErrUserExists
	}
	clone := *user
	r.byID[user.ID] = &clone
	r.byName[user.Username] = &clone
	return nil
}

func (r *stubUserRepo) remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byID[id]; ok {
		delete(r.byName, u.Username)
		delete(r.byID, id)
	}
}

type stubSessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	deleted  []string
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{sessions: map[string]*domain.Session{}}
}

func (r *stubSessionRepo) Create(_ context.Context, s *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *s
	r.sessions[s.Token] = &clone
	return nil
}

func (r *stubSessionRepo) FindByToken(_ context.Context, token string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *s
	return &clone, nil
}

func (r *stubSessionRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, token)
	r.deleted = append(r.deleted, token)
	return nil
}

func (r *stubSessionRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

type stubCarRepo struct {
	mu        sync.Mutex
	cars      map[string]*domain.Car
	creates   int
	createErr error
	// findHook runs after a car is read and before it is returned.
	findHook func()
}

func newStubCarRepo(cars ...*domain.Car) *stubCarRepo {
	r := &stubCarRepo{cars: map[string]*domain.Car{}}
	for _, c := range cars {
		clone := *c
		r.cars[c.ID] = &clone
	}
	return r
}

func (r *stubCarRepo) List(_ context.Context) ([]*domain.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Car, 0, len(r.cars))
	for _, c := range r.cars {
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubCarRepo) FindByID(_ context.Context, id string) (*domain.Car, error) {
	r.mu.Lock()
	c, ok := r.cars[id]
	var clone domain.Car
	if ok {
		clone = *c
	}
	hook := r.findHook
	r.mu.Unlock()

	if !ok {
		return nil, domain.ErrCarNotFound
	}
	if hook != nil {
		hook()
	}
	return &clone, nil
}

func (r *stubCarRepo) Create(_ context.Context, car *domain.Car) error {
	return r.CreateMany(context.Background(), []*domain.Car{car})
}

func (r *stubCarRepo) CreateMany(_ context.Context, cars []*domain.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.creates++
	for _, c := range cars {
		clone := *c
		r.cars[c.ID] = &clone
	}
	return nil
}

func (r *stubCarRepo) Update(_ context.Context, id string, p domain.CarPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cars[id]
	if !ok {
		return domain.ErrCarNotFound
	}
	applyPatch(c, p)
	return nil
}

func (r *stubCarRepo) SetAvailable(_ context.Context, id string, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cars[id]
	if !ok {
		return domain.ErrCarNotFound
	}
	c.Available = available
	return nil
}

func (r *stubCarRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cars[id]; !ok {
		return domain.ErrCarNotFound
	}
	delete(r.cars, id)
	return nil
}

func (r *stubCarRepo) get(id string) *domain.Car {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cars[id]
	if !ok {
		return nil
	}
	clone := *c
	return &clone
}

type stubBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*domain.Booking
}

func newStubBookingRepo(bookings ...*domain.Booking) *stubBookingRepo {
	r := &stubBookingRepo{bookings: map[string]*domain.Booking{}}
	for _, b := range bookings {
		clone := *b
		r.bookings[b.ID] = &clone
	}
	return r
}

func (r *stubBookingRepo) Create(_ context.Context, b *domain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *b
	r.bookings[b.ID] = &clone
	return nil
}

func (r *stubBookingRepo) FindByID(_ context.Context, id string) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *stubBookingRepo) ListByUser(_ context.Context, userID string) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			clone := *b
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubBookingRepo) List(_ context.Context) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Booking, 0, len(r.bookings))
	for _, b := range r.bookings {
		clone := *b
		out = append(out, &clone)
	}
	return out, nil
}

func (r *stubBookingRepo) UpdateDates(_ context.Context, id string, start, end time.Time, total float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return domain.ErrBookingNotFound
	}
	b.StartDate, b.EndDate, b.TotalPrice = start, end, total
	return nil
}

func (r *stubBookingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bookings, id)
	return nil
}

func (r *stubBookingRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

type stubPublisher struct {
	mu     sync.Mutex
	events []ports.BookingEvent
	err    error
}

func (p *stubPublisher) Publish(_ context.Context, e ports.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

var (
	alice      = domain.Identity{ID: "u-alice", Username: "alice", Role: domain.RoleUser}
	bob        = domain.Identity{ID: "u-bob", Username: "bob", Role: domain.RoleUser}
	admin      = domain.Identity{ID: "u-admin", Username: "admin", Role: domain.RoleAdmin}
	otherAdmin = domain.Identity{ID: "u-admin2", Username: "admin2", Role: domain.RoleAdmin}
	root       = domain.Identity{ID: "u-root", Username: "root", Role: domain.RoleSuperadmin}
)

var discardLogger = zerolog.Nop()
