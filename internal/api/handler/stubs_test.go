package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/api/middleware"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/ports"
)

var (
	alice = domain.Identity{ID: "u-alice", Username: "alice", Role: domain.RoleUser}
	admin = domain.Identity{ID: "u-admin", Username: "ops", Role: domain.RoleAdmin}
)

type stubAuthService struct {
	registerFn    func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn       func(ctx context.Context, username, password string) (*domain.Session, *domain.User, error)
	logoutFn      func(ctx context.Context, token string) error
	createAdminFn func(ctx context.Context, username, password string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*domain.Session, *domain.User, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) CreateAdmin(ctx context.Context, username, password string) (*domain.User, error) {
	return s.createAdminFn(ctx, username, password)
}

type stubCarService struct {
	createFn func(ctx context.Context, caller domain.Identity, inputs []ports.CarInput) ([]*domain.Car, error)
	updateFn func(ctx context.Context, caller domain.Identity, carID string, patch domain.CarPatch) (*domain.Car, error)
}

func (s *stubCarService) List(context.Context) ([]*domain.Car, error) {
	return []*domain.Car{}, nil
}

func (s *stubCarService) Create(ctx context.Context, caller domain.Identity, inputs []ports.CarInput) ([]*domain.Car, error) {
	return s.createFn(ctx, caller, inputs)
}

func (s *stubCarService) Update(ctx context.Context, caller domain.Identity, carID string, patch domain.CarPatch) (*domain.Car, error) {
	return s.updateFn(ctx, caller, carID, patch)
}

func (s *stubCarService) Delete(_ context.Context, _ domain.Identity, carID string) (*domain.Car, error) {
	return &domain.Car{ID: carID}, nil
}

type stubBookingService struct {
	createFn func(ctx context.Context, caller domain.Identity, inputs []ports.BookingInput) ([]*domain.Booking, error)
	updateFn func(ctx context.Context, caller domain.Identity, id string, dates ports.DateRange) (*domain.Booking, error)
}

func (s *stubBookingService) Create(ctx context.Context, caller domain.Identity, inputs []ports.BookingInput) ([]*domain.Booking, error) {
	return s.createFn(ctx, caller, inputs)
}

func (s *stubBookingService) ListMine(context.Context, domain.Identity) ([]*domain.Booking, error) {
	return []*domain.Booking{}, nil
}

func (s *stubBookingService) ListAll(context.Context, domain.Identity) ([]*domain.Booking, error) {
	return []*domain.Booking{}, nil
}

func (s *stubBookingService) Cancel(_ context.Context, _ domain.Identity, id string) (*domain.Booking, error) {
	return &domain.Booking{ID: id}, nil
}

func (s *stubBookingService) Update(ctx context.Context, caller domain.Identity, id string, dates ports.DateRange) (*domain.Booking, error) {
	return s.updateFn(ctx, caller, id, dates)
}

// recorder captures audit entries in memory.
type recorder struct {
	mu      sync.Mutex
	entries []domain.LogEntry
}

func (r *recorder) Record(e domain.LogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Action
	}
	return out
}

// newContext builds an echo context with the validator installed. A non-empty
// identity is stored the way the auth guard stores it.
func newContext(method, target, body string, id domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if id.ID != "" {
		middleware.SetIdentity(c, id, "tok-"+id.ID)
	}
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

// statusOf returns the status an error would be rendered with.
func statusOf(t *testing.T, err error) int {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T: %v", err, err)
	}
	return he.Code
}
