package ports

import (
	"context"
	"time"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
)

// BookingRepository persists bookings. Cancelled bookings are deleted, not flagged.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	// FindByID returns domain.ErrBookingNotFound when no booking matches.
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Booking, error)
	List(ctx context.Context) ([]*domain.Booking, error)
	UpdateDates(ctx context.Context, id string, start, end time.Time, totalPrice float64) error
	Delete(ctx context.Context, id string) error
}
