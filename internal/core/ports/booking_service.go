package ports

import (
	"context"
	"time"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
)

// BookingInput is one requested reservation. Dates are raw client strings.
type BookingInput struct {
	CarID     string
	StartDate string
	EndDate   string
}

// DateRange is a raw client date pair used when rescheduling.
type DateRange struct {
	StartDate string
	EndDate   string
}

type BookingService interface {
	// Create processes inputs in order; the first failure aborts the rest.
	Create(ctx context.Context, caller domain.Identity, inputs []BookingInput) ([]*domain.Booking, error)
	ListMine(ctx context.Context, caller domain.Identity) ([]*domain.Booking, error)
	ListAll(ctx context.Context, caller domain.Identity) ([]*domain.Booking, error)
	Cancel(ctx context.Context, caller domain.Identity, bookingID string) (*domain.Booking, error)
	Update(ctx context.Context, caller domain.Identity, bookingID string, dates DateRange) (*domain.Booking, error)
}

// BookingEvent is published to downstream consumers when a booking changes.
type BookingEvent struct {
	Type       string    `json:"type"`
	BookingID  string    `json:"booking_id"`
	UserID     string    `json:"user_id"`
	CarID      string    `json:"car_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	TotalPrice float64   `json:"total_price"`
	OccurredAt time.Time `json:"occurred_at"`
}

const (
	BookingCreated   = "booking.created"
	BookingUpdated   = "booking.updated"
	BookingCancelled = "booking.cancelled"
)

// BookingEventPublisher delivers booking events. Failures must not affect the booking.
type BookingEventPublisher interface {
	Publish(ctx context.Context, event BookingEvent) error
}
