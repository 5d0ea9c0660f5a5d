package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/ports"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/pkg/metrics"
)

// BookingService is the booking engine. Availability is a single flag per
// car: a booking sets it to false and cancelling sets it back to true.
//
// The booking insert and the availability flip are two separate writes with no
// transaction or per-car lock around them, so concurrent requests for the same
// car can both succeed.
type BookingService struct {
	bookings  ports.BookingRepository
	cars      ports.CarRepository
	publisher ports.BookingEventPublisher
	now       func() time.Time
	log       zerolog.Logger
}

// NewBookingService wires the engine. publisher may be nil.
func NewBookingService(bookings ports.BookingRepository, cars ports.CarRepository, publisher ports.BookingEventPublisher, log zerolog.Logger) *BookingService {
	return &BookingService{
		bookings:  bookings,
		cars:      cars,
		publisher: publisher,
		now:       time.Now,
		log:       log,
	}
}

// Create books each input in order. The first invalid item aborts the
// request; bookings already written for earlier items are kept.
func (s *BookingService) Create(ctx context.Context, caller domain.Identity, inputs []ports.BookingInput) ([]*domain.Booking, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one booking is required", domain.ErrInvalidInput)
	}

	created := make([]*domain.Booking, 0, len(inputs))
	for i, in := range inputs {
		b, err := s.createOne(ctx, caller, in)
		if err != nil {
			if len(created) > 0 {
				s.log.Warn().
					Err(err).
					Str("user_id", caller.ID).
					Int("index", i).
					Int("committed", len(created)).
					Msg("batch booking aborted after partial commit")
			}
			return nil, err
		}
		created = append(created, b)
	}
	return created, nil
}

func (s *BookingService) createOne(ctx context.Context, caller domain.Identity, in ports.BookingInput) (*domain.Booking, error) {
	carID := strings.TrimSpace(in.CarID)
	if carID == "" || strings.TrimSpace(in.StartDate) == "" || strings.TrimSpace(in.EndDate) == "" {
		metrics.BookingRejectionsTotal.WithLabelValues("invalid_input").Inc()
		return nil, fmt.Errorf("%w: carId, startDate and endDate are required", domain.ErrInvalidInput)
	}

	car, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		if errors.Is(err, domain.ErrCarNotFound) {
			metrics.BookingRejectionsTotal.WithLabelValues("car_not_found").Inc()
			return nil, fmt.Errorf("%w: %s", domain.ErrCarNotFound, carID)
		}
		return nil, err
	}
	if !car.Available {
		metrics.BookingRejectionsTotal.WithLabelValues("car_unavailable").Inc()
		return nil, fmt.Errorf("%w: %s %s is already booked", domain.ErrCarUnavailable, car.Brand, car.Model)
	}

	start, end, total, err := quoteDates(in.StartDate, in.EndDate, car.PricePerDay)
	if err != nil {
		metrics.BookingRejectionsTotal.WithLabelValues("invalid_input").Inc()
		return nil, err
	}

	booking := &domain.Booking{
		ID:         uuid.NewString(),
		UserID:     caller.ID,
		CarID:      car.ID,
		StartDate:  start,
		EndDate:    end,
		TotalPrice: total,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	if err := s.cars.SetAvailable(ctx, car.ID, false); err != nil {
		return nil, fmt.Errorf("mark car unavailable: %w", err)
	}

	metrics.BookingsCreatedTotal.Inc()
	s.log.Info().Str("booking_id", booking.ID).Str("car_id", car.ID).Str("user_id", caller.ID).Msg("booking created")
	s.publish(ctx, ports.BookingCreated, booking)
	return booking, nil
}

func (s *BookingService) ListMine(ctx context.Context, caller domain.Identity) ([]*domain.Booking, error) {
	return s.bookings.ListByUser(ctx, caller.ID)
}

func (s *BookingService) ListAll(ctx context.Context, caller domain.Identity) ([]*domain.Booking, error) {
	if !caller.IsStaff() {
		return nil, domain.ErrForbidden
	}
	return s.bookings.List(ctx)
}

// Cancel deletes the booking and frees its car.
func (s *BookingService) Cancel(ctx context.Context, caller domain.Identity, bookingID string) (*domain.Booking, error) {
	booking, err := s.ownedBooking(ctx, caller, bookingID, "cancel")
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Delete(ctx, booking.ID); err != nil {
		return nil, fmt.Errorf("delete booking: %w", err)
	}
	if err := s.cars.SetAvailable(ctx, booking.CarID, true); err != nil {
		if !errors.Is(err, domain.ErrCarNotFound) {
			return nil, fmt.Errorf("mark car available: %w", err)
		}
		s.log.Warn().Str("booking_id", booking.ID).Str("car_id", booking.CarID).Msg("cancelled booking references a deleted car")
	}

	metrics.BookingsCancelledTotal.Inc()
	s.log.Info().Str("booking_id", booking.ID).Str("user_id", caller.ID).Msg("booking cancelled")
	s.publish(ctx, ports.BookingCancelled, booking)
	return booking, nil
}

// Update reschedules the booking and recomputes its price from the car's
// current daily rate.
func (s *BookingService) Update(ctx context.Context, caller domain.Identity, bookingID string, dates ports.DateRange) (*domain.Booking, error) {
	if strings.TrimSpace(dates.StartDate) == "" || strings.TrimSpace(dates.EndDate) == "" {
		return nil, fmt.Errorf("%w: startDate and endDate are required", domain.ErrInvalidInput)
	}

	booking, err := s.ownedBooking(ctx, caller, bookingID, "modify")
	if err != nil {
		return nil, err
	}

	car, err := s.cars.FindByID(ctx, booking.CarID)
	if err != nil {
		if errors.Is(err, domain.ErrCarNotFound) {
			return nil, fmt.Errorf("%w: the booked car no longer exists", domain.ErrCarNotFound)
		}
		return nil, err
	}

	start, end, total, err := quoteDates(dates.StartDate, dates.EndDate, car.PricePerDay)
	if err != nil {
		return nil, err
	}
	if err := s.bookings.UpdateDates(ctx, booking.ID, start, end, total); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	booking.StartDate, booking.EndDate, booking.TotalPrice = start, end, total
	s.log.Info().Str("booking_id", booking.ID).Float64("total_price", total).Msg("booking updated")
	s.publish(ctx, ports.BookingUpdated, booking)
	return booking, nil
}

func (s *BookingService) ownedBooking(ctx context.Context, caller domain.Identity, bookingID, verb string) (*domain.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.OwnedBy(caller) {
		return nil, fmt.Errorf("%w: you cannot %s this booking", domain.ErrForbidden, verb)
	}
	return booking, nil
}

func quoteDates(rawStart, rawEnd string, pricePerDay float64) (start, end time.Time, total float64, err error) {
	if start, err = domain.ParseDate("startDate", rawStart); err != nil {
		return
	}
	if end, err = domain.ParseDate("endDate", rawEnd); err != nil {
		return
	}
	_, total, err = domain.Quote(start, end, pricePerDay)
	return
}

func (s *BookingService) publish(ctx context.Context, kind string, b *domain.Booking) {
	if s.publisher == nil {
		return
	}
	event := ports.BookingEvent{
		Type:       kind,
		BookingID:  b.ID,
		UserID:     b.UserID,
		CarID:      b.CarID,
		StartDate:  b.StartDate,
		EndDate:    b.EndDate,
		TotalPrice: b.TotalPrice,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("booking_id", b.ID).Str("type", kind).Msg("failed to publish booking event")
	}
}
