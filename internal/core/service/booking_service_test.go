package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/ports"
)

func bookingFixture(cars ...*domain.Car) (*BookingService, *stubBookingRepo, *stubCarRepo, *stubPublisher) {
	if len(cars) == 0 {
		cars = []*domain.Car{adminCar()}
	}
	carRepo := newStubCarRepo(cars...)
	bookingRepo := newStubBookingRepo()
	pub := &stubPublisher{}
	return NewBookingService(bookingRepo, carRepo, pub, discardLogger), bookingRepo, carRepo, pub
}

func threeDays(carID string) ports.BookingInput {
	return ports.BookingInput{CarID: carID, StartDate: "2025-01-10", EndDate: "2025-01-13"}
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestBookingService_Create_PricesAndFlipsAvailability(t *testing.T) {
	svc, bookings, cars, pub := bookingFixture()

	created, err := svc.Create(context.Background(), alice, []ports.BookingInput{threeDays("car-1")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(created))
	}
	b := created[0]
	if b.TotalPrice != 300 {
		t.Errorf("expected total 300, got %v", b.TotalPrice)
	}
	if b.UserID != alice.ID {
		t.Errorf("expected owner %q, got %q", alice.ID, b.UserID)
	}
	if bookings.count() != 1 {
		t.Errorf("expected 1 stored booking, got %d", bookings.count())
	}
	if cars.get("car-1").Available {
		t.Error("car must be unavailable after booking")
	}
	if len(pub.events) != 1 || pub.events[0].Type != ports.BookingCreated {
		t.Errorf("expected one %q event, got %+v", ports.BookingCreated, pub.events)
	}
}

func TestBookingService_Create_UnavailableCar(t *testing.T) {
	car := adminCar()
	car.Available = false
	svc, bookings, _, _ := bookingFixture(car)

	_, err := svc.Create(context.Background(), alice, []ports.BookingInput{threeDays("car-1")})
	if !errors.Is(err, domain.ErrCarUnavailable) {
		t.Fatalf("expected ErrCarUnavailable, got %v", err)
	}
	if bookings.count() != 0 {
		t.Error("no booking should be stored")
	}
}

func TestBookingService_Create_SecondBookingOfSameCarConflicts(t *testing.T) {
	svc, _, _, _ := bookingFixture()
	ctx := context.Background()

	if _, err := svc.Create(ctx, alice, []ports.BookingInput{threeDays("car-1")}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	_, err := svc.Create(ctx, bob, []ports.BookingInput{threeDays("car-1")})
	if !errors.Is(err, domain.ErrCarUnavailable) {
		t.Fatalf("expected ErrCarUnavailable, got %v", err)
	}
}

func TestBookingService_Create_UnknownCar(t *testing.T) {
	svc, _, _, _ := bookingFixture()

	_, err := svc.Create(context.Background(), alice, []ports.BookingInput{threeDays("ghost")})
	if !errors.Is(err, domain.ErrCarNotFound) {
		t.Fatalf("expected ErrCarNotFound, got %v", err)
	}
}

func TestBookingService_Create_InvalidDates(t *testing.T) {
	svc, bookings, cars, _ := bookingFixture()
	ctx := context.Background()

	inputs := map[string]ports.BookingInput{
		"missing end": {CarID: "car-1", StartDate: "2025-01-10"},
		"zero days":   {CarID: "car-1", StartDate: "2025-01-10", EndDate: "2025-01-10"},
		"reversed":    {CarID: "car-1", StartDate: "2025-01-13", EndDate: "2025-01-10"},
		"unparseable": {CarID: "car-1", StartDate: "next tuesday", EndDate: "2025-01-10"},
		"missing car": {StartDate: "2025-01-10", EndDate: "2025-01-13"},
	}
	for name, in := range inputs {
		if _, err := svc.Create(ctx, alice, []ports.BookingInput{in}); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", name, err)
		}
	}
	if bookings.count() != 0 {
		t.Error("no booking should be stored")
	}
	if !cars.get("car-1").Available {
		t.Error("car must stay available after rejected bookings")
	}
}

func TestBookingService_Create_BatchKeepsEarlierBookings(t *testing.T) {
	second := adminCar()
	second.ID = "car-2"
	second.Available = false
	svc, bookings, cars, _ := bookingFixture(adminCar(), second)

	_, err := svc.Create(context.Background(), alice, []ports.BookingInput{threeDays("car-1"), threeDays("car-2")})
	if !errors.Is(err, domain.ErrCarUnavailable) {
		t.Fatalf("expected ErrCarUnavailable, got %v", err)
	}
	if bookings.count() != 1 {
		t.Errorf("earlier booking in the batch is kept, got %d stored", bookings.count())
	}
	if cars.get("car-1").Available {
		t.Error("first car stays booked")
	}
}

func TestBookingService_Create_PublishFailureIsNonFatal(t *testing.T) {
	svc, _, _, pub := bookingFixture()
	pub.err = errors.New("broker down")

	if _, err := svc.Create(context.Background(), alice, []ports.BookingInput{threeDays("car-1")}); err != nil {
		t.Fatalf("publish failure must not fail the booking: %v", err)
	}
}

func TestBookingService_Create_NilPublisher(t *testing.T) {
	svc := NewBookingService(newStubBookingRepo(), newStubCarRepo(adminCar()), nil, discardLogger)

	if _, err := svc.Create(context.Background(), alice, []ports.BookingInput{threeDays("car-1")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Two requests that both read the car before either writes will both be
// accepted: availability is a flag, not a reservation.
func TestBookingService_Create_ConcurrentDoubleBooking(t *testing.T) {
	svc, bookings, cars, _ := bookingFixture()

	var readers sync.WaitGroup
	readers.Add(2)
	cars.findHook = func() {
		readers.Done()
		readers.Wait()
	}

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, who := range []domain.Identity{alice, bob} {
		wg.Add(1)
		go func(i int, who domain.Identity) {
			defer wg.Done()
			_, errs[i] = svc.Create(context.Background(), who, []ports.BookingInput{threeDays("car-1")})
		}(i, who)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("request %d: unexpected error: %v", i, err)
		}
	}
	if bookings.count() != 2 {
		t.Errorf("expected both bookings to be stored, got %d", bookings.count())
	}
}

// ---------------------------------------------------------------------------
// Listing
// ---------------------------------------------------------------------------

func TestBookingService_ListMineAndAll(t *testing.T) {
	second := adminCar()
	second.ID = "car-2"
	svc, _, _, _ := bookingFixture(adminCar(), second)
	ctx := context.Background()

	_, _ = svc.Create(ctx, alice, []ports.BookingInput{threeDays("car-1")})
	_, _ = svc.Create(ctx, bob, []ports.BookingInput{threeDays("car-2")})

	mine, err := svc.ListMine(ctx, alice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mine) != 1 || mine[0].UserID != alice.ID {
		t.Errorf("expected only alice's booking, got %+v", mine)
	}

	if _, err := svc.ListAll(ctx, alice); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for user, got %v", err)
	}
	all, err := svc.ListAll(ctx, admin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 bookings, got %d", len(all))
	}
}

// ---------------------------------------------------------------------------
// Cancel
// ---------------------------------------------------------------------------

func TestBookingService_Cancel_FreesCar(t *testing.T) {
	svc, bookings, cars, pub := bookingFixture()
	ctx := context.Background()
	created, _ := svc.Create(ctx, alice, []ports.BookingInput{threeDays("car-1")})

	if _, err := svc.Cancel(ctx, alice, created[0].ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bookings.count() != 0 {
		t.Error("booking should be deleted")
	}
	if !cars.get("car-1").Available {
		t.Error("car must be available again")
	}
	if last := pub.events[len(pub.events)-1]; last.Type != ports.BookingCancelled {
		t.Errorf("expected %q event, got %q", ports.BookingCancelled, last.Type)
	}

	// the car can be booked again
	if _, err := svc.Create(ctx, bob, []ports.BookingInput{threeDays("car-1")}); err != nil {
		t.Fatalf("rebooking failed: %v", err)
	}
}

func TestBookingService_Cancel_Ownership(t *testing.T) {
	svc, bookings, _, _ := bookingFixture()
	ctx := context.Background()
	created, _ := svc.Create(ctx, alice, []ports.BookingInput{threeDays("car-1")})

	if _, err := svc.Cancel(ctx, bob, created[0].ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if bookings.count() != 1 {
		t.Fatal("booking must survive a forbidden cancel")
	}
	if _, err := svc.Cancel(ctx, admin, created[0].ID); err != nil {
		t.Fatalf("staff cancel failed: %v", err)
	}
}

func TestBookingService_Cancel_NotFound(t *testing.T) {
	svc, _, _, _ := bookingFixture()

	if _, err := svc.Cancel(context.Background(), alice, "nope"); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound, got %v", err)
	}
}

func TestBookingService_Cancel_DeletedCar(t *testing.T) {
	svc, bookings, cars, _ := bookingFixture()
	ctx := context.Background()
	created, _ := svc.Create(ctx, alice, []ports.BookingInput{threeDays("car-1")})
	_ = cars.Delete(ctx, "car-1")

	if _, err := svc.Cancel(ctx, alice, created[0].ID); err != nil {
		t.Fatalf("cancel should succeed even if the car is gone: %v", err)
	}
	if bookings.count() != 0 {
		t.Error("booking should be deleted")
	}
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestBookingService_Update_RecomputesWithCurrentPrice(t *testing.T) {
	svc, bookings, cars, _ := bookingFixture()
	ctx := context.Background()
	created, _ := svc.Create(ctx, alice, []ports.BookingInput{threeDays("car-1")})

	// price changed after the booking was made
	_ = cars.Update(ctx, "car-1", domain.CarPatch{PricePerDay: floatPtr(50)})

	updated, err := svc.Update(ctx, alice, created[0].ID, ports.DateRange{StartDate: "2025-01-10", EndDate: "2025-01-15"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.TotalPrice != 250 {
		t.Errorf("expected total 250, got %v", updated.TotalPrice)
	}
	stored, _ := bookings.FindByID(ctx, created[0].ID)
	if !stored.EndDate.Equal(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end date not stored: %v", stored.EndDate)
	}
	if cars.get("car-1").Available {
		t.Error("update must not touch availability")
	}
}

func TestBookingService_Update_Rejections(t *testing.T) {
	svc, _, cars, _ := bookingFixture()
	ctx := context.Background()
	created, _ := svc.Create(ctx, alice, []ports.BookingInput{threeDays("car-1")})
	id := created[0].ID

	if _, err := svc.Update(ctx, bob, id, ports.DateRange{StartDate: "2025-01-10", EndDate: "2025-01-12"}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("non-owner: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Update(ctx, alice, id, ports.DateRange{StartDate: "2025-01-12", EndDate: "2025-01-12"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("zero days: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Update(ctx, alice, id, ports.DateRange{StartDate: "2025-01-12"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("missing end: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Update(ctx, alice, "nope", ports.DateRange{StartDate: "2025-01-10", EndDate: "2025-01-12"}); !errors.Is(err, domain.ErrBookingNotFound) {
		t.Errorf("unknown booking: expected ErrBookingNotFound, got %v", err)
	}

	_ = cars.Delete(ctx, "car-1")
	if _, err := svc.Update(ctx, alice, id, ports.DateRange{StartDate: "2025-01-10", EndDate: "2025-01-12"}); !errors.Is(err, domain.ErrCarNotFound) {
		t.Errorf("deleted car: expected ErrCarNotFound, got %v", err)
	}
}
