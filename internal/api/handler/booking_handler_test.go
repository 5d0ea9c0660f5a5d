package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/ports"
)

func TestBookingHandler_Create_SingleAndBatch(t *testing.T) {
	var calls [][]ports.BookingInput
	svc := &stubBookingService{createFn: func(_ context.Context, caller domain.Identity, in []ports.BookingInput) ([]*domain.Booking, error) {
		calls = append(calls, in)
		out := make([]*domain.Booking, len(in))
		for i := range in {
			out[i] = &domain.Booking{ID: "b", UserID: caller.ID, CarID: in[i].CarID, TotalPrice: 300}
		}
		return out, nil
	}}
	h := NewBookingHandler(svc, nil)

	c, rec := newContext(http.MethodPost, "/bookings", `{"carId":"c1","startDate":"2025-01-10","endDate":"2025-01-13"}`, alice)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated || decodeBody(t, rec)["count"] != float64(1) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	c, rec = newContext(http.MethodPost, "/bookings", `[{"carId":"c1"},{"carId":"c2"}]`, alice)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if decodeBody(t, rec)["count"] != float64(2) {
		t.Fatalf("expected count 2, got %s", rec.Body.String())
	}
	if len(calls) != 2 || len(calls[1]) != 2 || calls[1][1].CarID != "c2" {
		t.Fatalf("inputs not forwarded in order: %+v", calls)
	}
}

func TestBookingHandler_Create_ConflictNotAudited(t *testing.T) {
	audit := &recorder{}
	svc := &stubBookingService{createFn: func(context.Context, domain.Identity, []ports.BookingInput) ([]*domain.Booking, error) {
		return nil, domain.ErrCarUnavailable
	}}
	h := NewBookingHandler(svc, audit)

	c, _ := newContext(http.MethodPost, "/bookings", `{"carId":"c1","startDate":"2025-01-10","endDate":"2025-01-13"}`, alice)
	if err := h.Create(c); !errors.Is(err, domain.ErrCarUnavailable) {
		t.Fatalf("expected ErrCarUnavailable, got %v", err)
	}
	if len(audit.actions()) != 0 {
		t.Fatal("rejected bookings are not audited")
	}
}

func TestBookingHandler_Update(t *testing.T) {
	audit := &recorder{}
	svc := &stubBookingService{updateFn: func(_ context.Context, _ domain.Identity, id string, d ports.DateRange) (*domain.Booking, error) {
		if id != "b1" || d.StartDate != "2025-01-10" || d.EndDate != "2025-01-15" {
			t.Fatalf("unexpected args %s %+v", id, d)
		}
		return &domain.Booking{ID: id, TotalPrice: 500}, nil
	}}
	h := NewBookingHandler(svc, audit)

	c, rec := newContext(http.MethodPut, "/bookings/b1", `{"startDate":"2025-01-10","endDate":"2025-01-15"}`, alice)
	c.SetParamNames("*")
	c.SetParamValues("b1")
	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if decodeBody(t, rec)["totalPrice"] != float64(500) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if len(audit.entries) != 1 || audit.entries[0].Endpoint != "/bookings/b1" || audit.entries[0].Method != http.MethodPut {
		t.Fatalf("unexpected audit entry: %+v", audit.entries)
	}
}

func TestBookingHandler_Update_MissingDates(t *testing.T) {
	h := NewBookingHandler(&stubBookingService{}, nil)

	c, _ := newContext(http.MethodPut, "/bookings/b1", `{"startDate":"2025-01-10"}`, alice)
	c.SetParamNames("*")
	c.SetParamValues("b1")
	if err := h.Update(c); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBookingHandler_Cancel(t *testing.T) {
	h := NewBookingHandler(&stubBookingService{}, nil)

	c, rec := newContext(http.MethodDelete, "/bookings/b1/extra", "", alice)
	c.SetParamNames("*")
	c.SetParamValues("b1/extra")
	if err := h.Cancel(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
