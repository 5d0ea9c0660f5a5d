package handler

import (
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/ports"
)

// bookingRequest is validated by the booking service, item by item, so that a
// batch stops at the first bad entry.
type bookingRequest struct {
	CarID     string `json:"carId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type rescheduleRequest struct {
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

type bookingsResponse struct {
	Message  string            `json:"message"`
	Count    int               `json:"count"`
	Bookings []*domain.Booking `json:"bookings"`
}

type rescheduleResponse struct {
	Message    string  `json:"message"`
	TotalPrice float64 `json:"totalPrice"`
}

func toBookingInputs(reqs []bookingRequest) []ports.BookingInput {
	out := make([]ports.BookingInput, len(reqs))
	for i, r := range reqs {
		out[i] = ports.BookingInput{CarID: r.CarID, StartDate: r.StartDate, EndDate: r.EndDate}
	}
	return out
}
