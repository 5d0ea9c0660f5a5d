package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/ports"
)

// BookingHandler handles HTTP requests for reservations.
type BookingHandler struct {
	service ports.BookingService
	audit   ports.AuditRecorder
}

func NewBookingHandler(service ports.BookingService, audit ports.AuditRecorder) *BookingHandler {
	return &BookingHandler{service: service, audit: audit}
}

// Create handles POST /bookings with one booking or an array of bookings.
//
// @Summary      Book cars
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bookingRequest  true  "Booking, or an array of bookings"
// @Success      201   {object}  bookingsResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	reqs, _, err := decodeOneOrMany[bookingRequest](c)
	if err != nil {
		return err
	}

	bookings, err := h.service.Create(c.Request().Context(), id, toBookingInputs(reqs))
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusCreated, bookingsResponse{
		Message:  "Booking created",
		Count:    len(bookings),
		Bookings: bookings,
	}); err != nil {
		return err
	}
	audit(h.audit, c, id, fmt.Sprintf("Created %d booking(s)", len(bookings)))
	return nil
}

// ListMine handles GET /bookings.
//
// @Summary      My bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Booking
// @Failure      401  {object}  map[string]string
// @Router       /bookings [get]
func (h *BookingHandler) ListMine(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	bookings, err := h.service.ListMine(c.Request().Context(), id)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, bookings); err != nil {
		return err
	}
	audit(h.audit, c, id, "Listed own bookings")
	return nil
}

// ListAll handles GET /bookings/all.
//
// @Summary      All bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Booking
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /bookings/all [get]
func (h *BookingHandler) ListAll(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	bookings, err := h.service.ListAll(c.Request().Context(), id)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, bookings); err != nil {
		return err
	}
	audit(h.audit, c, id, "Listed all bookings")
	return nil
}

// Cancel handles DELETE /bookings/{id}. The booking is removed and its car
// becomes available again.
//
// @Summary      Cancel a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /bookings/{id} [delete]
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	bookingID, err := resourceID(c)
	if err != nil {
		return err
	}

	if _, err := h.service.Cancel(c.Request().Context(), id, bookingID); err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, messageResponse{Message: "Booking cancelled"}); err != nil {
		return err
	}
	audit(h.audit, c, id, "Cancelled booking "+bookingID)
	return nil
}

// Update handles PUT /bookings/{id}. The total is recomputed with the car's
// current price.
//
// @Summary      Reschedule a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Booking id"
// @Param        body  body      rescheduleRequest  true  "New dates"
// @Success      200   {object}  rescheduleResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /bookings/{id} [put]
func (h *BookingHandler) Update(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	bookingID, err := resourceID(c)
	if err != nil {
		return err
	}

	var req rescheduleRequest
	if err := decodeObject(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	booking, err := h.service.Update(c.Request().Context(), id, bookingID, ports.DateRange{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	})
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, rescheduleResponse{Message: "Booking updated", TotalPrice: booking.TotalPrice}); err != nil {
		return err
	}
	audit(h.audit, c, id, "Updated booking "+bookingID)
	return nil
}
