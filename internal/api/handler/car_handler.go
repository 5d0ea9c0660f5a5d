package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/ports"
)

// CarHandler handles HTTP requests for the car inventory.
type CarHandler struct {
	service ports.CarService
	audit   ports.AuditRecorder
}

func NewCarHandler(service ports.CarService, audit ports.AuditRecorder) *CarHandler {
	return &CarHandler{service: service, audit: audit}
}

// List handles GET /cars.
//
// @Summary      List cars
// @Tags         cars
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Car
// @Failure      401  {object}  map[string]string
// @Router       /cars [get]
func (h *CarHandler) List(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	cars, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, cars); err != nil {
		return err
	}
	audit(h.audit, c, id, "Listed cars")
	return nil
}

// Create handles POST /cars. The body is one car or an array of cars; a batch
// is validated as a whole before anything is stored.
//
// @Summary      Add cars
// @Tags         cars
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      carRequest  true  "Car, or an array of cars"
// @Success      201   {object}  carResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /cars [post]
func (h *CarHandler) Create(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}

	reqs, batch, err := decodeOneOrMany[carRequest](c)
	if err != nil {
		return err
	}

	inputs := make([]ports.CarInput, len(reqs))
	for i, r := range reqs {
		if err := c.Validate(&r); err != nil {
			if batch {
				return fmt.Errorf("car[%d]: %w", i, err)
			}
			return err
		}
		inputs[i] = r.toInput()
	}

	cars, err := h.service.Create(c.Request().Context(), id, inputs)
	if err != nil {
		return err
	}

	if batch {
		err = c.JSON(http.StatusCreated, carsResponse{
			Message: fmt.Sprintf("%d cars created", len(cars)),
			Count:   len(cars),
			Cars:    cars,
		})
	} else {
		err = c.JSON(http.StatusCreated, carResponse{Message: "Car created", Car: cars[0]})
	}
	if err != nil {
		return err
	}
	audit(h.audit, c, id, fmt.Sprintf("Created %d car(s)", len(cars)))
	return nil
}

// Update handles PUT /cars/{id}.
//
// @Summary      Update a car
// @Tags         cars
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Car id"
// @Param        body  body      carPatchRequest  true  "Fields to change"
// @Success      200   {object}  carResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /cars/{id} [put]
func (h *CarHandler) Update(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	carID, err := resourceID(c)
	if err != nil {
		return err
	}

	var req carPatchRequest
	if err := decodeObject(c, &req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	car, err := h.service.Update(c.Request().Context(), id, carID, req.toPatch())
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, carResponse{Message: "Car updated", Car: car}); err != nil {
		return err
	}
	audit(h.audit, c, id, "Updated car "+carID)
	return nil
}

// Delete handles DELETE /cars/{id}.
//
// @Summary      Delete a car
// @Tags         cars
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Car id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /cars/{id} [delete]
func (h *CarHandler) Delete(c echo.Context) error {
	id, err := currentIdentity(c)
	if err != nil {
		return err
	}
	carID, err := resourceID(c)
	if err != nil {
		return err
	}

	car, err := h.service.Delete(c.Request().Context(), id, carID)
	if err != nil {
		return err
	}

	if err := c.JSON(http.StatusOK, messageResponse{Message: "Car deleted"}); err != nil {
		return err
	}
	audit(h.audit, c, id, fmt.Sprintf("Deleted car %s %s (%s)", car.Brand, car.Model, car.ID))
	return nil
}
