package handler

import (
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/ports"
)

type carRequest struct {
	Brand       string  `json:"brand" validate:"required"`
	Model       string  `json:"model" validate:"required"`
	Type        string  `json:"type" validate:"required"`
	PricePerDay float64 `json:"pricePerDay" validate:"gt=0"`
}

type carPatchRequest struct {
	Brand       *string  `json:"brand"`
	Model       *string  `json:"model"`
	Type        *string  `json:"type"`
	PricePerDay *float64 `json:"pricePerDay" validate:"omitempty,gt=0"`
	Available   *bool    `json:"available"`
}

type carResponse struct {
	Message string      `json:"message"`
	Car     *domain.Car `json:"car"`
}

type carsResponse struct {
	Message string        `json:"message"`
	Count   int           `json:"count"`
	Cars    []*domain.Car `json:"cars"`
}

func (r carRequest) toInput() ports.CarInput {
	return ports.CarInput{
		Brand:       r.Brand,
		Model:       r.Model,
		Type:        r.Type,
		PricePerDay: r.PricePerDay,
	}
}

func (r carPatchRequest) toPatch() domain.CarPatch {
	return domain.CarPatch{
		Brand:       r.Brand,
		Model:       r.Model,
		Type:        r.Type,
		PricePerDay: r.PricePerDay,
		Available:   r.Available,
	}
}
