package ports

import (
	"context"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
)

// CarInput describes one car to add to the inventory.
type CarInput struct {
	Brand       string
	Model       string
	Type        string
	PricePerDay float64
}

// CarService manages the inventory. Ownership checks use the caller identity.
type CarService interface {
	List(ctx context.Context) ([]*domain.Car, error)
	Create(ctx context.Context, caller domain.Identity, inputs []CarInput) ([]*domain.Car, error)
	Update(ctx context.Context, caller domain.Identity, carID string, patch domain.CarPatch) (*domain.Car, error)
	Delete(ctx context.Context, caller domain.Identity, carID string) (*domain.Car, error)
}
