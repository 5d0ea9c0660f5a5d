package ports

import (
	"context"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
)

// CarRepository persists the car inventory.
type CarRepository interface {
	List(ctx context.Context) ([]*domain.Car, error)
	// FindByID returns domain.ErrCarNotFound when no car matches.
	FindByID(ctx context.Context, id string) (*domain.Car, error)
	Create(ctx context.Context, car *domain.Car) error
	CreateMany(ctx context.Context, cars []*domain.Car) error
	// Update applies the non-nil fields of patch and leaves the rest untouched.
	Update(ctx context.Context, id string, patch domain.CarPatch) error
	SetAvailable(ctx context.Context, id string, available bool) error
	Delete(ctx context.Context, id string) error
}
