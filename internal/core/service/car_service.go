package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/domain"
	"github.com/JonaSeguReymundo/Proyecto-SED/internal/core/ports"
)

// CarService manages the inventory.
type CarService struct {
	cars ports.CarRepository
	log  zerolog.Logger
}

func NewCarService(cars ports.CarRepository, log zerolog.Logger) *CarService {
	return &CarService{cars: cars, log: log}
}

func (s *CarService) List(ctx context.Context) ([]*domain.Car, error) {
	return s.cars.List(ctx)
}

// Create validates every input before anything is persisted, so a bad item
// aborts the whole batch without side effects.
func (s *CarService) Create(ctx context.Context, caller domain.Identity, inputs []ports.CarInput) ([]*domain.Car, error) {
	if !caller.IsStaff() {
		return nil, domain.ErrForbidden
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one car is required", domain.ErrInvalidInput)
	}

	cars := make([]*domain.Car, 0, len(inputs))
	for i, in := range inputs {
		if err := validateCarInput(in); err != nil {
			if len(inputs) > 1 {
				return nil, fmt.Errorf("car[%d]: %w", i, err)
			}
			return nil, err
		}
		cars = append(cars, &domain.Car{
			ID:          uuid.NewString(),
			Brand:       strings.TrimSpace(in.Brand),
			Model:       strings.TrimSpace(in.Model),
			Type:        strings.TrimSpace(in.Type),
			PricePerDay: in.PricePerDay,
			Available:   true,
			CreatedBy:   caller.ID,
		})
	}

	var err error
	if len(cars) == 1 {
		err = s.cars.Create(ctx, cars[0])
	} else {
		err = s.cars.CreateMany(ctx, cars)
	}
	if err != nil {
		return nil, fmt.Errorf("create cars: %w", err)
	}

	s.log.Info().Str("user_id", caller.ID).Int("count", len(cars)).Msg("cars created")
	return cars, nil
}

// Update merges patch into the stored car. Only superadmins and the car's
// creator may change it.
func (s *CarService) Update(ctx context.Context, caller domain.Identity, carID string, patch domain.CarPatch) (*domain.Car, error) {
	if patch.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", domain.ErrInvalidInput)
	}
	if patch.PricePerDay != nil && *patch.PricePerDay <= 0 {
		return nil, fmt.Errorf("%w: pricePerDay must be greater than 0", domain.ErrInvalidInput)
	}
	for field, v := range map[string]*string{"brand": patch.Brand, "model": patch.Model, "type": patch.Type} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return nil, fmt.Errorf("%w: %s cannot be empty", domain.ErrInvalidInput, field)
		}
	}

	car, err := s.authorize(ctx, caller, carID)
	if err != nil {
		return nil, err
	}

	if err := s.cars.Update(ctx, carID, patch); err != nil {
		return nil, fmt.Errorf("update car: %w", err)
	}
	applyPatch(car, patch)

	s.log.Info().Str("user_id", caller.ID).Str("car_id", carID).Msg("car updated")
	return car, nil
}

// Delete removes the car. Active bookings on it are not checked.
func (s *CarService) Delete(ctx context.Context, caller domain.Identity, carID string) (*domain.Car, error) {
	car, err := s.authorize(ctx, caller, carID)
	if err != nil {
		return nil, err
	}
	if err := s.cars.Delete(ctx, carID); err != nil {
		return nil, fmt.Errorf("delete car: %w", err)
	}

	s.log.Info().Str("user_id", caller.ID).Str("car_id", carID).Msg("car deleted")
	return car, nil
}

func (s *CarService) authorize(ctx context.Context, caller domain.Identity, carID string) (*domain.Car, error) {
	if !caller.IsStaff() {
		return nil, domain.ErrForbidden
	}
	car, err := s.cars.FindByID(ctx, carID)
	if err != nil {
		return nil, err
	}
	if !car.CanManage(caller) {
		return nil, fmt.Errorf("%w: only the creator or a superadmin can modify this car", domain.ErrForbidden)
	}
	return car, nil
}

func validateCarInput(in ports.CarInput) error {
	switch {
	case strings.TrimSpace(in.Brand) == "",
		strings.TrimSpace(in.Model) == "",
		strings.TrimSpace(in.Type) == "":
		return fmt.Errorf("%w: brand, model, type and pricePerDay are required", domain.ErrInvalidInput)
	case in.PricePerDay <= 0:
		return fmt.Errorf("%w: pricePerDay must be greater than 0", domain.ErrInvalidInput)
	}
	return nil
}

func applyPatch(car *domain.Car, p domain.CarPatch) {
	if p.Brand != nil {
		car.Brand = *p.Brand
	}
	if p.Model != nil {
		car.Model = *p.Model
	}
	if p.Type != nil {
		car.Type = *p.Type
	}
	if p.PricePerDay != nil {
		car.PricePerDay = *p.PricePerDay
	}
	if p.Available != nil {
		car.Available = *p.Available
	}
}
