package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/utils"
)

type carService struct {
	store      repository.Store
	reconciler Reconciler
}

// NewCarService returns the car catalogue. Reads of the available set run
// reconciler first so that expired reservations do not hide cars.
func NewCarService(store repository.Store, reconciler Reconciler) CarService {
	return &carService{
		store:      store,
		reconciler: reconciler,
	}
}

func (s *carService) CreateCar(ctx context.Context, car *domain.Car) error {
	if car.Status == "" {
		car.Status = domain.CarStatusAvailable
	}
	if car.Status != domain.CarStatusAvailable && car.Status != domain.CarStatusMaintenance {
		return domain.ErrInvalidStatus
	}
	if err := validateCar(car); err != nil {
		return err
	}
	if err := s.store.Cars().Create(ctx, car); err != nil {
		return err
	}
	logger.InfoContext(ctx, "Car created", "car_id", car.ID, "brand", car.Brand, "model", car.Model)
	return nil
}

// UpdateCar replaces the descriptive fields of a car. Status is only changed
// through SetCarStatus and the reservation engine.
func (s *carService) UpdateCar(ctx context.Context, car *domain.Car) (*domain.Car, error) {
	if err := validateCar(car); err != nil {
		return nil, err
	}

	var updated *domain.Car
	err := s.store.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		existing, err := repos.Cars.GetByIDForUpdate(ctx, car.ID)
		if err != nil {
			return err
		}
		existing.Brand = car.Brand
		existing.Model = car.Model
		existing.Year = car.Year
		existing.PricePerDayCents = car.PricePerDayCents
		existing.Location = car.Location
		if err := repos.Cars.Update(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Car updated", "car_id", updated.ID)
	return updated, nil
}

func (s *carService) DeleteCar(ctx context.Context, id int32) error {
	err := s.store.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		if _, err := repos.Cars.GetByIDForUpdate(ctx, id); err != nil {
			return err
		}
		open, err := repos.Reservations.CountOpenByCar(ctx, id)
		if err != nil {
			return err
		}
		if open > 0 {
			return domain.ErrCarUnavailable
		}
		return repos.Cars.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "Car deleted", "car_id", id)
	return nil
}

// SetCarStatus is the administrative path for MAINTENANCE and RENTED. A car
// held by an open reservation cannot be moved, and RESERVED is only ever set
// by the reservation engine.
func (s *carService) SetCarStatus(ctx context.Context, id int32, status domain.CarStatus) (*domain.Car, error) {
	if !status.Valid() || status == domain.CarStatusReserved {
		return nil, domain.ErrInvalidStatus
	}

	var car *domain.Car
	err := s.store.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		c, err := repos.Cars.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		car = c
		if c.Status == status {
			return nil
		}
		open, err := repos.Reservations.CountOpenByCar(ctx, id)
		if err != nil {
			return err
		}
		if open > 0 {
			return domain.ErrCarUnavailable
		}
		return repos.Cars.UpdateStatus(ctx, c, status)
	})
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "Car status set", "car_id", id, "status", status)
	return car, nil
}

func (s *carService) GetCar(ctx context.Context, id int32) (*domain.Car, error) {
	return s.store.Cars().GetByID(ctx, id)
}

func (s *carService) ListCars(ctx context.Context, filter domain.CarFilter) ([]domain.Car, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	return s.store.Cars().List(ctx, filter)
}

func (s *carService) ListAvailableCars(ctx context.Context) ([]domain.Car, error) {
	s.reconciler.ReconcileExpiredReservations(ctx)
	return s.store.Cars().List(ctx, domain.CarFilter{Status: domain.CarStatusAvailable})
}

func (s *carService) GetAvailableCarsNearby(ctx context.Context, lat, lng, maxDistanceKm float64) ([]domain.CarWithDistance, error) {
	logger.EnterMethod("carService.GetAvailableCarsNearby", "lat", lat, "lng", lng, "maxDistanceKm", maxDistanceKm)

	if !utils.ValidCoordinates(lat, lng) {
		err := fmt.Errorf("%w: latitude must be in [-90, 90] and longitude in [-180, 180]", domain.ErrInvalidQuery)
		logger.ExitMethodWithError("carService.GetAvailableCarsNearby", err, true)
		return nil, err
	}
	if !(maxDistanceKm > 0) {
		err := fmt.Errorf("%w: max distance must be positive", domain.ErrInvalidQuery)
		logger.ExitMethodWithError("carService.GetAvailableCarsNearby", err, true)
		return nil, err
	}

	s.reconciler.ReconcileExpiredReservations(ctx)

	cars, err := s.store.Cars().ListAvailableWithLocation(ctx)
	if err != nil {
		logger.ExitMethodWithError("carService.GetAvailableCarsNearby", err, false)
		return nil, err
	}

	nearby := make([]domain.CarWithDistance, 0, len(cars))
	for _, c := range cars {
		if c.Location == nil {
			continue
		}
		d := utils.HaversineKm(lat, lng, c.Location.Latitude, c.Location.Longitude)
		if d <= maxDistanceKm {
			nearby = append(nearby, domain.CarWithDistance{Car: c, DistanceKm: d})
		}
	}
	slices.SortStableFunc(nearby, func(a, b domain.CarWithDistance) int {
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})

	logger.ExitMethod("carService.GetAvailableCarsNearby", "count", len(nearby))
	return nearby, nil
}

func validateCar(car *domain.Car) error {
	if car.PricePerDayCents <= 0 {
		return fmt.Errorf("%w: price per day must be positive", domain.ErrValidation)
	}
	if car.PricePerDayCents > domain.MaxPricePerDayCents {
		return fmt.Errorf("%w: price per day must not exceed %d cents", domain.ErrValidation, domain.MaxPricePerDayCents)
	}
	if car.Brand == "" || car.Model == "" {
		return fmt.Errorf("%w: brand and model are required", domain.ErrValidation)
	}
	if car.Location != nil && !utils.ValidCoordinates(car.Location.Latitude, car.Location.Longitude) {
		return fmt.Errorf("%w: location coordinates out of range", domain.ErrValidation)
	}
	return nil
}
