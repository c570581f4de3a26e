package service_test

import (
	"context"
	"math"
	"testing"
	"time"

	"carrental-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCarService_GetAvailableCarsNearby(t *testing.T) {
	ctx := context.Background()
	berlin := domain.Location{Latitude: 52.5200, Longitude: 13.4050}

	t.Run("Filters and sorts by distance", func(t *testing.T) {
		f := newEngineFixture(t)
		far := f.addCar(t, 1000, domain.CarStatusAvailable, &domain.Location{Latitude: 52.3906, Longitude: 13.0645})  // Potsdam, ~27km
		near := f.addCar(t, 1000, domain.CarStatusAvailable, &domain.Location{Latitude: 52.5219, Longitude: 13.4132}) // Alexanderplatz
		f.addCar(t, 1000, domain.CarStatusAvailable, &domain.Location{Latitude: 48.1351, Longitude: 11.5820})         // Munich
		f.addCar(t, 1000, domain.CarStatusAvailable, nil)
		f.addCar(t, 1000, domain.CarStatusMaintenance, &domain.Location{Latitude: 52.5201, Longitude: 13.4051})

		cars, err := f.cars.GetAvailableCarsNearby(ctx, berlin.Latitude, berlin.Longitude, 50)
		require.NoError(t, err)
		require.Len(t, cars, 2)
		assert.Equal(t, near.ID, cars[0].ID)
		assert.Equal(t, far.ID, cars[1].ID)
		assert.Less(t, cars[0].DistanceKm, 1.0)
		assert.InDelta(t, 27, cars[1].DistanceKm, 2)
	})

	t.Run("Boundary distance is included", func(t *testing.T) {
		f := newEngineFixture(t)
		car := f.addCar(t, 1000, domain.CarStatusAvailable, &domain.Location{Latitude: 1, Longitude: 0})

		cars, err := f.cars.GetAvailableCarsNearby(ctx, 0, 0, 111.2)
		require.NoError(t, err)
		require.Len(t, cars, 1)
		assert.Equal(t, car.ID, cars[0].ID)
	})

	t.Run("Expired reservations are reconciled first", func(t *testing.T) {
		f := newEngineFixture(t)
		car := f.addCar(t, 1000, domain.CarStatusAvailable, &berlin)
		r, err := f.engine.CreateReservation(ctx, alice, car.ID, testNow.Add(-48*time.Hour), testNow.Add(-time.Hour))
		require.NoError(t, err)
		_, err = f.engine.UpdateReservationStatus(ctx, r.ID, domain.ReservationStatusConfirmed)
		require.NoError(t, err)

		cars, err := f.cars.GetAvailableCarsNearby(ctx, berlin.Latitude, berlin.Longitude, 5)
		require.NoError(t, err)
		require.Len(t, cars, 1)
		assert.Equal(t, car.ID, cars[0].ID)

		got := f.reservation(t, r.ID)
		assert.Equal(t, domain.ReservationStatusCompleted, got.Status)
		require.NotNil(t, got.PeriodStatus)
		assert.Equal(t, domain.PeriodStatusEnded, *got.PeriodStatus)
	})

	t.Run("Invalid query", func(t *testing.T) {
		f := newEngineFixture(t)
		cases := []struct {
			name          string
			lat, lng, max float64
		}{
			{"Latitude too high", 90.5, 0, 10},
			{"Latitude too low", -91, 0, 10},
			{"Longitude too high", 0, 181, 10},
			{"Longitude too low", 0, -180.01, 10},
			{"Zero distance", 0, 0, 0},
			{"Negative distance", 0, 0, -5},
			{"NaN distance", 0, 0, math.NaN()},
			{"NaN latitude", math.NaN(), 0, 10},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := f.cars.GetAvailableCarsNearby(ctx, tc.lat, tc.lng, tc.max)
				assert.ErrorIs(t, err, domain.ErrInvalidQuery)
			})
		}
	})
}

func TestCarService_ListAvailableCars(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	free := f.addCar(t, 1000, domain.CarStatusAvailable, nil)
	held := f.addCar(t, 1000, domain.CarStatusAvailable, nil)
	expiring := f.addCar(t, 1000, domain.CarStatusAvailable, nil)

	_, err := f.engine.CreateReservation(ctx, alice, held.ID, testNow, testNow.Add(24*time.Hour))
	require.NoError(t, err)
	_, err = f.engine.CreateReservation(ctx, bob, expiring.ID, testNow.Add(-48*time.Hour), testNow.Add(-24*time.Hour))
	require.NoError(t, err)

	cars, err := f.cars.ListAvailableCars(ctx)
	require.NoError(t, err)
	ids := make([]int32, 0, len(cars))
	for _, c := range cars {
		ids = append(ids, c.ID)
	}
	assert.ElementsMatch(t, []int32{free.ID, expiring.ID}, ids)
}

func TestCarService_CreateCar(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults to available", func(t *testing.T) {
		f := newEngineFixture(t)
		car := &domain.Car{Brand: "VW", Model: "Golf", Year: 2021, PricePerDayCents: 4500}
		require.NoError(t, f.cars.CreateCar(ctx, car))
		assert.NotZero(t, car.ID)
		assert.Equal(t, domain.CarStatusAvailable, car.Status)
	})

	t.Run("Rejects non-positive price", func(t *testing.T) {
		f := newEngineFixture(t)
		err := f.cars.CreateCar(ctx, &domain.Car{Brand: "VW", Model: "Golf", PricePerDayCents: 0})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Rejects price above cap", func(t *testing.T) {
		f := newEngineFixture(t)
		err := f.cars.CreateCar(ctx, &domain.Car{Brand: "VW", Model: "Golf", PricePerDayCents: domain.MaxPricePerDayCents + 1})
		assert.ErrorIs(t, err, domain.ErrValidation)

		car := &domain.Car{Brand: "VW", Model: "Golf", PricePerDayCents: domain.MaxPricePerDayCents}
		assert.NoError(t, f.cars.CreateCar(ctx, car))
	})

	t.Run("Rejects rented", func(t *testing.T) {
		f := newEngineFixture(t)
		err := f.cars.CreateCar(ctx, &domain.Car{Brand: "VW", Model: "Golf", PricePerDayCents: 100, Status: domain.CarStatusRented})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("Rejects reserved", func(t *testing.T) {
		f := newEngineFixture(t)
		err := f.cars.CreateCar(ctx, &domain.Car{Brand: "VW", Model: "Golf", PricePerDayCents: 100, Status: domain.CarStatusReserved})
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("Rejects bad location", func(t *testing.T) {
		f := newEngineFixture(t)
		err := f.cars.CreateCar(ctx, &domain.Car{Brand: "VW", Model: "Golf", PricePerDayCents: 100, Location: &domain.Location{Latitude: 100}})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestCarService_UpdateCar(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	car := f.addCar(t, 1000, domain.CarStatusAvailable, nil)
	_, err := f.engine.CreateReservation(ctx, alice, car.ID, testNow, testNow.Add(24*time.Hour))
	require.NoError(t, err)

	updated, err := f.cars.UpdateCar(ctx, &domain.Car{ID: car.ID, Brand: "Toyota", Model: "Yaris", Year: 2023, PricePerDayCents: 2000, Status: domain.CarStatusAvailable})
	require.NoError(t, err)
	assert.Equal(t, "Yaris", updated.Model)
	assert.Equal(t, domain.CarStatusReserved, updated.Status)
	assert.Equal(t, domain.CarStatusReserved, f.carStatus(t, car.ID))

	_, err = f.cars.UpdateCar(ctx, &domain.Car{ID: car.ID, Brand: "Toyota", Model: "Yaris", PricePerDayCents: domain.MaxPricePerDayCents + 1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.cars.UpdateCar(ctx, &domain.Car{ID: 999, Brand: "A", Model: "B", PricePerDayCents: 1})
	assert.ErrorIs(t, err, domain.ErrCarNotFound)
}

func TestCarService_SetCarStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Maintenance on available car", func(t *testing.T) {
		f := newEngineFixture(t)
		car := f.addCar(t, 1000, domain.CarStatusAvailable, nil)

		got, err := f.cars.SetCarStatus(ctx, car.ID, domain.CarStatusMaintenance)
		require.NoError(t, err)
		assert.Equal(t, domain.CarStatusMaintenance, got.Status)

		_, err = f.engine.CreateReservation(ctx, alice, car.ID, testNow, testNow.Add(24*time.Hour))
		assert.ErrorIs(t, err, domain.ErrCarUnavailable)
	})

	t.Run("Rented is admin only and blocks reservations", func(t *testing.T) {
		f := newEngineFixture(t)
		car := f.addCar(t, 1000, domain.CarStatusAvailable, nil)

		_, err := f.cars.SetCarStatus(ctx, car.ID, domain.CarStatusRented)
		require.NoError(t, err)
		_, err = f.engine.CreateReservation(ctx, alice, car.ID, testNow, testNow.Add(24*time.Hour))
		assert.ErrorIs(t, err, domain.ErrCarUnavailable)

		_, err = f.cars.SetCarStatus(ctx, car.ID, domain.CarStatusAvailable)
		require.NoError(t, err)
		_, err = f.engine.CreateReservation(ctx, alice, car.ID, testNow, testNow.Add(24*time.Hour))
		assert.NoError(t, err)
	})

	t.Run("Car held by reservation", func(t *testing.T) {
		f := newEngineFixture(t)
		car := f.addCar(t, 1000, domain.CarStatusAvailable, nil)
		_, err := f.engine.CreateReservation(ctx, alice, car.ID, testNow, testNow.Add(24*time.Hour))
		require.NoError(t, err)

		_, err = f.cars.SetCarStatus(ctx, car.ID, domain.CarStatusAvailable)
		assert.ErrorIs(t, err, domain.ErrCarUnavailable)
		assert.Equal(t, domain.CarStatusReserved, f.carStatus(t, car.ID))
	})

	t.Run("Reserved cannot be set by hand", func(t *testing.T) {
		f := newEngineFixture(t)
		car := f.addCar(t, 1000, domain.CarStatusAvailable, nil)
		_, err := f.cars.SetCarStatus(ctx, car.ID, domain.CarStatusReserved)
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("Unknown car", func(t *testing.T) {
		f := newEngineFixture(t)
		_, err := f.cars.SetCarStatus(ctx, 5, domain.CarStatusMaintenance)
		assert.ErrorIs(t, err, domain.ErrCarNotFound)
	})
}

func TestCarService_DeleteCar(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	car := f.addCar(t, 1000, domain.CarStatusAvailable, nil)
	r, err := f.engine.CreateReservation(ctx, alice, car.ID, testNow, testNow.Add(24*time.Hour))
	require.NoError(t, err)

	assert.ErrorIs(t, f.cars.DeleteCar(ctx, car.ID), domain.ErrCarUnavailable)

	_, err = f.engine.CancelReservation(ctx, alice, r.ID)
	require.NoError(t, err)
	require.NoError(t, f.cars.DeleteCar(ctx, car.ID))

	_, err = f.cars.GetCar(ctx, car.ID)
	assert.ErrorIs(t, err, domain.ErrCarNotFound)
	assert.ErrorIs(t, f.cars.DeleteCar(ctx, car.ID), domain.ErrCarNotFound)
}

func TestCarService_ListCars(t *testing.T) {
	ctx := context.Background()
	f := newEngineFixture(t)
	f.addCar(t, 1000, domain.CarStatusAvailable, nil)
	f.addCar(t, 1000, domain.CarStatusMaintenance, nil)

	all, err := f.cars.ListCars(ctx, domain.CarFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	maint, err := f.cars.ListCars(ctx, domain.CarFilter{Status: domain.CarStatusMaintenance})
	require.NoError(t, err)
	assert.Len(t, maint, 1)

	byBrand, err := f.cars.ListCars(ctx, domain.CarFilter{Brand: "toyota"})
	require.NoError(t, err)
	assert.Len(t, byBrand, 2)

	_, err = f.cars.ListCars(ctx, domain.CarFilter{Status: "PARKED"})
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
