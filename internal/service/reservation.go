package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/logger"
	"carrental-backend/internal/repository"
	"carrental-backend/internal/utils"
)

type reservationService struct {
	store    repository.Store
	clock    Clock
	notifier Notifier
}

func NewReservationService(store repository.Store, clock Clock, notifier Notifier) ReservationService {
	if clock == nil {
		clock = SystemClock{}
	}
	if notifier == nil {
		notifier = NewLogNotifier()
	}
	return &reservationService{
		store:    store,
		clock:    clock,
		notifier: notifier,
	}
}

func (s *reservationService) CreateReservation(ctx context.Context, caller domain.Caller, carID int32, start, end time.Time) (*domain.Reservation, error) {
	logger.EnterMethod("reservationService.CreateReservation", "userID", caller.UserID, "carID", carID)

	// the range is checked before anything touches the store
	days, err := utils.RentalDays(start, end)
	if err != nil || days < 1 {
		logger.ExitMethodWithError("reservationService.CreateReservation", domain.ErrInvalidDateRange, true)
		return nil, domain.ErrInvalidDateRange
	}

	var (
		reservation *domain.Reservation
		car         *domain.Car
	)
	err = s.store.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		c, err := repos.Cars.GetByIDForUpdate(ctx, carID)
		if err != nil {
			return err
		}
		if c.Status != domain.CarStatusAvailable {
			return domain.ErrCarUnavailable
		}
		total, err := utils.CalculateRentalCost(start, end, c.PricePerDayCents)
		if err != nil {
			return fmt.Errorf("%w: car %d cannot be priced: %w", domain.ErrValidation, c.ID, err)
		}

		r := &domain.Reservation{
			UserID:          caller.UserID,
			CarID:           c.ID,
			StartDate:       start.UTC(),
			EndDate:         end.UTC(),
			TotalPriceCents: total,
			Status:          domain.ReservationStatusPending,
		}
		if err := repos.Reservations.Create(ctx, r); err != nil {
			return err
		}
		if err := repos.Cars.UpdateStatus(ctx, c, domain.CarStatusReserved); err != nil {
			return err
		}
		reservation, car = r, c
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("reservationService.CreateReservation", err, expected(err), "carID", carID)
		return nil, err
	}

	logger.InfoContext(ctx, "Reservation created",
		"reservation_id", reservation.ID, "car_id", car.ID, "user_id", caller.UserID,
		"days", days, "total_price_cents", reservation.TotalPriceCents)
	s.notifier.ReservationCreated(ctx, reservation, car)

	logger.ExitMethod("reservationService.CreateReservation", "reservationID", reservation.ID)
	return reservation, nil
}

func (s *reservationService) UpdateReservationStatus(ctx context.Context, id int32, status domain.ReservationStatus) (*domain.Reservation, error) {
	logger.EnterMethod("reservationService.UpdateReservationStatus", "reservationID", id, "status", status)

	if !status.Valid() {
		logger.ExitMethodWithError("reservationService.UpdateReservationStatus", domain.ErrInvalidStatus, true)
		return nil, domain.ErrInvalidStatus
	}

	var reservation *domain.Reservation
	err := s.store.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		r, err := repos.Reservations.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		wasOpen := r.Status.IsOpen()

		// A closed reservation no longer holds its car, so moving it between
		// closed states leaves the car alone.
		var car *domain.Car
		if wasOpen || status.IsOpen() {
			car, err = repos.Cars.GetByIDForUpdate(ctx, r.CarID)
			if err != nil {
				return err
			}
			if !wasOpen && car.Status != domain.CarStatusAvailable {
				return domain.ErrCarUnavailable
			}
		}

		r.Status = status
		if err := repos.Reservations.UpdateStatus(ctx, r); err != nil {
			return err
		}
		if car != nil {
			if target := status.CarStatusFor(); car.Status != target {
				if err := repos.Cars.UpdateStatus(ctx, car, target); err != nil {
					return err
				}
			}
		}
		reservation = r
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("reservationService.UpdateReservationStatus", err, expected(err), "reservationID", id)
		return nil, err
	}

	logger.InfoContext(ctx, "Reservation status updated", "reservation_id", id, "status", status)
	switch status {
	case domain.ReservationStatusCancelled:
		s.notifier.ReservationCancelled(ctx, reservation)
	case domain.ReservationStatusCompleted:
		s.notifier.ReservationCompleted(ctx, reservation)
	}

	logger.ExitMethod("reservationService.UpdateReservationStatus", "reservationID", id)
	return reservation, nil
}

func (s *reservationService) CancelReservation(ctx context.Context, caller domain.Caller, id int32) (*domain.Reservation, error) {
	logger.EnterMethod("reservationService.CancelReservation", "userID", caller.UserID, "reservationID", id)

	var reservation *domain.Reservation
	err := s.store.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		r, err := repos.Reservations.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !caller.CanAccess(r.UserID) {
			return domain.ErrForbidden
		}
		if r.Status == domain.ReservationStatusCancelled {
			return domain.ErrAlreadyCancelled
		}
		wasOpen := r.Status.IsOpen()

		r.Status = domain.ReservationStatusCancelled
		if err := repos.Reservations.UpdateStatus(ctx, r); err != nil {
			return err
		}
		if wasOpen {
			if err := freeCar(ctx, repos, r.CarID); err != nil {
				return err
			}
		}
		reservation = r
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("reservationService.CancelReservation", err, expected(err), "reservationID", id)
		return nil, err
	}

	logger.InfoContext(ctx, "Reservation cancelled", "reservation_id", id, "user_id", caller.UserID)
	s.notifier.ReservationCancelled(ctx, reservation)

	logger.ExitMethod("reservationService.CancelReservation", "reservationID", id)
	return reservation, nil
}

func (s *reservationService) ReconcileExpiredReservations(ctx context.Context) {
	logger.EnterMethod("reservationService.ReconcileExpiredReservations")
	now := s.clock.Now()

	expired, err := s.store.Reservations().ListExpired(ctx, now)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list expired reservations", "error", err)
		return
	}

	var completed, failed int
	for _, r := range expired {
		done, err := s.completeExpired(ctx, r.ID, now)
		if err != nil {
			failed++
			logger.ErrorContext(ctx, "Failed to reconcile expired reservation", "reservation_id", r.ID, "car_id", r.CarID, "error", err)
			continue
		}
		if done != nil {
			completed++
			s.notifier.ReservationCompleted(ctx, done)
		}
	}

	if len(expired) > 0 {
		logger.InfoContext(ctx, "Reconciled expired reservations", "found", len(expired), "completed", completed, "failed", failed)
	}
	logger.ExitMethod("reservationService.ReconcileExpiredReservations", "completed", completed, "failed", failed)
}

// completeExpired re-checks one reservation under lock and completes it.
// It returns nil without error when another writer got there first.
func (s *reservationService) completeExpired(ctx context.Context, id int32, now time.Time) (*domain.Reservation, error) {
	var done *domain.Reservation
	err := s.store.WithTx(ctx, func(ctx context.Context, repos repository.Repos) error {
		r, err := repos.Reservations.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !r.Status.IsOpen() || !r.EndDate.Before(now) {
			return nil
		}

		ended := domain.PeriodStatusEnded
		r.Status = domain.ReservationStatusCompleted
		r.PeriodStatus = &ended
		if err := repos.Reservations.UpdateStatus(ctx, r); err != nil {
			return err
		}
		if err := freeCar(ctx, repos, r.CarID); err != nil && !errors.Is(err, domain.ErrCarNotFound) {
			return err
		}
		done = r
		return nil
	})
	return done, err
}

func (s *reservationService) GetReservation(ctx context.Context, caller domain.Caller, id int32) (*domain.Reservation, error) {
	r, err := s.store.Reservations().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(r.UserID) {
		return nil, domain.ErrForbidden
	}
	return r, nil
}

func (s *reservationService) ListMyReservations(ctx context.Context, caller domain.Caller) ([]domain.Reservation, error) {
	return s.store.Reservations().List(ctx, domain.ReservationFilter{UserID: caller.UserID})
}

func (s *reservationService) ListReservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.ErrInvalidStatus
	}
	return s.store.Reservations().List(ctx, filter)
}

// freeCar sets the car back to AVAILABLE inside the caller's transaction.
func freeCar(ctx context.Context, repos repository.Repos, carID int32) error {
	car, err := repos.Cars.GetByIDForUpdate(ctx, carID)
	if err != nil {
		return err
	}
	if car.Status == domain.CarStatusAvailable {
		return nil
	}
	return repos.Cars.UpdateStatus(ctx, car, domain.CarStatusAvailable)
}
