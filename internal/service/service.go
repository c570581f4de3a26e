package service

import (
	"context"
	"time"

	"carrental-backend/internal/domain"
)

// ReservationService is the reservation/availability engine. Every write it
// performs on a reservation and its car happens in one transaction.
type ReservationService interface {
	CreateReservation(ctx context.Context, caller domain.Caller, carID int32, start, end time.Time) (*domain.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id int32, status domain.ReservationStatus) (*domain.Reservation, error)
	CancelReservation(ctx context.Context, caller domain.Caller, id int32) (*domain.Reservation, error)
	GetReservation(ctx context.Context, caller domain.Caller, id int32) (*domain.Reservation, error)
	ListMyReservations(ctx context.Context, caller domain.Caller) ([]domain.Reservation, error)
	ListReservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error)
	Reconciler
}

// Reconciler completes open reservations whose end date has passed and frees
// their cars. It never fails as a whole; per-reservation failures are logged.
type Reconciler interface {
	ReconcileExpiredReservations(ctx context.Context)
}

type CarService interface {
	CreateCar(ctx context.Context, car *domain.Car) error
	UpdateCar(ctx context.Context, car *domain.Car) (*domain.Car, error)
	DeleteCar(ctx context.Context, id int32) error
	SetCarStatus(ctx context.Context, id int32, status domain.CarStatus) (*domain.Car, error)
	GetCar(ctx context.Context, id int32) (*domain.Car, error)
	ListCars(ctx context.Context, filter domain.CarFilter) ([]domain.Car, error)
	ListAvailableCars(ctx context.Context) ([]domain.Car, error)
	GetAvailableCarsNearby(ctx context.Context, lat, lng, maxDistanceKm float64) ([]domain.CarWithDistance, error)
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Me(ctx context.Context, userID int32) (*domain.User, error)
}

type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *domain.User
}

// EmailService sends plain-text mail.
type EmailService interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Notifier is told about reservation lifecycle events after they commit.
// Implementations log delivery failures instead of returning them.
type Notifier interface {
	ReservationCreated(ctx context.Context, r *domain.Reservation, car *domain.Car)
	ReservationCancelled(ctx context.Context, r *domain.Reservation)
	ReservationCompleted(ctx context.Context, r *domain.Reservation)
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// expected reports whether err is a caller mistake rather than a fault.
func expected(err error) bool {
	switch domain.KindOf(err) {
	case domain.KindNotFound, domain.KindInvalidInput, domain.KindConflict,
		domain.KindUnauthorized, domain.KindForbidden:
		return true
	}
	return false
}
