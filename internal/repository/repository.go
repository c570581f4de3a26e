package repository

import (
	"context"
	"time"

	"carrental-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type CarRepository interface {
	Create(ctx context.Context, car *domain.Car) error
	GetByID(ctx context.Context, id int32) (*domain.Car, error)
	// GetByIDForUpdate reads the car and holds it against concurrent writers
	// until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Car, error)
	Update(ctx context.Context, car *domain.Car) error
	// UpdateStatus writes the status only if car.Version still matches the
	// stored version, and bumps the version. A mismatch is domain.ErrConcurrentUpdate.
	UpdateStatus(ctx context.Context, car *domain.Car, status domain.CarStatus) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, filter domain.CarFilter) ([]domain.Car, error)
	ListAvailableWithLocation(ctx context.Context) ([]domain.Car, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, reservation *domain.Reservation) error
	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	GetByIDForUpdate(ctx context.Context, id int32) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, reservation *domain.Reservation) error
	List(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error)
	ListExpired(ctx context.Context, now time.Time) ([]domain.Reservation, error)
	CountOpenByCar(ctx context.Context, carID int32) (int, error)
}

// Repos is the set of repositories bound to one transaction.
type Repos struct {
	Cars         CarRepository
	Reservations ReservationRepository
	Users        UserRepository
}

// Transactor runs fn as one atomic unit. Every write made through the Repos
// handed to fn is committed when fn returns nil and discarded otherwise.
// Reads taken with GetByIDForUpdate stay isolated from other transactions
// until the unit ends; correctness of the reservation engine depends on it.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}

// Store bundles the non-transactional repositories and the transaction primitive.
type Store interface {
	Transactor
	Cars() CarRepository
	Reservations() ReservationRepository
	Users() UserRepository
}
