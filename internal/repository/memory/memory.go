// Package memory implements the repositories in process memory.
// It is used for local runs without Postgres and by the engine tests.
package memory

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
)

type carRow struct {
	car     domain.Car
	deleted bool
}

// state is one snapshot of every table. Transactions work on a clone and
// swap it in on commit.
type state struct {
	cars         map[int32]carRow
	reservations map[int32]domain.Reservation
	users        map[int32]domain.User

	nextCarID         int32
	nextReservationID int32
	nextUserID        int32
}

func newState() *state {
	return &state{
		cars:         make(map[int32]carRow),
		reservations: make(map[int32]domain.Reservation),
		users:        make(map[int32]domain.User),
	}
}

func (s *state) clone() *state {
	return &state{
		cars:              maps.Clone(s.cars),
		reservations:      maps.Clone(s.reservations),
		users:             maps.Clone(s.users),
		nextCarID:         s.nextCarID,
		nextReservationID: s.nextReservationID,
		nextUserID:        s.nextUserID,
	}
}

// run executes f against a state. Outside a transaction it takes the store
// lock; inside one the lock is already held by WithTx.
type run func(f func(st *state) error) error

type Store struct {
	mu   sync.Mutex
	data *state
}

func NewStore() *Store {
	return &Store{data: newState()}
}

func (s *Store) direct(f func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return f(s.data)
}

func (s *Store) Cars() repository.CarRepository {
	return &carRepository{run: s.direct}
}

func (s *Store) Reservations() repository.ReservationRepository {
	return &reservationRepository{run: s.direct}
}

func (s *Store) Users() repository.UserRepository {
	return &userRepository{run: s.direct}
}

// WithTx serialises transactions behind a single lock. Writes land on a
// staged copy that replaces the live data only when fn returns nil.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.data.clone()
	inTx := func(f func(st *state) error) error { return f(staged) }
	repos := repository.Repos{
		Cars:         &carRepository{run: inTx},
		Reservations: &reservationRepository{run: inTx},
		Users:        &userRepository{run: inTx},
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	s.data = staged
	return nil
}

type carRepository struct {
	run run
}

func (r *carRepository) Create(ctx context.Context, c *domain.Car) error {
	return r.run(func(st *state) error {
		now := time.Now().UTC()
		st.nextCarID++
		c.ID = st.nextCarID
		c.Version = 0
		c.CreatedOn = now
		c.UpdatedOn = now
		st.cars[c.ID] = carRow{car: copyCar(*c)}
		return nil
	})
}

func (r *carRepository) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	var out *domain.Car
	err := r.run(func(st *state) error {
		row, ok := st.cars[id]
		if !ok || row.deleted {
			return domain.ErrCarNotFound
		}
		c := copyCar(row.car)
		out = &c
		return nil
	})
	return out, err
}

// GetByIDForUpdate needs no extra locking here since WithTx already holds
// the store lock for the whole transaction.
func (r *carRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Car, error) {
	return r.GetByID(ctx, id)
}

func (r *carRepository) Update(ctx context.Context, c *domain.Car) error {
	return r.run(func(st *state) error {
		row, ok := st.cars[c.ID]
		if !ok || row.deleted {
			return domain.ErrCarNotFound
		}
		now := time.Now().UTC()
		row.car.Brand = c.Brand
		row.car.Model = c.Model
		row.car.Year = c.Year
		row.car.PricePerDayCents = c.PricePerDayCents
		row.car.Location = copyLocation(c.Location)
		row.car.Version++
		row.car.UpdatedOn = now
		st.cars[c.ID] = row

		c.Version = row.car.Version
		c.UpdatedOn = now
		return nil
	})
}

func (r *carRepository) UpdateStatus(ctx context.Context, c *domain.Car, status domain.CarStatus) error {
	return r.run(func(st *state) error {
		row, ok := st.cars[c.ID]
		if !ok || row.deleted || row.car.Version != c.Version {
			return domain.ErrConcurrentUpdate
		}
		now := time.Now().UTC()
		row.car.Status = status
		row.car.Version++
		row.car.UpdatedOn = now
		st.cars[c.ID] = row

		c.Status = status
		c.Version = row.car.Version
		c.UpdatedOn = now
		return nil
	})
}

func (r *carRepository) Delete(ctx context.Context, id int32) error {
	return r.run(func(st *state) error {
		row, ok := st.cars[id]
		if !ok || row.deleted {
			return domain.ErrCarNotFound
		}
		row.deleted = true
		st.cars[id] = row
		return nil
	})
}

func (r *carRepository) List(ctx context.Context, filter domain.CarFilter) ([]domain.Car, error) {
	return r.list(func(c domain.Car) bool {
		if filter.Status != "" && c.Status != filter.Status {
			return false
		}
		if filter.Brand != "" && !strings.EqualFold(c.Brand, filter.Brand) {
			return false
		}
		return true
	})
}

func (r *carRepository) ListAvailableWithLocation(ctx context.Context) ([]domain.Car, error) {
	return r.list(func(c domain.Car) bool {
		return c.Status == domain.CarStatusAvailable && c.Location != nil
	})
}

func (r *carRepository) list(keep func(domain.Car) bool) ([]domain.Car, error) {
	var out []domain.Car
	err := r.run(func(st *state) error {
		for _, id := range sortedKeys(st.cars) {
			row := st.cars[id]
			if row.deleted || !keep(row.car) {
				continue
			}
			out = append(out, copyCar(row.car))
		}
		return nil
	})
	return out, err
}

type reservationRepository struct {
	run run
}

func (r *reservationRepository) Create(ctx context.Context, rs *domain.Reservation) error {
	return r.run(func(st *state) error {
		if rs.Status.IsOpen() && hasOpenReservation(st, rs.CarID, 0) {
			return domain.ErrCarUnavailable
		}
		now := time.Now().UTC()
		st.nextReservationID++
		rs.ID = st.nextReservationID
		rs.CreatedOn = now
		rs.UpdatedOn = now
		st.reservations[rs.ID] = copyReservation(*rs)
		return nil
	})
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	var out *domain.Reservation
	err := r.run(func(st *state) error {
		rs, ok := st.reservations[id]
		if !ok {
			return domain.ErrReservationNotFound
		}
		c := copyReservation(rs)
		out = &c
		return nil
	})
	return out, err
}

func (r *reservationRepository) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Reservation, error) {
	return r.GetByID(ctx, id)
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, rs *domain.Reservation) error {
	return r.run(func(st *state) error {
		stored, ok := st.reservations[rs.ID]
		if !ok {
			return domain.ErrReservationNotFound
		}
		if rs.Status.IsOpen() && !stored.Status.IsOpen() && hasOpenReservation(st, stored.CarID, stored.ID) {
			return domain.ErrCarUnavailable
		}
		now := time.Now().UTC()
		stored.Status = rs.Status
		stored.PeriodStatus = copyPeriod(rs.PeriodStatus)
		stored.UpdatedOn = now
		st.reservations[rs.ID] = stored
		rs.UpdatedOn = now
		return nil
	})
}

func (r *reservationRepository) List(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	out, err := r.list(func(rs domain.Reservation) bool {
		if filter.UserID != 0 && rs.UserID != filter.UserID {
			return false
		}
		if filter.CarID != 0 && rs.CarID != filter.CarID {
			return false
		}
		if filter.Status != "" && rs.Status != filter.Status {
			return false
		}
		return true
	})
	// newest first, matching the postgres ordering
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, err
}

func (r *reservationRepository) ListExpired(ctx context.Context, now time.Time) ([]domain.Reservation, error) {
	out, err := r.list(func(rs domain.Reservation) bool {
		return rs.EndDate.Before(now) && rs.Status.IsOpen()
	})
	sortByEndDate(out)
	return out, err
}

func (r *reservationRepository) CountOpenByCar(ctx context.Context, carID int32) (int, error) {
	var n int
	err := r.run(func(st *state) error {
		for _, rs := range st.reservations {
			if rs.CarID == carID && rs.Status.IsOpen() {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *reservationRepository) list(keep func(domain.Reservation) bool) ([]domain.Reservation, error) {
	var out []domain.Reservation
	err := r.run(func(st *state) error {
		for _, id := range sortedKeys(st.reservations) {
			rs := st.reservations[id]
			if keep(rs) {
				out = append(out, copyReservation(rs))
			}
		}
		return nil
	})
	return out, err
}

// hasOpenReservation mirrors the reservations_one_open_per_car index.
func hasOpenReservation(st *state, carID, exceptID int32) bool {
	for id, rs := range st.reservations {
		if id != exceptID && rs.CarID == carID && rs.Status.IsOpen() {
			return true
		}
	}
	return false
}

type userRepository struct {
	run run
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	return r.run(func(st *state) error {
		for _, existing := range st.users {
			if strings.EqualFold(existing.Email, u.Email) {
				return domain.ErrEmailTaken
			}
		}
		st.nextUserID++
		u.ID = st.nextUserID
		u.CreatedOn = time.Now().UTC()
		st.users[u.ID] = *u
		return nil
	})
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	var out *domain.User
	err := r.run(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var out *domain.User
	err := r.run(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				out = &u
				return nil
			}
		}
		return domain.ErrUserNotFound
	})
	return out, err
}
