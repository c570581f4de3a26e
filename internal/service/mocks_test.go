package service_test

import (
	"context"
	"sync"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockCarRepo
type MockCarRepo struct {
	mock.Mock
}

func (m *MockCarRepo) Create(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockCarRepo) GetByID(ctx context.Context, id int32) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockCarRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Car, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Car), args.Error(1)
}
func (m *MockCarRepo) Update(ctx context.Context, car *domain.Car) error {
	args := m.Called(ctx, car)
	return args.Error(0)
}
func (m *MockCarRepo) UpdateStatus(ctx context.Context, car *domain.Car, status domain.CarStatus) error {
	args := m.Called(ctx, car, status)
	return args.Error(0)
}
func (m *MockCarRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCarRepo) List(ctx context.Context, filter domain.CarFilter) ([]domain.Car, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Car), args.Error(1)
}
func (m *MockCarRepo) ListAvailableWithLocation(ctx context.Context) ([]domain.Car, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Car), args.Error(1)
}

// MockReservationRepo
type MockReservationRepo struct {
	mock.Mock
}

func (m *MockReservationRepo) Create(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReservationRepo) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) GetByIDForUpdate(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) UpdateStatus(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockReservationRepo) List(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) ListExpired(ctx context.Context, now time.Time) ([]domain.Reservation, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationRepo) CountOpenByCar(ctx context.Context, carID int32) (int, error) {
	args := m.Called(ctx, carID)
	return args.Int(0), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

// mockStore hands the same mock repositories to every transaction and
// counts how many were opened.
type mockStore struct {
	cars         *MockCarRepo
	reservations *MockReservationRepo
	users        *MockUserRepo

	mu  sync.Mutex
	txs int
}

func newMockStore() *mockStore {
	return &mockStore{
		cars:         new(MockCarRepo),
		reservations: new(MockReservationRepo),
		users:        new(MockUserRepo),
	}
}

func (s *mockStore) WithTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repos) error) error {
	s.mu.Lock()
	s.txs++
	s.mu.Unlock()
	return fn(ctx, repository.Repos{Cars: s.cars, Reservations: s.reservations, Users: s.users})
}

func (s *mockStore) Cars() repository.CarRepository                 { return s.cars }
func (s *mockStore) Reservations() repository.ReservationRepository { return s.reservations }
func (s *mockStore) Users() repository.UserRepository               { return s.users }

func (s *mockStore) txCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txs
}

// recordingNotifier keeps the ids of reservations it was told about.
type recordingNotifier struct {
	mu        sync.Mutex
	created   []int32
	cancelled []int32
	completed []int32
}

func (n *recordingNotifier) ReservationCreated(ctx context.Context, r *domain.Reservation, car *domain.Car) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, r.ID)
}

func (n *recordingNotifier) ReservationCancelled(ctx context.Context, r *domain.Reservation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, r.ID)
}

func (n *recordingNotifier) ReservationCompleted(ctx context.Context, r *domain.Reservation) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, r.ID)
}
