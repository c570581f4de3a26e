package http_test

import (
	"context"
	"time"

	"carrental-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockReservationService
type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) CreateReservation(ctx context.Context, caller domain.Caller, carID int32, start, end time.Time) (*domain.Reservation, error) {
	args := m.Called(ctx, caller, carID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationService) UpdateReservationStatus(ctx context.Context, id int32, status domain.ReservationStatus) (*domain.Reservation, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationService) CancelReservation(ctx context.Context, caller domain.Caller, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationService) GetReservation(ctx context.Context, caller domain.Caller, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}
func (m *MockReservationService) ListMyReservations(ctx context.Context, caller domain.Caller) ([]domain.Reservation, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationService) ListReservations(ctx context.Context, filter domain.ReservationFilter) ([]domain.Reservation, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Reservation), args.Error(1)
}
func (m *MockReservationService) ReconcileExpiredReservations(ctx context.Context) {
	m.Called(ctx)
}
